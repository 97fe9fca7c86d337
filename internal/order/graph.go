// Package order implements deterministic ordering of symbols and modules
// under a configured policy, including dependency-first topological ordering
// with cycle recovery.
package order

import (
	"sort"

	"pkginit/internal/model"
)

// Graph is a directed dependency graph over string-keyed nodes. An edge
// from -> to means "from depends on to": Sort places to before from.
type Graph struct {
	// dependents maps a node to the nodes that depend on it.
	dependents map[string][]string
	// indegree counts each node's unsatisfied dependencies.
	indegree map[string]int
	nodes    []string
	nodeSet  map[string]bool
	edgeSet  map[[2]string]bool
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		dependents: make(map[string][]string),
		indegree:   make(map[string]int),
		nodeSet:    make(map[string]bool),
		edgeSet:    make(map[[2]string]bool),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from depends on to. Both nodes are implicitly added;
// duplicate edges are ignored so indegree counts stay correct.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if g.edgeSet[key] || from == to {
		return
	}
	g.edgeSet[key] = true
	g.dependents[to] = append(g.dependents[to], from)
	g.indegree[from]++
}

// Sort returns every node exactly once, dependencies before dependents,
// using Kahn's algorithm with alphabetical tie-breaks among nodes whose
// dependencies are all satisfied.
//
// Cycles never fail the sort: when no node is free, the nodes forming cycles
// are emitted as a block in alphabetical order, one DependencyCycleError per
// stall names them, and ordering of the remaining graph continues normally.
func (g *Graph) Sort() ([]string, []error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	indegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		indegree[node] = g.indegree[node]
	}

	var queue []string
	for _, node := range g.nodes {
		if indegree[node] == 0 {
			queue = append(queue, node)
		}
	}
	sort.Strings(queue)

	var (
		result  []string
		errs    []error
		emitted = make(map[string]bool, len(g.nodes))
	)
	for len(result) < len(g.nodes) {
		if len(queue) == 0 {
			// Stalled: everything left is in or downstream of a cycle.
			remaining := make(map[string]bool)
			for _, node := range g.nodes {
				if indegree[node] > 0 && !emitted[node] {
					remaining[node] = true
				}
			}
			cyclic := g.cycleMembers(remaining)
			errs = append(errs, &model.DependencyCycleError{Nodes: cyclic})

			// Force-emit the cycle members as an alphabetical block, then
			// resume normal ordering downstream of it. A node already in the
			// block, or one whose remaining dependencies pass through another
			// force-emitted cycle, must not be queued a second time.
			for _, node := range cyclic {
				emitted[node] = true
			}
			for _, node := range cyclic {
				result = append(result, node)
				for _, dep := range g.dependents[node] {
					indegree[dep]--
					if indegree[dep] == 0 && !emitted[dep] {
						queue = append(queue, dep)
					}
				}
			}
			sort.Strings(queue)
			continue
		}

		node := queue[0]
		queue = queue[1:]
		result = append(result, node)
		emitted[node] = true
		freed := false
		for _, dep := range g.dependents[node] {
			indegree[dep]--
			if indegree[dep] == 0 && !emitted[dep] {
				queue = append(queue, dep)
				freed = true
			}
		}
		if freed {
			sort.Strings(queue)
		}
	}

	return result, errs
}

// cycleMembers returns, sorted, the nodes of the remaining subgraph that lie
// on a cycle: exactly those that can reach themselves through edges within
// the subgraph. Nodes that merely sit on a path between two cycles are
// excluded; they order normally once the cycles are emitted.
func (g *Graph) cycleMembers(remaining map[string]bool) []string {
	succ := make(map[string][]string, len(remaining))
	for edge := range g.edgeSet {
		from, to := edge[0], edge[1]
		if remaining[from] && remaining[to] {
			succ[from] = append(succ[from], to)
		}
	}

	var members []string
	for start := range remaining {
		seen := map[string]bool{}
		stack := append([]string(nil), succ[start]...)
		onCycle := false
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if node == start {
				onCycle = true
				break
			}
			if seen[node] {
				continue
			}
			seen[node] = true
			stack = append(stack, succ[node]...)
		}
		if onCycle {
			members = append(members, start)
		}
	}
	sort.Strings(members)
	return members
}
