package order

import (
	"fmt"
	"sort"

	"pkginit/internal/config"
	"pkginit/internal/model"
)

// Symbols orders a symbol set under the given policy. custom is consulted
// only by the custom policy. Ordering is a pure function of its inputs; the
// input slice is not modified.
//
// Returned errors are DependencyCycleErrors (non-fatal, ordering already
// recovered) or a single ConfigError — custom policy without a custom order
// list, or an unknown policy — fatal for the caller's directory.
func Symbols(syms []model.Symbol, policy config.OrderPolicy, custom []string) ([]model.Symbol, []error) {
	switch policy {
	case config.Alphabetical:
		return sortedBy(syms, func(a, b model.Symbol) bool { return a.Name < b.Name }), nil

	case config.Length:
		return sortedBy(syms, func(a, b model.Symbol) bool {
			if len(a.Name) != len(b.Name) {
				return len(a.Name) < len(b.Name)
			}
			return a.Name < b.Name
		}), nil

	case config.CustomOrder:
		if len(custom) == 0 {
			return nil, []error{&model.ConfigError{Reason: "custom order policy requires a custom_order list"}}
		}
		return customSorted(syms, custom, func(s model.Symbol) string { return s.Name }), nil

	case config.DependencyFirst:
		return dependencySorted(syms)
	}

	return nil, []error{&model.ConfigError{Reason: fmt.Sprintf("unknown order policy %q", policy)}}
}

// Modules orders modules under the same policy enum. extraDeps names modules
// (from configuration) that every other module is taken to depend on; they
// sort first under the dependency_first policy.
func Modules(mods []model.Module, policy config.OrderPolicy, custom, extraDeps []string) ([]model.Module, []error) {
	switch policy {
	case config.Alphabetical:
		return sortedBy(mods, func(a, b model.Module) bool { return a.Name < b.Name }), nil

	case config.Length:
		return sortedBy(mods, func(a, b model.Module) bool {
			if len(a.Name) != len(b.Name) {
				return len(a.Name) < len(b.Name)
			}
			return a.Name < b.Name
		}), nil

	case config.CustomOrder:
		if len(custom) == 0 {
			return nil, []error{&model.ConfigError{Reason: "custom order policy requires a custom_order list"}}
		}
		return customSorted(mods, custom, func(m model.Module) string { return m.Name }), nil

	case config.DependencyFirst:
		return moduleDependencySorted(mods, extraDeps)
	}

	return nil, []error{&model.ConfigError{Reason: fmt.Sprintf("unknown order policy %q", policy)}}
}

func sortedBy[T any](items []T, less func(a, b T) bool) []T {
	out := append([]T(nil), items...)
	// Stable so equal keys keep declaration order.
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// customSorted places items named in custom first, in list order, then the
// remainder alphabetically.
func customSorted[T any](items []T, custom []string, name func(T) string) []T {
	rank := make(map[string]int, len(custom))
	for i, n := range custom {
		if _, ok := rank[n]; !ok {
			rank[n] = i
		}
	}

	var listed, rest []T
	for _, item := range items {
		if _, ok := rank[name(item)]; ok {
			listed = append(listed, item)
		} else {
			rest = append(rest, item)
		}
	}
	sort.SliceStable(listed, func(i, j int) bool { return rank[name(listed[i])] < rank[name(listed[j])] })
	sort.SliceStable(rest, func(i, j int) bool { return name(rest[i]) < name(rest[j]) })
	return append(listed, rest...)
}

// dependencySorted topologically orders symbols by their reference edges.
// References to names outside the set are ignored.
func dependencySorted(syms []model.Symbol) ([]model.Symbol, []error) {
	byName := make(map[string][]model.Symbol, len(syms))
	g := NewGraph()
	for _, sym := range syms {
		byName[sym.Name] = append(byName[sym.Name], sym)
		g.AddNode(sym.Name)
	}
	for _, sym := range syms {
		for _, ref := range sym.References {
			if _, ok := byName[ref]; ok && ref != sym.Name {
				g.AddEdge(sym.Name, ref)
			}
		}
	}

	names, errs := g.Sort()
	out := make([]model.Symbol, 0, len(syms))
	for _, name := range names {
		out = append(out, byName[name]...)
	}
	return out, errs
}

func moduleDependencySorted(mods []model.Module, extraDeps []string) ([]model.Module, []error) {
	byName := make(map[string][]model.Module, len(mods))
	g := NewGraph()
	for _, mod := range mods {
		byName[mod.Name] = append(byName[mod.Name], mod)
		g.AddNode(mod.Name)
	}
	for _, mod := range mods {
		for _, dep := range mod.Dependencies {
			if _, ok := byName[dep]; ok && dep != mod.Name {
				g.AddEdge(mod.Name, dep)
			}
		}
	}
	// Configured dependencies precede every other module.
	for _, dep := range extraDeps {
		if _, ok := byName[dep]; !ok {
			continue
		}
		for _, mod := range mods {
			if mod.Name != dep {
				g.AddEdge(mod.Name, dep)
			}
		}
	}

	names, errs := g.Sort()
	out := make([]model.Module, 0, len(mods))
	for _, name := range names {
		out = append(out, byName[name]...)
	}
	return out, errs
}
