// Package parse extracts a module's declared public surface from source
// text using tree-sitter.
package parse

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pkginit/internal/lang"
	"pkginit/internal/model"
)

// captureMap routes query capture names to handling.
var captureMap = map[string]struct {
	definition bool
	kind       model.SymbolKind
}{
	"definition.class":      {definition: true, kind: model.Class},
	"definition.function":   {definition: true, kind: model.Function},
	"definition.assignment": {definition: true, kind: model.Other},
	"reference.call":        {},
	"reference.base":        {},
	"reference.import":      {},
}

// allowlistName is the assignment that declares a module's explicit exports.
const allowlistName = "__all__"

// Extract parses source and returns the module's declared surface: its
// module-level symbols in declaration order, each with the names its
// definition references, plus the allow-list, docstring, and local import
// dependencies. relPath is used as the module path and should be relative to
// the tree root.
//
// The parser must be created for the given language; it is not safe for
// concurrent use, the query is.
func Extract(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte, relPath string) (model.Module, error) {
	mod := model.Module{
		Name: strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath)),
		Path: relPath,
	}
	if len(source) == 0 {
		return mod, nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return mod, err
	}
	defer tree.Close()

	mod.Docstring = moduleDocstring(tree.RootNode(), source)

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	type decl struct {
		sym   model.Symbol
		start uint32
	}
	var (
		decls    []decl
		declared = make(map[string]int) // name → index into decls
		refs     = make(map[string]map[string]bool)
		deps     = make(map[string]bool)
	)

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var nameNode, tagNode *sitter.Node
		var captureName string
		for _, c := range match.Captures {
			cname := query.CaptureNameForId(c.Index)
			if cname == "name" {
				nameNode = c.Node
			} else if _, known := captureMap[cname]; known {
				captureName = cname
				tagNode = c.Node
			}
		}
		if nameNode == nil || captureName == "" || tagNode == nil {
			continue
		}

		name := lang.NodeText(nameNode, source)
		cm := captureMap[captureName]

		switch {
		case captureName == "reference.import":
			if dep := localImportName(name); dep != "" {
				deps[dep] = true
			}

		case cm.definition:
			if !l.ModuleLevel(tagNode) {
				continue
			}
			if name == allowlistName {
				mod.Allowlist = allowlistEntries(tagNode, source)
				continue
			}
			if _, dup := declared[name]; dup {
				continue
			}
			kind := cm.kind
			if captureName == "definition.assignment" {
				kind = assignmentKind(name)
			}
			declared[name] = len(decls)
			decls = append(decls, decl{
				sym:   model.Symbol{Name: name, Kind: kind, Module: relPath},
				start: tagNode.StartByte(),
			})

		default: // reference.call / reference.base
			owner := l.EnclosingDefinition(nameNode, source)
			if owner == "" || owner == name {
				continue
			}
			if refs[owner] == nil {
				refs[owner] = make(map[string]bool)
			}
			refs[owner][name] = true
		}
	}

	// Query match order is per-pattern, not document order.
	sort.Slice(decls, func(i, j int) bool { return decls[i].start < decls[j].start })

	for _, d := range decls {
		sym := d.sym
		sym.References = sortedKeys(refs[sym.Name])
		mod.Symbols = append(mod.Symbols, sym)
	}
	mod.Dependencies = sortedKeys(deps)
	return mod, nil
}

// assignmentKind infers a kind from naming convention: SCREAMING_CASE names
// are constants, CapWords names are type aliases, the rest are variables.
func assignmentKind(name string) model.SymbolKind {
	trimmed := strings.TrimLeft(name, "_")
	if trimmed == "" {
		return model.Other
	}
	if trimmed == strings.ToUpper(trimmed) && strings.ContainsAny(trimmed, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return model.Constant
	}
	first := trimmed[0]
	if first >= 'A' && first <= 'Z' {
		return model.Type
	}
	return model.Other
}

// localImportName reduces an import target to a candidate sibling module
// name: the first segment, with relative-import dots stripped. Returns ""
// for bare relative imports ("from . import x").
func localImportName(target string) string {
	target = strings.TrimLeft(target, ".")
	if i := strings.IndexByte(target, '.'); i >= 0 {
		target = target[:i]
	}
	return target
}

// allowlistEntries collects the string literals of an __all__ assignment,
// in source order.
func allowlistEntries(node *sitter.Node, source []byte) []string {
	var entries []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "string" {
			if s := stripQuotes(lang.NodeText(n, source)); s != "" {
				entries = append(entries, s)
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return entries
}

// moduleDocstring returns the text of a leading module docstring, or "".
func moduleDocstring(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() == "comment" {
			continue
		}
		if child.Type() != "expression_statement" || child.ChildCount() == 0 {
			return ""
		}
		str := child.Child(0)
		if str.Type() != "string" {
			return ""
		}
		return strings.TrimSpace(stripQuotes(lang.NodeText(str, source)))
	}
	return ""
}

func stripQuotes(s string) string {
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
