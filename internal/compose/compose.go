// Package compose renders ordered, sectioned symbols into manifest file
// content and diffs it against the previous content.
package compose

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"pkginit/internal/config"
	"pkginit/internal/model"
)

// SectionContent pairs a section definition with its symbols, already in
// emission order.
type SectionContent struct {
	Section config.Section
	Symbols []model.Symbol
}

// Input carries everything needed to render one directory's manifest.
// Composing the same Input twice yields byte-identical output.
type Input struct {
	// Package is the directory's package name (base name of the directory,
	// or the root package name for the tree root).
	Package string
	// Path is the directory path relative to the tree root; "" for the root.
	Path string
	// Settings is the effective configuration for this directory.
	Settings config.Settings
	// Sections holds the enabled sections in ascending order, each with its
	// ordered symbols. Empty sections are skipped during rendering.
	Sections []SectionContent
	// Unclassified holds ordered symbols matched by no enabled section; they
	// render in a final implicit section.
	Unclassified []model.Symbol
	// ModuleDocstring is the docstring found in the directory's own sources,
	// used when no docstring template is configured.
	ModuleDocstring string
}

// Compose renders the manifest content: docstring, before-imports inline
// content, sections with header/footer comments, remaining inline content,
// and the aggregated allow-list naming every emitted symbol in emission
// order.
func Compose(in Input) string {
	var parts []string

	parts = append(parts, docstring(in))

	before, after := splitInline(in.Settings.InlineContent)
	for _, inl := range before {
		parts = append(parts, "", strings.TrimRight(inl.Code, "\n"))
	}

	var emitted []string
	sections := in.Sections
	if len(in.Unclassified) > 0 {
		sections = append(sections, SectionContent{
			Section: config.Section{Name: "unclassified"},
			Symbols: in.Unclassified,
		})
	}
	for _, sec := range sections {
		if len(sec.Symbols) == 0 {
			continue
		}
		parts = append(parts, "")
		if sec.Section.HeaderComment != "" {
			parts = append(parts, sec.Section.HeaderComment)
		}
		lines, names := importLines(in.Path, sec.Symbols)
		parts = append(parts, lines...)
		emitted = append(emitted, names...)
		if sec.Section.FooterComment != "" {
			parts = append(parts, sec.Section.FooterComment)
		}
		// The blank line before each section is the default separator;
		// anything configured beyond newlines renders as a divider.
		if sep := strings.TrimRight(sec.Section.Separator, "\n"); sep != "" {
			parts = append(parts, sep)
		}
	}

	for _, inl := range after {
		parts = append(parts, "", strings.TrimRight(inl.Code, "\n"))
	}

	if len(emitted) > 0 {
		all := []string{"", "__all__ = ["}
		for _, name := range emitted {
			all = append(all, fmt.Sprintf("    %q,", name))
		}
		all = append(all, "]")
		parts = append(parts, all...)
	}

	return strings.Join(parts, "\n") + "\n"
}

// Changed reports whether the composed content differs from the previous
// manifest content.
func Changed(previous, current string) bool {
	return previous != current
}

// docstring resolves the configured template ({package} and {path}
// variables), falling back to the scanned module docstring, then to the
// default.
func docstring(in Input) string {
	text := in.Settings.Docstring
	if text == "" {
		text = in.ModuleDocstring
	}
	if text == "" {
		text = "Package initialization."
	}
	text = strings.ReplaceAll(text, "{package}", in.Package)
	text = strings.ReplaceAll(text, "{path}", manifestPath(in))
	text = strings.TrimRight(text, "\n")

	return fmt.Sprintf("\"\"\"%s\n\nPath: %s\n\"\"\"", text, manifestPath(in))
}

func manifestPath(in Input) string {
	name := in.Settings.ManifestName
	if name == "" {
		name = config.DefaultManifestName
	}
	if in.Path == "" {
		return name
	}
	return in.Path + "/" + name
}

// importLines renders one import statement per declaring module, modules in
// first-appearance order of the ordered symbols, and returns the emitted
// symbol names in the same order the statements list them.
func importLines(dir string, syms []model.Symbol) (lines, names []string) {
	type group struct {
		ref   string
		names []string
	}
	var groups []*group
	index := make(map[string]*group)

	for _, sym := range syms {
		ref := importRef(dir, sym.Module)
		grp, ok := index[ref]
		if !ok {
			grp = &group{ref: ref}
			index[ref] = grp
			groups = append(groups, grp)
		}
		grp.names = append(grp.names, sym.Name)
	}

	for _, grp := range groups {
		lines = append(lines, fmt.Sprintf("from .%s import %s", grp.ref, strings.Join(grp.names, ", ")))
		names = append(names, grp.names...)
	}
	return lines, names
}

// importRef maps a symbol's declaring module path to the relative import
// target within dir: a sibling file's stem, or the first path segment for a
// symbol promoted from a subpackage.
func importRef(dir, modulePath string) string {
	rel := modulePath
	if dir != "" {
		rel = strings.TrimPrefix(modulePath, dir+"/")
	}
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// splitInline returns the inline entries partitioned by before_imports, each
// half sorted by ascending order with name ties broken alphabetically.
func splitInline(inline map[string]config.Inline) (before, after []config.Inline) {
	for _, inl := range inline {
		if inl.BeforeImports {
			before = append(before, inl)
		} else {
			after = append(after, inl)
		}
	}
	byOrder := func(s []config.Inline) {
		sort.Slice(s, func(i, j int) bool {
			if s[i].Order != s[j].Order {
				return s[i].Order < s[j].Order
			}
			return s[i].Name < s[j].Name
		})
	}
	byOrder(before)
	byOrder(after)
	return before, after
}
