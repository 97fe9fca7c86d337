// Package section partitions collected symbols into configured manifest
// sections.
package section

import (
	"pkginit/internal/config"
	"pkginit/internal/model"
	"pkginit/internal/pattern"
)

// Classified is the partition of a symbol set over enabled sections. Every
// input symbol appears in exactly one section slice or in Unclassified.
type Classified struct {
	// BySection maps section name to its symbols, preserving input order.
	BySection map[string][]model.Symbol
	// Unclassified holds symbols matched by no enabled section.
	Unclassified []model.Symbol
}

// Classify assigns each symbol to the lowest-order enabled section that
// accepts it. Sections must be pre-sorted by ascending order (see
// Settings.EnabledSections); disabled sections must not be passed. A symbol
// is removed from the candidate pool once assigned, so later sections never
// see it.
//
// Malformed patterns are reported (one PatternError each) and treated as
// non-matches.
func Classify(symbols []model.Symbol, sections []config.Section) (Classified, []error) {
	out := Classified{BySection: make(map[string][]model.Symbol, len(sections))}

	var errs []error
	for _, sec := range sections {
		errs = append(errs, pattern.Check(sec.IncludePatterns)...)
		errs = append(errs, pattern.Check(sec.ExcludePatterns)...)
	}

	remaining := symbols
	for _, sec := range sections {
		var pool []model.Symbol
		for _, sym := range remaining {
			if accepts(sec, sym) {
				out.BySection[sec.Name] = append(out.BySection[sec.Name], sym)
			} else {
				pool = append(pool, sym)
			}
		}
		remaining = pool
	}

	out.Unclassified = remaining
	return out, errs
}

// accepts reports whether a section takes the symbol. Well-known section
// names constrain by symbol kind; include patterns refine membership and
// exclude patterns always veto.
func accepts(sec config.Section, sym model.Symbol) bool {
	if kind, known := config.SectionKind(sec.Name); known && sym.Kind != kind {
		return false
	}
	if pattern.MatchAnyName(sec.ExcludePatterns, sym.Name) {
		return false
	}
	if len(sec.IncludePatterns) == 0 {
		return true
	}
	return pattern.MatchAnyName(sec.IncludePatterns, sym.Name)
}
