// Package config defines generation settings and loads them from a
// JSON, TOML, or YAML configuration file, with per-path overrides merged
// field by field onto the global settings.
package config

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// DependencyFirst orders by the reference graph, dependencies before
	// their dependents.
	DependencyFirst OrderPolicy = "dependency_first"
	// Alphabetical orders by name, case-sensitive ascending.
	Alphabetical OrderPolicy = "alphabetical"
	// CustomOrder places names listed in custom_order first, in list order,
	// then the remainder alphabetically.
	CustomOrder OrderPolicy = "custom"
	// Length orders by name length ascending, ties broken alphabetically.
	Length OrderPolicy = "length"

	// Explicit exports only names present in the module's allow-list.
	Explicit ExportMode = "explicit"
	// AllPublic exports every name without a leading underscore.
	AllPublic ExportMode = "all_public"
	// CustomExports applies blacklist patterns on top of AllPublic.
	CustomExports ExportMode = "custom"
)

var (
	// ErrInvalidOrderPolicy is returned when an OrderPolicy value is not recognized.
	ErrInvalidOrderPolicy = errors.New("invalid order policy")
	// ErrInvalidExportMode is returned when an ExportMode value is not recognized.
	ErrInvalidExportMode = errors.New("invalid export mode")
)

type (
	// OrderPolicy controls how modules and symbols are ordered.
	OrderPolicy string

	// ExportMode determines which declared symbols are eligible for export.
	ExportMode string

	// Section configures one named grouping of symbols within a manifest.
	Section struct {
		Name            string
		Enabled         bool
		Order           int
		HeaderComment   string
		FooterComment   string
		Separator       string
		IncludePatterns []string
		ExcludePatterns []string
	}

	// Inline is a block of literal content injected into the manifest.
	Inline struct {
		Name          string
		Code          string
		Order         int
		BeforeImports bool
	}

	// Settings is the complete effective configuration for one directory.
	// Values are never mutated after construction; ForPath builds a fresh
	// merged Settings per directory.
	Settings struct {
		Docstring   string
		OrderPolicy OrderPolicy
		ExportMode  ExportMode
		// ExportsBlacklist is the custom export mode's rule set.
		ExportsBlacklist []string
		// Blacklist is the top-level blacklist applied to every mode's
		// result, after any custom-mode rules.
		Blacklist             []string
		ExcludedPaths         []string
		CollectFromSubmodules bool
		IncludeSubmodules     []string
		Sections              map[string]Section
		InlineContent         map[string]Inline
		CustomOrder           []string
		Dependencies          []string
		ManifestName          string
	}
)

// Validate checks enum-valued fields. Contradictions that only matter per
// directory (custom policy without a custom order) are checked at generation
// time, not here.
func (s *Settings) Validate() error {
	switch s.OrderPolicy {
	case DependencyFirst, Alphabetical, CustomOrder, Length:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrderPolicy, s.OrderPolicy)
	}
	switch s.ExportMode {
	case Explicit, AllPublic, CustomExports:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidExportMode, s.ExportMode)
	}
	return nil
}

// EnabledSections returns the enabled sections sorted by ascending Order,
// ties broken by name so iteration order is deterministic.
func (s *Settings) EnabledSections() []Section {
	var out []Section
	for _, sec := range s.Sections {
		if sec.Enabled {
			out = append(out, sec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}
