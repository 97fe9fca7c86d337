package config

import "pkginit/internal/model"

// Well-known section names. Sections with these names that configure no
// include patterns fall back to matching by symbol kind (plus the name
// patterns below for constants and type definitions).
const (
	SectionClasses   = "classes"
	SectionFunctions = "functions"
	SectionConstants = "constants"
	SectionTypes     = "type_definitions"
	SectionVariables = "variables"
)

// defaultSectionOrders positions the well-known sections when no explicit
// order is configured. Unknown sections default to 99.
var defaultSectionOrders = map[string]int{
	SectionTypes:     0,
	SectionConstants: 1,
	SectionClasses:   2,
	SectionFunctions: 3,
	SectionVariables: 4,
}

// defaultSectionPatterns supplies name patterns for sections whose membership
// is not fully determined by symbol kind.
var defaultSectionPatterns = map[string][]string{
	SectionConstants: {"*_CONSTANT", "*_CONFIG", "DEFAULT_*"},
	SectionTypes:     {"*Type", "*Config"},
}

// sectionKinds maps well-known section names to the symbol kind they accept
// by default.
var sectionKinds = map[string]model.SymbolKind{
	SectionClasses:   model.Class,
	SectionFunctions: model.Function,
	SectionConstants: model.Constant,
	SectionTypes:     model.Type,
	SectionVariables: model.Other,
}

// DefaultSectionOrder returns the default order for a section name.
func DefaultSectionOrder(name string) int {
	if order, ok := defaultSectionOrders[name]; ok {
		return order
	}
	return 99
}

// DefaultSectionPatterns returns the default include patterns for a section
// name, or nil when membership is kind-based only.
func DefaultSectionPatterns(name string) []string {
	return defaultSectionPatterns[name]
}

// SectionKind returns the symbol kind a well-known section accepts when it
// has no include patterns, and whether the section name is known.
func SectionKind(name string) (model.SymbolKind, bool) {
	kind, ok := sectionKinds[name]
	return kind, ok
}

// DefaultManifestName is the generated file written per directory.
const DefaultManifestName = "__init__.py"

// Default returns the baseline settings used when a field is absent from the
// configuration file: all-public export collection, dependency-first
// ordering, submodule aggregation on, and the three conventional sections.
// Docstring stays empty so a directory's own scanned docstring is used when
// no template is configured; the composer supplies the final fallback.
func Default() Settings {
	return Settings{
		OrderPolicy:           DependencyFirst,
		ExportMode:            AllPublic,
		CollectFromSubmodules: true,
		ManifestName:          DefaultManifestName,
		Sections: map[string]Section{
			SectionClasses: {
				Name:    SectionClasses,
				Enabled: true,
				Order:   DefaultSectionOrder(SectionClasses),
			},
			SectionFunctions: {
				Name:    SectionFunctions,
				Enabled: true,
				Order:   DefaultSectionOrder(SectionFunctions),
			},
			SectionConstants: {
				Name:            SectionConstants,
				Enabled:         true,
				Order:           DefaultSectionOrder(SectionConstants),
				IncludePatterns: DefaultSectionPatterns(SectionConstants),
			},
		},
	}
}
