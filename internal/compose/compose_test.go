package compose

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pkginit/internal/config"
	"pkginit/internal/model"
)

func TestComposeFullManifest(t *testing.T) {
	t.Parallel()

	in := Input{
		Package:  "pkg",
		Path:     "pkg",
		Settings: config.Settings{ManifestName: "__init__.py"},
		Sections: []SectionContent{
			{
				Section: config.Section{Name: "constants"},
				Symbols: []model.Symbol{{Name: "MAX_SIZE", Module: "pkg/limits.py"}},
			},
			{
				Section: config.Section{Name: "classes"},
				Symbols: []model.Symbol{{Name: "Alpha", Module: "pkg/core.py"}},
			},
		},
		Unclassified: []model.Symbol{{Name: "beta", Module: "pkg/core.py"}},
	}

	want := `"""Package initialization.

Path: pkg/__init__.py
"""

from .limits import MAX_SIZE

from .core import Alpha

from .core import beta

__all__ = [
    "MAX_SIZE",
    "Alpha",
    "beta",
]
`
	got := Compose(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifest (-want +got):\n%s", diff)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	t.Parallel()

	in := Input{
		Package:  "root",
		Settings: config.Settings{},
		Sections: []SectionContent{
			{
				Section: config.Section{Name: "functions"},
				Symbols: []model.Symbol{
					{Name: "one", Module: "a.py"},
					{Name: "two", Module: "b.py"},
				},
			},
		},
	}

	first := Compose(in)
	second := Compose(in)
	if Changed(first, second) {
		t.Error("composing the same input twice must be byte-identical")
	}
}

func TestComposeDocstringTemplate(t *testing.T) {
	t.Parallel()

	in := Input{
		Package:  "widgets",
		Path:     "ui/widgets",
		Settings: config.Settings{Docstring: "Exports for {package}.", ManifestName: "__init__.py"},
	}

	got := Compose(in)
	if !strings.Contains(got, `"""Exports for widgets.`) {
		t.Errorf("template variable not substituted:\n%s", got)
	}
	if !strings.Contains(got, "Path: ui/widgets/__init__.py") {
		t.Errorf("path line missing:\n%s", got)
	}
}

func TestComposeDocstringFallbackChain(t *testing.T) {
	t.Parallel()

	// Scanned module docstring wins over the built-in default.
	in := Input{Package: "pkg", ModuleDocstring: "Core utilities."}
	if got := Compose(in); !strings.Contains(got, `"""Core utilities.`) {
		t.Errorf("module docstring should be used:\n%s", got)
	}

	// Nothing configured or scanned: built-in default.
	in = Input{Package: "pkg"}
	if got := Compose(in); !strings.Contains(got, `"""Package initialization.`) {
		t.Errorf("default docstring expected:\n%s", got)
	}
}

func TestComposeGroupsImportsByModule(t *testing.T) {
	t.Parallel()

	in := Input{
		Package: "pkg",
		Path:    "pkg",
		Sections: []SectionContent{
			{
				Section: config.Section{Name: "classes"},
				Symbols: []model.Symbol{
					{Name: "Alpha", Module: "pkg/core.py"},
					{Name: "Beta", Module: "pkg/core.py"},
					{Name: "Gamma", Module: "pkg/extra.py"},
				},
			},
		},
	}

	got := Compose(in)
	if !strings.Contains(got, "from .core import Alpha, Beta\n") {
		t.Errorf("same-module symbols share one import:\n%s", got)
	}
	if !strings.Contains(got, "from .extra import Gamma\n") {
		t.Errorf("other module imported separately:\n%s", got)
	}
}

func TestComposePromotedSymbolImportsSubpackage(t *testing.T) {
	t.Parallel()

	in := Input{
		Package: "root",
		Path:    "",
		Sections: []SectionContent{
			{
				Section: config.Section{Name: "classes"},
				Symbols: []model.Symbol{{Name: "Deep", Module: "sub/inner/thing.py"}},
			},
		},
	}

	got := Compose(in)
	if !strings.Contains(got, "from .sub import Deep\n") {
		t.Errorf("promoted symbol imports from the child package:\n%s", got)
	}
}

func TestComposeSectionCommentsAndInline(t *testing.T) {
	t.Parallel()

	in := Input{
		Package: "pkg",
		Settings: config.Settings{
			InlineContent: map[string]config.Inline{
				"future": {Name: "future", Code: "from __future__ import annotations\n", BeforeImports: true},
				"epilog": {Name: "epilog", Code: "VERSION = \"1.0\"\n"},
			},
		},
		Sections: []SectionContent{
			{
				Section: config.Section{
					Name:          "classes",
					HeaderComment: "# Core classes",
					FooterComment: "# End classes",
				},
				Symbols: []model.Symbol{{Name: "Alpha", Module: "core.py"}},
			},
		},
	}

	got := Compose(in)
	futureAt := strings.Index(got, "from __future__ import annotations")
	importAt := strings.Index(got, "from .core import Alpha")
	epilogAt := strings.Index(got, "VERSION = \"1.0\"")
	allAt := strings.Index(got, "__all__")
	if futureAt < 0 || importAt < 0 || epilogAt < 0 || allAt < 0 {
		t.Fatalf("missing parts:\n%s", got)
	}
	if !(futureAt < importAt && importAt < epilogAt && epilogAt < allAt) {
		t.Errorf("inline placement wrong:\n%s", got)
	}
	if !strings.Contains(got, "# Core classes\nfrom .core import Alpha\n# End classes") {
		t.Errorf("header/footer comments wrap the section:\n%s", got)
	}
}

func TestComposeSectionSeparator(t *testing.T) {
	t.Parallel()

	in := Input{
		Package: "pkg",
		Sections: []SectionContent{
			{
				Section: config.Section{Name: "classes", Separator: "# ----\n"},
				Symbols: []model.Symbol{{Name: "Alpha", Module: "core.py"}},
			},
		},
	}

	got := Compose(in)
	if !strings.Contains(got, "from .core import Alpha\n# ----\n") {
		t.Errorf("configured separator renders after the section:\n%s", got)
	}

	// The default newline separator adds nothing beyond the blank line.
	in.Sections[0].Section.Separator = "\n"
	if got := Compose(in); strings.Contains(got, "# ----") {
		t.Errorf("default separator must not emit a divider:\n%s", got)
	}
}

func TestComposeEmptyDirectoryOmitsAll(t *testing.T) {
	t.Parallel()

	got := Compose(Input{Package: "pkg"})
	if strings.Contains(got, "__all__") {
		t.Errorf("no exports means no __all__ block:\n%s", got)
	}
	if !strings.HasSuffix(got, "\"\"\"\n") {
		t.Errorf("content ends with the docstring:\n%s", got)
	}
}
