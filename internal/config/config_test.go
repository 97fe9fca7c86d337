package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	p := writeConfig(t, "pkginit.yaml", `
global_settings:
  export_mode: explicit
  order_policy: alphabetical
  blacklist:
    - "_*"
path_specific:
  pkg/internal:
    export_mode: all_public
    collect_from_submodules: false
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	require.Equal(t, Explicit, cfg.Global.ExportMode)
	require.Equal(t, Alphabetical, cfg.Global.OrderPolicy)
	require.Equal(t, []string{"_*"}, cfg.Global.Blacklist)
	// Defaults survive for unset fields.
	require.True(t, cfg.Global.CollectFromSubmodules)
	require.Equal(t, DefaultManifestName, cfg.Global.ManifestName)

	eff := cfg.ForPath("pkg/internal")
	require.Equal(t, AllPublic, eff.ExportMode)
	require.False(t, eff.CollectFromSubmodules)
	// Untouched fields inherit from global.
	require.Equal(t, Alphabetical, eff.OrderPolicy)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	p := writeConfig(t, "pkginit.json", `{
  "global_settings": {
    "docstring": "Exports for {package}.",
    "sections": {
      "classes": {"header_comment": "# Classes"}
    }
  }
}`)

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "Exports for {package}.", cfg.Global.Docstring)
	require.Equal(t, "# Classes", cfg.Global.Sections["classes"].HeaderComment)
	// Merge keeps the base section's other fields.
	require.True(t, cfg.Global.Sections["classes"].Enabled)
}

func TestLoadRejectsBadEnums(t *testing.T) {
	t.Parallel()

	p := writeConfig(t, "bad.yaml", `
global_settings:
  order_policy: random
`)
	_, err := Load(p)
	require.ErrorIs(t, err, ErrInvalidOrderPolicy)

	p = writeConfig(t, "bad2.yaml", `
global_settings:
  export_mode: everything
`)
	_, err = Load(p)
	require.ErrorIs(t, err, ErrInvalidExportMode)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestForPathDeeperOverrideWins(t *testing.T) {
	t.Parallel()

	cfg := New(Default())
	mode := string(Explicit)
	cfg.AddOverride("pkg", Override{ExportMode: &mode})
	custom := string(CustomExports)
	cfg.AddOverride("pkg/sub", Override{ExportMode: &custom})

	require.Equal(t, Explicit, cfg.ForPath("pkg").ExportMode)
	require.Equal(t, CustomExports, cfg.ForPath("pkg/sub").ExportMode)
	require.Equal(t, CustomExports, cfg.ForPath("pkg/sub/deeper").ExportMode)
	require.Equal(t, AllPublic, cfg.ForPath("other").ExportMode)
}

func TestForPathExactPathOnly(t *testing.T) {
	t.Parallel()

	cfg := New(Default())
	mode := string(Explicit)
	exact := true
	cfg.AddOverride("pkg", Override{ExportMode: &mode, ExactPathOnly: &exact})

	require.Equal(t, Explicit, cfg.ForPath("pkg").ExportMode)
	require.Equal(t, AllPublic, cfg.ForPath("pkg/sub").ExportMode)
}

func TestForPathDoesNotMutateGlobal(t *testing.T) {
	t.Parallel()

	cfg := New(Default())
	doc := "per-path"
	cfg.AddOverride("pkg", Override{Docstring: &doc})

	_ = cfg.ForPath("pkg")
	require.Equal(t, Default().Docstring, cfg.Global.Docstring)
}

func TestApplyNewSectionGetsDefaults(t *testing.T) {
	t.Parallel()

	enabled := true
	got := Apply(Default(), Override{
		Sections: map[string]SectionOverride{
			"type_definitions": {Enabled: &enabled},
		},
	})

	sec := got.Sections["type_definitions"]
	require.Equal(t, DefaultSectionOrder("type_definitions"), sec.Order)
	require.Equal(t, DefaultSectionPatterns("type_definitions"), sec.IncludePatterns)
	require.True(t, sec.Enabled)
}

func TestApplyDisablesSection(t *testing.T) {
	t.Parallel()

	disabled := false
	got := Apply(Default(), Override{
		Sections: map[string]SectionOverride{
			SectionFunctions: {Enabled: &disabled},
		},
	})

	for _, sec := range got.EnabledSections() {
		require.NotEqual(t, SectionFunctions, sec.Name)
	}
}

func TestEnabledSectionsSortedByOrderThenName(t *testing.T) {
	t.Parallel()

	s := Settings{Sections: map[string]Section{
		"zz":  {Name: "zz", Enabled: true, Order: 1},
		"aa":  {Name: "aa", Enabled: true, Order: 1},
		"top": {Name: "top", Enabled: true, Order: 0},
		"off": {Name: "off", Enabled: false, Order: -1},
	}}

	var names []string
	for _, sec := range s.EnabledSections() {
		names = append(names, sec.Name)
	}
	require.Equal(t, []string{"top", "aa", "zz"}, names)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	s := Default()
	require.NoError(t, s.Validate())

	s.OrderPolicy = "sideways"
	require.True(t, errors.Is(s.Validate(), ErrInvalidOrderPolicy))
}
