package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

type (
	// SectionOverride is a partial Section: nil fields keep the base value.
	SectionOverride struct {
		Enabled         *bool    `mapstructure:"enabled"`
		Order           *int     `mapstructure:"order"`
		HeaderComment   *string  `mapstructure:"header_comment"`
		FooterComment   *string  `mapstructure:"footer_comment"`
		Separator       *string  `mapstructure:"separator"`
		IncludePatterns []string `mapstructure:"include_patterns"`
		ExcludePatterns []string `mapstructure:"exclude_patterns"`
	}

	// InlineOverride is a partial Inline content entry.
	InlineOverride struct {
		Code          *string `mapstructure:"code"`
		Order         *int    `mapstructure:"order"`
		BeforeImports *bool   `mapstructure:"before_imports"`
	}

	// Override is a partial Settings applied on top of a base: a nil field
	// keeps the base value, a set field wins wholesale for that field.
	// Sections and InlineContent merge per entry name.
	Override struct {
		Docstring             *string                    `mapstructure:"docstring"`
		OrderPolicy           *string                    `mapstructure:"order_policy"`
		ExportMode            *string                    `mapstructure:"export_mode"`
		ExportsBlacklist      []string                   `mapstructure:"exports_blacklist"`
		Blacklist             []string                   `mapstructure:"blacklist"`
		ExcludedPaths         []string                   `mapstructure:"excluded_paths"`
		CollectFromSubmodules *bool                      `mapstructure:"collect_from_submodules"`
		IncludeSubmodules     []string                   `mapstructure:"include_submodules"`
		Sections              map[string]SectionOverride `mapstructure:"sections"`
		InlineContent         map[string]InlineOverride  `mapstructure:"inline_content"`
		CustomOrder           []string                   `mapstructure:"custom_order"`
		Dependencies          []string                   `mapstructure:"dependencies"`
		ManifestName          *string                    `mapstructure:"manifest_name"`
		ExactPathOnly         *bool                      `mapstructure:"exact_path_only"`
	}

	fileConfig struct {
		GlobalSettings Override            `mapstructure:"global_settings"`
		PathSpecific   map[string]Override `mapstructure:"path_specific"`
	}

	pathOverride struct {
		prefix   string
		exact    bool
		settings Override
	}

	// Config holds the immutable global settings plus the per-path override
	// map. ForPath produces a fresh effective Settings for each directory;
	// nothing is mutated in place.
	Config struct {
		Global    Settings
		overrides []pathOverride
	}
)

// New creates a Config with the given global settings and no overrides.
func New(global Settings) *Config {
	return &Config{Global: global}
}

// Load reads a configuration file (format inferred from the extension:
// .json, .toml, .yaml/.yml) and returns the resulting Config. Absent fields
// fall back to Default().
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}

	cfg := New(Apply(Default(), fc.GlobalSettings))
	if err := cfg.Global.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	for p, ov := range fc.PathSpecific {
		cfg.AddOverride(p, ov)
	}
	return cfg, nil
}

// AddOverride registers an override for a path prefix. Unless the override
// sets exact_path_only, it applies to the path itself and everything below it.
func (c *Config) AddOverride(path string, ov Override) {
	exact := ov.ExactPathOnly != nil && *ov.ExactPathOnly
	c.overrides = append(c.overrides, pathOverride{
		prefix:   normalizePath(path),
		exact:    exact,
		settings: ov,
	})
	// Shorter (less specific) prefixes apply first so deeper overrides win.
	sort.SliceStable(c.overrides, func(i, j int) bool {
		return len(c.overrides[i].prefix) < len(c.overrides[j].prefix)
	})
}

// ForPath returns the effective settings for a directory path, merging every
// matching override onto the global settings, least specific first.
func (c *Config) ForPath(path string) Settings {
	path = normalizePath(path)
	merged := c.Global
	for _, ov := range c.overrides {
		if ov.matches(path) {
			merged = Apply(merged, ov.settings)
		}
	}
	return merged
}

func (o pathOverride) matches(path string) bool {
	if path == o.prefix {
		return true
	}
	if o.exact {
		return false
	}
	return o.prefix == "" || strings.HasPrefix(path, o.prefix+"/")
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.Trim(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Apply merges an override onto base and returns the result. Base is passed
// by value; neither input is mutated.
func Apply(base Settings, ov Override) Settings {
	out := base
	if ov.Docstring != nil {
		out.Docstring = *ov.Docstring
	}
	if ov.OrderPolicy != nil {
		out.OrderPolicy = OrderPolicy(*ov.OrderPolicy)
	}
	if ov.ExportMode != nil {
		out.ExportMode = ExportMode(*ov.ExportMode)
	}
	if ov.ExportsBlacklist != nil {
		out.ExportsBlacklist = ov.ExportsBlacklist
	}
	if ov.Blacklist != nil {
		out.Blacklist = ov.Blacklist
	}
	if ov.ExcludedPaths != nil {
		out.ExcludedPaths = ov.ExcludedPaths
	}
	if ov.CollectFromSubmodules != nil {
		out.CollectFromSubmodules = *ov.CollectFromSubmodules
	}
	if ov.IncludeSubmodules != nil {
		out.IncludeSubmodules = ov.IncludeSubmodules
	}
	if ov.CustomOrder != nil {
		out.CustomOrder = ov.CustomOrder
	}
	if ov.Dependencies != nil {
		out.Dependencies = ov.Dependencies
	}
	if ov.ManifestName != nil {
		out.ManifestName = *ov.ManifestName
	}
	if len(ov.Sections) > 0 {
		out.Sections = mergeSections(base.Sections, ov.Sections)
	}
	if len(ov.InlineContent) > 0 {
		out.InlineContent = mergeInline(base.InlineContent, ov.InlineContent)
	}
	return out
}

func mergeSections(base map[string]Section, ovs map[string]SectionOverride) map[string]Section {
	out := make(map[string]Section, len(base)+len(ovs))
	for name, sec := range base {
		out[name] = sec
	}
	for name, ov := range ovs {
		sec, ok := out[name]
		if !ok {
			sec = Section{
				Name:            name,
				Enabled:         true,
				Order:           DefaultSectionOrder(name),
				Separator:       "\n",
				IncludePatterns: DefaultSectionPatterns(name),
			}
		}
		if ov.Enabled != nil {
			sec.Enabled = *ov.Enabled
		}
		if ov.Order != nil {
			sec.Order = *ov.Order
		}
		if ov.HeaderComment != nil {
			sec.HeaderComment = *ov.HeaderComment
		}
		if ov.FooterComment != nil {
			sec.FooterComment = *ov.FooterComment
		}
		if ov.Separator != nil {
			sec.Separator = ensureNewline(*ov.Separator)
		}
		if ov.IncludePatterns != nil {
			sec.IncludePatterns = ov.IncludePatterns
		}
		if ov.ExcludePatterns != nil {
			sec.ExcludePatterns = ov.ExcludePatterns
		}
		out[name] = sec
	}
	return out
}

func mergeInline(base map[string]Inline, ovs map[string]InlineOverride) map[string]Inline {
	out := make(map[string]Inline, len(base)+len(ovs))
	for name, in := range base {
		out[name] = in
	}
	for name, ov := range ovs {
		in, ok := out[name]
		if !ok {
			in = Inline{Name: name, Order: 999}
		}
		if ov.Code != nil {
			in.Code = strings.TrimRight(*ov.Code, "\n") + "\n"
		}
		if ov.Order != nil {
			in.Order = *ov.Order
		}
		if ov.BeforeImports != nil {
			in.BeforeImports = *ov.BeforeImports
		}
		out[name] = in
	}
	return out
}

// ensureNewline guarantees a separator contains at least one newline so
// sections never run together.
func ensureNewline(s string) string {
	if !strings.Contains(s, "\n") {
		return s + "\n"
	}
	return s
}
