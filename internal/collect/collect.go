// Package collect produces a module's candidate export set under a
// configured export mode.
package collect

import (
	"fmt"
	"strings"

	"pkginit/internal/config"
	"pkginit/internal/model"
	"pkginit/internal/pattern"
)

// privateMarker prefixes names that are never exported by the public modes.
const privateMarker = "_"

// Collect returns the symbols a module exposes under mode, in a
// deterministic order: allow-list order for explicit, declaration order
// otherwise. customRules is the custom mode's blacklist; blacklist is the
// top-level blacklist applied to every mode's result after the mode rules.
//
// Returned errors are non-fatal except the ConfigError for an unknown mode:
// one MissingExportError per explicit-mode name with no declared symbol.
// Malformed blacklist patterns match nothing; callers validate the shared
// pattern sets once per directory via pattern.Check. The module itself is
// never mutated.
func Collect(mod model.Module, mode config.ExportMode, customRules, blacklist []string) ([]model.Symbol, []error) {
	var (
		out  []model.Symbol
		errs []error
	)

	switch mode {
	case config.Explicit:
		declared := make(map[string]model.Symbol, len(mod.Symbols))
		for _, sym := range mod.Symbols {
			declared[sym.Name] = sym
		}
		for _, name := range mod.Allowlist {
			sym, ok := declared[name]
			if !ok {
				errs = append(errs, &model.MissingExportError{Module: mod.Path, Name: name})
				continue
			}
			out = append(out, sym)
		}

	case config.AllPublic, config.CustomExports:
		for _, sym := range mod.Symbols {
			if strings.HasPrefix(sym.Name, privateMarker) {
				continue
			}
			out = append(out, sym)
		}
		if mode == config.CustomExports {
			out = reject(out, customRules)
		}

	default:
		return nil, []error{&model.ConfigError{Path: mod.Path, Reason: fmt.Sprintf("unknown export mode %q", mode)}}
	}

	return reject(out, blacklist), errs
}

func reject(syms []model.Symbol, patterns []string) []model.Symbol {
	if len(patterns) == 0 {
		return syms
	}
	kept := syms[:0:0]
	for _, sym := range syms {
		if !pattern.MatchAnyName(patterns, sym.Name) {
			kept = append(kept, sym)
		}
	}
	return kept
}
