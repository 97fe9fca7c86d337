package order

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pkginit/internal/config"
	"pkginit/internal/model"
)

func symbolNames(syms []model.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}

func moduleNames(mods []model.Module) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Name
	}
	return out
}

func TestSymbolsAlphabetical(t *testing.T) {
	t.Parallel()

	syms := []model.Symbol{{Name: "gamma"}, {Name: "alpha"}, {Name: "beta"}}
	got, errs := Symbols(syms, config.Alphabetical, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if diff := cmp.Diff([]string{"alpha", "beta", "gamma"}, symbolNames(got)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	// Input untouched.
	if syms[0].Name != "gamma" {
		t.Error("input slice must not be reordered")
	}
}

func TestSymbolsLength(t *testing.T) {
	t.Parallel()

	syms := []model.Symbol{{Name: "ccc"}, {Name: "a"}, {Name: "bb"}, {Name: "aaa"}}
	got, _ := Symbols(syms, config.Length, nil)
	if diff := cmp.Diff([]string{"a", "bb", "aaa", "ccc"}, symbolNames(got)); diff != "" {
		t.Errorf("equal lengths break ties alphabetically (-want +got):\n%s", diff)
	}
}

func TestSymbolsCustom(t *testing.T) {
	t.Parallel()

	syms := []model.Symbol{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}
	got, errs := Symbols(syms, config.CustomOrder, []string{"c", "a"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if diff := cmp.Diff([]string{"c", "a", "b", "d"}, symbolNames(got)); diff != "" {
		t.Errorf("listed first in list order, rest alphabetical (-want +got):\n%s", diff)
	}
}

func TestSymbolsCustomWithoutListFails(t *testing.T) {
	t.Parallel()

	_, errs := Symbols([]model.Symbol{{Name: "a"}}, config.CustomOrder, nil)
	if len(errs) != 1 || !errors.Is(errs[0], model.ErrConfig) {
		t.Fatalf("expected ConfigError, got %v", errs)
	}
}

func TestSymbolsUnknownPolicyFails(t *testing.T) {
	t.Parallel()

	got, errs := Symbols([]model.Symbol{{Name: "a"}}, config.OrderPolicy("bogus_policy"), nil)
	if got != nil {
		t.Errorf("no order for an unknown policy: %v", symbolNames(got))
	}
	if len(errs) != 1 || !errors.Is(errs[0], model.ErrConfig) {
		t.Fatalf("expected ConfigError, got %v", errs)
	}
}

func TestSymbolsDependencyFirst(t *testing.T) {
	t.Parallel()

	syms := []model.Symbol{
		{Name: "Service", References: []string{"Config", "external_thing"}},
		{Name: "Config"},
		{Name: "make_service", References: []string{"Service"}},
	}
	got, errs := Symbols(syms, config.DependencyFirst, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if diff := cmp.Diff([]string{"Config", "Service", "make_service"}, symbolNames(got)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestSymbolsDependencyCycleFallsBack(t *testing.T) {
	t.Parallel()

	syms := []model.Symbol{
		{Name: "Z", References: []string{"X"}},
		{Name: "X", References: []string{"Y"}},
		{Name: "Y", References: []string{"Z"}},
	}
	got, errs := Symbols(syms, config.DependencyFirst, nil)
	if diff := cmp.Diff([]string{"X", "Y", "Z"}, symbolNames(got)); diff != "" {
		t.Errorf("cyclic set falls back to alphabetical (-want +got):\n%s", diff)
	}
	if len(errs) != 1 || !errors.Is(errs[0], model.ErrDependencyCycle) {
		t.Fatalf("expected DependencyCycleError, got %v", errs)
	}
}

func TestModulesDependencyFirstWithConfiguredDeps(t *testing.T) {
	t.Parallel()

	mods := []model.Module{
		{Name: "api", Dependencies: []string{"models"}},
		{Name: "models"},
		{Name: "base"},
	}
	got, errs := Modules(mods, config.DependencyFirst, nil, []string{"base"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if diff := cmp.Diff([]string{"base", "models", "api"}, moduleNames(got)); diff != "" {
		t.Errorf("configured deps sort first (-want +got):\n%s", diff)
	}
}

func TestModulesDependencyFirstIgnoresUnknownDeps(t *testing.T) {
	t.Parallel()

	mods := []model.Module{
		{Name: "b", Dependencies: []string{"not_present"}},
		{Name: "a"},
	}
	got, errs := Modules(mods, config.DependencyFirst, nil, []string{"also_absent"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if diff := cmp.Diff([]string{"a", "b"}, moduleNames(got)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}
