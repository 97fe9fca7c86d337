// Package gen orchestrates manifest generation: it walks the scanned tree
// bottom-up, runs collection, classification, ordering and composition per
// directory, and exposes the computed results for preview or commit.
package gen

import (
	"context"
	"errors"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"pkginit/internal/collect"
	"pkginit/internal/compose"
	"pkginit/internal/config"
	"pkginit/internal/model"
	"pkginit/internal/order"
	"pkginit/internal/pattern"
	"pkginit/internal/section"
)

// ContentReader supplies a directory's previous manifest content. A read
// failure is non-fatal: the directory is treated as having no previous
// content and the failure is recorded.
type ContentReader interface {
	ReadManifest(dirPath string) (content string, exists bool, err error)
}

// ContentWriter commits one directory's manifest content. The generator
// only ever writes through this interface, and never in preview mode.
type ContentWriter interface {
	WriteManifest(dirPath, content string) error
}

// Results maps directory path to its ProcessingResult. The same computed
// mapping serves preview and commit, so what commit writes is exactly what
// preview reported.
type Results map[string]model.ProcessingResult

// Runner generates manifests over a scanned tree.
type Runner struct {
	cfg    *config.Config
	reader ContentReader
	logger *log.Logger

	// RootPackage names the tree root's package in docstrings; defaults to
	// the base name of the root directory at the CLI boundary.
	RootPackage string
}

// New creates a Runner. reader must not be nil; logger may be.
func New(cfg *config.Config, reader ContentReader, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Runner{cfg: cfg, reader: reader, logger: logger}
}

// Run processes the tree bottom-up and returns the per-directory results.
// Sibling subtrees are processed concurrently; a child's exports are
// promoted into its parent only after the child's own composition is
// complete. Per-directory failures never abort the walk; ctx cancellation
// does.
func (r *Runner) Run(ctx context.Context, root *model.Directory) (Results, error) {
	results := make(Results)
	_, err := r.process(ctx, root, results)
	return results, err
}

// Commit writes every changed, non-skipped result through the writer.
// Nothing is recomputed. One WriteError is returned per failed path.
func Commit(results Results, writer ContentWriter) []error {
	paths := make([]string, 0, len(results))
	for p := range results {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var errs []error
	for _, p := range paths {
		res := results[p]
		if res.Skipped || !res.Changed {
			continue
		}
		if err := writer.WriteManifest(p, res.NewContent); err != nil {
			errs = append(errs, &model.WriteError{Path: p, Err: err})
		}
	}
	return errs
}

// process handles one directory after recursing into its children. It
// returns the directory's emitted exports for promotion into the parent
// (nil when the directory was excluded or produced nothing).
func (r *Runner) process(ctx context.Context, dir *model.Directory, results Results) ([]model.Symbol, error) {
	settings := r.cfg.ForPath(dir.Path)

	if dir.Path != "" && pattern.MatchAnyPath(settings.ExcludedPaths, dir.Path) {
		r.logger.Debug("excluded", "path", dir.Path)
		return nil, nil
	}

	// Children first, concurrently: sibling subtrees share no state, and
	// each writes its results into the shared map under one mutex.
	var mu sync.Mutex
	childExports := make(map[string][]model.Symbol, len(dir.Children))
	g, gctx := errgroup.WithContext(ctx)
	for _, child := range dir.Children {
		child := child
		g.Go(func() error {
			sub := make(Results)
			exports, err := r.process(gctx, child, sub)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for p, res := range sub {
				results[p] = res
			}
			childExports[child.Path] = exports
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, exports := r.processDir(dir, settings, childExports)
	if res == nil {
		return exports, nil
	}
	results[dir.Path] = *res
	return exports, nil
}

// processDir runs the per-directory pipeline. A nil result means the
// directory produced nothing to record (no modules, no promoted exports,
// and no scan errors).
func (r *Runner) processDir(dir *model.Directory, settings config.Settings, childExports map[string][]model.Symbol) (*model.ProcessingResult, []model.Symbol) {
	res := model.ProcessingResult{Path: dir.Path}
	res.Errors = append(res.Errors, dir.Errors...)

	// Per-path overrides can introduce enum values Load never saw; a bad
	// effective configuration must skip this manifest, not empty it.
	if err := settings.Validate(); err != nil {
		return r.skip(&res, dir.Path, err), nil
	}

	modules := append([]model.Module(nil), dir.Modules...)
	if settings.CollectFromSubmodules {
		modules = append(modules, r.promoted(dir, settings, childExports)...)
	}

	if len(modules) == 0 {
		if len(res.Errors) == 0 {
			return nil, nil
		}
		res.Skipped = true
		return &res, nil
	}

	// Blacklist pattern sets are shared by every module in the directory;
	// validate them once here, not per module.
	res.Errors = append(res.Errors, pattern.Check(settings.Blacklist)...)
	if settings.ExportMode == config.CustomExports {
		res.Errors = append(res.Errors, pattern.Check(settings.ExportsBlacklist)...)
	}

	// Collection per module, preserving module identity for ordering.
	collected := make([]model.Module, 0, len(modules))
	for _, mod := range modules {
		syms, errs := collect.Collect(mod, settings.ExportMode, settings.ExportsBlacklist, settings.Blacklist)
		res.Errors = append(res.Errors, errs...)
		if len(syms) == 0 {
			continue
		}
		mod.Symbols = syms
		collected = append(collected, mod)
	}

	linkHeuristicDeps(collected)

	ordered, errs := order.Modules(collected, settings.OrderPolicy, settings.CustomOrder, settings.Dependencies)
	if fatal := configFailure(errs); fatal != nil {
		return r.skip(&res, dir.Path, fatal), nil
	}
	res.Errors = append(res.Errors, errs...)

	var candidates []model.Symbol
	for _, mod := range ordered {
		candidates = append(candidates, mod.Symbols...)
	}

	classified, errs := section.Classify(candidates, settings.EnabledSections())
	res.Errors = append(res.Errors, errs...)

	var (
		sections []compose.SectionContent
		exports  []model.Symbol
	)
	for _, sec := range settings.EnabledSections() {
		syms := classified.BySection[sec.Name]
		if len(syms) == 0 {
			continue
		}
		syms, errs = order.Symbols(syms, settings.OrderPolicy, settings.CustomOrder)
		if fatal := configFailure(errs); fatal != nil {
			return r.skip(&res, dir.Path, fatal), nil
		}
		res.Errors = append(res.Errors, errs...)
		sections = append(sections, compose.SectionContent{Section: sec, Symbols: syms})
		exports = append(exports, syms...)
	}

	unclassified, errs := order.Symbols(classified.Unclassified, settings.OrderPolicy, settings.CustomOrder)
	if fatal := configFailure(errs); fatal != nil {
		return r.skip(&res, dir.Path, fatal), nil
	}
	res.Errors = append(res.Errors, errs...)
	exports = append(exports, unclassified...)

	previous, exists, err := r.reader.ReadManifest(dir.Path)
	if err != nil {
		res.Errors = append(res.Errors, &model.ReadError{Path: dir.Path, Err: err})
		previous, exists = "", false
	}

	content := compose.Compose(compose.Input{
		Package:         r.packageName(dir.Path),
		Path:            dir.Path,
		Settings:        settings,
		Sections:        sections,
		Unclassified:    unclassified,
		ModuleDocstring: dir.Docstring,
	})

	res.PreviousContent = previous
	res.NewContent = content
	res.Changed = compose.Changed(previous, content) || !exists
	return &res, exports
}

// promoted builds synthetic modules from child directories' emitted exports,
// honoring the include_submodules filter and per-child exclusions.
func (r *Runner) promoted(dir *model.Directory, settings config.Settings, childExports map[string][]model.Symbol) []model.Module {
	var mods []model.Module
	for _, child := range dir.Children {
		name := path.Base(child.Path)
		if len(settings.IncludeSubmodules) > 0 && !contains(settings.IncludeSubmodules, name) {
			continue
		}
		exports := childExports[child.Path]
		if len(exports) == 0 {
			continue
		}
		mods = append(mods, model.Module{
			Name:    name,
			Path:    child.Path,
			Symbols: exports,
		})
	}
	return mods
}

// skip marks the directory's manifest as skipped due to a fatal
// configuration error.
func (r *Runner) skip(res *model.ProcessingResult, dirPath string, fatal error) *model.ProcessingResult {
	r.logger.Error("skipping directory", "path", dirPath, "err", fatal)
	res.Errors = append(res.Errors, &model.ConfigError{Path: dirPath, Reason: fatal.Error()})
	res.Skipped = true
	return res
}

func (r *Runner) packageName(dirPath string) string {
	if dirPath == "" {
		if r.RootPackage != "" {
			return r.RootPackage
		}
		return "package"
	}
	return path.Base(dirPath)
}

// linkHeuristicDeps adds module dependencies inferred from symbol
// references: if a symbol in module A references a name declared by module
// B, A depends on B. Declared import dependencies are kept.
func linkHeuristicDeps(mods []model.Module) {
	declaring := make(map[string]string) // symbol name → module name
	for _, mod := range mods {
		for _, sym := range mod.Symbols {
			if _, ok := declaring[sym.Name]; !ok {
				declaring[sym.Name] = mod.Name
			}
		}
	}
	for i := range mods {
		seen := make(map[string]bool, len(mods[i].Dependencies))
		for _, dep := range mods[i].Dependencies {
			seen[dep] = true
		}
		for _, sym := range mods[i].Symbols {
			for _, ref := range sym.References {
				owner, ok := declaring[ref]
				if !ok || owner == mods[i].Name || seen[owner] {
					continue
				}
				seen[owner] = true
				mods[i].Dependencies = append(mods[i].Dependencies, owner)
			}
		}
	}
}

// configFailure extracts a fatal ConfigError from an error list, if any.
func configFailure(errs []error) error {
	for _, err := range errs {
		if errors.Is(err, model.ErrConfig) {
			return err
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
