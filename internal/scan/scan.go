// Package scan walks a source tree and builds the directory/module model
// the generator consumes. It is the traversal collaborator: downstream
// components only ever see the structured symbol records it produces.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"pkginit/internal/lang"
	"pkginit/internal/model"
	"pkginit/internal/parse"
)

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	"env":           {},
	".env":          {},
	"build":         {},
	"dist":          {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
	"egg-info":      {},
}

// Scanner discovers package directories under a root and extracts each
// module's declared surface.
type Scanner struct {
	root         string
	manifestName string
	logger       *log.Logger
}

// New creates a Scanner rooted at root. manifestName is the generated file
// (its own symbols are never collected; only its docstring is kept).
func New(root, manifestName string, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Scanner{root: root, manifestName: manifestName, logger: logger}
}

// Scan walks the tree and returns the root Directory. Unparseable files are
// recorded on their directory and skipped; only a failed walk aborts the
// scan.
func (s *Scanner) Scan(ctx context.Context) (*model.Directory, error) {
	files, err := s.discover()
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}

	dirs := make(map[string]*model.Directory)
	dir := func(rel string) *model.Directory {
		if d, ok := dirs[rel]; ok {
			return d
		}
		d := &model.Directory{Path: rel}
		dirs[rel] = d
		return d
	}
	dir("") // the root always exists

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			l := lang.Languages[lang.ForExtension(filepath.Ext(rel))]
			query, err := l.GetTagQuery()
			if err != nil {
				return fmt.Errorf("compiling %s query: %w", l.Name, err)
			}

			relDir := parentDir(rel)
			source, err := os.ReadFile(filepath.Join(s.root, rel))
			if err != nil {
				s.logger.Warn("skipping unreadable file", "path", rel, "err", err)
				mu.Lock()
				d := dir(relDir)
				d.Errors = append(d.Errors, &model.ReadError{Path: rel, Err: err})
				mu.Unlock()
				return nil
			}

			parser := l.NewParser()
			mod, err := parse.Extract(l, parser, query, source, filepath.ToSlash(rel))
			if err != nil {
				s.logger.Warn("skipping unparseable file", "path", rel, "err", err)
				mu.Lock()
				d := dir(relDir)
				d.Errors = append(d.Errors, &model.ParseError{Path: rel, Err: err})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			d := dir(relDir)
			if filepath.Base(rel) == s.manifestName {
				// The generated file is never a source of symbols, but its
				// docstring seeds the directory docstring.
				d.Docstring = mod.Docstring
			} else {
				d.Modules = append(d.Modules, mod)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(dirs), nil
}

// discover returns repo-relative paths of parseable source files, honoring
// the skip-dir set, hidden entries, and a root .gitignore.
func (s *Scanner) discover() ([]string, error) {
	gi := loadGitignore(s.root)

	var results []string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		name := d.Name()
		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if lang.ForExtension(filepath.Ext(name)) == "" {
			return nil
		}

		results = append(results, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}

// assemble links the flat directory map into a tree rooted at "", creating
// intermediate directories that held no sources of their own. Children and
// modules are sorted for deterministic processing.
func assemble(dirs map[string]*model.Directory) *model.Directory {
	if _, ok := dirs[""]; !ok {
		dirs[""] = &model.Directory{}
	}

	linked := make(map[string]bool, len(dirs))
	var link func(rel string)
	link = func(rel string) {
		if rel == "" || linked[rel] {
			return
		}
		parent := parentDir(rel)
		if _, ok := dirs[parent]; !ok {
			dirs[parent] = &model.Directory{Path: parent}
		}
		link(parent)
		dirs[parent].Children = append(dirs[parent].Children, dirs[rel])
		linked[rel] = true
	}

	order := make([]string, 0, len(dirs))
	for p := range dirs {
		order = append(order, p)
	}
	sort.Strings(order)
	for _, p := range order {
		link(p)
	}

	for _, d := range dirs {
		sort.Slice(d.Children, func(i, j int) bool { return d.Children[i].Path < d.Children[j].Path })
		sort.Slice(d.Modules, func(i, j int) bool { return d.Modules[i].Path < d.Modules[j].Path })
	}
	return dirs[""]
}

func parentDir(rel string) string {
	parent := filepath.ToSlash(filepath.Dir(rel))
	if parent == "." {
		return ""
	}
	return parent
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
