// Package model defines core data structures for pkginit.
package model

// SymbolKind indicates the syntactic kind of a declared symbol.
type SymbolKind string

const (
	Class    SymbolKind = "class"
	Function SymbolKind = "function"
	Constant SymbolKind = "constant"
	Type     SymbolKind = "type"
	Other    SymbolKind = "other"
)

// Symbol is a single exportable entity declared by a module. Identity is
// (Module, Name); instances are immutable once collected for a run.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Module string // declaring module path, relative to the tree root

	// References holds names of sibling symbols this symbol's definition
	// mentions. Best-effort, extracted statically; drives dependency-first
	// ordering only.
	References []string
}

// Module is one source file's declared public surface.
type Module struct {
	// Name is the module's import name within its directory (file stem).
	Name string
	// Path is the source file path relative to the tree root.
	Path string
	// Symbols are the declared entities in declaration order.
	Symbols []Symbol
	// Allowlist is the module's authoritative export list (__all__), if any.
	// Drives the explicit export mode.
	Allowlist []string
	// Docstring is the module's own docstring, if one was found.
	Docstring string
	// Dependencies names other local modules this module imports.
	Dependencies []string
}

// Directory is one node of the scanned tree: a package directory with its
// modules and child directories. The child relationship is a tree, not a DAG.
type Directory struct {
	// Path is the directory path relative to the tree root; "" for the root.
	Path     string
	Modules  []Module
	Children []*Directory

	// Docstring is the directory's own package docstring, taken from its
	// existing manifest file when one was scanned.
	Docstring string

	// Errors holds non-fatal problems encountered while scanning this
	// directory (unreadable or unparseable sources). They are merged into
	// the directory's ProcessingResult.
	Errors []error
}

// ProcessingResult records the outcome of generating one directory's manifest.
type ProcessingResult struct {
	Path            string
	PreviousContent string
	NewContent      string
	Changed         bool
	// Skipped is set when a fatal directory-level error (ConfigError)
	// prevented composing a manifest. Errors still records the cause.
	Skipped bool
	Errors  []error
}
