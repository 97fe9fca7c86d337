package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPattern is the sentinel error wrapped by PatternError.
	ErrPattern = errors.New("malformed pattern")
	// ErrMissingExport is the sentinel error wrapped by MissingExportError.
	ErrMissingExport = errors.New("missing export")
	// ErrDependencyCycle is the sentinel error wrapped by DependencyCycleError.
	ErrDependencyCycle = errors.New("dependency cycle")
	// ErrRead is the sentinel error wrapped by ReadError.
	ErrRead = errors.New("read failure")
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("parse failure")
	// ErrWrite is the sentinel error wrapped by WriteError.
	ErrWrite = errors.New("write failure")
	// ErrConfig is the sentinel error wrapped by ConfigError.
	ErrConfig = errors.New("invalid configuration")
)

// PatternError records a glob pattern that could not be compiled. Non-fatal:
// the pattern is treated as matching nothing.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("malformed pattern %q treated as non-match", e.Pattern)
}

func (e *PatternError) Unwrap() error { return ErrPattern }

// MissingExportError records an explicit-mode allow-list name with no
// matching declared symbol. Non-fatal: the rest of the list is honored.
type MissingExportError struct {
	Module string
	Name   string
}

func (e *MissingExportError) Error() string {
	return fmt.Sprintf("%s: __all__ names %q but no such symbol is declared", e.Module, e.Name)
}

func (e *MissingExportError) Unwrap() error { return ErrMissingExport }

// DependencyCycleError records a reference cycle that was broken by falling
// back to alphabetical order among its members. Non-fatal.
type DependencyCycleError struct {
	// Nodes are the symbol or module names involved in the cycle.
	Nodes []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("dependency cycle among %s resolved alphabetically", strings.Join(e.Nodes, ", "))
}

func (e *DependencyCycleError) Unwrap() error { return ErrDependencyCycle }

// ReadError records a failure reading a directory's previous manifest
// content. Non-fatal: treated as "no previous content".
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return ErrRead }

// ParseError records a source file the parser could not process. Non-fatal:
// the file contributes no symbols and the directory continues.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// WriteError records a failure committing a directory's manifest content.
// Non-fatal to the overall run.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return ErrWrite }

// ConfigError records contradictory or incomplete effective settings for a
// directory. Fatal at the directory level: that manifest is skipped.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("%s: invalid configuration: %s", e.Path, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }
