// Package pattern evaluates glob patterns against symbol names and
// slash-separated relative paths.
//
// Supported syntax is doublestar's: `*` matches within a path segment, `**`
// crosses separators, `?` matches one character, and `[seq]` / `[!seq]` are
// character classes. A malformed pattern never matches; Check reports such
// patterns so callers can surface them.
package pattern

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"pkginit/internal/model"
)

// MatchName reports whether a symbol name matches the glob pattern.
// Malformed patterns are treated as non-matches. Safe for concurrent use.
func MatchName(pat, name string) bool {
	ok, err := doublestar.Match(pat, name)
	return err == nil && ok
}

// MatchPath reports whether a slash-separated relative path matches the glob
// pattern. Backslashes in the candidate are normalized to forward slashes.
func MatchPath(pat, path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")
	ok, err := doublestar.Match(pat, normalized)
	return err == nil && ok
}

// MatchAnyName reports whether name matches at least one of the patterns
// (OR semantics).
func MatchAnyName(patterns []string, name string) bool {
	for _, pat := range patterns {
		if MatchName(pat, name) {
			return true
		}
	}
	return false
}

// MatchAnyPath reports whether path matches at least one of the patterns.
func MatchAnyPath(patterns []string, path string) bool {
	for _, pat := range patterns {
		if MatchPath(pat, path) {
			return true
		}
	}
	return false
}

// Check returns a PatternError for every pattern that does not compile.
// Matching functions already treat these as non-matches; Check lets callers
// report them instead of dropping them silently.
func Check(patterns []string) []error {
	var errs []error
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, &model.PatternError{Pattern: pat})
		}
	}
	return errs
}
