// Package whitelist exempts selector tokens from deletion using glob patterns.
package whitelist

import (
	"fmt"

	"bennypowers.dev/emailprune/internal/collections"
	"github.com/bmatcuk/doublestar/v4"
)

// Validate checks that every pattern is a well-formed glob.
func Validate(patterns []string) error {
	for i, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("pattern %d (%q): %w", i, p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// Match reports whether token matches any of the patterns, e.g. "#keep-me"
// matches "#keep-*". Malformed patterns never match.
func Match(token string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, token); err == nil && ok {
			return true
		}
	}
	return false
}

// Exclude returns the members of set that match none of the patterns.
// The input set is left untouched.
func Exclude(set collections.Set[string], patterns []string) collections.Set[string] {
	out := collections.NewSet[string]()
	for token := range set {
		if !Match(token, patterns) {
			out.Add(token)
		}
	}
	return out
}
