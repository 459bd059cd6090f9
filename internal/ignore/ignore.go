// Package ignore decides which directories are kept out of the visit history.
//
// Patterns are doublestar globs matched against whole path segments: "*"
// stays inside one segment and "**" spans any number of them. A pattern such
// as "**/node_modules/**" therefore excludes the subtree under every
// node_modules directory, but not a directory that merely has
// "node_modules" somewhere inside its name.
package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter is a compiled set of ignore patterns. The zero value ignores nothing.
type Filter struct {
	patterns []string
}

// New validates patterns and returns a Filter. An invalid pattern is an error
// naming the offending pattern; nothing is silently dropped.
func New(patterns []string) (*Filter, error) {
	f := &Filter{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		norm := normalize(p)
		if !doublestar.ValidatePattern(norm) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
		f.patterns = append(f.patterns, norm)
	}
	return f, nil
}

// MustNew is like New but panics on an invalid pattern. Intended for
// hard-coded pattern lists.
func MustNew(patterns []string) *Filter {
	f, err := New(patterns)
	if err != nil {
		panic(err)
	}
	return f
}

// Match reports whether path is excluded by any pattern.
func (f *Filter) Match(path string) bool {
	if f == nil || len(f.patterns) == 0 {
		return false
	}
	target := normalize(path)
	if target == "" {
		return false
	}
	for _, p := range f.patterns {
		// Patterns were validated in New, so the error is always nil.
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.patterns)
}

// normalize puts paths and patterns in the same space: forward slashes, no
// leading root slash, no trailing slash.
func normalize(s string) string {
	s = filepath.ToSlash(s)
	if vol := filepath.VolumeName(s); vol != "" {
		s = s[len(vol):]
	}
	s = strings.TrimLeft(s, "/")
	s = strings.TrimRight(s, "/")
	return s
}
