// Package filter selects which unchanged files of a snapshot are shown in a
// commit tree.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/samber/lo"

	"github.com/hayeah/ghrepo/pathkey"
)

// ErrIncludeExclude is returned when both include and exclude prefixes are given.
var ErrIncludeExclude = errors.New("include and exclude paths are mutually exclusive")

// Options configures a Filter. Empty options keep every file.
type Options struct {
	FileTypes []string // allowed extensions, without the dot
	Include   []string // keep only files under these directories
	Exclude   []string // drop files under these directories
	Globs     []string // keep only files matching one of these doublestar globs
	Ignore    []string // drop files matching these gitignore patterns
	IgnoreDir string   // read further ignore patterns from .gitignore files below this directory
}

// Filter decides whether a path is kept.
type Filter struct {
	fileTypes []string
	include   []pathkey.Key
	exclude   []pathkey.Key
	globs     []string
	ignore    gitignore.Matcher
}

// New validates opts and builds a Filter.
func New(opts Options) (*Filter, error) {
	if len(opts.Include) > 0 && len(opts.Exclude) > 0 {
		return nil, ErrIncludeExclude
	}

	for _, g := range opts.Globs {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid glob %q", g)
		}
	}

	f := &Filter{
		fileTypes: lo.Map(opts.FileTypes, func(ft string, _ int) string {
			return strings.TrimPrefix(ft, ".")
		}),
		include: lo.Map(opts.Include, func(p string, _ int) pathkey.Key { return pathkey.Split(p) }),
		exclude: lo.Map(opts.Exclude, func(p string, _ int) pathkey.Key { return pathkey.Split(p) }),
		globs:   opts.Globs,
	}

	var patterns []gitignore.Pattern
	if opts.IgnoreDir != "" {
		read, err := gitignore.ReadPatterns(osfs.New(opts.IgnoreDir), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
		}
		patterns = append(patterns, read...)
	}
	for _, p := range opts.Ignore {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	if len(patterns) > 0 {
		f.ignore = gitignore.NewMatcher(patterns)
	}

	return f, nil
}

// Match reports whether the file at key is kept.
func (f *Filter) Match(key pathkey.Key) bool {
	if len(f.fileTypes) > 0 && !lo.Contains(f.fileTypes, key.FileType()) {
		return false
	}
	if len(f.include) > 0 && !lo.ContainsBy(f.include, func(p pathkey.Key) bool { return pathkey.IsUnder(key, p) }) {
		return false
	}
	if lo.ContainsBy(f.exclude, func(p pathkey.Key) bool { return pathkey.IsUnder(key, p) }) {
		return false
	}
	if len(f.globs) > 0 && !f.matchGlob(key.String()) {
		return false
	}
	if f.ignore != nil && f.ignore.Match(key, false) {
		return false
	}
	return true
}

func (f *Filter) matchGlob(path string) bool {
	for _, g := range f.globs {
		// patterns were validated in New
		if ok, _ := doublestar.Match(g, path); ok {
			return true
		}
	}
	return false
}
