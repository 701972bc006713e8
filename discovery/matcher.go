// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package discovery

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/poiesic/solrblast/core"
)

// Matcher expands source patterns into candidate file paths.
type Matcher struct {
	filetypes map[string]struct{} // empty means accept every extension
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithFiletypes restricts pattern matches to the given extensions
// (lower-case, without the leading dot). An empty list accepts everything.
func WithFiletypes(exts []string) MatcherOption {
	return func(m *Matcher) {
		m.filetypes = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			m.filetypes[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
		}
	}
}

// NewMatcher creates a Matcher.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{filetypes: map[string]struct{}{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Expand validates pattern and returns a lazy sequence of candidate paths
// under root.
//
// Rules:
//   - a malformed or empty pattern fails with *core.PatternError before any
//     filesystem access
//   - the static prefix of the pattern is the walk base; a relative base is
//     resolved against root
//   - a pattern without wildcards naming a directory expands to dir/**; naming
//     a file yields that file regardless of the filetypes list
//   - only regular files (or symlinks to them) are yielded
//   - per-entry filesystem errors are yielded as *core.FsScanError and the
//     entry is skipped; the walk continues
//
// The sequence walks the filesystem once; ranging over it a second time
// yields nothing.
func (m *Matcher) Expand(pattern, root string) (iter.Seq2[string, error], error) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return nil, &core.PatternError{Pattern: pattern, Err: core.ErrEmptyPattern}
	}
	slashed := filepath.ToSlash(trimmed)
	if !doublestar.ValidatePattern(slashed) {
		return nil, &core.PatternError{Pattern: pattern, Err: doublestar.ErrBadPattern}
	}
	if root == "" {
		root = "."
	}

	var used atomic.Bool
	return func(yield func(string, error) bool) {
		if used.Swap(true) {
			return
		}
		if !hasMeta(slashed) {
			m.expandLiteral(slashed, root, yield)
			return
		}
		base, rest := doublestar.SplitPattern(slashed)
		m.walk(m.resolve(base, root), rest, yield)
	}, nil
}

// expandLiteral handles a source without wildcards: a file or a directory.
func (m *Matcher) expandLiteral(slashed, root string, yield func(string, error) bool) {
	path := m.resolve(slashed, root)
	info, err := os.Stat(path)
	if err != nil {
		yield("", &core.FsScanError{Path: path, Err: err})
		return
	}
	if info.IsDir() {
		m.walk(path, "**", yield)
		return
	}
	if info.Mode().IsRegular() {
		yield(path, nil)
	}
}

func (m *Matcher) walk(base, pattern string, yield func(string, error) bool) {
	// The callback never returns an error other than SkipAll, so WalkDir's
	// own result carries no information.
	_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if !yield("", &core.FsScanError{Path: path, Err: walkErr}) {
				return fs.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); !ok {
			return nil
		}

		if !d.Type().IsRegular() {
			// Follow symlinks; a dangling link is an entry error.
			info, statErr := os.Stat(path)
			if statErr != nil {
				if !yield("", &core.FsScanError{Path: path, Err: statErr}) {
					return fs.SkipAll
				}
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		}

		if !m.accepts(path) {
			return nil
		}
		if !yield(path, nil) {
			return fs.SkipAll
		}
		return nil
	})
}

func (m *Matcher) resolve(base, root string) string {
	p := filepath.FromSlash(base)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func (m *Matcher) accepts(path string) bool {
	if len(m.filetypes) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, ok := m.filetypes[ext]
	return ok
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
