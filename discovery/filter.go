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
	"bytes"
	"context"
	"iter"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/solrblast/core"
)

// markerHint is searched for before paying for an HTML parse.
var markerHint = []byte("noindex")

// Verdict is the exclusion decision for one candidate.
type Verdict struct {
	Path     string
	Excluded bool
	Err      error // *core.ReadError when the file could not be read
}

// Filter classifies candidates across a worker pool sized to the CPU count.
// It is independent of the upload concurrency limit.
type Filter struct {
	pool     *ants.Pool
	poolSize int
	logger   *slog.Logger
}

// FilterOption configures a Filter.
type FilterOption func(*Filter) error

// WithPoolSize sets the number of filter workers.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) FilterOption {
	return func(f *Filter) error {
		if size < 1 {
			size = 1
		}
		if f.pool != nil {
			f.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		f.pool = pool
		f.poolSize = size
		return nil
	}
}

// WithFilterLogger sets a custom logger.
// Default is slog.Default().
func WithFilterLogger(logger *slog.Logger) FilterOption {
	return func(f *Filter) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger.With("component", "exclusion-filter")
		return nil
	}
}

// NewFilter creates a Filter backed by an ants pool.
// Call Release when done.
func NewFilter(opts ...FilterOption) (*Filter, error) {
	size := runtime.NumCPU()
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		pool:     pool,
		poolSize: size,
		logger:   slog.Default().With("component", "exclusion-filter"),
	}
	for _, opt := range opts {
		if optErr := opt(f); optErr != nil {
			f.Release()
			return nil, optErr
		}
	}
	return f, nil
}

// Classify runs IsExcluded for every candidate on the worker pool and streams
// one Verdict per candidate. The channel is closed once every submitted job
// has finished. The caller must drain it.
//
// Cancelling ctx stops submitting new candidates; jobs already running finish.
func (f *Filter) Classify(ctx context.Context, candidates iter.Seq[string]) <-chan Verdict {
	out := make(chan Verdict, f.poolSize)

	go func() {
		var wg sync.WaitGroup
		defer func() {
			wg.Wait()
			close(out)
		}()

		for path := range candidates {
			if ctx.Err() != nil {
				f.logger.Warn("filter cancelled", "err", ctx.Err())
				return
			}

			wg.Add(1)
			err := f.pool.Submit(func() {
				defer wg.Done()
				excluded, err := IsExcluded(path)
				out <- Verdict{Path: path, Excluded: excluded, Err: err}
			})
			if err != nil {
				wg.Done()
				out <- Verdict{Path: path, Err: &core.ReadError{Path: path, Err: err}}
			}
		}
	}()

	return out
}

// Release releases the worker pool. The Filter must not be used afterwards.
func (f *Filter) Release() {
	if f.pool != nil {
		f.pool.Release()
	}
}

// IsExcluded reads path in full and reports whether it carries the
// exclusion marker. Returns *core.ReadError when the file cannot be read.
func IsExcluded(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, &core.ReadError{Path: path, Err: err}
	}
	return HasExclusionMarker(content), nil
}

// HasExclusionMarker reports whether content contains a robots meta tag
// whose content list includes "noindex", e.g.
//
//	<meta name="robots" content="noindex, nofollow">
//
// Matching of the tag name, attribute values and token is case-insensitive.
func HasExclusionMarker(content []byte) bool {
	if !bytes.Contains(bytes.ToLower(content), markerHint) {
		return false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return false
	}

	found := false
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "robots") {
			return true
		}
		value, _ := s.Attr("content")
		for _, token := range strings.Split(value, ",") {
			if strings.EqualFold(strings.TrimSpace(token), "noindex") {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
