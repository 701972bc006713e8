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


package upload

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/solrblast/core"
	"github.com/poiesic/solrblast/solr"
	"golang.org/x/sync/errgroup"
)

// Scheduler uploads every path in a work set with bounded concurrency.
type Scheduler struct {
	indexer     solr.Indexer
	concurrency int
	monitor     core.Monitor
	logger      *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler) error

// WithConcurrency sets the maximum number of uploads in flight.
// Default is core.DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) error {
		if err := core.ValidateConcurrency(n); err != nil {
			return err
		}
		s.concurrency = n
		return nil
	}
}

// WithMonitor sets the monitor notified around every upload.
func WithMonitor(m core.Monitor) Option {
	return func(s *Scheduler) error {
		if m == nil {
			m = core.NoopMonitor{}
		}
		s.monitor = m
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "upload-scheduler")
		return nil
	}
}

// NewScheduler creates a Scheduler that sends documents to indexer.
func NewScheduler(indexer solr.Indexer, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		indexer:     indexer,
		concurrency: core.DefaultConcurrency,
		monitor:     core.NoopMonitor{},
		logger:      slog.Default().With("component", "upload-scheduler"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Concurrency returns the upload limit.
func (s *Scheduler) Concurrency() int {
	return s.concurrency
}

// UploadAll uploads every path in ws and streams exactly one Outcome per
// path. At most Concurrency uploads run at once. A failed item never stops
// the others. The channel closes once every upload has settled, so a caller
// that drains it knows no request is still outstanding.
//
// When ctx is cancelled, items not yet started settle as failures carrying
// the context error without contacting the indexer.
func (s *Scheduler) UploadAll(ctx context.Context, ws *core.WorkSet) <-chan core.Outcome {
	out := make(chan core.Outcome, s.concurrency)

	go func() {
		defer close(out)

		var g errgroup.Group
		g.SetLimit(s.concurrency)
		for path := range ws.All() {
			g.Go(func() error {
				s.monitor.UploadStarted(path)
				outcome := s.uploadOne(ctx, path)
				s.monitor.UploadFinished(outcome)
				out <- outcome
				return nil
			})
		}
		// Workers never return an error; failures travel as outcomes.
		_ = g.Wait()
	}()

	return out
}

func (s *Scheduler) uploadOne(ctx context.Context, path string) core.Outcome {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return core.Failed(path, core.StageUpload, err, 0)
	}

	abs, err := filepath.Abs(path)
	if err == nil {
		_, err = os.Stat(abs)
	}
	if err != nil {
		return core.Failed(path, core.StageResolve, &core.ResolveError{Path: path, Err: err}, time.Since(start))
	}

	body, err := os.ReadFile(abs)
	if err != nil {
		return core.Failed(abs, core.StageRead, &core.ReadError{Path: abs, Err: err}, time.Since(start))
	}

	if err := s.indexer.Extract(ctx, NewDocument(abs, body)); err != nil {
		return core.Failed(abs, core.StageUpload, err, time.Since(start))
	}

	s.logger.Debug("uploaded", "path", abs, "duration", time.Since(start))
	return core.Indexed(abs, time.Since(start))
}
