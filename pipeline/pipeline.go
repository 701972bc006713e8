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


package pipeline

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/solrblast/core"
	"github.com/poiesic/solrblast/discovery"
	"github.com/poiesic/solrblast/progress"
	"github.com/poiesic/solrblast/solr"
	"github.com/poiesic/solrblast/upload"
)

// Pipeline runs discovery, upload and commit against one indexer.
// A Pipeline may be run several times; each run re-reads every file.
type Pipeline struct {
	indexer     solr.Indexer
	matcher     *discovery.Matcher
	filter      *discovery.Filter
	scheduler   *upload.Scheduler
	root        string
	filetypes   []string
	concurrency int
	poolSize    int // 0 means one filter worker per CPU
	progressOut io.Writer
	policy      progress.Policy
	monitor     core.Monitor
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithConcurrency sets the maximum number of uploads in flight.
// Default is core.DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) error {
		if err := core.ValidateConcurrency(n); err != nil {
			return err
		}
		p.concurrency = n
		return nil
	}
}

// WithFiletypes restricts pattern matches to the given extensions.
// Default is core.DefaultFiletypes. An empty list accepts every file.
func WithFiletypes(exts []string) Option {
	return func(p *Pipeline) error {
		p.filetypes = exts
		return nil
	}
}

// WithPoolSize sets the number of exclusion filter workers.
// Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		p.poolSize = size
		return nil
	}
}

// WithRoot sets the directory relative patterns are resolved against.
// Default is the working directory.
func WithRoot(root string) Option {
	return func(p *Pipeline) error {
		p.root = root
		return nil
	}
}

// WithProgress sets where progress is rendered and how often.
// Default is no progress output.
func WithProgress(w io.Writer, policy progress.Policy) Option {
	return func(p *Pipeline) error {
		if w == nil {
			w = io.Discard
		}
		p.progressOut = w
		p.policy = policy
		return nil
	}
}

// WithMonitor sets a monitor notified of every pipeline event.
func WithMonitor(m core.Monitor) Option {
	return func(p *Pipeline) error {
		if m == nil {
			m = core.NoopMonitor{}
		}
		p.monitor = m
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a pipeline that indexes into indexer.
// Call Release when done to free the filter workers.
func New(indexer solr.Indexer, opts ...Option) (*Pipeline, error) {
	if indexer == nil {
		return nil, ErrIndexerRequired
	}

	p := &Pipeline{
		indexer:     indexer,
		root:        ".",
		filetypes:   strings.Split(core.DefaultFiletypes, ","),
		concurrency: core.DefaultConcurrency,
		progressOut: io.Discard,
		policy:      progress.EveryOutcome(),
		monitor:     core.NoopMonitor{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	// Build stages after options are applied so they get final config
	p.matcher = discovery.NewMatcher(discovery.WithFiletypes(p.filetypes))

	filterOpts := []discovery.FilterOption{discovery.WithFilterLogger(p.logger)}
	if p.poolSize > 0 {
		filterOpts = append(filterOpts, discovery.WithPoolSize(p.poolSize))
	}
	filter, err := discovery.NewFilter(filterOpts...)
	if err != nil {
		return nil, err
	}
	p.filter = filter

	scheduler, err := upload.NewScheduler(indexer,
		upload.WithConcurrency(p.concurrency),
		upload.WithMonitor(p.monitor),
		upload.WithLogger(p.logger),
	)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.scheduler = scheduler

	p.logger = p.logger.With("component", "pipeline")
	return p, nil
}

// Run indexes every file matched by sources and commits once.
//
// All patterns are validated before discovery starts; a malformed one is
// returned as *core.PatternError. Per-file failures never fail the run: they
// are logged and listed in the report. After the last upload settles the
// commit is sent exactly once, even if every upload failed or ctx was
// cancelled. A failed commit is returned as *core.CommitError alongside the
// report.
func (p *Pipeline) Run(ctx context.Context, sources ...string) (core.Report, error) {
	report := core.Report{StartedAt: time.Now()}
	if len(sources) == 0 {
		return report, ErrNoSources
	}

	expansions := make([]iter.Seq2[string, error], 0, len(sources))
	for _, src := range sources {
		seq, err := p.matcher.Expand(src, p.root)
		if err != nil {
			return report, err
		}
		expansions = append(expansions, seq)
	}

	// Written only by the filter's submitting goroutine; read after the
	// verdict channel is closed.
	matched := 0
	candidates := func(yield func(string) bool) {
		for _, seq := range expansions {
			for path, err := range seq {
				if err != nil {
					p.logger.Warn("skipping entry", "err", err)
					continue
				}
				matched++
				p.monitor.Matched(path)
				if !yield(path) {
					return
				}
			}
		}
	}

	built := discovery.BuildWorkSet(p.filter.Classify(ctx, candidates))
	report.Matched = matched
	report.Excluded = len(built.Excluded)
	report.Queued = built.WorkSet.Len()
	for _, path := range built.Excluded {
		p.monitor.Excluded(path)
		p.logger.Debug("excluded", "path", path)
	}
	for _, o := range built.Failures {
		p.logger.Error("failed to read candidate", "path", o.Path, "err", o.Err)
	}
	p.logger.Info("work set built",
		"matched", report.Matched, "excluded", report.Excluded, "to_index", report.Queued)

	reporter := progress.NewReporter(p.progressOut, report.Queued, p.policy,
		progress.WithLogger(p.logger))
	reporter.Start()
	uploadFailures := reporter.Consume(p.scheduler.UploadAll(ctx, built.WorkSet))
	reporter.Finish()

	report.Indexed = reporter.Indexed()
	report.Failures = append(built.Failures, uploadFailures...)
	report.Failed = len(report.Failures)

	err := p.commit(ctx)
	report.FinishedAt = time.Now()
	return report, err
}

// commit runs after the outcome stream is drained, so no upload is in flight.
func (p *Pipeline) commit(ctx context.Context) error {
	// Uploads that made it through should become visible even on shutdown.
	err := p.indexer.Commit(context.WithoutCancel(ctx))
	p.monitor.Committed(err)
	if err != nil {
		p.logger.Error("commit failed", "err", err)
		return &core.CommitError{Err: err}
	}
	p.logger.Info("committed")
	return nil
}

// Release frees the filter workers. The Pipeline must not be used afterwards.
func (p *Pipeline) Release() {
	if p.filter != nil {
		p.filter.Release()
	}
}

