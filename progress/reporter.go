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


package progress

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/solrblast/core"
)

// Reporter renders upload progress.
//
// Only successes advance the visible counter. Failures are logged at error
// level and kept for the final report, so a run with failures never shows
// total/total.
type Reporter struct {
	writer     io.Writer
	total      int
	indexed    int
	failures   []core.Outcome
	policy     Policy
	now        func() time.Time
	startTime  time.Time
	lastRender time.Time
	started    bool
	logger     *slog.Logger
	mu         sync.Mutex
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the logger failures are reported to.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "progress")
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReporter creates a reporter for total work items.
// writer: where to write progress output (typically os.Stderr)
// policy: EveryOutcome() for terminals, Throttled(interval) for CI
func NewReporter(writer io.Writer, total int, policy Policy, opts ...Option) *Reporter {
	if writer == nil {
		writer = io.Discard
	}
	if policy == nil {
		policy = EveryOutcome()
	}
	r := &Reporter{
		writer: writer,
		total:  total,
		policy: policy,
		now:    time.Now,
		logger: slog.Default().With("component", "progress"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins tracking progress.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.startTime = r.now()
	r.lastRender = time.Time{}
	r.started = true
	r.indexed = 0
	r.failures = nil
}

// Observe records one settled work item. Safe for concurrent use.
func (r *Reporter) Observe(o core.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return
	}

	if !o.Indexed() {
		r.failures = append(r.failures, o)
		r.logger.Error("failed to index", "path", o.Path, "stage", o.Stage, "err", o.Err)
		return
	}

	if r.indexed < r.total {
		r.indexed++
	}
	now := r.now()
	if r.policy.allow(now, r.lastRender) {
		r.render(now)
		r.lastRender = now
	}
}

// Consume observes every outcome on ch until it is closed and returns the
// failures seen.
func (r *Reporter) Consume(ch <-chan core.Outcome) []core.Outcome {
	for o := range ch {
		r.Observe(o)
	}
	return r.Failures()
}

// Finish renders the final count.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return
	}

	r.render(r.now())
	r.policy.done(r.writer)
}

// Indexed returns the number of successes observed.
func (r *Reporter) Indexed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexed
}

// Failures returns a copy of the failed outcomes observed.
func (r *Reporter) Failures() []core.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Outcome, len(r.failures))
	copy(out, r.failures)
	return out
}

// Elapsed returns the time elapsed since Start was called.
func (r *Reporter) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return 0
	}
	return r.now().Sub(r.startTime)
}

// render writes the current line. Must be called with lock held.
func (r *Reporter) render(now time.Time) {
	elapsed := now.Sub(r.startTime)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(r.indexed) / elapsed.Seconds()
	}

	percentage := 0.0
	if r.total > 0 {
		percentage = float64(r.indexed) / float64(r.total) * 100.0
	}

	line := fmt.Sprintf("Progress: %d/%d (%.1f%%) - %.1f files/s", r.indexed, r.total, percentage, rate)
	if n := len(r.failures); n > 0 {
		line += fmt.Sprintf(", %d failed", n)
	}
	r.policy.render(r.writer, line)
}
