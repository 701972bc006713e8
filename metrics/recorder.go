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


// Package metrics exposes pipeline run counters as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/poiesic/solrblast/core"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "solrblast"

// Recorder is a core.Monitor backed by its own Prometheus registry, so
// several runs in one process never share counters.
type Recorder struct {
	registry *prometheus.Registry

	matched        prometheus.Counter
	excluded       prometheus.Counter
	uploads        *prometheus.CounterVec
	inFlight       prometheus.Gauge
	uploadDuration prometheus.Histogram
	commits        *prometheus.CounterVec
}

var _ core.Monitor = (*Recorder)(nil)

// NewRecorder creates a Recorder with every metric registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		matched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_matched_total",
			Help:      "Candidate files produced by pattern expansion",
		}),
		excluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_excluded_total",
			Help:      "Candidates dropped for carrying a robots noindex marker",
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Settled uploads by outcome",
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uploads_in_flight",
			Help:      "Uploads currently outstanding",
		}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Time to settle one upload",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15}, // up to the request timeout
		}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_total",
			Help:      "Commit requests by outcome",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		r.matched,
		r.excluded,
		r.uploads,
		r.inFlight,
		r.uploadDuration,
		r.commits,
	)
	return r
}

// Matched implements core.Monitor.
func (r *Recorder) Matched(string) {
	r.matched.Inc()
}

// Excluded implements core.Monitor.
func (r *Recorder) Excluded(string) {
	r.excluded.Inc()
}

// UploadStarted implements core.Monitor.
func (r *Recorder) UploadStarted(string) {
	r.inFlight.Inc()
}

// UploadFinished implements core.Monitor.
func (r *Recorder) UploadFinished(o core.Outcome) {
	r.inFlight.Dec()
	r.uploads.WithLabelValues(o.Status.String()).Inc()
	r.uploadDuration.Observe(o.Duration.Seconds())
}

// Committed implements core.Monitor.
func (r *Recorder) Committed(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.commits.WithLabelValues(outcome).Inc()
}

// Gatherer returns the registry for exposition or testing.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric in the text exposition format to path,
// for pickup by the node_exporter textfile collector. The write is atomic.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

