package core

import (
	"iter"
	"maps"
	"slices"
	"time"
)

// Status is the settled state of a single work item.
type Status int

const (
	// StatusIndexed means the indexing service accepted the document.
	StatusIndexed Status = iota + 1
	// StatusFailed means the item could not be read, resolved or uploaded.
	StatusFailed
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusIndexed:
		return "indexed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stage names the pipeline step an outcome was produced in.
type Stage string

const (
	StageFilter  Stage = "filter"
	StageResolve Stage = "resolve"
	StageRead    Stage = "read"
	StageUpload  Stage = "upload"
)

// Outcome is the per-item result of trying to index one file.
// Outcomes are transient: they drive progress output and the final report.
type Outcome struct {
	Path     string
	Status   Status
	Stage    Stage // Stage the item settled in
	Err      error // Non-nil only when Status is StatusFailed
	Duration time.Duration
}

// Indexed reports whether the outcome is a success.
func (o Outcome) Indexed() bool {
	return o.Status == StatusIndexed
}

// Indexed builds a successful outcome for path.
func Indexed(path string, dur time.Duration) Outcome {
	return Outcome{Path: path, Status: StatusIndexed, Stage: StageUpload, Duration: dur}
}

// Failed builds a failed outcome for path.
func Failed(path string, stage Stage, err error, dur time.Duration) Outcome {
	return Outcome{Path: path, Status: StatusFailed, Stage: stage, Err: err, Duration: dur}
}

// WorkSet is the deduplicated set of paths that need indexing.
// It is not safe for concurrent mutation; the builder owns it until handoff.
type WorkSet struct {
	paths map[string]struct{}
}

// NewWorkSet creates an empty work set.
func NewWorkSet() *WorkSet {
	return &WorkSet{paths: make(map[string]struct{})}
}

// Add inserts path and reports whether it was not already present.
func (w *WorkSet) Add(path string) bool {
	if _, ok := w.paths[path]; ok {
		return false
	}
	w.paths[path] = struct{}{}
	return true
}

// Contains reports whether path is a member of the set.
func (w *WorkSet) Contains(path string) bool {
	_, ok := w.paths[path]
	return ok
}

// Len returns the number of work items.
func (w *WorkSet) Len() int {
	if w == nil {
		return 0
	}
	return len(w.paths)
}

// All iterates the work items in no particular order.
func (w *WorkSet) All() iter.Seq[string] {
	if w == nil {
		return func(func(string) bool) {}
	}
	return maps.Keys(w.paths)
}

// Paths returns the work items sorted, mostly for logs and tests.
func (w *WorkSet) Paths() []string {
	if w == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(w.paths))
}

// Report summarizes one pipeline run.
type Report struct {
	Matched    int       // Candidates produced by discovery (before dedup)
	Excluded   int       // Distinct files carrying the exclusion marker
	Queued     int       // Size of the work set handed to the uploader
	Indexed    int       // Uploads accepted by the service
	Failed     int       // Items that settled as failed, including filter read errors
	Failures   []Outcome // Every failed outcome, in completion order
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns the wall time of the run.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
