// Package pipeline wires discovery, upload, progress and commit into one run.
//
// A run proceeds in order:
//   - every source pattern is validated; a malformed one fails the run before
//     any file is touched
//   - candidates are classified on the exclusion filter's worker pool and
//     merged into a work set
//   - the work set is uploaded with bounded concurrency while the progress
//     reporter consumes outcomes
//   - once every upload has settled, exactly one commit is sent
//
// Per-file failures are logged and reported in core.Report. Only pattern
// errors and a failed commit make Run return an error.
package pipeline
