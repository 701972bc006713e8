// Package upload sends work set entries to the indexing service.
//
// The Scheduler runs uploads on an errgroup with a concurrency limit and
// reports one core.Outcome per path on a channel. Per-item failures
// (resolve, read, transport, non-2xx) are outcomes, never errors that stop
// the batch.
package upload
