package core

// Monitor provides hooks to observe a pipeline run.
// Implementations must be safe for concurrent use: upload hooks fire from
// several goroutines at once.
type Monitor interface {
	Matched(path string)
	Excluded(path string)
	UploadStarted(path string)
	UploadFinished(outcome Outcome)
	Committed(err error)
}

// NoopMonitor is a Monitor that ignores every event.
type NoopMonitor struct{}

var _ Monitor = NoopMonitor{}

func (NoopMonitor) Matched(_ string)         {}
func (NoopMonitor) Excluded(_ string)        {}
func (NoopMonitor) UploadStarted(_ string)   {}
func (NoopMonitor) UploadFinished(_ Outcome) {}
func (NoopMonitor) Committed(_ error)        {}
