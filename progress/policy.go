package progress

import (
	"fmt"
	"io"
	"time"
)

// DefaultInterval is the refresh interval of the throttled policy.
const DefaultInterval = time.Second

// Policy decides when a progress line is rendered and how it is written.
// A Reporter is bound to one Policy at construction.
type Policy interface {
	// allow reports whether an update at now may be rendered, given the time
	// of the previous render (zero before the first).
	allow(now, last time.Time) bool
	render(w io.Writer, line string)
	done(w io.Writer)
}

type everyOutcome struct{}

// EveryOutcome renders on every success, rewriting one terminal line.
func EveryOutcome() Policy {
	return everyOutcome{}
}

func (everyOutcome) allow(_, _ time.Time) bool { return true }

func (everyOutcome) render(w io.Writer, line string) {
	fmt.Fprintf(w, "\r%s", line)
}

func (everyOutcome) done(w io.Writer) {
	fmt.Fprintln(w)
}

type throttled struct {
	interval time.Duration
}

// Throttled renders at most once per interval, one line per render, for
// non-interactive output such as CI logs. A non-positive interval uses
// DefaultInterval.
func Throttled(interval time.Duration) Policy {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return throttled{interval: interval}
}

func (t throttled) allow(now, last time.Time) bool {
	return last.IsZero() || now.Sub(last) >= t.interval
}

func (throttled) render(w io.Writer, line string) {
	fmt.Fprintln(w, line)
}

func (throttled) done(io.Writer) {}
