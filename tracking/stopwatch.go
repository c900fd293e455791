// Package tracking drives a trajectory from start to finish: it owns the
// elapsed-time clock and the session state machine a host control loop ticks
// once per control period. Pose estimation and actuation stay outside,
// supplied as function capabilities.
package tracking

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Stopwatch accumulates elapsed time between Start and Stop calls against an
// injectable clock, so trajectory timing is testable without real sleeps.
// The zero duration is reported until the first Start.
type Stopwatch struct {
	clock       clock.Clock
	running     bool
	startedAt   time.Time
	accumulated time.Duration
}

// NewStopwatch returns a stopped, zeroed stopwatch. A nil clock means the
// wall clock.
func NewStopwatch(c clock.Clock) *Stopwatch {
	if c == nil {
		c = clock.New()
	}
	return &Stopwatch{clock: c}
}

// Reset zeroes the accumulated time. A running stopwatch keeps running,
// restarting its accumulation from now.
func (w *Stopwatch) Reset() {
	w.accumulated = 0
	w.startedAt = w.clock.Now()
}

// Start begins accumulating. Starting a running stopwatch has no effect.
func (w *Stopwatch) Start() {
	if w.running {
		return
	}
	w.startedAt = w.clock.Now()
	w.running = true
}

// Stop freezes accumulation. Stopping a stopped stopwatch has no effect.
func (w *Stopwatch) Stop() {
	if !w.running {
		return
	}
	w.accumulated += w.clock.Since(w.startedAt)
	w.running = false
}

// Elapsed returns the time accumulated while running, monotonically
// non-decreasing between Reset calls.
func (w *Stopwatch) Elapsed() time.Duration {
	if !w.running {
		return w.accumulated
	}
	return w.accumulated + w.clock.Since(w.startedAt)
}
