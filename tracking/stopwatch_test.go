package tracking

import (
	"testing"
	"time"

	clk "github.com/benbjohnson/clock"
	"go.viam.com/test"
)

func TestStopwatchBeforeStart(t *testing.T) {
	mockClock := clk.NewMock()
	w := NewStopwatch(mockClock)
	test.That(t, w.Elapsed(), test.ShouldEqual, time.Duration(0))
	mockClock.Add(time.Hour)
	test.That(t, w.Elapsed(), test.ShouldEqual, time.Duration(0))
}

func TestStopwatchAccumulates(t *testing.T) {
	mockClock := clk.NewMock()
	w := NewStopwatch(mockClock)

	w.Start()
	mockClock.Add(time.Second)
	test.That(t, w.Elapsed(), test.ShouldEqual, time.Second)
	mockClock.Add(500 * time.Millisecond)
	test.That(t, w.Elapsed(), test.ShouldEqual, 1500*time.Millisecond)

	// stopped intervals do not count
	w.Stop()
	mockClock.Add(time.Minute)
	test.That(t, w.Elapsed(), test.ShouldEqual, 1500*time.Millisecond)

	w.Start()
	mockClock.Add(time.Second)
	test.That(t, w.Elapsed(), test.ShouldEqual, 2500*time.Millisecond)
}

func TestStopwatchReset(t *testing.T) {
	mockClock := clk.NewMock()
	w := NewStopwatch(mockClock)
	w.Start()
	mockClock.Add(time.Second)
	w.Reset()
	test.That(t, w.Elapsed(), test.ShouldEqual, time.Duration(0))
	mockClock.Add(2 * time.Second)
	test.That(t, w.Elapsed(), test.ShouldEqual, 2*time.Second)
}

func TestStopwatchRedundantCalls(t *testing.T) {
	mockClock := clk.NewMock()
	w := NewStopwatch(mockClock)
	w.Start()
	mockClock.Add(time.Second)
	w.Start() // no effect while running
	test.That(t, w.Elapsed(), test.ShouldEqual, time.Second)
	w.Stop()
	w.Stop() // no effect while stopped
	test.That(t, w.Elapsed(), test.ShouldEqual, time.Second)
}

func TestStopwatchMonotonic(t *testing.T) {
	mockClock := clk.NewMock()
	w := NewStopwatch(mockClock)
	w.Start()
	last := w.Elapsed()
	for i := 0; i < 100; i++ {
		mockClock.Add(time.Millisecond)
		e := w.Elapsed()
		test.That(t, e, test.ShouldBeGreaterThanOrEqualTo, last)
		last = e
	}
}
