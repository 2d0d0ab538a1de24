package utils

import "time"

// Timer captures how long a single operation took, feeding latency
// histograms and span attributes. Obtain one with [NewTimer]; the zero value
// has no anchor instant and reports meaningless durations.
type Timer struct {
	start   time.Time
	stopped bool
	elapsed time.Duration
}

// NewTimer returns a running Timer anchored at the current instant.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop freezes the measurement and returns the captured duration. Stopping a
// timer that is already stopped returns the first captured value unchanged.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.elapsed = time.Since(t.start)
		t.stopped = true
	}
	return t.elapsed
}

// Elapsed reports the captured duration once the timer is stopped, or the
// running time since the anchor while it is still live.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped {
		return t.elapsed
	}
	return time.Since(t.start)
}

// Restart discards any captured measurement and re-anchors the timer at the
// current instant.
func (t *Timer) Restart() {
	t.start = time.Now()
	t.stopped = false
	t.elapsed = 0
}
