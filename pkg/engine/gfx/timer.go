// Package gfx provides the small graphics primitives the rendering views
// build on: offscreen frame buffers with redraw scheduling, and wall-clock
// timers for fades and animations.
package gfx

import "time"

// now is replaceable by tests that need deterministic elapsed times.
var now = time.Now

// Timer measures wall-clock time since its last restart.
type Timer struct {
	start time.Time
}

// NewTimer returns a running timer.
func NewTimer() Timer {
	return Timer{start: now()}
}

// Restart resets the timer to zero elapsed time.
func (t *Timer) Restart() {
	t.start = now()
}

// Elapsed returns the seconds elapsed since the last restart.
func (t *Timer) Elapsed() float64 {
	return now().Sub(t.start).Seconds()
}

// ElapsedMillis returns the milliseconds elapsed since the last restart.
func (t *Timer) ElapsedMillis() int64 {
	return now().Sub(t.start).Milliseconds()
}
