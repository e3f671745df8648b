package gfx

import (
	"image"
	"testing"
	"time"
)

// fakeClock pins the package clock and returns a function to advance it.
func fakeClock(t *testing.T) func(d time.Duration) {
	t.Helper()
	current := time.Unix(1700000000, 0)
	now = func() time.Time { return current }
	t.Cleanup(func() { now = time.Now })
	return func(d time.Duration) { current = current.Add(d) }
}

func TestFrameBufferSchedule(t *testing.T) {
	advance := fakeClock(t)
	f := NewFrameBuffer()

	if f.CanUpdate() {
		t.Fatal("fresh buffer updatable without a schedule")
	}

	f.AddRenderingTime(10 * time.Millisecond)
	if f.CanUpdate() {
		t.Error("buffer updatable before its deadline")
	}

	advance(10 * time.Millisecond)
	if !f.CanUpdate() {
		t.Error("buffer not updatable at its deadline")
	}

	f.Rendered()
	if f.CanUpdate() {
		t.Error("buffer still updatable after Rendered")
	}
}

func TestFrameBufferEarliestDeadlineWins(t *testing.T) {
	advance := fakeClock(t)
	f := NewFrameBuffer()

	f.AddRenderingTime(50 * time.Millisecond)
	f.AddRenderingTime(5 * time.Millisecond)

	advance(5 * time.Millisecond)
	if !f.CanUpdate() {
		t.Error("later request did not pull the deadline forward")
	}
}

func TestFrameBufferRemoveRenderingTime(t *testing.T) {
	advance := fakeClock(t)
	f := NewFrameBuffer()

	f.AddRenderingTime(5 * time.Millisecond)
	f.RemoveRenderingTime(5 * time.Millisecond)
	advance(10 * time.Millisecond)
	if f.CanUpdate() {
		t.Error("buffer updatable after its budget was withdrawn")
	}

	// the budget never goes negative
	f.RemoveRenderingTime(time.Hour)
	f.AddRenderingTime(5 * time.Millisecond)
	advance(5 * time.Millisecond)
	if !f.CanUpdate() {
		t.Error("over-withdrawal broke later scheduling")
	}
}

func TestFrameBufferZeroDelaySchedule(t *testing.T) {
	fakeClock(t)
	f := NewFrameBuffer()

	f.AddRenderingTime(0)
	if !f.CanUpdate() {
		t.Error("zero-delay schedule did not make the buffer updatable")
	}

	f.Rendered()
	if f.CanUpdate() {
		t.Error("zero-delay schedule survived Rendered")
	}
}

func TestFrameBufferForcedUpdate(t *testing.T) {
	fakeClock(t)
	f := NewFrameBuffer()

	f.Update()
	if !f.CanUpdate() {
		t.Error("forced buffer not immediately updatable")
	}
	f.Rendered()
	if f.CanUpdate() {
		t.Error("forced flag survived Rendered")
	}
}

func TestFrameBufferResize(t *testing.T) {
	f := NewFrameBuffer()

	f.Resize(image.Pt(64, 48))
	if got := f.Size(); got != image.Pt(64, 48) {
		t.Errorf("size = %v, want (64,48)", got)
	}

	// resizing to the same size is a no-op
	f.Resize(image.Pt(64, 48))
	if got := f.Size(); got != image.Pt(64, 48) {
		t.Errorf("size after no-op resize = %v, want (64,48)", got)
	}
}

func TestTimerElapsed(t *testing.T) {
	advance := fakeClock(t)

	timer := NewTimer()
	advance(1500 * time.Millisecond)

	if got := timer.Elapsed(); got != 1.5 {
		t.Errorf("Elapsed() = %v, want 1.5", got)
	}
	if got := timer.ElapsedMillis(); got != 1500 {
		t.Errorf("ElapsedMillis() = %v, want 1500", got)
	}

	timer.Restart()
	if got := timer.Elapsed(); got != 0 {
		t.Errorf("Elapsed() after restart = %v, want 0", got)
	}
}
