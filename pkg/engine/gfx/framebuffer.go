package gfx

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// FrameBuffer is an offscreen render target with a redraw schedule. Entities
// that changed request a redraw with AddRenderingTime, giving a minimum delay
// before the buffer is re-rendered; requests coalesce into a single pending
// budget. Consumers ask CanUpdate before rebuilding and call Rendered once
// the rebuild was consumed.
//
// The backing image is allocated lazily on first use, so buffers can be
// resized and scheduled before a graphics context exists.
type FrameBuffer struct {
	img  *ebiten.Image
	size image.Point

	pending  time.Duration
	deadline time.Time
	forced   bool
}

// NewFrameBuffer returns an empty, unscheduled frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Resize sets the buffer dimensions. A size change discards the backing
// image; the next Image call allocates a fresh one.
func (f *FrameBuffer) Resize(size image.Point) {
	if size == f.size {
		return
	}
	f.size = size
	if f.img != nil {
		f.img.Deallocate()
		f.img = nil
	}
}

// Size returns the buffer dimensions.
func (f *FrameBuffer) Size() image.Point {
	return f.size
}

// Image returns the backing render target, allocating it if needed. It
// returns nil while the buffer has no size.
func (f *FrameBuffer) Image() *ebiten.Image {
	if f.img == nil && f.size.X > 0 && f.size.Y > 0 {
		f.img = ebiten.NewImage(f.size.X, f.size.Y)
	}
	return f.img
}

// AddRenderingTime schedules a redraw no sooner than delay from now; a
// non-positive delay makes the buffer ready immediately. The earliest
// scheduled deadline wins; delays accumulate into the pending budget so
// cancellation can unwind them.
func (f *FrameBuffer) AddRenderingTime(delay time.Duration) {
	if delay <= 0 {
		f.forced = true
		return
	}
	d := now().Add(delay)
	if f.pending == 0 || d.Before(f.deadline) {
		f.deadline = d
	}
	f.pending += delay
}

// RemoveRenderingTime cancels previously scheduled rendering time. It only
// reduces the pending budget; it cannot abort a rebuild already in progress.
func (f *FrameBuffer) RemoveRenderingTime(delay time.Duration) {
	f.pending -= delay
	if f.pending < 0 {
		f.pending = 0
	}
}

// Update forces the buffer ready for an immediate redraw.
func (f *FrameBuffer) Update() {
	f.forced = true
}

// CanUpdate reports whether the buffer should be re-rendered now: either a
// forced update is pending or scheduled rendering time has come due.
func (f *FrameBuffer) CanUpdate() bool {
	if f.forced {
		return true
	}
	return f.pending > 0 && !now().Before(f.deadline)
}

// Rendered acknowledges a consumed redraw, clearing the pending schedule.
func (f *FrameBuffer) Rendered() {
	f.forced = false
	f.pending = 0
}

// Draw blits the whole buffer 1:1 onto dst. It is a no-op while the buffer
// was never rendered into.
func (f *FrameBuffer) Draw(dst *ebiten.Image) {
	if f.img == nil {
		return
	}
	dst.DrawImage(f.img, nil)
}

// DrawRegion blits srcRect of the buffer onto dstRect of dst, scaling as
// needed.
func (f *FrameBuffer) DrawRegion(dst *ebiten.Image, dstRect, srcRect image.Rectangle) {
	if f.img == nil || srcRect.Dx() <= 0 || srcRect.Dy() <= 0 {
		return
	}
	src := f.img.SubImage(srcRect).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(
		float64(dstRect.Dx())/float64(srcRect.Dx()),
		float64(dstRect.Dy())/float64(srcRect.Dy()),
	)
	op.GeoM.Translate(float64(dstRect.Min.X), float64(dstRect.Min.Y))
	dst.DrawImage(src, op)
}
