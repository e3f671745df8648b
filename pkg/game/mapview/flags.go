package mapview

import (
	"image/color"
	"time"
)

// RedrawFlag is a bitmask of render layers requesting a redraw. Producers
// set bits through SchedulePainting; each draw pass clears only the bits it
// consumed.
type RedrawFlag uint32

// Redraw layer bits.
const (
	RedrawThing RedrawFlag = 1 << iota
	RedrawLight
	RedrawStaticText
	RedrawDynamicCreatureInformation
	RedrawStaticCreatureInformation

	RedrawCreatureInformation = RedrawDynamicCreatureInformation | RedrawStaticCreatureInformation
	RedrawAllInformation      = RedrawCreatureInformation
	RedrawAll                 = RedrawThing | RedrawLight | RedrawStaticText | RedrawCreatureInformation
)

const (
	// DefaultScheduleDelay is the minimum re-render delay used when a
	// producer has no better estimate, roughly one frame.
	DefaultScheduleDelay = 16 * time.Millisecond

	// DefaultMaxTextureSize bounds offscreen buffers when the backend limit
	// is not known.
	DefaultMaxTextureSize = 4096
)

var colorWhite = color.RGBA{255, 255, 255, 255}

// SchedulePainting marks the layers in flags dirty and budgets their
// buffers a redraw no sooner than delay from now. Repeated calls coalesce;
// the earliest requested deadline wins.
func (v *MapView) SchedulePainting(flags RedrawFlag, delay time.Duration) {
	v.redrawFlag |= flags

	if flags&RedrawStaticText != 0 {
		v.frameCache.staticText.Update()
	}
	if flags&RedrawThing != 0 {
		v.frameCache.tile.AddRenderingTime(delay)
	}
	if flags&RedrawCreatureInformation != 0 {
		v.frameCache.creatureInformation.AddRenderingTime(delay)
	}
}

// CancelScheduledPainting withdraws previously scheduled rendering time for
// the layers in flags. It only reduces pending budgets; it cannot abort a
// rebuild already in progress.
func (v *MapView) CancelScheduledPainting(flags RedrawFlag, delay time.Duration) {
	if flags&RedrawThing != 0 {
		v.frameCache.tile.RemoveRenderingTime(delay)
	}
	if flags&RedrawCreatureInformation != 0 {
		v.frameCache.creatureInformation.RemoveRenderingTime(delay)
	}
}

// RedrawFlags returns the currently pending redraw bits.
func (v *MapView) RedrawFlags() RedrawFlag {
	return v.redrawFlag
}
