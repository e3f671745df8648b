package mapview

import (
	"image"
	"log/slog"

	"tilescope/pkg/engine/world"
)

// ViewMode is the quality/performance tier of the view, ordered by
// decreasing rendering detail. Higher tiers cull more aggressively and
// disable multi-floor rendering.
type ViewMode int

// View modes.
const (
	NearView ViewMode = iota
	MidView
	FarView
	HugeView
)

// String returns the string representation of a view mode.
func (m ViewMode) String() string {
	switch m {
	case NearView:
		return "near"
	case MidView:
		return "mid"
	case FarView:
		return "far"
	default:
		return "huge"
	}
}

// View area thresholds, in tiles, for automatic view mode selection.
const (
	nearViewArea = 32 * 32
	midViewArea  = 64 * 64
	farViewArea  = 128 * 128

	// maxTileDraws caps how many tiles one cache rebuild may process in
	// extreme zoom-outs before traversal is truncated.
	maxTileDraws = nearViewArea * 7
)

// possibleTileSizes are the candidate tile pixel sizes, ascending.
var possibleTileSizes = []int{1, 2, 4, 8, 16, 32}

// SetVisibleDimension requests a new logical tile window. Both axes must be
// odd and at least 3; invalid dimensions are rejected and the prior geometry
// is kept.
func (v *MapView) SetVisibleDimension(visibleDimension image.Point) {
	if visibleDimension == v.visibleDimension {
		return
	}

	if visibleDimension.X%2 != 1 || visibleDimension.Y%2 != 1 {
		slog.Error("rejecting visible dimension: both axes must be odd",
			"width", visibleDimension.X, "height", visibleDimension.Y)
		return
	}

	if visibleDimension.X < 3 || visibleDimension.Y < 3 {
		slog.Error("rejecting visible dimension: reached max zoom in",
			"width", visibleDimension.X, "height", visibleDimension.Y)
		return
	}

	v.updateGeometry(visibleDimension, v.optimizedSize)
}

// VisibleDimension returns the logical tile window.
func (v *MapView) VisibleDimension() image.Point { return v.visibleDimension }

// DrawDimension returns the tile window actually rendered, which extends
// the visible dimension by a margin for smooth scrolling.
func (v *MapView) DrawDimension() image.Point { return v.drawDimension }

// TileSize returns the selected tile pixel size.
func (v *MapView) TileSize() int { return v.tileSize }

// ScaleFactor returns the ratio of the selected tile size to the canonical
// tile size.
func (v *MapView) ScaleFactor() float64 { return v.scaleFactor }

// VisibleCenterOffset returns the grid offset of the camera tile inside the
// visible window.
func (v *MapView) VisibleCenterOffset() image.Point { return v.visibleCenterOffset }

// ViewMode returns the current view mode.
func (v *MapView) ViewMode() ViewMode { return v.viewMode }

// SetViewMode pins the view mode manually.
func (v *MapView) SetViewMode(mode ViewMode) {
	v.viewMode = mode
	v.requestVisibleTilesCacheUpdate()
}

// SetAutoViewMode toggles automatic view mode selection from geometry.
func (v *MapView) SetAutoViewMode(enable bool) {
	v.autoViewMode = enable
	if enable {
		v.updateGeometry(v.visibleDimension, v.optimizedSize)
	}
}

// IsAutoViewModeEnabled reports whether view mode selection is automatic.
func (v *MapView) IsAutoViewModeEnabled() bool { return v.autoViewMode }

// OptimizeForSize adjusts the geometry for a target on-screen pixel budget,
// typically the window size the view is rendered into.
func (v *MapView) OptimizeForSize(visibleSize image.Point) {
	v.updateGeometry(v.visibleDimension, visibleSize)
}

// updateGeometry recomputes the tile pixel size, draw dimension, view mode
// and buffer sizes for the requested visible dimension and pixel budget.
// If no candidate tile size fits the texture limit the prior geometry is
// kept and the request is dropped.
func (v *MapView) updateGeometry(visibleDimension, optimizedSize image.Point) {
	tileSize := 0
	for _, candidate := range possibleTileSizes {
		bufferWidth := (visibleDimension.X + 3) * candidate
		bufferHeight := (visibleDimension.Y + 3) * candidate
		if bufferWidth > v.maxTextureSize || bufferHeight > v.maxTextureSize {
			break
		}

		tileSize = candidate
		// stop growing once the buffer comfortably covers the pixel budget
		if optimizedSize.X < bufferWidth-3*candidate && optimizedSize.Y < bufferHeight-3*candidate {
			break
		}
	}

	if tileSize == 0 {
		slog.Error("rejecting geometry: reached max zoom out",
			"width", visibleDimension.X, "height", visibleDimension.Y,
			"maxTextureSize", v.maxTextureSize)
		return
	}

	drawDimension := visibleDimension.Add(image.Pt(3, 3))
	virtualCenterOffset := image.Pt(drawDimension.X/2-1, drawDimension.Y/2-1)
	visibleCenterOffset := virtualCenterOffset

	viewMode := v.viewMode
	if v.autoViewMode {
		visibleArea := visibleDimension.X * visibleDimension.Y
		switch {
		case tileSize >= 32 && visibleArea <= nearViewArea:
			viewMode = NearView
		case tileSize >= 16 && visibleArea <= midViewArea:
			viewMode = MidView
		case tileSize >= 8 && visibleArea <= farViewArea:
			viewMode = FarView
		default:
			viewMode = HugeView
		}
		v.multifloor = viewMode < FarView
	}

	v.viewMode = viewMode
	v.visibleDimension = visibleDimension
	v.drawDimension = drawDimension
	v.tileSize = tileSize
	v.virtualCenterOffset = virtualCenterOffset
	v.visibleCenterOffset = visibleCenterOffset
	v.optimizedSize = optimizedSize

	bufferSize := image.Pt(drawDimension.X*tileSize, drawDimension.Y*tileSize)
	v.rectDimension = image.Rectangle{Max: bufferSize}
	v.scaleFactor = float64(tileSize) / float64(world.TilePixels)

	v.frameCache.tile.Resize(bufferSize)
	v.frameCache.crosshair.Resize(bufferSize)

	// the text and creature information buffers track the destination rect
	// at draw time; here it suffices to invalidate their contents
	v.frameCache.tile.Update()
	v.frameCache.staticText.Update()
	v.frameCache.creatureInformation.Update()

	v.resetLastCamera()
	v.requestVisibleTilesCacheUpdate()
}
