package mapview

import (
	"image"
	"testing"
)

func TestDefaultGeometry(t *testing.T) {
	v := New(newFakeMap())

	if got := v.VisibleDimension(); got != image.Pt(15, 11) {
		t.Errorf("visible dimension = %v, want (15,11)", got)
	}
	if got := v.DrawDimension(); got != image.Pt(18, 14) {
		t.Errorf("draw dimension = %v, want (18,14)", got)
	}
	if got := v.TileSize(); got != 32 {
		t.Errorf("tile size = %d, want 32", got)
	}
	if got := v.ScaleFactor(); got != 1.0 {
		t.Errorf("scale factor = %v, want 1.0", got)
	}
	if got := v.ViewMode(); got != NearView {
		t.Errorf("view mode = %v, want near", got)
	}
	if !v.IsMultifloor() {
		t.Error("multifloor should be enabled in near view")
	}
}

func TestSetVisibleDimensionRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		dim  image.Point
	}{
		{"even width", image.Pt(14, 11)},
		{"even height", image.Pt(15, 10)},
		{"too small", image.Pt(1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(newFakeMap())
			v.SetVisibleDimension(tt.dim)
			if got := v.VisibleDimension(); got != image.Pt(15, 11) {
				t.Errorf("visible dimension = %v, want unchanged (15,11)", got)
			}
		})
	}
}

func TestMaxTextureSizeForcesSmallerTiles(t *testing.T) {
	v := New(newFakeMap())
	v.SetMaxTextureSize(256)
	v.SetVisibleDimension(image.Pt(17, 13))

	// (17+3)*16 exceeds 256, so the tile size steps down to 8
	if got := v.TileSize(); got != 8 {
		t.Errorf("tile size = %d, want 8", got)
	}
	if got := v.ViewMode(); got != FarView {
		t.Errorf("view mode = %v, want far", got)
	}
	if v.IsMultifloor() {
		t.Error("far view must disable multifloor")
	}
}

func TestOptimizeForSizeSmallBudget(t *testing.T) {
	v := New(newFakeMap())
	v.OptimizeForSize(image.Pt(100, 100))

	// a 16px tile buffer already covers a 100x100 budget with margin
	if got := v.TileSize(); got != 16 {
		t.Errorf("tile size = %d, want 16", got)
	}
	if got := v.ViewMode(); got != MidView {
		t.Errorf("view mode = %v, want mid", got)
	}
	if !v.IsMultifloor() {
		t.Error("mid view keeps multifloor enabled")
	}
}

func TestSetViewModeManual(t *testing.T) {
	v := New(newFakeMap())
	v.SetAutoViewMode(false)
	v.SetViewMode(HugeView)
	if got := v.ViewMode(); got != HugeView {
		t.Errorf("view mode = %v, want huge", got)
	}

	// manual mode survives geometry changes
	v.OptimizeForSize(image.Pt(100, 100))
	if got := v.ViewMode(); got != HugeView {
		t.Errorf("view mode after geometry change = %v, want huge", got)
	}
}
