package mapview

import (
	"image"
	"image/color"
	"testing"

	"tilescope/pkg/engine/world"
)

func TestPaletteColor(t *testing.T) {
	tests := []struct {
		c    uint8
		want color.RGBA
	}{
		{0, color.RGBA{0, 0, 0, 255}},
		{215, color.RGBA{255, 255, 255, 255}},
		{180, color.RGBA{255, 0, 0, 255}},
		{30, color.RGBA{0, 255, 0, 255}},
		{5, color.RGBA{0, 0, 255, 255}},
	}

	for _, tt := range tests {
		if got := paletteColor(tt.c); got != tt.want {
			t.Errorf("paletteColor(%d) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestLightViewIsDark(t *testing.T) {
	l := NewLightView()

	l.SetGlobalLight(world.Light{Color: 215, Intensity: 255})
	if l.IsDark() {
		t.Error("full daylight reported dark")
	}

	l.SetGlobalLight(world.Light{Color: 215, Intensity: 249})
	if !l.IsDark() {
		t.Error("dim ambient light not reported dark")
	}
}

func TestLightViewAddLightSource(t *testing.T) {
	l := NewLightView()

	l.AddLightSource(image.Pt(100, 100), 1, world.Light{Color: 215, Intensity: 5})
	if len(l.sources) != 1 {
		t.Fatalf("sources = %d, want 1", len(l.sources))
	}
	if want := 5 * world.TilePixels; l.sources[0].radius != want {
		t.Errorf("radius = %d, want %d", l.sources[0].radius, want)
	}

	// zero-intensity lights are dropped
	l.AddLightSource(image.Pt(0, 0), 1, world.Light{Color: 215, Intensity: 0})
	if len(l.sources) != 1 {
		t.Errorf("sources = %d after zero-intensity add, want 1", len(l.sources))
	}

	l.Reset()
	if len(l.sources) != 0 {
		t.Errorf("sources = %d after reset, want 0", len(l.sources))
	}
}

func TestAmbientLightUnderground(t *testing.T) {
	m := newFakeMap()
	m.light = world.Light{Color: 215, Intensity: 200}
	v := New(m)

	surface := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	if got := v.ambientLight(surface); got != m.light {
		t.Errorf("surface ambient = %v, want world light %v", got, m.light)
	}

	// underground has no sky light
	cave := world.Position{X: 50, Y: 50, Z: world.UndergroundFloor}
	if got := v.ambientLight(cave); got.Intensity != 0 || got.Color != 215 {
		t.Errorf("underground ambient = %v, want intensity 0", got)
	}

	// the configured minimum floors the intensity everywhere
	v.SetMinimumAmbientLight(0.5)
	if got := v.ambientLight(cave); got.Intensity != 127 {
		t.Errorf("floored ambient intensity = %d, want 127", got.Intensity)
	}
}
