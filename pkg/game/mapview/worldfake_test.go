package mapview

import (
	"image"
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"tilescope/pkg/engine/world"
)

// fakeTile is a controllable world.Tile for view tests.
type fakeTile struct {
	pos world.Position

	notDrawable     bool
	light           bool
	wide            bool
	tall            bool
	displacement    bool
	window          bool
	blocksFloorView bool
	covered         bool

	listedCount int
}

func (t *fakeTile) Position() world.Position { return t.pos }
func (t *fakeTile) IsDrawable() bool         { return !t.notDrawable }
func (t *fakeTile) HasLight() bool           { return t.light }
func (t *fakeTile) HasWideThings() bool      { return t.wide }
func (t *fakeTile) HasTallThings() bool      { return t.tall }
func (t *fakeTile) HasDisplacement() bool    { return t.displacement }
func (t *fakeTile) IsCovered() bool          { return t.covered }
func (t *fakeTile) OnVisibleTileList()       { t.listedCount++ }

func (t *fakeTile) LimitsFloorsView(lookPossible bool) bool {
	return t.blocksFloorView || (t.window && !lookPossible)
}

func (t *fakeTile) Draw(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA, lights world.LightPainter) {
}
func (t *fakeTile) DrawGround(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA, lights world.LightPainter) {
}
func (t *fakeTile) DrawAboveGround(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA, lights world.LightPainter) {
}

// fakeMap is a controllable world.Map for view tests.
type fakeMap struct {
	tiles        map[world.Position]*fakeTile
	sightBlocked map[world.Position]bool
	covered      map[world.Position]bool
	creatures    []world.Creature
	light        world.Light
	aware        world.AwareRange
}

func newFakeMap() *fakeMap {
	return &fakeMap{
		tiles:        make(map[world.Position]*fakeTile),
		sightBlocked: make(map[world.Position]bool),
		covered:      make(map[world.Position]bool),
		light:        world.Light{Color: 215, Intensity: 255},
		aware:        world.DefaultAwareRange(),
	}
}

// addTile places a drawable tile at pos and returns it for flag tweaking.
func (m *fakeMap) addTile(pos world.Position) *fakeTile {
	t := &fakeTile{pos: pos}
	m.tiles[pos] = t
	return t
}

// fillFloor paves the rectangle [x0,x1]x[y0,y1] on floor z.
func (m *fakeMap) fillFloor(z, x0, y0, x1, y1 int) {
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			m.addTile(world.Position{X: x, Y: y, Z: z})
		}
	}
}

func (m *fakeMap) Tile(pos world.Position) world.Tile {
	t, ok := m.tiles[pos]
	if !ok {
		return nil
	}
	return t
}

func (m *fakeMap) IsCompletelyCovered(pos world.Position, firstFloor int) bool {
	return m.covered[pos]
}

func (m *fakeMap) IsLookPossible(pos world.Position) bool {
	return !m.sightBlocked[pos]
}

func (m *fakeMap) Spectators(center world.Position, multiFloor bool) []world.Creature {
	var out []world.Creature
	for _, c := range m.creatures {
		pos := c.Position()
		if !multiFloor && pos.Z != center.Z {
			continue
		}
		if center.IsInRange(world.Position{X: pos.X, Y: pos.Y, Z: center.Z},
			m.aware.Left, m.aware.Right, m.aware.Top, m.aware.Bottom) {
			out = append(out, c)
		}
	}
	return out
}

func (m *fakeMap) FloorMissiles(z int) []world.Missile     { return nil }
func (m *fakeMap) StaticTexts() []world.StaticText         { return nil }
func (m *fakeMap) AnimatedTexts() []world.AnimatedText     { return nil }
func (m *fakeMap) Light() world.Light                      { return m.light }
func (m *fakeMap) AwareRange() world.AwareRange            { return m.aware }

// fakeCreature is a controllable world.Creature for view tests.
type fakeCreature struct {
	pos     world.Position
	dir     world.Direction
	walking bool
	changed bool
}

func (c *fakeCreature) Position() world.Position       { return c.pos }
func (c *fakeCreature) Direction() world.Direction     { return c.dir }
func (c *fakeCreature) IsWalking() bool                { return c.walking }
func (c *fakeCreature) WalkOffset() image.Point        { return image.Point{} }
func (c *fakeCreature) DrawOffset() image.Point        { return image.Point{} }
func (c *fakeCreature) JumpOffset() image.Point        { return image.Point{} }
func (c *fakeCreature) Displacement() image.Point      { return image.Point{} }
func (c *fakeCreature) CanBeSeen() bool                { return true }
func (c *fakeCreature) Tile() world.Tile               { return nil }
func (c *fakeCreature) DynamicInformationChanged() bool { return c.changed }
func (c *fakeCreature) ResetDynamicInformation()        { c.changed = false }
func (c *fakeCreature) DrawInformation(dst *ebiten.Image, p image.Point, covered bool, rect image.Rectangle, flags world.InformationFlag) {
}

// newTestView returns a view over m with the camera pinned at pos and the
// visible tile cache rebuilt.
func newTestView(t *testing.T, m *fakeMap, pos world.Position) *MapView {
	t.Helper()
	v := New(m)
	v.SetCameraPosition(pos)
	v.updateVisibleTilesCache()
	return v
}
