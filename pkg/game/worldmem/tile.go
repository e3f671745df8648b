package worldmem

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tilescope/pkg/engine/world"
	"tilescope/pkg/game/mapview"
)

// Item is a thing stacked on a tile, rendered as a flat colored shape.
type Item struct {
	Color color.RGBA

	// Opaque items fully cover their square; a floor of opaque ground hides
	// the floors below it.
	Opaque bool

	// Window items block the floors above only while looking through them
	// is not possible.
	Window bool

	// BlocksFloorView items always hide the floors above, like ceilings.
	BlocksFloorView bool

	// BlocksSight items stop line of sight, like solid walls.
	BlocksSight bool

	// Wide and Tall mark sprites that bleed out of the square; Displacement
	// shifts the drawn shape off the square's origin.
	Wide         bool
	Tall         bool
	Displacement image.Point

	Light *world.Light
}

// Tile is a single map square. It implements world.Tile.
type Tile struct {
	m   *Map
	pos world.Position

	ground *Item
	items  []*Item
}

// SetGround sets the tile's ground item.
func (t *Tile) SetGround(item *Item) *Tile {
	t.ground = item
	t.m.notify(t.pos, nil, mapview.OperationClean)
	return t
}

// AddItem stacks an item on the tile.
func (t *Tile) AddItem(item *Item) *Tile {
	t.items = append(t.items, item)
	t.m.notify(t.pos, nil, mapview.OperationClean)
	return t
}

// RemoveItems clears everything above the ground.
func (t *Tile) RemoveItems() {
	t.items = nil
	t.m.notify(t.pos, nil, mapview.OperationClean)
}

// Position implements world.Tile.
func (t *Tile) Position() world.Position { return t.pos }

// IsDrawable implements world.Tile.
func (t *Tile) IsDrawable() bool {
	return t.ground != nil || len(t.items) > 0 || len(t.creatures()) > 0
}

// HasLight implements world.Tile.
func (t *Tile) HasLight() bool {
	for _, item := range t.allItems() {
		if item.Light != nil {
			return true
		}
	}
	for _, c := range t.creatures() {
		if c.Light != nil {
			return true
		}
	}
	return false
}

// HasWideThings implements world.Tile.
func (t *Tile) HasWideThings() bool {
	for _, item := range t.allItems() {
		if item.Wide {
			return true
		}
	}
	return false
}

// HasTallThings implements world.Tile.
func (t *Tile) HasTallThings() bool {
	for _, item := range t.allItems() {
		if item.Tall {
			return true
		}
	}
	return false
}

// HasDisplacement implements world.Tile.
func (t *Tile) HasDisplacement() bool {
	for _, item := range t.allItems() {
		if item.Displacement != (image.Point{}) {
			return true
		}
	}
	return false
}

// LimitsFloorsView implements world.Tile. Ceilings always hide the floors
// above; windows only while sight does not pass through them.
func (t *Tile) LimitsFloorsView(lookPossible bool) bool {
	for _, item := range t.allItems() {
		if item.BlocksFloorView {
			return true
		}
		if item.Window && !lookPossible {
			return true
		}
	}
	return false
}

// IsCovered implements world.Tile.
func (t *Tile) IsCovered() bool {
	return t.m.isCovered(t.pos)
}

// OnVisibleTileList implements world.Tile.
func (t *Tile) OnVisibleTileList() {
	t.m.visited.Put(t.pos)
}

// Draw implements world.Tile.
func (t *Tile) Draw(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA, lights world.LightPainter) {
	t.DrawGround(dst, dest, scale, tint, lights)
	t.DrawAboveGround(dst, dest, scale, tint, lights)
}

// DrawGround implements world.Tile.
func (t *Tile) DrawGround(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA, lights world.LightPainter) {
	if t.ground == nil {
		return
	}
	size := float32(float64(world.TilePixels) * scale)
	vector.DrawFilledRect(dst, float32(dest.X), float32(dest.Y), size, size, mulColor(t.ground.Color, tint), false)
	t.emitLight(t.ground, dest, scale, lights)
}

// DrawAboveGround implements world.Tile.
func (t *Tile) DrawAboveGround(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA, lights world.LightPainter) {
	size := float64(world.TilePixels) * scale

	for _, item := range t.items {
		x := float64(dest.X) + float64(item.Displacement.X)*scale
		y := float64(dest.Y) + float64(item.Displacement.Y)*scale
		w, h := size*0.75, size*0.75
		if item.Wide {
			w = size * 1.5
		}
		if item.Tall {
			h = size * 1.5
			y -= size * 0.5
		}
		vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), mulColor(item.Color, tint), false)
		t.emitLight(item, dest, scale, lights)
	}

	for _, c := range t.creatures() {
		c.drawBody(dst, dest, scale, tint)
		if lights != nil && c.Light != nil {
			lights.AddLightSource(tileCenter(dest, scale), scale, *c.Light)
		}
	}
}

func (t *Tile) emitLight(item *Item, dest image.Point, scale float64, lights world.LightPainter) {
	if lights == nil || item.Light == nil {
		return
	}
	lights.AddLightSource(tileCenter(dest, scale), scale, *item.Light)
}

// creatures returns the creatures standing on this square.
func (t *Tile) creatures() []*Creature {
	var out []*Creature
	for _, c := range t.m.creatures {
		if c.pos == t.pos {
			out = append(out, c)
		}
	}
	return out
}

func (t *Tile) allItems() []*Item {
	if t.ground == nil {
		return t.items
	}
	return append([]*Item{t.ground}, t.items...)
}

// isFullyOpaque reports whether the square leaves no see-through pixels,
// which makes it hide the floors below.
func (t *Tile) isFullyOpaque() bool {
	return t.ground != nil && t.ground.Opaque
}

// isSingleDimension reports whether everything on the square stays inside
// its own bounds.
func (t *Tile) isSingleDimension() bool {
	return !t.HasWideThings() && !t.HasTallThings() && !t.HasDisplacement() && len(t.creatures()) == 0
}

// blocksSight reports whether line of sight stops at this square.
func (t *Tile) blocksSight() bool {
	for _, item := range t.allItems() {
		if item.BlocksSight {
			return true
		}
	}
	return false
}

func tileCenter(dest image.Point, scale float64) image.Point {
	half := int(float64(world.TilePixels) * scale / 2)
	return dest.Add(image.Pt(half, half))
}

func mulColor(c, tint color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(uint32(c.R) * uint32(tint.R) / 255),
		G: uint8(uint32(c.G) * uint32(tint.G) / 255),
		B: uint8(uint32(c.B) * uint32(tint.B) / 255),
		A: c.A,
	}
}
