package worldmem

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tilescope/pkg/engine/gfx"
	"tilescope/pkg/engine/world"
)

var (
	colorHealthHigh = color.RGBA{0x5c, 0xb8, 0x5c, 0xff}
	colorHealthMid  = color.RGBA{0xd9, 0xa4, 0x41, 0xff}
	colorHealthLow  = color.RGBA{0xc9, 0x4a, 0x4a, 0xff}
	colorMana       = color.RGBA{0x4a, 0x6a, 0xc9, 0xff}
	colorBarBack    = color.RGBA{0x20, 0x20, 0x20, 0xff}
	colorCovered    = color.RGBA{0x80, 0x80, 0x80, 0xff}
)

// Creature is a moving entity. It implements world.Creature.
type Creature struct {
	m *Map

	Name  string
	Color color.RGBA
	Light *world.Light

	pos world.Position
	dir world.Direction

	walking      bool
	walkOffset   image.Point
	drawOffset   image.Point
	jumpOffset   image.Point
	displacement image.Point

	Health, MaxHealth int
	Mana, MaxMana     int

	hidden         bool
	dynamicChanged bool
}

// NewCreature returns a creature at pos facing south, at full health.
func NewCreature(name string, pos world.Position) *Creature {
	return &Creature{
		Name:      name,
		Color:     color.RGBA{0xd0, 0xd0, 0xd0, 0xff},
		pos:       pos,
		dir:       world.South,
		Health:    100,
		MaxHealth: 100,
		Mana:      100,
		MaxMana:   100,
	}
}

func (c *Creature) Position() world.Position    { return c.pos }
func (c *Creature) Direction() world.Direction  { return c.dir }
func (c *Creature) IsWalking() bool             { return c.walking }
func (c *Creature) WalkOffset() image.Point     { return c.walkOffset }
func (c *Creature) DrawOffset() image.Point     { return c.drawOffset }
func (c *Creature) JumpOffset() image.Point     { return c.jumpOffset }
func (c *Creature) Displacement() image.Point   { return c.displacement }

// CanBeSeen implements world.Creature.
func (c *Creature) CanBeSeen() bool { return !c.hidden }

// SetHidden hides the creature from information overlays.
func (c *Creature) SetHidden(hidden bool) { c.hidden = hidden }

// Tile implements world.Creature.
func (c *Creature) Tile() world.Tile {
	if c.m == nil {
		return nil
	}
	return c.m.Tile(c.pos)
}

// SetDirection turns the creature.
func (c *Creature) SetDirection(dir world.Direction) { c.dir = dir }

// SetWalking updates the walk state and interpolation offset.
func (c *Creature) SetWalking(walking bool, offset image.Point) {
	c.walking = walking
	c.walkOffset = offset
}

// SetJumpOffset updates the in-progress jump offset.
func (c *Creature) SetJumpOffset(offset image.Point) { c.jumpOffset = offset }

// SetDisplacement sets the sprite displacement.
func (c *Creature) SetDisplacement(d image.Point) { c.displacement = d }

// SetHealth updates the health values and flags the information overlay.
func (c *Creature) SetHealth(health, maxHealth int) {
	c.Health = health
	c.MaxHealth = maxHealth
	c.dynamicChanged = true
}

// SetMana updates the mana values and flags the information overlay.
func (c *Creature) SetMana(mana, maxMana int) {
	c.Mana = mana
	c.MaxMana = maxMana
	c.dynamicChanged = true
}

// DynamicInformationChanged implements world.Creature.
func (c *Creature) DynamicInformationChanged() bool { return c.dynamicChanged }

// ResetDynamicInformation implements world.Creature.
func (c *Creature) ResetDynamicInformation() { c.dynamicChanged = false }

// drawBody renders the creature on its tile.
func (c *Creature) drawBody(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA) {
	size := float64(world.TilePixels) * scale
	cx := float64(dest.X) + size/2 + float64(c.walkOffset.X+c.drawOffset.X-c.displacement.X)*scale
	cy := float64(dest.Y) + size/2 + float64(c.walkOffset.Y+c.drawOffset.Y-c.displacement.Y)*scale
	vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(size*0.35), mulColor(c.Color, tint), false)
}

// DrawInformation implements world.Creature: the name above the square and
// health/mana bars under it. Covered creatures draw in gray.
func (c *Creature) DrawInformation(dst *ebiten.Image, p image.Point, covered bool, rect image.Rectangle, flags world.InformationFlag) {
	if !p.In(rect) {
		return
	}

	const barWidth, barHeight = 27, 4
	y := p.Y

	if flags&world.DrawNames != 0 {
		ebitenutil.DebugPrintAt(dst, c.Name, p.X, y-16)
	}

	if flags&world.DrawBars != 0 {
		fill := barColor(c.Health, c.MaxHealth)
		if covered {
			fill = colorCovered
		}
		drawBar(dst, p.X, y, barWidth, barHeight, c.Health, c.MaxHealth, fill)
		y += barHeight + 1
	}

	if flags&world.DrawManaBar != 0 {
		fill := colorMana
		if covered {
			fill = colorCovered
		}
		drawBar(dst, p.X, y, barWidth, barHeight, c.Mana, c.MaxMana, fill)
	}
}

func drawBar(dst *ebiten.Image, x, y, w, h, value, max int, fill color.RGBA) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), colorBarBack, false)
	if max <= 0 {
		return
	}
	ratio := float64(value) / float64(max)
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	vector.DrawFilledRect(dst, float32(x+1), float32(y+1), float32(float64(w-2)*ratio), float32(h-2), fill, false)
}

func barColor(value, max int) color.RGBA {
	if max <= 0 {
		return colorHealthLow
	}
	switch ratio := float64(value) / float64(max); {
	case ratio > 0.6:
		return colorHealthHigh
	case ratio > 0.3:
		return colorHealthMid
	default:
		return colorHealthLow
	}
}

// Missile is a projectile flying across a floor. It implements
// world.Missile.
type Missile struct {
	pos   world.Position
	Color color.RGBA
	Light *world.Light
}

// NewMissile returns a missile at pos.
func NewMissile(pos world.Position, clr color.RGBA) *Missile {
	return &Missile{pos: pos, Color: clr}
}

func (mi *Missile) Position() world.Position { return mi.pos }

// SetPosition moves the missile along its flight path.
func (mi *Missile) SetPosition(pos world.Position) { mi.pos = pos }

// Draw implements world.Missile.
func (mi *Missile) Draw(dst *ebiten.Image, dest image.Point, scale float64, lights world.LightPainter) {
	size := float64(world.TilePixels) * scale
	cx := float64(dest.X) + size/2
	cy := float64(dest.Y) + size/2
	vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(size*0.15), mi.Color, false)
	if lights != nil && mi.Light != nil {
		lights.AddLightSource(tileCenter(dest, scale), scale, *mi.Light)
	}
}

// StaticText is a persistent on-map text. It implements world.StaticText.
type StaticText struct {
	pos     world.Position
	Text    string
	Message bool
}

// NewStaticText pins text to pos. Message texts follow their speaker across
// floors in the view.
func NewStaticText(pos world.Position, text string, message bool) *StaticText {
	return &StaticText{pos: pos, Text: text, Message: message}
}

func (st *StaticText) Position() world.Position { return st.pos }
func (st *StaticText) IsMessage() bool          { return st.Message }

// DrawText implements world.StaticText.
func (st *StaticText) DrawText(dst *ebiten.Image, p image.Point, rect image.Rectangle) {
	if !p.In(rect) {
		return
	}
	ebitenutil.DebugPrintAt(dst, st.Text, p.X, p.Y)
}

// AnimatedText is a transient floating text that rises and expires.
type AnimatedText struct {
	pos   world.Position
	Text  string
	timer gfx.Timer

	// Lifetime is how long the text stays on screen, in seconds.
	Lifetime float64
}

// NewAnimatedText spawns a floating text at pos living for lifetime seconds.
func NewAnimatedText(pos world.Position, text string, lifetime float64) *AnimatedText {
	return &AnimatedText{pos: pos, Text: text, timer: gfx.NewTimer(), Lifetime: lifetime}
}

func (at *AnimatedText) Position() world.Position { return at.pos }

func (at *AnimatedText) expired() bool {
	return at.timer.Elapsed() >= at.Lifetime
}

// DrawText implements world.AnimatedText: the text rises one tile over its
// lifetime.
func (at *AnimatedText) DrawText(dst *ebiten.Image, p image.Point, rect image.Rectangle) {
	if at.Lifetime <= 0 {
		return
	}
	rise := int(at.timer.Elapsed() / at.Lifetime * float64(world.TilePixels))
	p.Y -= rise
	if !p.In(rect) {
		return
	}
	ebitenutil.DebugPrintAt(dst, at.Text, p.X, p.Y)
}
