// Package world defines the coordinate types and the collaborator contracts
// a rendering view consumes: the map store, tiles, creatures, missiles and
// on-map texts. The view only reads world state through these interfaces;
// all mutation happens on the implementation side.
package world

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// InformationFlag selects which creature overlays are drawn.
type InformationFlag uint8

// Creature information overlay flags.
const (
	DrawNames InformationFlag = 1 << iota
	DrawBars
	DrawManaBar
)

// LightPainter accumulates light sources emitted by tiles, creatures and
// missiles during a tile pass, for compositing as a separate layer.
type LightPainter interface {
	AddLightSource(center image.Point, scale float64, light Light)
}

// Map is the world store queried by a rendering view. Tile handles returned
// from Tile are resolved fresh on every visibility rebuild; the view never
// holds them across world mutations.
type Map interface {
	// Tile returns the tile at pos, or nil if there is none.
	Tile(pos Position) Tile

	// IsCompletelyCovered reports whether the tile at pos is fully hidden
	// by opaque tiles on floors above it, down to firstFloor.
	IsCompletelyCovered(pos Position, firstFloor int) bool

	// IsLookPossible reports whether sight passes through the tile at pos,
	// e.g. open ground, windows and open doors.
	IsLookPossible(pos Position) bool

	// Spectators returns the creatures within the aware range around center.
	// With multiFloor set, creatures on other visible floors are included.
	Spectators(center Position, multiFloor bool) []Creature

	// FloorMissiles returns the missiles currently flying on floor z.
	FloorMissiles(z int) []Missile

	StaticTexts() []StaticText
	AnimatedTexts() []AnimatedText

	// Light returns the world ambient light.
	Light() Light

	AwareRange() AwareRange
}

// Tile is a single map square owned by the world store.
type Tile interface {
	Position() Position

	// IsDrawable reports whether the tile has anything to render.
	IsDrawable() bool

	HasLight() bool

	// HasWideThings, HasTallThings and HasDisplacement report visual
	// overflow: content that can bleed outside the tile's own square.
	HasWideThings() bool
	HasTallThings() bool
	HasDisplacement() bool

	// LimitsFloorsView reports whether this tile blocks sight to the floors
	// above it. Windows block only when looking through is not possible;
	// solid ceilings always block.
	LimitsFloorsView(lookPossible bool) bool

	// IsCovered reports whether a floor above currently hides this tile.
	IsCovered() bool

	// Draw renders the tile at dest into dst. tint modulates the tile color
	// (white means untinted) and lights, when non-nil, receives the tile's
	// light emission.
	Draw(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA, lights LightPainter)

	// DrawGround and DrawAboveGround split Draw into two phases, so a view
	// can render all ground of a floor before anything standing on it.
	DrawGround(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA, lights LightPainter)
	DrawAboveGround(dst *ebiten.Image, dest image.Point, scale float64, tint color.RGBA, lights LightPainter)

	// OnVisibleTileList notifies the tile that it entered a view's visible
	// tile list, for tile-side bookkeeping.
	OnVisibleTileList()
}

// Creature is a moving entity owned by the world store.
type Creature interface {
	Position() Position
	Direction() Direction
	IsWalking() bool

	// WalkOffset is the pixel offset of the walk interpolation.
	WalkOffset() image.Point
	// DrawOffset is the sprite draw offset relative to the tile origin.
	DrawOffset() image.Point
	// JumpOffset is the pixel offset of an in-progress jump.
	JumpOffset() image.Point
	// Displacement is the sprite displacement from the creature's outfit.
	Displacement() image.Point

	CanBeSeen() bool

	// Tile returns the tile the creature stands on, or nil.
	Tile() Tile

	// DynamicInformationChanged reports whether the creature's health or
	// mana changed since the information overlay was last drawn;
	// ResetDynamicInformation acknowledges the change.
	DynamicInformationChanged() bool
	ResetDynamicInformation()

	// DrawInformation renders the creature's name and bars at p, clipped
	// to rect.
	DrawInformation(dst *ebiten.Image, p image.Point, covered bool, rect image.Rectangle, flags InformationFlag)
}

// Missile is a projectile flying across a floor.
type Missile interface {
	Position() Position
	Draw(dst *ebiten.Image, dest image.Point, scale float64, lights LightPainter)
}

// StaticText is a persistent on-map text such as a sign or a talk bubble.
type StaticText interface {
	Position() Position
	// IsMessage reports whether the text is a spoken message; messages are
	// drawn across floors while plain texts only appear on the camera floor.
	IsMessage() bool
	DrawText(dst *ebiten.Image, p image.Point, rect image.Rectangle)
}

// AnimatedText is a transient floating text such as a damage number. It is
// redrawn every frame and never cached.
type AnimatedText interface {
	Position() Position
	DrawText(dst *ebiten.Image, p image.Point, rect image.Rectangle)
}
