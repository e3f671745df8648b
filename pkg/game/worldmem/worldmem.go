// Package worldmem is an in-memory world store. It owns the tile grid,
// creatures, missiles and on-map texts, implements the read contracts in
// pkg/engine/world, and notifies registered views about changes so they can
// invalidate their caches.
package worldmem

import (
	"image"

	"github.com/zyedidia/generic/mapset"

	"tilescope/pkg/engine/world"
	"tilescope/pkg/game/mapview"
)

// Observer receives world change notifications. *mapview.MapView satisfies
// it directly.
type Observer interface {
	OnTileUpdate(pos world.Position, creature world.Creature, op mapview.Operation)
}

// Map is an in-memory implementation of world.Map.
type Map struct {
	tiles map[world.Position]*Tile

	creatures []*Creature
	missiles  []*Missile
	statics   []*StaticText
	animated  []*AnimatedText

	ambient world.Light
	aware   world.AwareRange

	observers []Observer

	// positions that entered a view's visible tile list since the last
	// ResetVisibleTiles, for diagnostics.
	visited mapset.Set[world.Position]
}

// NewMap returns an empty map with full daylight and the default aware range.
func NewMap() *Map {
	return &Map{
		tiles:   make(map[world.Position]*Tile),
		ambient: world.Light{Color: 215, Intensity: 255},
		aware:   world.DefaultAwareRange(),
		visited: mapset.New[world.Position](),
	}
}

// AddObserver registers o for change notifications.
func (m *Map) AddObserver(o Observer) {
	m.observers = append(m.observers, o)
}

func (m *Map) notify(pos world.Position, creature world.Creature, op mapview.Operation) {
	for _, o := range m.observers {
		o.OnTileUpdate(pos, creature, op)
	}
}

// Tile implements world.Map. It returns nil when no tile exists at pos.
func (m *Map) Tile(pos world.Position) world.Tile {
	t, ok := m.tiles[pos]
	if !ok {
		return nil
	}
	return t
}

// CreateTile returns the tile at pos, creating an empty one if needed.
func (m *Map) CreateTile(pos world.Position) *Tile {
	if t, ok := m.tiles[pos]; ok {
		return t
	}
	t := &Tile{m: m, pos: pos}
	m.tiles[pos] = t
	return t
}

// RemoveTile deletes the tile at pos.
func (m *Map) RemoveTile(pos world.Position) {
	if _, ok := m.tiles[pos]; !ok {
		return
	}
	delete(m.tiles, pos)
	m.notify(pos, nil, mapview.OperationClean)
}

// IsLookPossible implements world.Map: sight passes through empty squares
// and tiles without sight-blocking content.
func (m *Map) IsLookPossible(pos world.Position) bool {
	t, ok := m.tiles[pos]
	if !ok {
		return true
	}
	return !t.blocksSight()
}

// IsCompletelyCovered implements world.Map. A tile is completely covered
// when, on some floor above it down to firstFloor, the 2x2 block of tiles
// that projects over it is fully opaque. Tiles with oversized content
// escape the single-square check.
func (m *Map) IsCompletelyCovered(pos world.Position, firstFloor int) bool {
	checkTile, hasCheckTile := m.tiles[pos]

	tilePos := pos
	for tilePos.Z > firstFloor {
		tilePos = tilePos.CoveredUp(1)
		if !tilePos.IsValid() {
			break
		}

		covered := true
		done := false
		for x := 0; x < 2 && !done; x++ {
			for y := 0; y < 2 && !done; y++ {
				above, ok := m.tiles[tilePos.Translated(-x, -y)]
				if !ok || !above.isFullyOpaque() {
					covered = false
					done = true
				} else if x == 0 && y == 0 && (!hasCheckTile || checkTile.isSingleDimension()) {
					done = true
				}
			}
		}
		if covered {
			return true
		}
	}
	return false
}

// isCovered reports whether any fully opaque tile projects over pos from a
// floor above it.
func (m *Map) isCovered(pos world.Position) bool {
	tilePos := pos
	for tilePos.Z > 0 {
		tilePos = tilePos.CoveredUp(1)
		if !tilePos.IsValid() {
			break
		}
		if above, ok := m.tiles[tilePos]; ok && above.isFullyOpaque() {
			return true
		}
	}
	return false
}

// Spectators implements world.Map. With multiFloor set, creatures up to the
// underground aware floor range above and below the center are included.
func (m *Map) Spectators(center world.Position, multiFloor bool) []world.Creature {
	minZ, maxZ := center.Z, center.Z
	if multiFloor {
		minZ = center.Z - world.AwareUndergroundFloorRange
		if minZ < 0 {
			minZ = 0
		}
		maxZ = center.Z + world.AwareUndergroundFloorRange
		if maxZ > world.MaxZ {
			maxZ = world.MaxZ
		}
	}

	var out []world.Creature
	for _, c := range m.creatures {
		pos := c.Position()
		if pos.Z < minZ || pos.Z > maxZ {
			continue
		}
		dx := pos.X - center.X
		dy := pos.Y - center.Y
		if dx < -m.aware.Left || dx > m.aware.Right || dy < -m.aware.Top || dy > m.aware.Bottom {
			continue
		}
		out = append(out, c)
	}
	return out
}

// AddCreature places c on the map.
func (m *Map) AddCreature(c *Creature) {
	c.m = m
	m.creatures = append(m.creatures, c)
	m.notify(c.Position(), c, mapview.OperationAdd)
}

// RemoveCreature takes c off the map.
func (m *Map) RemoveCreature(c *Creature) {
	for i, other := range m.creatures {
		if other == c {
			m.creatures = append(m.creatures[:i], m.creatures[i+1:]...)
			m.notify(c.Position(), c, mapview.OperationRemove)
			return
		}
	}
}

// MoveCreature relocates c to pos, notifying views about both squares.
func (m *Map) MoveCreature(c *Creature, pos world.Position) {
	from := c.Position()
	c.pos = pos
	m.notify(from, c, mapview.OperationRemove)
	m.notify(pos, c, mapview.OperationAdd)
}

// FloorMissiles implements world.Map.
func (m *Map) FloorMissiles(z int) []world.Missile {
	var out []world.Missile
	for _, mi := range m.missiles {
		if mi.pos.Z == z {
			out = append(out, mi)
		}
	}
	return out
}

// AddMissile launches mi; RemoveMissile lands it.
func (m *Map) AddMissile(mi *Missile) {
	m.missiles = append(m.missiles, mi)
}

func (m *Map) RemoveMissile(mi *Missile) {
	for i, other := range m.missiles {
		if other == mi {
			m.missiles = append(m.missiles[:i], m.missiles[i+1:]...)
			return
		}
	}
}

// StaticTexts implements world.Map.
func (m *Map) StaticTexts() []world.StaticText {
	out := make([]world.StaticText, len(m.statics))
	for i, st := range m.statics {
		out[i] = st
	}
	return out
}

// AnimatedTexts implements world.Map.
func (m *Map) AnimatedTexts() []world.AnimatedText {
	out := make([]world.AnimatedText, len(m.animated))
	for i, at := range m.animated {
		out[i] = at
	}
	return out
}

// AddStaticText pins a text to the map.
func (m *Map) AddStaticText(st *StaticText) {
	m.statics = append(m.statics, st)
	m.notify(st.pos, nil, mapview.OperationAdd)
}

// AddAnimatedText spawns a transient floating text.
func (m *Map) AddAnimatedText(at *AnimatedText) {
	m.animated = append(m.animated, at)
}

// ExpireAnimatedTexts drops animated texts older than their lifetime.
func (m *Map) ExpireAnimatedTexts() {
	kept := m.animated[:0]
	for _, at := range m.animated {
		if !at.expired() {
			kept = append(kept, at)
		}
	}
	m.animated = kept
}

// Light implements world.Map.
func (m *Map) Light() world.Light {
	return m.ambient
}

// SetLight changes the ambient light.
func (m *Map) SetLight(light world.Light) {
	m.ambient = light
}

// AwareRange implements world.Map.
func (m *Map) AwareRange() world.AwareRange {
	return m.aware
}

// SetAwareRange changes the aware range. Views must be recreated or have
// their viewports reinitialized afterwards.
func (m *Map) SetAwareRange(aware world.AwareRange) {
	m.aware = aware
}

// VisitedPositions returns the tile positions that entered a view's visible
// tile list since the last ResetVisibleTiles, in no particular order.
func (m *Map) VisitedPositions() []world.Position {
	out := make([]world.Position, 0, m.visited.Size())
	m.visited.Each(func(pos world.Position) {
		out = append(out, pos)
	})
	return out
}

// ResetVisibleTiles clears the visited position bookkeeping.
func (m *Map) ResetVisibleTiles() {
	m.visited = mapset.New[world.Position]()
}

// Bounds returns the rectangle enclosing all tiles on floor z.
func (m *Map) Bounds(z int) image.Rectangle {
	var r image.Rectangle
	first := true
	for pos := range m.tiles {
		if pos.Z != z {
			continue
		}
		p := image.Rect(pos.X, pos.Y, pos.X+1, pos.Y+1)
		if first {
			r = p
			first = false
		} else {
			r = r.Union(p)
		}
	}
	return r
}
