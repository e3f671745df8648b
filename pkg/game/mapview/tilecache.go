package mapview

import (
	"github.com/zyedidia/generic/mapset"

	"tilescope/pkg/engine/world"
)

// mapsetOf collects creatures into a membership set.
func mapsetOf(creatures []world.Creature) mapset.Set[world.Creature] {
	s := mapset.New[world.Creature]()
	for _, c := range creatures {
		s.Put(c)
	}
	return s
}

// Operation describes a tile content change reported to OnTileUpdate.
type Operation int

// Tile update operations.
const (
	OperationAdd Operation = iota
	OperationRemove
	OperationClean
)

// updateVisibleTilesCache rebuilds the per-floor visible tile lists for the
// current camera position. Floors are walked from the lowest visible up to
// the first visible, each traversed along anti-diagonals so the resulting
// order is the back-to-front painter's order the compositor relies on.
func (v *MapView) updateVisibleTilesCache() {
	v.mustUpdateVisibleTilesCache = false

	// there is no tile to render on invalid positions
	camera := v.CameraPosition()
	if !camera.IsValid() {
		return
	}

	cachedFirstVisibleFloor := v.calcFirstVisibleFloor()
	cachedLastVisibleFloor := v.calcLastVisibleFloor()
	if cachedLastVisibleFloor < cachedFirstVisibleFloor {
		cachedLastVisibleFloor = cachedFirstVisibleFloor
	}

	if v.lastCameraPosition.Z != camera.Z {
		v.onFloorChange(camera.Z, v.lastCameraPosition.Z)
	}

	v.lastCameraPosition = camera
	v.cachedFirstVisibleFloor = cachedFirstVisibleFloor
	v.cachedLastVisibleFloor = cachedLastVisibleFloor

	for z := v.floorMin; z <= v.floorMax; z++ {
		v.cachedVisibleTiles[z] = v.cachedVisibleTiles[z][:0]
	}

	processedTiles := 0
	v.floorMin = camera.Z
	v.floorMax = camera.Z

	stop := false

	numDiagonals := v.drawDimension.X + v.drawDimension.Y - 1
	for iz := cachedLastVisibleFloor; iz >= cachedFirstVisibleFloor && !stop; iz-- {
		// walk the / diagonals from the top-left corner to the top-right
		for diagonal := 0; diagonal < numDiagonals && !stop; diagonal++ {
			advance := max(diagonal-v.drawDimension.Y, 0)
			for iy, ix := diagonal-advance, advance; iy >= 0 && ix < v.drawDimension.X && !stop; iy, ix = iy-1, ix+1 {
				// avoid processing too many tiles at once in extreme
				// zoom-outs; truncating is preferable to stalling a frame
				if processedTiles > maxTileDraws && v.viewMode >= HugeView {
					stop = true
					break
				}

				tilePos := camera.Translated(ix-v.virtualCenterOffset.X, iy-v.virtualCenterOffset.Y)
				tilePos = tilePos.CoveredUp(camera.Z - iz)
				if !tilePos.IsValid() {
					continue
				}

				tile := v.world.Tile(tilePos)
				if tile == nil {
					continue
				}

				// skip tiles that have nothing to draw
				if !tile.IsDrawable() {
					continue
				}

				// skip tiles fully hidden behind floors above
				if v.world.IsCompletelyCovered(tilePos, cachedFirstVisibleFloor) {
					continue
				}

				v.cachedVisibleTiles[iz] = append(v.cachedVisibleTiles[iz], tile)
				tile.OnVisibleTileList()

				if iz < v.floorMin {
					v.floorMin = iz
				} else if iz > v.floorMax {
					v.floorMax = iz
				}

				processedTiles++
			}
		}
	}
}

// onFloorChange refreshes the per-floor state when the camera crosses
// floors: the visible creature set and, with lights enabled, the light
// layer.
func (v *MapView) onFloorChange(floor, previousFloor int) {
	camera := v.CameraPosition()

	if v.drawLights {
		v.redrawFlag |= RedrawLight
	}

	v.visibleCreatures = mapsetOf(v.world.Spectators(camera, false))
}

// OnTileUpdate must be called by the world when a tile's content changes.
// Cleaned tiles and the arrival of the followed creature invalidate the
// whole cache; other creature changes patch the visible creature set in
// place.
func (v *MapView) OnTileUpdate(pos world.Position, creature world.Creature, op Operation) {
	if op == OperationClean || (creature != nil && creature == v.followingCreature && op == OperationAdd) {
		v.requestVisibleTilesCacheUpdate()
	}

	if creature == nil || creature == v.followingCreature {
		return
	}

	if v.lastCameraPosition.Z != v.CameraPosition().Z {
		return
	}

	switch op {
	case OperationAdd:
		if v.isInRange(creature.Position()) {
			v.visibleCreatures.Put(creature)
		}
	case OperationRemove:
		v.visibleCreatures.Remove(creature)
	}
}

// OnMapCenterChange must be called by the world when its aware area is
// re-centered, e.g. after a teleport.
func (v *MapView) OnMapCenterChange(pos world.Position) {
	v.requestVisibleTilesCacheUpdate()
}

// VisibleFloorRange returns the floors actually populated by the last cache
// rebuild. The range can be narrower than the computed first/last visible
// floors when edge floors held nothing drawable.
func (v *MapView) VisibleFloorRange() (min, max int) {
	return v.floorMin, v.floorMax
}

// VisibleTiles returns the cached visible tiles of floor z in draw order.
// The returned slice is owned by the view and only valid until the next
// rebuild.
func (v *MapView) VisibleTiles(z int) []world.Tile {
	if z < 0 || z > world.MaxZ {
		return nil
	}
	return v.cachedVisibleTiles[z]
}
