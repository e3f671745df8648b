package mapview

import "tilescope/pkg/engine/world"

// LockFirstVisibleFloor forces the topmost rendered floor, overriding the
// line-of-sight computation.
func (v *MapView) LockFirstVisibleFloor(firstVisibleFloor int) {
	v.lockedFirstVisibleFloor = firstVisibleFloor
	v.requestVisibleTilesCacheUpdate()
}

// UnlockFirstVisibleFloor resumes the line-of-sight floor computation.
func (v *MapView) UnlockFirstVisibleFloor() {
	v.lockedFirstVisibleFloor = -1
	v.requestVisibleTilesCacheUpdate()
}

// LockedFirstVisibleFloor returns the locked floor, or -1 when unlocked.
func (v *MapView) LockedFirstVisibleFloor() int {
	return v.lockedFirstVisibleFloor
}

// SetMultifloor toggles multi-floor rendering.
func (v *MapView) SetMultifloor(enable bool) {
	v.multifloor = enable
	v.requestVisibleTilesCacheUpdate()
}

// IsMultifloor reports whether multi-floor rendering is enabled.
func (v *MapView) IsMultifloor() bool { return v.multifloor }

// FirstVisibleFloor returns the topmost floor of the last cache rebuild.
func (v *MapView) FirstVisibleFloor() int { return v.cachedFirstVisibleFloor }

// LastVisibleFloor returns the bottommost floor of the last cache rebuild.
func (v *MapView) LastVisibleFloor() int { return v.cachedLastVisibleFloor }

// calcFirstVisibleFloor computes the topmost floor that must be rendered
// for the current camera position. Tiles around the camera are probed
// upward floor by floor; a sight-limiting tile above a probe raises the
// first visible floor to just below it.
func (v *MapView) calcFirstVisibleFloor() int {
	z := world.SeaFloor

	switch {
	case v.lockedFirstVisibleFloor != -1:
		z = v.lockedFirstVisibleFloor
	default:
		camera := v.CameraPosition()

		// the camera is unknown until the controlled creature is placed
		if camera.IsValid() {
			if !v.multifloor {
				z = camera.Z
			} else {
				// with nothing limiting the view the first floor is the top
				firstFloor := 0

				// underground the awareness range bounds the view upward
				if camera.Z > world.SeaFloor {
					firstFloor = max(camera.Z-world.AwareUndergroundFloorRange, world.UndergroundFloor)
				}

				// probe the 3x3 neighborhood around the camera; corners are
				// skipped since diagonal sight does not pass through walls
				for ix := -1; ix <= 1 && firstFloor < camera.Z; ix++ {
					for iy := -1; iy <= 1 && firstFloor < camera.Z; iy++ {
						pos := camera.Translated(ix, iy)

						if (ix == 0 && iy == 0) || (abs(ix) != abs(iy) && v.world.IsLookPossible(pos)) {
							lookPossible := v.world.IsLookPossible(pos)

							upperPos := pos
							coveredPos := pos
							for {
								coveredPos = coveredPos.CoveredUp(1)
								upperPos = upperPos.Up(1)
								if !coveredPos.IsValid() || !upperPos.IsValid() || upperPos.Z < firstFloor {
									break
								}

								// the tile physically above
								if tile := v.world.Tile(upperPos); tile != nil && tile.LimitsFloorsView(!lookPossible) {
									firstFloor = upperPos.Z + 1
									break
								}

								// the tile geometrically above, following the
								// perspective shift
								if tile := v.world.Tile(coveredPos); tile != nil && tile.LimitsFloorsView(lookPossible) {
									firstFloor = coveredPos.Z + 1
									break
								}
							}
						}
					}
				}

				z = firstFloor
			}
		}
	}

	return clamp(z, 0, world.MaxZ)
}

// calcLastVisibleFloor computes the bottommost floor that must be rendered.
func (v *MapView) calcLastVisibleFloor() int {
	if !v.multifloor {
		return v.calcFirstVisibleFloor()
	}

	z := world.SeaFloor

	camera := v.CameraPosition()
	if camera.IsValid() {
		// underground only nearby floors below are visible; above ground
		// the view always reaches down to sea level
		if camera.Z > world.SeaFloor {
			z = camera.Z + world.AwareUndergroundFloorRange
		} else {
			z = world.SeaFloor
		}
	}

	if v.lockedFirstVisibleFloor != -1 {
		z = max(v.lockedFirstVisibleFloor, z)
	}

	return clamp(z, 0, world.MaxZ)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
