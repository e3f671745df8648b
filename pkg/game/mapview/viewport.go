package mapview

import "tilescope/pkg/engine/world"

// viewPort holds the directional draw-window extents: how far a tile may
// sit from the camera, per axis, and still be drawn. Extents vary with the
// followed creature's facing so the window anticipates movement.
type viewPort struct {
	top, right, bottom, left int
}

// initViewPortDirection derives one viewport per facing direction from the
// world aware range. Walking north or south widens the vertical extents,
// east or west the horizontal ones, diagonals widen all four; the neutral
// viewport used while standing still narrows the horizontal extents.
func (v *MapView) initViewPortDirection() {
	aware := v.world.AwareRange()
	for _, dir := range world.AllDirections() {
		vp := &v.viewPortDirection[dir]
		vp.top = aware.Top
		vp.right = aware.Right
		vp.bottom = vp.top
		vp.left = vp.right

		switch dir {
		case world.North, world.South:
			vp.top++
			vp.bottom++

		case world.West, world.East:
			vp.right++
			vp.left++

		case world.NorthEast, world.SouthEast, world.NorthWest, world.SouthWest:
			vp.left++
			vp.bottom++
			vp.top++
			vp.right++

		case world.DirectionInvalid:
			vp.left--
			vp.right--
		}
	}
}

// currentViewPort returns the viewport matching the followed creature's
// walking direction, or the neutral viewport.
func (v *MapView) currentViewPort() viewPort {
	if v.IsFollowingCreature() && v.followingCreature.IsWalking() {
		return v.viewPortDirection[v.followingCreature.Direction()]
	}
	return v.viewPortDirection[world.DirectionInvalid]
}

// canRenderTile decides whether a cached tile actually falls inside the
// directional draw window. Tiles emitting light are never culled during a
// dark light pass, since their light must reach neighboring visible tiles.
//
// The edge test is asymmetric on purpose: left/top edges are strict cutoffs
// while right/bottom edge positions are exempted for tiles with wide or
// tall content or a draw displacement, because oversized sprites extend
// towards the top-left in this projection.
func (v *MapView) canRenderTile(tile world.Tile, vp viewPort, lights *LightView) bool {
	if v.drawViewportEdge || (lights != nil && lights.IsDark() && tile.HasLight()) {
		return true
	}

	camera := v.CameraPosition()
	tilePos := tile.Position()

	dz := tilePos.Z - camera.Z
	checkPos := tilePos.Translated(dz, dz)

	if camera.X-checkPos.X >= vp.left || (checkPos.X-camera.X == vp.right && !tile.HasWideThings() && !tile.HasDisplacement()) {
		return false
	}

	if camera.Y-checkPos.Y >= vp.top || (checkPos.Y-camera.Y == vp.bottom && !tile.HasTallThings() && !tile.HasDisplacement()) {
		return false
	}

	if (checkPos.X-camera.X > vp.right && (!tile.HasWideThings() || !tile.HasDisplacement())) || checkPos.Y-camera.Y > vp.bottom {
		return false
	}

	return true
}
