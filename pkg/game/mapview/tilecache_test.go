package mapview

import (
	"image"
	"testing"

	"tilescope/pkg/engine/world"
)

func TestVisibleTilesCacheCoversDrawWindow(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 30, 30, 70, 70)
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	v := newTestView(t, m, camera)

	dim := v.DrawDimension()
	want := dim.X * dim.Y
	if got := len(v.VisibleTiles(world.SeaFloor)); got != want {
		t.Errorf("visible tiles = %d, want %d", got, want)
	}

	if min, max := v.VisibleFloorRange(); min != world.SeaFloor || max != world.SeaFloor {
		t.Errorf("floor range = %d..%d, want %d..%d", min, max, world.SeaFloor, world.SeaFloor)
	}
}

func TestVisibleTilesCacheDiagonalOrder(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 30, 30, 70, 70)
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	v := newTestView(t, m, camera)

	tiles := v.VisibleTiles(world.SeaFloor)
	if len(tiles) < 3 {
		t.Fatalf("visible tiles = %d, want at least 3", len(tiles))
	}

	// the window's top-left corner comes first, then its / diagonal
	// neighbors bottom-to-top
	want := []world.Position{
		camera.Translated(-8, -6),
		camera.Translated(-8, -5),
		camera.Translated(-7, -6),
	}
	for i, w := range want {
		if got := tiles[i].Position(); got != w {
			t.Errorf("tiles[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestVisibleTilesCacheDeterministic(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 30, 30, 70, 70)
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	v := newTestView(t, m, camera)

	first := append([]world.Tile(nil), v.VisibleTiles(world.SeaFloor)...)
	v.requestVisibleTilesCacheUpdate()
	v.updateVisibleTilesCache()
	second := v.VisibleTiles(world.SeaFloor)

	if len(first) != len(second) {
		t.Fatalf("rebuild changed tile count: %d != %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rebuild changed order at %d", i)
		}
	}
}

func TestVisibleTilesCacheInvalidCamera(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 30, 30, 70, 70)
	v := New(m)
	v.updateVisibleTilesCache()

	for z := 0; z <= world.MaxZ; z++ {
		if got := len(v.VisibleTiles(z)); got != 0 {
			t.Errorf("floor %d has %d visible tiles without a camera", z, got)
		}
	}
}

func TestVisibleTilesCacheSkipsUndrawableAndCovered(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 30, 30, 70, 70)
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}

	m.tiles[camera.Translated(1, 1)].notDrawable = true
	m.covered[camera.Translated(2, 2)] = true

	v := newTestView(t, m, camera)

	dim := v.DrawDimension()
	want := dim.X*dim.Y - 2
	if got := len(v.VisibleTiles(world.SeaFloor)); got != want {
		t.Errorf("visible tiles = %d, want %d", got, want)
	}
}

func TestVisibleTilesCacheNotifiesTiles(t *testing.T) {
	m := newFakeMap()
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	tile := m.addTile(camera)
	v := newTestView(t, m, camera)

	if tile.listedCount != 1 {
		t.Errorf("tile listed %d times, want 1", tile.listedCount)
	}

	v.requestVisibleTilesCacheUpdate()
	v.updateVisibleTilesCache()
	if tile.listedCount != 2 {
		t.Errorf("tile listed %d times after rebuild, want 2", tile.listedCount)
	}
}

func TestVisibleTilesCacheMultipleFloors(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 30, 30, 70, 70)
	m.fillFloor(world.SeaFloor-1, 30, 30, 70, 70)
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	v := newTestView(t, m, camera)

	if min, max := v.VisibleFloorRange(); min != world.SeaFloor-1 || max != world.SeaFloor {
		t.Errorf("floor range = %d..%d, want %d..%d", min, max, world.SeaFloor-1, world.SeaFloor)
	}
	if got := len(v.VisibleTiles(world.SeaFloor - 1)); got == 0 {
		t.Error("floor above camera has no visible tiles")
	}
}

func TestOnTileUpdatePatchesVisibleCreatures(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 30, 30, 70, 70)
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	v := newTestView(t, m, camera)

	near := &fakeCreature{pos: camera.Translated(2, 2)}
	v.OnTileUpdate(near.pos, near, OperationAdd)
	if got := len(v.VisibleCreatures()); got != 1 {
		t.Fatalf("visible creatures = %d, want 1", got)
	}

	far := &fakeCreature{pos: camera.Translated(100, 0)}
	v.OnTileUpdate(far.pos, far, OperationAdd)
	if got := len(v.VisibleCreatures()); got != 1 {
		t.Errorf("out-of-range creature entered the visible set")
	}

	v.OnTileUpdate(near.pos, near, OperationRemove)
	if got := len(v.VisibleCreatures()); got != 0 {
		t.Errorf("visible creatures after remove = %d, want 0", got)
	}
}

func TestOnTileUpdateCleanInvalidatesCache(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 30, 30, 70, 70)
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	v := newTestView(t, m, camera)

	if v.mustUpdateVisibleTilesCache {
		t.Fatal("cache unexpectedly stale after rebuild")
	}
	v.OnTileUpdate(camera, nil, OperationClean)
	if !v.mustUpdateVisibleTilesCache {
		t.Error("clean operation did not invalidate the cache")
	}
}

func TestOnFloorChangeRefreshesCreatures(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 30, 30, 70, 70)
	m.fillFloor(world.SeaFloor+1, 30, 30, 70, 70)
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}

	spectator := &fakeCreature{pos: camera.Translated(1, 0)}
	m.creatures = append(m.creatures, spectator)

	v := newTestView(t, m, camera)
	if got := len(v.VisibleCreatures()); got != 1 {
		t.Fatalf("visible creatures = %d, want 1", got)
	}

	// crossing a floor re-resolves spectators on the new floor
	v.SetCameraPosition(world.Position{X: 50, Y: 50, Z: world.SeaFloor + 1})
	v.updateVisibleTilesCache()
	if got := len(v.VisibleCreatures()); got != 0 {
		t.Errorf("visible creatures after floor change = %d, want 0", got)
	}
}

func TestVisibleTilesCacheHugeViewCap(t *testing.T) {
	m := newFakeMap()
	m.fillFloor(world.SeaFloor, 1, 1, 132, 132)
	camera := world.Position{X: 66, Y: 66, Z: world.SeaFloor}

	v := New(m)
	v.SetVisibleDimension(image.Pt(129, 129))
	v.SetCameraPosition(camera)
	v.updateVisibleTilesCache()

	if got := v.ViewMode(); got != HugeView {
		t.Fatalf("view mode = %v, want huge", got)
	}

	window := v.DrawDimension().X * v.DrawDimension().Y
	got := len(v.VisibleTiles(world.SeaFloor))
	if got >= window {
		t.Fatalf("visible tiles = %d, traversal did not truncate below the %d-tile window", got, window)
	}
	if want := maxTileDraws + 1; got != want {
		t.Errorf("visible tiles = %d, want %d at the cap", got, want)
	}
}
