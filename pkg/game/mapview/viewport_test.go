package mapview

import (
	"testing"

	"tilescope/pkg/engine/world"
)

func TestInitViewPortDirection(t *testing.T) {
	v := New(newFakeMap())

	tests := []struct {
		dir                      world.Direction
		left, right, top, bottom int
	}{
		{world.North, 9, 9, 7, 7},
		{world.South, 9, 9, 7, 7},
		{world.East, 10, 10, 6, 6},
		{world.West, 10, 10, 6, 6},
		{world.NorthEast, 10, 10, 7, 7},
		{world.SouthWest, 10, 10, 7, 7},
		{world.DirectionInvalid, 8, 8, 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			vp := v.viewPortDirection[tt.dir]
			if vp.left != tt.left || vp.right != tt.right || vp.top != tt.top || vp.bottom != tt.bottom {
				t.Errorf("viewport = {top:%d right:%d bottom:%d left:%d}, want {top:%d right:%d bottom:%d left:%d}",
					vp.top, vp.right, vp.bottom, vp.left, tt.top, tt.right, tt.bottom, tt.left)
			}
		})
	}
}

func TestCurrentViewPortFollowsWalkDirection(t *testing.T) {
	m := newFakeMap()
	v := New(m)

	c := &fakeCreature{pos: world.Position{X: 50, Y: 50, Z: 7}, dir: world.East, walking: true}
	v.FollowCreature(c)

	if got := v.currentViewPort(); got != v.viewPortDirection[world.East] {
		t.Errorf("walking east viewport = %+v, want %+v", got, v.viewPortDirection[world.East])
	}

	c.walking = false
	if got := v.currentViewPort(); got != v.viewPortDirection[world.DirectionInvalid] {
		t.Errorf("standing viewport = %+v, want neutral %+v", got, v.viewPortDirection[world.DirectionInvalid])
	}
}

func TestCanRenderTile(t *testing.T) {
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}

	// neutral viewport: left/right 8, top/bottom 6
	tests := []struct {
		name string
		dx   int
		dy   int
		tile fakeTile
		want bool
	}{
		{"camera square", 0, 0, fakeTile{}, true},
		{"well inside", -3, 4, fakeTile{}, true},
		{"left edge culled", -8, 0, fakeTile{}, false},
		{"just inside left", -7, 0, fakeTile{}, true},
		{"top edge culled", 0, -6, fakeTile{}, false},
		{"just inside top", 0, -5, fakeTile{}, true},
		{"right edge plain culled", 8, 0, fakeTile{}, false},
		{"right edge wide kept", 8, 0, fakeTile{wide: true}, true},
		{"right edge displaced kept", 8, 0, fakeTile{displacement: true}, true},
		{"beyond right wide only culled", 9, 0, fakeTile{wide: true}, false},
		{"beyond right wide and displaced kept", 9, 0, fakeTile{wide: true, displacement: true}, true},
		{"bottom edge plain culled", 0, 6, fakeTile{}, false},
		{"bottom edge tall kept", 0, 6, fakeTile{tall: true}, true},
		{"bottom edge displaced kept", 0, 6, fakeTile{displacement: true}, true},
		{"beyond bottom tall culled", 0, 7, fakeTile{tall: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFakeMap()
			v := New(m)
			v.SetCameraPosition(camera)

			tile := tt.tile
			tile.pos = camera.Translated(tt.dx, tt.dy)

			vp := v.viewPortDirection[world.DirectionInvalid]
			if got := v.canRenderTile(&tile, vp, nil); got != tt.want {
				t.Errorf("canRenderTile(dx=%d dy=%d) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestCanRenderTileFloorShift(t *testing.T) {
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	m := newFakeMap()
	v := New(m)
	v.SetCameraPosition(camera)
	vp := v.viewPortDirection[world.DirectionInvalid]

	// a tile one floor below shifts one square up-left before the edge test;
	// (-8,-6,+1) lands exactly on the culled left edge while (-7,-5,+1)
	// stays inside
	culled := &fakeTile{pos: world.Position{X: 50 - 9, Y: 50, Z: world.SeaFloor + 1}}
	if v.canRenderTile(culled, vp, nil) {
		t.Error("shifted tile on the left edge should be culled")
	}
	kept := &fakeTile{pos: world.Position{X: 50 - 8, Y: 50 - 4, Z: world.SeaFloor + 1}}
	if !v.canRenderTile(kept, vp, nil) {
		t.Error("shifted tile inside the viewport should render")
	}
}

func TestCanRenderTileExemptions(t *testing.T) {
	camera := world.Position{X: 50, Y: 50, Z: world.SeaFloor}
	m := newFakeMap()
	v := New(m)
	v.SetCameraPosition(camera)
	vp := v.viewPortDirection[world.DirectionInvalid]

	outside := &fakeTile{pos: camera.Translated(-20, 0)}

	// viewport edge debugging disables culling entirely
	v.SetDrawViewportEdge(true)
	if !v.canRenderTile(outside, vp, nil) {
		t.Error("viewport edge mode must not cull")
	}
	v.SetDrawViewportEdge(false)

	// in darkness, light-emitting tiles are never culled
	lit := &fakeTile{pos: camera.Translated(-20, 0), light: true}
	lights := NewLightView()
	lights.SetGlobalLight(world.Light{Color: 215, Intensity: 40})
	if !v.canRenderTile(lit, vp, lights) {
		t.Error("light-emitting tile culled during a dark light pass")
	}

	// with bright ambient light the same tile is culled normally
	lights.SetGlobalLight(world.Light{Color: 215, Intensity: 255})
	if v.canRenderTile(lit, vp, lights) {
		t.Error("light exemption applied despite bright ambient light")
	}
}
