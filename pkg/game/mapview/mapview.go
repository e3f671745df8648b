// Package mapview renders a multi-floor tile world around a moving camera.
// It decides which floors and tiles are visible, caches that visibility per
// frame, and composites layered offscreen buffers (tiles, lights, crosshair,
// static texts, creature information) into the final screen image.
package mapview

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/zyedidia/generic/mapset"

	"tilescope/pkg/engine/gfx"
	"tilescope/pkg/engine/world"
)

// frameCache holds the independently invalidatable offscreen layers.
type frameCache struct {
	tile                *gfx.FrameBuffer
	crosshair           *gfx.FrameBuffer
	staticText          *gfx.FrameBuffer
	creatureInformation *gfx.FrameBuffer
}

// crosshair marks a world position on the tile layer, e.g. the hovered tile.
type crosshair struct {
	positionChanged bool
	position        world.Position
	image           *ebiten.Image
}

// MapView renders a view of the world map centered on a camera position.
// All methods must be called from the render goroutine; a view is not safe
// for concurrent use.
type MapView struct {
	world world.Map

	// camera
	follow               bool
	followingCreature    world.Creature
	customCameraPosition world.Position
	lastCameraPosition   world.Position
	moveOffset           image.Point

	// floor visibility
	lockedFirstVisibleFloor int
	cachedFirstVisibleFloor int
	cachedLastVisibleFloor  int
	multifloor              bool

	// geometry
	visibleDimension    image.Point
	drawDimension       image.Point
	optimizedSize       image.Point
	virtualCenterOffset image.Point
	visibleCenterOffset image.Point
	tileSize            int
	scaleFactor         float64
	rectDimension       image.Rectangle
	maxTextureSize      int
	viewMode            ViewMode
	autoViewMode        bool

	// visible tile cache
	cachedVisibleTiles          [world.MaxZ + 1][]world.Tile
	floorMin, floorMax          int
	mustUpdateVisibleTilesCache bool

	visibleCreatures mapset.Set[world.Creature]

	viewPortDirection [world.DirectionInvalid + 1]viewPort

	frameCache frameCache
	crosshair  crosshair
	lightView  *LightView

	// shader cross-fade
	shader           *Shader
	nextShader       *Shader
	shaderSwitchDone bool
	fadeTimer        gfx.Timer
	fadeInTime       float64
	fadeOutTime      float64

	redrawFlag RedrawFlag

	minimumAmbientLight      float64
	lastFloorShadowingColor  color.RGBA
	creatureInfTimeRender    gfx.Timer
	drawLights               bool
	drawTexts                bool
	drawNames                bool
	drawHealthBars           bool
	drawManaBar              bool
	drawFloorShadowing       bool
	drawViewportEdge         bool
	drawAllGroundFirst       bool
	creatureInfoBeforeLight  bool
}

// New creates a view over m with the default 15x11 visible dimension, the
// aware-range derived optimized size, and automatic view mode selection.
func New(m world.Map) *MapView {
	aware := m.AwareRange()

	v := &MapView{
		world:                   m,
		follow:                  true,
		customCameraPosition:    world.InvalidPosition(),
		lastCameraPosition:      world.InvalidPosition(),
		lockedFirstVisibleFloor: -1,
		cachedFirstVisibleFloor: world.SeaFloor,
		cachedLastVisibleFloor:  world.SeaFloor,
		multifloor:              true,
		maxTextureSize:          DefaultMaxTextureSize,
		viewMode:                NearView,
		autoViewMode:            true,
		visibleCreatures:        mapset.New[world.Creature](),
		redrawFlag:              RedrawAll,
		shaderSwitchDone:        true,
		fadeTimer:               gfx.NewTimer(),
		creatureInfTimeRender:   gfx.NewTimer(),
		drawTexts:               true,
		drawNames:               true,
		drawHealthBars:          true,
		drawManaBar:             true,
		lastFloorShadowingColor: colorWhite,
		frameCache: frameCache{
			tile:                gfx.NewFrameBuffer(),
			crosshair:           gfx.NewFrameBuffer(),
			staticText:          gfx.NewFrameBuffer(),
			creatureInformation: gfx.NewFrameBuffer(),
		},
	}

	v.optimizedSize = image.Pt(aware.Horizontal()*world.TilePixels, aware.Vertical()*world.TilePixels)

	v.SetVisibleDimension(image.Pt(15, 11))
	v.initViewPortDirection()

	return v
}

// requestVisibleTilesCacheUpdate marks the visible tile cache stale; the
// next Draw rebuilds it.
func (v *MapView) requestVisibleTilesCacheUpdate() {
	v.mustUpdateVisibleTilesCache = true
}

// CameraPosition returns the current camera position: the followed
// creature's position, or the explicit override. The result is invalid while
// neither is known.
func (v *MapView) CameraPosition() world.Position {
	if v.IsFollowingCreature() {
		return v.followingCreature.Position()
	}
	return v.customCameraPosition
}

// FollowCreature makes the camera track the given creature.
func (v *MapView) FollowCreature(creature world.Creature) {
	v.follow = true
	v.followingCreature = creature
	v.requestVisibleTilesCacheUpdate()
}

// FollowingCreature returns the tracked creature, which may be nil.
func (v *MapView) FollowingCreature() world.Creature {
	return v.followingCreature
}

// IsFollowingCreature reports whether the camera tracks a creature.
func (v *MapView) IsFollowingCreature() bool {
	return v.followingCreature != nil && v.follow
}

// SetCameraPosition pins the camera to an explicit position, disabling
// creature following.
func (v *MapView) SetCameraPosition(pos world.Position) {
	v.follow = false
	v.customCameraPosition = pos
	v.requestVisibleTilesCacheUpdate()
}

// Move shifts the camera by a pixel offset. Whole tiles are committed to
// the camera position; the remainder stays as a smooth-scroll offset.
func (v *MapView) Move(x, y int) {
	v.moveOffset.X += x
	v.moveOffset.Y += y

	requestTilesUpdate := false
	if tmp := v.moveOffset.X / world.TilePixels; tmp != 0 {
		v.customCameraPosition.X += tmp
		v.moveOffset.X %= world.TilePixels
		requestTilesUpdate = true
	}
	if tmp := v.moveOffset.Y / world.TilePixels; tmp != 0 {
		v.customCameraPosition.Y += tmp
		v.moveOffset.Y %= world.TilePixels
		requestTilesUpdate = true
	}

	if requestTilesUpdate {
		v.requestVisibleTilesCacheUpdate()
	}
}

// resetLastCamera forgets the last known camera position so the next cache
// rebuild treats the camera as freshly placed.
func (v *MapView) resetLastCamera() {
	v.lastCameraPosition = world.InvalidPosition()
}

// isInRange reports whether pos lies within the aware range around the
// camera, on the camera's floor.
func (v *MapView) isInRange(pos world.Position) bool {
	camera := v.CameraPosition()
	if camera.Z != v.lastCameraPosition.Z {
		return false
	}
	aware := v.world.AwareRange()
	return camera.IsInRange(pos, aware.Left, aware.Right, aware.Top, aware.Bottom)
}

// VisibleCreatures returns the creatures currently tracked for the
// information overlay.
func (v *MapView) VisibleCreatures() []world.Creature {
	creatures := make([]world.Creature, 0, v.visibleCreatures.Size())
	v.visibleCreatures.Each(func(c world.Creature) {
		creatures = append(creatures, c)
	})
	return creatures
}

// SetDrawTexts toggles static and animated text drawing.
func (v *MapView) SetDrawTexts(enable bool) { v.drawTexts = enable }

// IsDrawingTexts reports whether on-map texts are drawn.
func (v *MapView) IsDrawingTexts() bool { return v.drawTexts }

// SetDrawNames toggles creature name drawing.
func (v *MapView) SetDrawNames(enable bool) {
	v.drawNames = enable
	v.SchedulePainting(RedrawAllInformation, DefaultScheduleDelay)
}

// IsDrawingNames reports whether creature names are drawn.
func (v *MapView) IsDrawingNames() bool { return v.drawNames }

// SetDrawHealthBars toggles creature health bar drawing.
func (v *MapView) SetDrawHealthBars(enable bool) {
	v.drawHealthBars = enable
	v.SchedulePainting(RedrawAllInformation, DefaultScheduleDelay)
}

// IsDrawingHealthBars reports whether health bars are drawn.
func (v *MapView) IsDrawingHealthBars() bool { return v.drawHealthBars }

// SetDrawManaBar toggles creature mana bar drawing.
func (v *MapView) SetDrawManaBar(enable bool) {
	v.drawManaBar = enable
	v.SchedulePainting(RedrawAllInformation, DefaultScheduleDelay)
}

// IsDrawingManaBar reports whether mana bars are drawn.
func (v *MapView) IsDrawingManaBar() bool { return v.drawManaBar }

// SetDrawLights toggles the light layer. Enabling allocates the light view;
// disabling releases it.
func (v *MapView) SetDrawLights(enable bool) {
	if enable == v.drawLights {
		return
	}
	if enable {
		v.lightView = NewLightView()
	} else {
		v.lightView = nil
	}
	v.drawLights = enable
	v.SchedulePainting(RedrawAll, DefaultScheduleDelay)
}

// IsDrawingLights reports whether the light layer is drawn and the ambient
// light is dark enough for it to matter.
func (v *MapView) IsDrawingLights() bool {
	return v.drawLights && v.lightView.IsDark()
}

// SetMinimumAmbientLight sets the floor for ambient light intensity, in the
// range 0 (no floor) to 1 (always fully lit).
func (v *MapView) SetMinimumAmbientLight(intensity float64) {
	v.minimumAmbientLight = intensity
	v.SchedulePainting(RedrawLight, DefaultScheduleDelay)
}

// MinimumAmbientLight returns the ambient light intensity floor.
func (v *MapView) MinimumAmbientLight() float64 { return v.minimumAmbientLight }

// SetDrawFloorShadowing toggles per-floor brightness tinting.
func (v *MapView) SetDrawFloorShadowing(enable bool) {
	v.lastFloorShadowingColor = colorWhite
	v.drawFloorShadowing = enable
	v.SchedulePainting(RedrawThing, DefaultScheduleDelay)
}

// IsDrawingFloorShadowing reports whether floor shadowing is enabled.
func (v *MapView) IsDrawingFloorShadowing() bool { return v.drawFloorShadowing }

// LastFloorShadowingColor returns the tint of the floor most recently drawn.
func (v *MapView) LastFloorShadowingColor() color.RGBA { return v.lastFloorShadowingColor }

// SetDrawViewportEdge disables viewport culling so tiles at and beyond the
// draw window edge stay visible, for debugging the culler.
func (v *MapView) SetDrawViewportEdge(enable bool) {
	v.drawViewportEdge = enable
	v.SchedulePainting(RedrawThing, DefaultScheduleDelay)
}

// IsDrawingViewportEdge reports whether viewport culling is disabled.
func (v *MapView) IsDrawingViewportEdge() bool { return v.drawViewportEdge }

// SetDrawAllGroundFirst selects the ground-first draw order: all ground of a
// floor before everything above it, instead of interleaved per tile. The
// default is interleaved.
func (v *MapView) SetDrawAllGroundFirst(enable bool) {
	v.drawAllGroundFirst = enable
	v.SchedulePainting(RedrawThing, DefaultScheduleDelay)
}

// SetCreatureInformationBeforeLight draws the creature information layer
// before the light layer instead of after it. The default is after, so
// names and bars stay readable in darkness.
func (v *MapView) SetCreatureInformationBeforeLight(enable bool) {
	v.creatureInfoBeforeLight = enable
}

// SetMaxTextureSize constrains the offscreen buffer dimensions to the
// graphics backend's texture size limit.
func (v *MapView) SetMaxTextureSize(size int) {
	v.maxTextureSize = size
}
