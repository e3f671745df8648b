package mapview

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"tilescope/pkg/engine/world"
)

// Draw composites the view into rect of screen. The visible tile cache is
// rebuilt first when stale; the tile, light, crosshair, creature information
// and text layers are then redrawn or reused according to their schedules.
func (v *MapView) Draw(screen *ebiten.Image, rect image.Rectangle) {
	if v.mustUpdateVisibleTilesCache {
		v.updateVisibleTilesCache()
	}

	camera := v.CameraPosition()
	if !camera.IsValid() {
		return
	}

	redrawLight := v.drawLights && v.redrawFlag&RedrawLight != 0
	redrawThing := v.frameCache.tile.CanUpdate() || redrawLight

	if redrawThing {
		if redrawLight {
			v.lightView.SetGlobalLight(v.ambientLight(camera))
			v.lightView.Resize(v.frameCache.tile.Size())
			v.lightView.Reset()
		}
		v.drawFloors(camera, redrawLight)
		v.frameCache.tile.Rendered()
		v.redrawFlag &^= RedrawThing
	}

	fadeOpacity := v.currentFadeOpacity()

	srcRect := v.calcFramebufferSource(rect.Size())
	v.drawTileLayer(screen, rect, srcRect, camera, fadeOpacity)
	v.drawCrosshair(screen, rect, srcRect, camera)

	horizontalStretch := float64(rect.Dx()) / float64(srcRect.Dx())
	verticalStretch := float64(rect.Dy()) / float64(srcRect.Dy())

	if v.creatureInfoBeforeLight {
		v.drawCreatureInformation(screen, rect, srcRect, camera, horizontalStretch, verticalStretch)
	}

	if v.drawLights {
		v.lightView.Draw(screen, rect, srcRect)
		v.redrawFlag &^= RedrawLight
	}

	if !v.creatureInfoBeforeLight {
		v.drawCreatureInformation(screen, rect, srcRect, camera, horizontalStretch, verticalStretch)
	}

	v.drawText(screen, rect, srcRect, camera, horizontalStretch, verticalStretch)
}

// overlayMargin is the border, in pixels, kept around the text and creature
// information buffers. Overlays anchored just outside the view still reach
// into it, so they are drawn into the margin and clipped at the blit.
const overlayMargin = 2 * world.TilePixels

// overlaySize extends a destination size by the overlay margin on all sides.
func overlaySize(size image.Point) image.Point {
	return size.Add(image.Pt(2*overlayMargin, 2*overlayMargin))
}

// ambientLight resolves the global light for this frame. Underground floors
// have no sky, so the world light gives way to full darkness there; the
// configured minimum ambient light floors the result either way.
func (v *MapView) ambientLight(camera world.Position) world.Light {
	ambient := v.world.Light()
	if camera.Z > world.SeaFloor {
		ambient = world.Light{Color: 215, Intensity: 0}
	}
	if floor := uint8(v.minimumAmbientLight * 255); ambient.Intensity < floor {
		ambient.Intensity = floor
	}
	return ambient
}

// drawFloors renders every visible floor into the tile buffer, deepest floor
// first so nearer floors paint over it. Missiles draw after their floor's
// tiles. With collectLights set the pass also feeds the light view.
func (v *MapView) drawFloors(camera world.Position, collectLights bool) {
	dst := v.frameCache.tile.Image()
	if dst == nil {
		return
	}
	dst.Fill(color.Black)

	var lights world.LightPainter
	var lightView *LightView
	if collectLights {
		lights = v.lightView
		lightView = v.lightView
	}

	vp := v.currentViewPort()

	for z := v.floorMax; z >= v.floorMin; z-- {
		tint := v.onFloorDrawingStart(z, camera)

		tiles := v.cachedVisibleTiles[z][:0:0]
		for _, tile := range v.cachedVisibleTiles[z] {
			if v.canRenderTile(tile, vp, lightView) {
				tiles = append(tiles, tile)
			}
		}

		if v.drawAllGroundFirst {
			for _, tile := range tiles {
				tile.DrawGround(dst, v.transformPositionTo2D(tile.Position(), camera), v.scaleFactor, tint, lights)
			}
			for _, tile := range tiles {
				tile.DrawAboveGround(dst, v.transformPositionTo2D(tile.Position(), camera), v.scaleFactor, tint, lights)
			}
		} else {
			for _, tile := range tiles {
				tile.Draw(dst, v.transformPositionTo2D(tile.Position(), camera), v.scaleFactor, tint, lights)
			}
		}

		for _, missile := range v.world.FloorMissiles(z) {
			missile.Draw(dst, v.transformPositionTo2D(missile.Position(), camera), v.scaleFactor, lights)
		}
	}
}

// onFloorDrawingStart returns the tint for floor z. With floor shadowing
// enabled, floors below the camera darken with depth so the camera floor
// stands out.
func (v *MapView) onFloorDrawingStart(z int, camera world.Position) color.RGBA {
	tint := colorWhite
	if v.drawFloorShadowing {
		if depth := z - camera.Z; depth > 0 {
			brightness := 1 - 0.2*float64(depth)
			if brightness < 0.25 {
				brightness = 0.25
			}
			b := uint8(math.Round(brightness * 255))
			tint = color.RGBA{R: b, G: b, B: b, A: 255}
		}
	}
	v.lastFloorShadowingColor = tint
	return tint
}

// drawTileLayer stretches srcRect of the tile buffer onto rect of screen,
// applying the active shader and the cross-fade opacity. Shaders only apply
// in near view, where the per-pixel world coordinates they receive are
// meaningful.
func (v *MapView) drawTileLayer(screen *ebiten.Image, rect, srcRect image.Rectangle, camera world.Position, opacity float64) {
	img := v.frameCache.tile.Image()
	if img == nil || srcRect.Dx() <= 0 || srcRect.Dy() <= 0 {
		return
	}
	src := img.SubImage(srcRect.Intersect(img.Bounds())).(*ebiten.Image)

	scaleX := float64(rect.Dx()) / float64(srcRect.Dx())
	scaleY := float64(rect.Dy()) / float64(srcRect.Dy())

	if v.shader != nil && v.shader.Program != nil && v.viewMode == NearView {
		center := srcRect.Min.Add(srcRect.Size().Div(2))
		global := image.Pt(
			(camera.X-v.drawDimension.X/2)*v.tileSize,
			-(camera.Y-v.drawDimension.Y/2)*v.tileSize,
		)

		op := &ebiten.DrawRectShaderOptions{}
		op.Images[0] = src
		op.Uniforms = map[string]any{
			"MapCenterCoord": []float32{float32(center.X), float32(center.Y)},
			"MapGlobalCoord": []float32{float32(global.X), float32(global.Y)},
			"MapZoom":        float32(v.scaleFactor),
		}
		op.GeoM.Scale(scaleX, scaleY)
		op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
		op.ColorScale.ScaleAlpha(float32(opacity))
		screen.DrawRectShader(srcRect.Dx(), srcRect.Dy(), v.shader.Program, op)
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scaleX, scaleY)
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleAlpha(float32(opacity))
	screen.DrawImage(src, op)
}

// drawCreatureInformation renders names and bars for the visible creatures
// into the information buffer and blits it over rect. The buffer is rebuilt
// when scheduled, when its size no longer matches rect, or when a creature's
// dynamic information changed.
func (v *MapView) drawCreatureInformation(screen *ebiten.Image, rect, srcRect image.Rectangle, camera world.Position, horizontalStretch, verticalStretch float64) {
	if !v.drawNames && !v.drawHealthBars && !v.drawManaBar {
		return
	}

	var flags world.InformationFlag
	if v.drawNames {
		flags |= world.DrawNames
	}
	if v.drawHealthBars {
		flags |= world.DrawBars
	}
	if v.drawManaBar {
		flags |= world.DrawManaBar
	}

	buf := v.frameCache.creatureInformation
	v.visibleCreatures.Each(func(c world.Creature) {
		if c.DynamicInformationChanged() {
			v.redrawFlag |= RedrawDynamicCreatureInformation
			buf.Update()
		}
	})

	bufSize := overlaySize(rect.Size())
	resized := buf.Size() != bufSize
	if resized {
		v.redrawFlag |= RedrawCreatureInformation
		buf.Update()
	}
	buf.Resize(bufSize)

	img := buf.Image()
	if img == nil {
		return
	}

	if resized ||
		(buf.CanUpdate() && v.creatureInfTimeRender.ElapsedMillis() >= DefaultScheduleDelay.Milliseconds()) {
		full := v.creatureInformationFullPass()
		if full {
			img.Clear()
		}
		local := image.Rectangle{Max: bufSize}

		v.visibleCreatures.Each(func(c world.Creature) {
			if !full && !c.DynamicInformationChanged() {
				return
			}
			if !c.CanBeSeen() {
				return
			}
			tile := c.Tile()
			if tile == nil {
				return
			}

			jump := c.JumpOffset()
			disp := c.Displacement()
			offset := c.DrawOffset().Add(image.Pt(16-disp.X, -disp.Y-2))

			p := v.transformPositionTo2D(c.Position(), camera).Sub(srcRect.Min)
			p.X += int(math.Round(float64(offset.X)*v.scaleFactor - float64(jump.X)*v.scaleFactor))
			p.Y += int(math.Round(float64(offset.Y)*v.scaleFactor - float64(jump.Y)*v.scaleFactor))
			p.X = int(float64(p.X) * horizontalStretch)
			p.Y = int(float64(p.Y) * verticalStretch)
			p = p.Add(image.Pt(overlayMargin, overlayMargin))

			c.DrawInformation(img, p, tile.IsCovered(), local, flags)
			c.ResetDynamicInformation()
		})

		buf.Rendered()
		v.creatureInfTimeRender.Restart()
		if full {
			v.redrawFlag &^= RedrawCreatureInformation
		} else {
			v.redrawFlag &^= RedrawDynamicCreatureInformation
		}
	}

	margin := image.Pt(overlayMargin, overlayMargin)
	src := img.SubImage(image.Rectangle{Min: margin, Max: margin.Add(rect.Size())}).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	screen.DrawImage(src, op)
}

// creatureInformationFullPass reports whether the next information rebuild
// must clear the buffer and repaint every creature. Only a pure dynamic
// request allows the cheaper pass that repaints changed creatures in place.
func (v *MapView) creatureInformationFullPass() bool {
	return v.redrawFlag&RedrawStaticCreatureInformation != 0 ||
		v.redrawFlag&RedrawDynamicCreatureInformation == 0
}

// drawText renders on-map texts. Static texts are cached in their own
// buffer; animated texts change every frame and draw straight to the screen.
// Spoken messages follow their speaker across floors, plain texts only show
// on the camera floor.
func (v *MapView) drawText(screen *ebiten.Image, rect, srcRect image.Rectangle, camera world.Position, horizontalStretch, verticalStretch float64) {
	if !v.drawTexts {
		return
	}

	statics := v.world.StaticTexts()
	animated := v.world.AnimatedTexts()
	if len(statics) == 0 && len(animated) == 0 {
		return
	}

	buf := v.frameCache.staticText
	bufSize := overlaySize(rect.Size())
	redraw := buf.CanUpdate() || buf.Size() != bufSize
	buf.Resize(bufSize)

	if img := buf.Image(); img != nil {
		if redraw {
			img.Clear()
			local := image.Rectangle{Max: bufSize}

			for _, st := range statics {
				pos := st.Position()
				if pos.Z != camera.Z && !st.IsMessage() {
					continue
				}
				p := v.transformPositionTo2D(pos, camera).Sub(srcRect.Min)
				p.X = int(float64(p.X) * horizontalStretch)
				p.Y = int(float64(p.Y) * verticalStretch)
				p = p.Add(image.Pt(overlayMargin, overlayMargin))
				st.DrawText(img, p, local)
			}

			buf.Rendered()
			v.redrawFlag &^= RedrawStaticText
		}

		margin := image.Pt(overlayMargin, overlayMargin)
		src := img.SubImage(image.Rectangle{Min: margin, Max: margin.Add(rect.Size())}).(*ebiten.Image)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
		screen.DrawImage(src, op)
	}

	for _, at := range animated {
		pos := at.Position()
		if pos.Z != camera.Z {
			continue
		}
		p := v.transformPositionTo2D(pos, camera).Sub(srcRect.Min)
		p.X = int(float64(p.X) * horizontalStretch)
		p.Y = int(float64(p.Y) * verticalStretch)
		at.DrawText(screen, p.Add(rect.Min), rect)
	}
}

// transformPositionTo2D projects a world position into tile buffer pixel
// coordinates relative to the camera. Each floor of height difference shifts
// the projection one tile up and left.
func (v *MapView) transformPositionTo2D(pos, relative world.Position) image.Point {
	dz := relative.Z - pos.Z
	return image.Pt(
		(v.virtualCenterOffset.X+(pos.X-relative.X)-dz)*v.tileSize,
		(v.virtualCenterOffset.Y+(pos.Y-relative.Y)-dz)*v.tileSize,
	)
}

// calcFramebufferSource computes the tile buffer region to present for a
// destination of destSize: the visible window inside the draw buffer,
// shifted by the smooth-scroll offset and scaled to the destination's
// aspect ratio.
func (v *MapView) calcFramebufferSource(destSize image.Point) image.Rectangle {
	drawOffset := v.drawDimension.Sub(v.visibleDimension).Sub(image.Pt(1, 1)).Div(2).Mul(v.tileSize)
	if v.IsFollowingCreature() {
		walk := v.followingCreature.WalkOffset()
		drawOffset = drawOffset.Add(image.Pt(
			int(float64(walk.X)*v.scaleFactor),
			int(float64(walk.Y)*v.scaleFactor),
		))
	} else if v.moveOffset != (image.Point{}) {
		drawOffset = drawOffset.Add(image.Pt(
			int(float64(v.moveOffset.X)*v.scaleFactor),
			int(float64(v.moveOffset.Y)*v.scaleFactor),
		))
	}

	srcVisible := v.visibleDimension.Mul(v.tileSize)
	srcSize := scaleToFit(destSize, srcVisible)
	drawOffset.X += (srcVisible.X - srcSize.X) / 2
	drawOffset.Y += (srcVisible.Y - srcSize.Y) / 2

	return image.Rectangle{Min: drawOffset, Max: drawOffset.Add(srcSize)}
}

// scaleToFit scales size to the largest dimensions that fit inside bounds
// while keeping its aspect ratio.
func scaleToFit(size, bounds image.Point) image.Point {
	if size.X <= 0 || size.Y <= 0 {
		return bounds
	}
	f := math.Min(float64(bounds.X)/float64(size.X), float64(bounds.Y)/float64(size.Y))
	return image.Pt(
		int(math.Round(float64(size.X)*f)),
		int(math.Round(float64(size.Y)*f)),
	)
}

// PositionAt maps a screen point inside a view of mapSize back to the world
// position under it, on the camera floor. It returns an invalid position
// while the camera is unknown or the point falls outside the world.
func (v *MapView) PositionAt(point image.Point, mapSize image.Point) world.Position {
	camera := v.CameraPosition()
	if !camera.IsValid() || mapSize.X <= 0 || mapSize.Y <= 0 {
		return world.InvalidPosition()
	}

	srcRect := v.calcFramebufferSource(mapSize)
	horizontalStretch := float64(srcRect.Dx()) / float64(mapSize.X)
	verticalStretch := float64(srcRect.Dy()) / float64(mapSize.Y)

	bufferPos := image.Pt(
		int(float64(point.X)*horizontalStretch),
		int(float64(point.Y)*verticalStretch),
	)
	centerOffset := bufferPos.Add(srcRect.Min).Div(v.tileSize)

	tilePos2D := v.visibleCenterOffset.Sub(v.drawDimension).Add(centerOffset).Add(image.Pt(2, 2))
	if tilePos2D.X+camera.X < 0 && tilePos2D.Y+camera.Y < 0 {
		return world.InvalidPosition()
	}

	pos := world.Position{X: camera.X + tilePos2D.X, Y: camera.Y + tilePos2D.Y, Z: camera.Z}
	if !pos.IsValid() {
		return world.InvalidPosition()
	}
	return pos
}
