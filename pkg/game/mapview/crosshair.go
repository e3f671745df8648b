package mapview

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"tilescope/pkg/engine/world"
)

// SetCrosshairPosition moves the crosshair marker to pos. An invalid
// position hides it.
func (v *MapView) SetCrosshairPosition(pos world.Position) {
	if pos == v.crosshair.position {
		return
	}
	v.crosshair.position = pos
	v.crosshair.positionChanged = true
}

// CrosshairPosition returns the marked position, which may be invalid.
func (v *MapView) CrosshairPosition() world.Position {
	return v.crosshair.position
}

// SetCrosshairImage sets the marker image. A nil image hides the crosshair.
func (v *MapView) SetCrosshairImage(img *ebiten.Image) {
	v.crosshair.image = img
	v.crosshair.positionChanged = true
}

// drawCrosshair blits the crosshair layer, rebuilding it after the marker
// moved or changed image.
func (v *MapView) drawCrosshair(screen *ebiten.Image, rect, srcRect image.Rectangle, camera world.Position) {
	if v.crosshair.image == nil || !v.crosshair.position.IsValid() {
		return
	}
	if v.crosshair.position.Z != camera.Z {
		return
	}

	buf := v.frameCache.crosshair
	img := buf.Image()
	if img == nil {
		return
	}

	if v.crosshair.positionChanged || buf.CanUpdate() {
		img.Clear()

		dest := v.transformPositionTo2D(v.crosshair.position, camera)
		bounds := v.crosshair.image.Bounds()

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(
			float64(v.tileSize)/float64(bounds.Dx()),
			float64(v.tileSize)/float64(bounds.Dy()),
		)
		op.GeoM.Translate(float64(dest.X), float64(dest.Y))
		img.DrawImage(v.crosshair.image, op)

		buf.Rendered()
		v.crosshair.positionChanged = false
	}

	buf.DrawRegion(screen, rect, srcRect)
}
