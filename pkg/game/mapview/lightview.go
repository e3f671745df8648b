package mapview

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"tilescope/pkg/engine/gfx"
	"tilescope/pkg/engine/world"
)

// lightSource is one pending light emission, in tile-buffer pixel
// coordinates.
type lightSource struct {
	center image.Point
	radius int
	color  color.RGBA
}

// LightView accumulates the light sources emitted during a tile pass and
// composites them, over the global ambient light, as a multiplicative layer
// on top of the tile layer.
type LightView struct {
	buffer      *gfx.FrameBuffer
	globalLight world.Light
	sources     []lightSource
	blend       ebiten.Blend
	gradient    *ebiten.Image
}

// NewLightView returns a light view accumulating lights additively.
func NewLightView() *LightView {
	return &LightView{
		buffer: gfx.NewFrameBuffer(),
		blend:  ebiten.BlendLighter,
	}
}

// SetGlobalLight sets the ambient light the sources are drawn over.
func (l *LightView) SetGlobalLight(light world.Light) {
	l.globalLight = light
}

// GlobalLight returns the ambient light.
func (l *LightView) GlobalLight() world.Light {
	return l.globalLight
}

// IsDark reports whether the ambient light leaves room for light sources
// to matter.
func (l *LightView) IsDark() bool {
	return l != nil && l.globalLight.Intensity < 250
}

// SetAdditiveBlending selects how overlapping lights combine: additive
// (the default) or maximum.
func (l *LightView) SetAdditiveBlending(add bool) {
	if add {
		l.blend = ebiten.BlendLighter
		return
	}
	l.blend = ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorOne,
		BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
		BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
		BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
		BlendOperationRGB:           ebiten.BlendOperationMax,
		BlendOperationAlpha:         ebiten.BlendOperationMax,
	}
}

// Reset drops all accumulated light sources.
func (l *LightView) Reset() {
	l.sources = l.sources[:0]
}

// Resize matches the accumulation buffer to the tile buffer size.
func (l *LightView) Resize(size image.Point) {
	l.buffer.Resize(size)
}

// AddLightSource implements world.LightPainter. The radius grows with the
// light intensity, one tile per intensity step.
func (l *LightView) AddLightSource(center image.Point, scale float64, light world.Light) {
	radius := int(float64(light.Intensity) * float64(world.TilePixels) * scale)
	if radius <= 0 {
		return
	}
	l.sources = append(l.sources, lightSource{
		center: center,
		radius: radius,
		color:  paletteColor(light.Color),
	})
}

// Draw composites the accumulated lights and multiplies the result onto
// dstRect of dst.
func (l *LightView) Draw(dst *ebiten.Image, dstRect, srcRect image.Rectangle) {
	img := l.buffer.Image()
	if img == nil {
		return
	}

	img.Fill(l.ambientColor())

	gradient := l.radialGradient()
	for _, s := range l.sources {
		op := &ebiten.DrawImageOptions{}
		op.Blend = l.blend
		sz := float64(gradient.Bounds().Dx())
		op.GeoM.Scale(float64(2*s.radius)/sz, float64(2*s.radius)/sz)
		op.GeoM.Translate(float64(s.center.X-s.radius), float64(s.center.Y-s.radius))
		op.ColorScale.Scale(
			float32(s.color.R)/255,
			float32(s.color.G)/255,
			float32(s.color.B)/255,
			1,
		)
		img.DrawImage(gradient, op)
	}

	src := img.SubImage(srcRect).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.Blend = blendMultiply
	op.GeoM.Scale(
		float64(dstRect.Dx())/float64(srcRect.Dx()),
		float64(dstRect.Dy())/float64(srcRect.Dy()),
	)
	op.GeoM.Translate(float64(dstRect.Min.X), float64(dstRect.Min.Y))
	dst.DrawImage(src, op)
}

// ambientColor is the palette ambient color scaled by its intensity, so a
// fully lit world multiplies to identity and darkness multiplies to black.
func (l *LightView) ambientColor() color.RGBA {
	c := paletteColor(l.globalLight.Color)
	f := uint32(l.globalLight.Intensity)
	return color.RGBA{
		R: uint8(uint32(c.R) * f / 255),
		G: uint8(uint32(c.G) * f / 255),
		B: uint8(uint32(c.B) * f / 255),
		A: 255,
	}
}

// radialGradient lazily builds the light falloff texture.
func (l *LightView) radialGradient() *ebiten.Image {
	if l.gradient != nil {
		return l.gradient
	}

	const size = 128
	pix := make([]byte, size*size*4)
	center := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			d := (dx*dx + dy*dy) / (center * center)
			v := 0.0
			if d < 1 {
				v = 1 - d
			}
			i := (y*size + x) * 4
			b := byte(v * 255)
			pix[i] = b
			pix[i+1] = b
			pix[i+2] = b
			pix[i+3] = 255
		}
	}

	l.gradient = ebiten.NewImage(size, size)
	l.gradient.WritePixels(pix)
	return l.gradient
}

// blendMultiply multiplies the source onto the destination, for darkening
// the tile layer by the light buffer.
var blendMultiply = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
	BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
	BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
	BlendFactorDestinationAlpha: ebiten.BlendFactorZero,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// paletteColor expands a 6x6x6 palette byte into an RGB color.
func paletteColor(c uint8) color.RGBA {
	return color.RGBA{
		R: uint8(int(c) / 36 % 6 * 51),
		G: uint8(int(c) / 6 % 6 * 51),
		B: uint8(int(c) % 6 * 51),
		A: 255,
	}
}
