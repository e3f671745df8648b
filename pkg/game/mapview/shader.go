package mapview

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Shader wraps a compiled fragment shader applied when compositing the tile
// layer onto the screen. The Program may be nil in tests; Name identifies the
// shader in logs and dumps.
type Shader struct {
	Name    string
	Program *ebiten.Shader
}

// SetShader installs a shader for the tile layer composite; nil removes the
// active one. With a positive fadeOut and a shader already active, the
// switch cross-fades: the active shader fades out over fadeOut seconds, then
// the new one fades in over fadeIn seconds. Otherwise the switch is
// immediate, with an optional fade-in. Times are in seconds.
func (v *MapView) SetShader(shader *Shader, fadeIn, fadeOut float64) {
	if (shader == v.shader && v.shaderSwitchDone) || (shader == v.nextShader && !v.shaderSwitchDone) {
		return
	}

	if fadeOut > 0 && v.shader != nil {
		v.nextShader = shader
		v.shaderSwitchDone = false
	} else {
		v.shader = shader
		v.nextShader = nil
		v.shaderSwitchDone = true
	}
	v.fadeInTime = fadeIn
	v.fadeOutTime = fadeOut
	v.fadeTimer.Restart()
}

// Shader returns the active tile layer shader, which may be nil.
func (v *MapView) Shader() *Shader {
	return v.shader
}

// NextShader returns the shader a pending cross-fade will switch to.
func (v *MapView) NextShader() *Shader {
	return v.nextShader
}

// currentFadeOpacity advances the cross-fade state machine and returns the
// opacity the tile layer should be composited with. When a fade-out
// completes, the pending shader becomes active and its fade-in starts.
func (v *MapView) currentFadeOpacity() float64 {
	opacity := 1.0

	if !v.shaderSwitchDone && v.fadeOutTime > 0 {
		opacity = 1 - v.fadeTimer.Elapsed()/v.fadeOutTime
		if opacity < 0 {
			v.shader = v.nextShader
			v.nextShader = nil
			v.shaderSwitchDone = true
			v.fadeTimer.Restart()
			opacity = 0
		}
	}

	if v.shaderSwitchDone && v.shader != nil && v.fadeInTime > 0 {
		opacity = v.fadeTimer.Elapsed() / v.fadeInTime
		if opacity > 1 {
			opacity = 1
		}
	}

	if opacity < 0 {
		opacity = 0
	}
	return opacity
}
