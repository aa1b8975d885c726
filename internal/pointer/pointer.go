// Package pointer turns raw client-space pointer positions into the two
// signals the gallery reads every frame: a parallax offset and normalized
// device coordinates for picking.
package pointer

import (
	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/mathutil"
)

// MaxPixelRatio caps the device pixel ratio used for output sizing.
const MaxPixelRatio = 2.0

// Viewport is the primary output size in client (CSS-like) pixels.
type Viewport struct {
	Width      float64
	Height     float64
	PixelRatio float64
}

// EffectivePixelRatio returns the pixel ratio clamped to [1, MaxPixelRatio].
func (v Viewport) EffectivePixelRatio() float64 {
	if !mathutil.Finite(v.PixelRatio) || v.PixelRatio < 1 {
		return 1
	}
	if v.PixelRatio > MaxPixelRatio {
		return MaxPixelRatio
	}
	return v.PixelRatio
}

// Aspect returns width/height, or 1 for a degenerate viewport.
func (v Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// PixelSize returns the output framebuffer size in device pixels.
func (v Viewport) PixelSize() (int, int) {
	r := v.EffectivePixelRatio()
	w, h := int(v.Width*r+0.5), int(v.Height*r+0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// State holds the derived pointer signals.
// Parallax is in [-0.5, 0.5]², NDC in [-1, 1]² with +Y up.
type State struct {
	Parallax mgl64.Vec2
	NDC      mgl64.Vec2
}

// Derive maps a client position to pointer state. ok is false when the
// input or the viewport cannot produce a finite result.
func Derive(clientX, clientY float64, vp Viewport) (State, bool) {
	if !mathutil.Finite(clientX) || !mathutil.Finite(clientY) {
		return State{}, false
	}
	if !(vp.Width > 0) || !(vp.Height > 0) || !mathutil.Finite(vp.Width) || !mathutil.Finite(vp.Height) {
		return State{}, false
	}

	u := mathutil.Clamp(clientX/vp.Width, 0, 1)
	v := mathutil.Clamp(clientY/vp.Height, 0, 1)

	return State{
		Parallax: mgl64.Vec2{u - 0.5, v - 0.5},
		NDC:      mgl64.Vec2{u*2 - 1, -(v*2 - 1)},
	}, true
}
