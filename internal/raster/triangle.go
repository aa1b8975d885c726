package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/texture"
)

// Vertex is a projected vertex: screen position plus the perspective
// interpolants 1/w, u/w and v/w.
type Vertex struct {
	X, Y   float64
	InvW   float64
	UOverW float64
	VOverW float64
}

// Surface is the per-triangle shading input.
type Surface struct {
	Texture *image.NRGBA
	Color   color.NRGBA
	Unlit   bool
	Shade   mgl64.Vec3 // per-channel light factor, ignored when Unlit
}

// RasterizeTriangle fills one triangle with perspective-correct texture
// mapping, z-buffer, sRGB-aware lighting and ACES tone mapping.
//
// This is the hot path: no allocation in the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, v0, v1, v2 Vertex, s *Surface, lc *LightConfig) {
	x0, y0 := v0.X, v0.Y
	x1, y1 := v1.X, v1.Y
	x2, y2 := v2.X, v2.Y

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	mr := float64(s.Color.R) / 255
	mg := float64(s.Color.G) / 255
	mb := float64(s.Color.B) / 255

	var kr, kg, kb float64
	if !s.Unlit {
		kr = s.Shade[0] * lc.Exposure
		kg = s.Shade[1] * lc.Exposure
		kb = s.Shade[2] * lc.Exposure
	}
	invGamma := lc.InvGamma

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			iw := w0*v0.InvW + w1*v1.InvW + w2*v2.InvW
			zIdx := rowOff + sx
			if iw <= fb.ZBuf[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8 = s.Color.R, s.Color.G, s.Color.B, s.Color.A
			if s.Texture != nil {
				u := (w0*v0.UOverW + w1*v1.UOverW + w2*v2.UOverW) / iw
				v := (w0*v0.VOverW + w1*v1.VOverW + w2*v2.VOverW) / iw
				tr, tg, tb, ta := texture.SampleClamp(s.Texture, u, v)
				cr = uint8(float64(tr)*mr + 0.5)
				cg = uint8(float64(tg)*mg + 0.5)
				cb = uint8(float64(tb)*mb + 0.5)
				ca = ta
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = iw

			pxIdx := zIdx * 4
			if s.Unlit {
				fb.Color[pxIdx] = cr
				fb.Color[pxIdx+1] = cg
				fb.Color[pxIdx+2] = cb
				fb.Color[pxIdx+3] = ca
				continue
			}

			// sRGB decode → linear, shade, tone map, encode
			fr := math.Pow(ACESTonemap(srgbToLinear[cr]*kr), invGamma)
			fg := math.Pow(ACESTonemap(srgbToLinear[cg]*kg), invGamma)
			ffb := math.Pow(ACESTonemap(srgbToLinear[cb]*kb), invGamma)

			fb.Color[pxIdx] = clamp255(fr * 255)
			fb.Color[pxIdx+1] = clamp255(fg * 255)
			fb.Color[pxIdx+2] = clamp255(ffb * 255)
			fb.Color[pxIdx+3] = ca
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
