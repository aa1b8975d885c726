package raster

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/scene"
)

// LightConfig holds lighting precomputed once per scene render.
type LightConfig struct {
	Ambient  mgl64.Vec3 // linear RGB, intensity folded in
	Dirs     []mgl64.Vec3
	DirColor []mgl64.Vec3
	Exposure float64
	InvGamma float64
}

// NewLightConfig folds the scene's lights into per-channel factors.
func NewLightConfig(s *scene.Scene, exposure float64) LightConfig {
	lc := LightConfig{
		Ambient:  colorVec(s.Ambient.Color).Mul(s.Ambient.Intensity),
		Exposure: exposure,
		InvGamma: 1.0 / 2.2,
	}
	for _, l := range s.Lights {
		if l.Position.Len() < 1e-12 {
			continue
		}
		lc.Dirs = append(lc.Dirs, l.Position.Normalize())
		lc.DirColor = append(lc.DirColor, colorVec(l.Color).Mul(l.Intensity))
	}
	return lc
}

func colorVec(c color.NRGBA) mgl64.Vec3 {
	return mgl64.Vec3{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// ComputeShade returns the per-channel lighting factor for a unit face
// normal. Faces are lit from both sides.
func (lc *LightConfig) ComputeShade(normal mgl64.Vec3) mgl64.Vec3 {
	shade := lc.Ambient
	for i, d := range lc.Dirs {
		ndl := math.Abs(normal.Dot(d))
		shade = shade.Add(lc.DirColor[i].Mul(ndl))
	}
	return shade
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
