package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/camera"
	"card-gallery/internal/scene"
	"card-gallery/internal/texture"
)

// DefaultExposure matches the tone-mapped look of the panel figures.
const DefaultExposure = 1.05

// Renderer is a software rendering backend. Output goes to the bound
// render target, or to the default output when none is bound.
type Renderer struct {
	Exposure float64

	output *FrameBuffer
	target *FrameBuffer
}

// NewRenderer creates a renderer whose default output is w×h pixels.
func NewRenderer(w, h int) (*Renderer, error) {
	out, err := NewTarget(w, h)
	if err != nil {
		return nil, fmt.Errorf("raster: default output: %w", err)
	}
	return &Renderer{Exposure: DefaultExposure, output: out}, nil
}

// Resize reallocates the default output. Bound offscreen targets keep
// their size.
func (r *Renderer) Resize(w, h int) error {
	if r.output != nil && r.output.Width == w && r.output.Height == h {
		return nil
	}
	out, err := NewTarget(w, h)
	if err != nil {
		return fmt.Errorf("raster: resize output: %w", err)
	}
	r.output = out
	return nil
}

// Output returns the default output.
func (r *Renderer) Output() *FrameBuffer {
	return r.output
}

// SetRenderTarget binds fb as the active color output; nil restores the
// default output.
func (r *Renderer) SetRenderTarget(fb *FrameBuffer) {
	r.target = fb
}

func (r *Renderer) active() *FrameBuffer {
	if r.target != nil {
		return r.target
	}
	return r.output
}

// Render draws s through cam into the active target.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Camera) error {
	if s == nil || cam == nil {
		return errors.New("raster: render needs a scene and a camera")
	}
	fb := r.active()
	if fb == nil || fb.Width <= 0 || fb.Height <= 0 || len(fb.Color) != fb.Width*fb.Height*4 {
		return fmt.Errorf("%w: target not allocated", ErrTargetSize)
	}

	vp := cam.ViewProjection()
	drawBackground(fb, &s.Background, vp.Inv(), cam.Position)
	fb.ClearDepth()

	lc := NewLightConfig(s, r.Exposure)
	s.Walk(func(n *scene.Node, world mgl64.Mat4) {
		if n.Mesh == nil || n.Mesh.Geometry == nil {
			return
		}
		drawMesh(fb, n.Mesh, world, vp, &lc)
	})

	if s.Overlay.Alpha > 0 {
		blendOverlay(fb, s.Overlay)
	}
	return nil
}

type clipVertex struct {
	pos mgl64.Vec4
	uv  mgl64.Vec2
}

// nearW keeps vertices strictly in front of the eye after clipping.
const nearW = 1e-5

func drawMesh(fb *FrameBuffer, m *scene.Mesh, world, vp mgl64.Mat4, lc *LightConfig) {
	g := m.Geometry
	mvp := vp.Mul4(world)

	worldPos := make([]mgl64.Vec3, len(g.Positions))
	clip := make([]clipVertex, len(g.Positions))
	for i, p := range g.Positions {
		worldPos[i] = world.Mul4x1(p.Vec4(1)).Vec3()
		clip[i].pos = mvp.Mul4x1(p.Vec4(1))
		if i < len(g.UVs) {
			clip[i].uv = g.UVs[i]
		}
	}

	surf := Surface{
		Texture: m.Material.Texture,
		Color:   m.Material.Color,
		Unlit:   m.Material.Unlit,
	}

	var poly [4]clipVertex
	for _, tri := range g.Tris {
		if tri[0] >= len(clip) || tri[1] >= len(clip) || tri[2] >= len(clip) {
			continue
		}

		if !surf.Unlit {
			a, b, c := worldPos[tri[0]], worldPos[tri[1]], worldPos[tri[2]]
			n := b.Sub(a).Cross(c.Sub(a))
			if n.Len() < 1e-12 {
				continue
			}
			surf.Shade = lc.ComputeShade(n.Normalize())
		}

		k := clipNear([3]clipVertex{clip[tri[0]], clip[tri[1]], clip[tri[2]]}, &poly)
		if k < 3 {
			continue
		}
		v0 := toScreen(fb, poly[0])
		for j := 1; j+1 < k; j++ {
			RasterizeTriangle(fb, v0, toScreen(fb, poly[j]), toScreen(fb, poly[j+1]), &surf, lc)
		}
	}
}

// clipNear clips a triangle against the near plane (z ≥ -w) and returns
// the vertex count of the resulting convex polygon (0, 3 or 4).
func clipNear(in [3]clipVertex, out *[4]clipVertex) int {
	dist := func(v clipVertex) float64 { return v.pos[2] + v.pos[3] }

	k := 0
	for i := 0; i < 3; i++ {
		a, b := in[i], in[(i+1)%3]
		da, db := dist(a), dist(b)
		if da >= 0 && a.pos[3] > nearW {
			out[k] = a
			k++
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			out[k] = clipVertex{
				pos: a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
				uv:  a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
			}
			if out[k].pos[3] > nearW {
				k++
			}
		}
		if k == 4 {
			break
		}
	}
	return k
}

func toScreen(fb *FrameBuffer, v clipVertex) Vertex {
	invW := 1 / v.pos[3]
	nx, ny := v.pos[0]*invW, v.pos[1]*invW
	return Vertex{
		X:      (nx*0.5 + 0.5) * float64(fb.Width),
		Y:      (0.5 - ny*0.5) * float64(fb.Height),
		InvW:   invW,
		UOverW: v.uv[0] * invW,
		VOverW: v.uv[1] * invW,
	}
}

// drawBackground clears fb to the scene background. An equirectangular
// map is looked up by the view direction through each pixel.
func drawBackground(fb *FrameBuffer, bg *scene.Background, invVP mgl64.Mat4, eye mgl64.Vec3) {
	if bg.Equirect == nil || bg.Equirect.Rect.Empty() {
		fb.Fill(bg.Color)
		return
	}

	w, h := float64(fb.Width), float64(fb.Height)
	for y := 0; y < fb.Height; y++ {
		ny := 1 - (float64(y)+0.5)/h*2
		row := y * fb.Width * 4
		for x := 0; x < fb.Width; x++ {
			nx := (float64(x)+0.5)/w*2 - 1
			p := invVP.Mul4x1(mgl64.Vec4{nx, ny, 1, 1})
			if p[3] != 0 {
				p = p.Mul(1 / p[3])
			}
			d := p.Vec3().Sub(eye).Normalize()

			u := math.Atan2(d[2], d[0])/(2*math.Pi) + 0.5
			v := 0.5 - math.Asin(math.Max(-1, math.Min(1, d[1])))/math.Pi
			r, g, b, _ := texture.SampleWrapU(bg.Equirect, u, v)

			i := row + x*4
			fb.Color[i] = r
			fb.Color[i+1] = g
			fb.Color[i+2] = b
			fb.Color[i+3] = 255
		}
	}
}

func blendOverlay(fb *FrameBuffer, o scene.Overlay) {
	a := math.Min(o.Alpha, 1)
	ia := 1 - a
	r, g, b := float64(o.Color.R)*a, float64(o.Color.G)*a, float64(o.Color.B)*a
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = clamp255(float64(fb.Color[i])*ia + r)
		fb.Color[i+1] = clamp255(float64(fb.Color[i+1])*ia + g)
		fb.Color[i+2] = clamp255(float64(fb.Color[i+2])*ia + b)
	}
}
