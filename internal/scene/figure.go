package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/mathutil"
)

// Figure builds a small blocky character standing on the origin: body,
// head with eyes, arms, feet and a tail. It stands in for a loaded model.
func Figure(name string, body color.NRGBA) *Node {
	dark := shade(body, 0.55)
	light := shade(body, 1.25)
	eye := color.NRGBA{20, 20, 28, 255}

	part := func(n string, g *Geometry, c color.NRGBA, x, y, z float64) *Node {
		node := NewNode(n, &Mesh{Geometry: g, Material: Material{Color: c}})
		node.Pose.Position = mgl64.Vec3{x, y, z}
		return node
	}

	root := NewNode(name, nil)
	root.Add(
		part("body", Box(0.9, 1.0, 0.7), body, 0, 0.3, 0),
		part("belly", Box(0.6, 0.7, 0.05), light, 0, 0.25, 0.36),
		part("head", Box(0.8, 0.7, 0.7), body, 0, 1.15, 0.05),
		part("eye.l", Box(0.12, 0.16, 0.04), eye, -0.18, 1.2, 0.41),
		part("eye.r", Box(0.12, 0.16, 0.04), eye, 0.18, 1.2, 0.41),
		part("arm.l", Box(0.22, 0.5, 0.25), body, -0.58, 0.4, 0.1),
		part("arm.r", Box(0.22, 0.5, 0.25), body, 0.58, 0.4, 0.1),
		part("foot.l", Box(0.3, 0.25, 0.45), dark, -0.25, -0.32, 0.08),
		part("foot.r", Box(0.3, 0.25, 0.45), dark, 0.25, -0.32, 0.08),
		part("tail", Box(0.2, 0.2, 0.6), dark, 0, 0.05, -0.6),
	)
	tail := root.Children[len(root.Children)-1]
	tail.Pose.Rotation = mgl64.Vec3{mathutil.Deg2Rad(-25), 0, 0}
	return root
}

func shade(c color.NRGBA, f float64) color.NRGBA {
	s := func(v uint8) uint8 {
		return uint8(mathutil.Clamp(float64(v)*f, 0, 255))
	}
	return color.NRGBA{s(c.R), s(c.G), s(c.B), c.A}
}
