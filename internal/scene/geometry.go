package scene

import "github.com/go-gl/mathgl/mgl64"

// Geometry is an indexed triangle list. UV (0,0) is the top-left texel.
type Geometry struct {
	Positions []mgl64.Vec3
	UVs       []mgl64.Vec2
	Tris      [][3]int

	// Size is the local axis-aligned extent, centered on the origin.
	Size mgl64.Vec3
}

// Plane returns a w×h quad in the XY plane facing +Z.
func Plane(w, h float64) *Geometry {
	hw, hh := w/2, h/2
	return &Geometry{
		Positions: []mgl64.Vec3{
			{-hw, hh, 0}, {hw, hh, 0}, {hw, -hh, 0}, {-hw, -hh, 0},
		},
		UVs:  []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Tris: [][3]int{{0, 3, 2}, {0, 2, 1}},
		Size: mgl64.Vec3{w, h, 0},
	}
}

// Box returns a w×h×d cuboid centered on the origin.
func Box(w, h, d float64) *Geometry {
	x, y, z := w/2, h/2, d/2
	faces := [6][4]mgl64.Vec3{
		{{-x, y, z}, {x, y, z}, {x, -y, z}, {-x, -y, z}},     // +Z
		{{x, y, -z}, {-x, y, -z}, {-x, -y, -z}, {x, -y, -z}}, // -Z
		{{x, y, z}, {x, y, -z}, {x, -y, -z}, {x, -y, z}},     // +X
		{{-x, y, -z}, {-x, y, z}, {-x, -y, z}, {-x, -y, -z}}, // -X
		{{-x, y, -z}, {x, y, -z}, {x, y, z}, {-x, y, z}},     // +Y
		{{-x, -y, z}, {x, -y, z}, {x, -y, -z}, {-x, -y, -z}}, // -Y
	}

	g := &Geometry{Size: mgl64.Vec3{w, h, d}}
	for _, f := range faces {
		base := len(g.Positions)
		g.Positions = append(g.Positions, f[0], f[1], f[2], f[3])
		g.UVs = append(g.UVs, mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, mgl64.Vec2{1, 1}, mgl64.Vec2{0, 1})
		g.Tris = append(g.Tris, [3]int{base, base + 3, base + 2}, [3]int{base, base + 2, base + 1})
	}
	return g
}
