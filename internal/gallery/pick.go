package gallery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/camera"
)

// Intersect returns the ray parameter where r crosses the card's face,
// from either side. Invisible or degenerate cards are never hit.
func (c *Card) Intersect(r camera.Ray) (float64, bool) {
	if !c.Node.Visible || !c.root.Visible {
		return 0, false
	}
	world := c.World()
	if math.Abs(world.Det()) < 1e-12 {
		return 0, false
	}
	inv := world.Inv()
	o := inv.Mul4x1(r.Origin.Vec4(1)).Vec3()
	d := inv.Mul4x1(r.Dir.Vec4(0)).Vec3()
	if math.Abs(d[2]) < 1e-12 {
		return 0, false
	}

	// The local ray and the world ray share the parameter t.
	t := -o[2] / d[2]
	if t <= 0 {
		return 0, false
	}
	p := o.Add(d.Mul(t))
	if math.Abs(p[0]) > c.Width/2 || math.Abs(p[1]) > c.Height/2 {
		return 0, false
	}
	return t, true
}

// Pick casts a ray from cam through ndc and returns the nearest card it
// hits. Equal distances keep the earlier card in the given order.
func Pick(ndc mgl64.Vec2, cam *camera.Camera, cards []*Card) (CardID, bool) {
	ray := cam.RayThrough(ndc)
	best := math.Inf(1)
	var hit CardID
	found := false
	for _, c := range cards {
		if t, ok := c.Intersect(ray); ok && t < best {
			best, hit, found = t, c.ID, true
		}
	}
	return hit, found
}
