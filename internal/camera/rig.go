package camera

import "github.com/go-gl/mathgl/mgl64"

// Rig drives a camera from the pointer parallax offset: the camera slides
// on the plane through Home and keeps looking at Focus.
type Rig struct {
	Home   mgl64.Vec3
	Focus  mgl64.Vec3
	Amount float64
}

// Apply positions c for parallax offset p (each axis in [-0.5, 0.5]).
// Pointer right moves the camera left; pointer down moves it up.
func (r Rig) Apply(c *Camera, p mgl64.Vec2) {
	c.Position = mgl64.Vec3{
		r.Home[0] - p[0]*r.Amount,
		r.Home[1] + p[1]*r.Amount,
		r.Home[2],
	}
	c.LookAt(r.Focus)
}
