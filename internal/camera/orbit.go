package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbit rotates a camera around its target in response to pointer drags.
// Pan and zoom are not supported. Motion is damped: each Update applies the
// pending angular velocity and decays it.
type Orbit struct {
	Enabled bool

	// Sensitivity is radians per client pixel of drag.
	Sensitivity float64
	// Damping is the fraction of velocity kept per update, in [0, 1).
	Damping float64

	yaw, pitch float64
}

// NewOrbit returns a disabled orbit controller with default tuning.
func NewOrbit() *Orbit {
	return &Orbit{Sensitivity: 0.01, Damping: 0.75}
}

// Drag feeds a client-space drag delta. Ignored while disabled.
func (o *Orbit) Drag(delta mgl64.Vec2) {
	if !o.Enabled {
		return
	}
	o.yaw -= delta[0] * o.Sensitivity
	o.pitch -= delta[1] * o.Sensitivity
}

// Reset drops any pending motion.
func (o *Orbit) Reset() {
	o.yaw, o.pitch = 0, 0
}

// Update applies pending motion to c.
func (o *Orbit) Update(c *Camera) {
	if !o.Enabled {
		o.Reset()
		return
	}
	if o.yaw == 0 && o.pitch == 0 {
		return
	}

	rel := c.Position.Sub(c.Target)
	dist := rel.Len()
	if dist < 1e-9 {
		o.Reset()
		return
	}

	theta := math.Atan2(rel[0], rel[2])
	phi := math.Acos(rel[1] / dist)

	theta += o.yaw
	phi += o.pitch
	phi = math.Max(0.1, math.Min(math.Pi-0.1, phi))

	c.Position = c.Target.Add(mgl64.Vec3{
		math.Sin(phi) * math.Sin(theta),
		math.Cos(phi),
		math.Sin(phi) * math.Cos(theta),
	}.Mul(dist))

	o.yaw *= o.Damping
	o.pitch *= o.Damping
	if math.Abs(o.yaw) < 1e-5 {
		o.yaw = 0
	}
	if math.Abs(o.pitch) < 1e-5 {
		o.pitch = 0
	}
}
