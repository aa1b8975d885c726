// Package camera provides the perspective camera shared by the primary
// scene and the three panels, plus the two ways the gallery drives one:
// pointer parallax and orbit interaction.
package camera

import "github.com/go-gl/mathgl/mgl64"

// Camera is a perspective camera looking at a target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	FOV    float64 // vertical, degrees
	Aspect float64
	Near   float64
	Far    float64
}

// New creates a camera at position looking at the origin.
func New(position mgl64.Vec3, fov, aspect, near, far float64) *Camera {
	return &Camera{
		Position: position,
		Up:       mgl64.Vec3{0, 1, 0},
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target mgl64.Vec3) {
	c.Target = target
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns Projection × View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Ray is a half-line; Dir is unit length so T is world distance.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// RayThrough builds the ray from the camera through a point in normalized
// device coordinates ([-1,1]², +Y up).
func (c *Camera) RayThrough(ndc mgl64.Vec2) Ray {
	inv := c.ViewProjection().Inv()
	p := inv.Mul4x1(mgl64.Vec4{ndc[0], ndc[1], 1, 1})
	if p[3] != 0 {
		p = p.Mul(1 / p[3])
	}
	return Ray{
		Origin: c.Position,
		Dir:    p.Vec3().Sub(c.Position).Normalize(),
	}
}

// Project maps a world point to normalized device coordinates. ok is false
// for points behind the camera.
func (c *Camera) Project(world mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	p := c.ViewProjection().Mul4x1(world.Vec4(1))
	if p[3] <= 1e-12 {
		return mgl64.Vec3{}, false
	}
	return p.Vec3().Mul(1 / p[3]), true
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float64 {
	return c.Target.Sub(c.Position).Len()
}
