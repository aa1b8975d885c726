package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Pose is a position, Euler XYZ rotation and uniform scale.
// Value type; the fields are addressable so tweens can drive them.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    float64
}

// P builds a pose from a position, a rotation about Y and a scale, which
// is all the card choreography ever needs.
func P(x, y, z, rotY, scale float64) Pose {
	return Pose{
		Position: mgl64.Vec3{x, y, z},
		Rotation: mgl64.Vec3{0, rotY, 0},
		Scale:    scale,
	}
}

// Matrix returns T × R × S.
func (p Pose) Matrix() mgl64.Mat4 {
	t := mgl64.Translate3D(p.Position[0], p.Position[1], p.Position[2])
	s := mgl64.Scale3D(p.Scale, p.Scale, p.Scale)
	return t.Mul4(EulerXYZ(p.Rotation)).Mul4(s)
}

// Channels returns pointers to the seven scalar components of the pose in
// a fixed order: position xyz, rotation xyz, scale.
func (p *Pose) Channels() [7]*float64 {
	return [7]*float64{
		&p.Position[0], &p.Position[1], &p.Position[2],
		&p.Rotation[0], &p.Rotation[1], &p.Rotation[2],
		&p.Scale,
	}
}

// Values is the value counterpart of Channels.
func (p Pose) Values() [7]float64 {
	return [7]float64{
		p.Position[0], p.Position[1], p.Position[2],
		p.Rotation[0], p.Rotation[1], p.Rotation[2],
		p.Scale,
	}
}
