package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EulerXYZ returns the homogeneous rotation for Euler angles applied in
// X, Y, Z order (intrinsic), i.e. Rx × Ry × Rz. Angles in radians.
func EulerXYZ(r mgl64.Vec3) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(r[0]).
		Mul4(mgl64.HomogRotate3DY(r[1])).
		Mul4(mgl64.HomogRotate3DZ(r[2]))
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
