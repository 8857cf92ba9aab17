package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Principal axes.
var (
	AxisX = r3.Vec{X: 1}
	AxisY = r3.Vec{Y: 1}
	AxisZ = r3.Vec{Z: 1}
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180.0 }

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 { return rad * 180.0 / math.Pi }

// MulRotation returns a·b (apply b first, then a).
func MulRotation(a, b r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Mul(quat.Number(a), quat.Number(b)))
}

// AxisAngleDegrees builds a rotation of deg degrees about axis.
func AxisAngleDegrees(axis r3.Vec, deg float64) r3.Rotation {
	if deg == 0 {
		return identityRotation
	}
	return r3.NewRotation(Deg2Rad(deg), axis)
}

// FromEulerDegrees builds a rotation from Euler angles in degrees.
// Rotation is applied about Z first, then X, then Y, which is the order
// the layout tables were authored in.
func FromEulerDegrees(x, y, z float64) r3.Rotation {
	rz := AxisAngleDegrees(AxisZ, z)
	rx := AxisAngleDegrees(AxisX, x)
	ry := AxisAngleDegrees(AxisY, y)
	return MulRotation(ry, MulRotation(rx, rz))
}

// HeadingDegrees returns atan2(dy, dx) in degrees for the in-plane
// direction from one point to another, ignoring Z.
func HeadingDegrees(from, to r3.Vec) float64 {
	d := r3.Sub(to, from)
	return Rad2Deg(math.Atan2(d.Y, d.X))
}
