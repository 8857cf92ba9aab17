// Package geom holds the rigid-transform value types shared by the
// guidance core. Positions are gonum r3 vectors and orientations are
// unit quaternions (r3.Rotation). The zero Pose is the identity.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tolerances used when validating and comparing poses.
const (
	// UnitQuatTolerance bounds |1 - |q|| for an orientation to count as a rotation.
	UnitQuatTolerance = 0.01
	// DefaultEpsilon is the comparison tolerance for ApproxEqual callers without an opinion.
	DefaultEpsilon = 1e-9
)

// Pose is a position plus an orientation. Values are immutable; every
// operation returns a new Pose.
type Pose struct {
	Position    r3.Vec
	Orientation r3.Rotation
}

var identityRotation = r3.Rotation{Real: 1}

// Identity returns the identity pose.
func Identity() Pose {
	return Pose{Orientation: identityRotation}
}

// NewPose builds a pose from a position and an orientation.
func NewPose(position r3.Vec, orientation r3.Rotation) Pose {
	return Pose{Position: position, Orientation: orientation}
}

// At returns a pose at position with the identity orientation.
func At(x, y, z float64) Pose {
	return Pose{Position: r3.Vec{X: x, Y: y, Z: z}, Orientation: identityRotation}
}

// rotation returns the orientation, treating the zero quaternion as identity.
func (p Pose) rotation() r3.Rotation {
	if p.Orientation == (r3.Rotation{}) {
		return identityRotation
	}
	return p.Orientation
}

// Rotation returns the pose's orientation with the zero value normalised to identity.
func (p Pose) Rotation() r3.Rotation {
	return p.rotation()
}

// Compose returns a ∘ b: b expressed in a's frame, then mapped to a's parent.
// position = a.Position + a.Orientation·b.Position, orientation = a·b.
func Compose(a, b Pose) Pose {
	ra := a.rotation()
	return Pose{
		Position:    r3.Add(a.Position, ra.Rotate(b.Position)),
		Orientation: MulRotation(ra, b.rotation()),
	}
}

// Compose returns p ∘ b.
func (p Pose) Compose(b Pose) Pose {
	return Compose(p, b)
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	inv := r3.Rotation(quat.Conj(quat.Number(p.rotation())))
	return Pose{
		Position:    inv.Rotate(r3.Scale(-1, p.Position)),
		Orientation: inv,
	}
}

// TransformPoint maps a point from p's local frame into p's parent frame.
func (p Pose) TransformPoint(v r3.Vec) r3.Vec {
	return r3.Add(p.Position, p.rotation().Rotate(v))
}

// InverseTransformPoint maps a point from p's parent frame into p's local frame.
func (p Pose) InverseTransformPoint(v r3.Vec) r3.Vec {
	inv := r3.Rotation(quat.Conj(quat.Number(p.rotation())))
	return inv.Rotate(r3.Sub(v, p.Position))
}

// Translate returns p moved by d in the parent frame.
func (p Pose) Translate(d r3.Vec) Pose {
	return Pose{Position: r3.Add(p.Position, d), Orientation: p.Orientation}
}

// String renders the pose for logs.
func (p Pose) String() string {
	q := p.rotation()
	return fmt.Sprintf("pos=(%.4f, %.4f, %.4f) rot=(%.4f, %.4f, %.4f, %.4f)",
		p.Position.X, p.Position.Y, p.Position.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
}

// ApproxEqual reports whether a and b differ by at most eps in every
// position component and in orientation. q and -q describe the same
// rotation, so the orientation test uses |dot(qa, qb)|.
func ApproxEqual(a, b Pose, eps float64) bool {
	if math.Abs(a.Position.X-b.Position.X) > eps ||
		math.Abs(a.Position.Y-b.Position.Y) > eps ||
		math.Abs(a.Position.Z-b.Position.Z) > eps {
		return false
	}
	qa, qb := a.rotation(), b.rotation()
	dot := qa.Real*qb.Real + qa.Imag*qb.Imag + qa.Jmag*qb.Jmag + qa.Kmag*qb.Kmag
	return 1-math.Abs(dot) <= eps
}

// Validate checks that a pose supplied from outside the core is usable:
// all components finite and the orientation a unit quaternion.
func Validate(p Pose) error {
	vals := []float64{
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Orientation.Real, p.Orientation.Imag, p.Orientation.Jmag, p.Orientation.Kmag,
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("pose has non-finite component: %s", p)
		}
	}
	if p.Orientation == (r3.Rotation{}) {
		return nil
	}
	norm := quat.Abs(quat.Number(p.Orientation))
	if math.Abs(norm-1) > UnitQuatTolerance {
		return fmt.Errorf("orientation is not a unit quaternion (|q|=%.4f)", norm)
	}
	return nil
}
