// Package guidance places the arrow that points the operator from the
// base towards the active slot's guide.
package guidance

import (
	"github.com/banshee-data/propmount/internal/geom"
	"github.com/banshee-data/propmount/internal/layout"
	"gonum.org/v1/gonum/spatial/r3"
)

// Corner depth offsets (metres) for the near and far sides of the base.
const (
	nearSideDepth = -0.14
	farSideDepth  = 0.15
)

// Indicator computes arrow poses. The zero value uses the base geometry
// from the layout package.
type Indicator struct {
	// Corners overrides the four candidate offsets from the anchor, in
	// the order: (-x,-y), (+x,-y), (-x,+y), (+x,+y). Nil uses DefaultCorners.
	Corners *[4]r3.Vec
}

// DefaultCorners returns the arrow offsets at the base's four corners.
func DefaultCorners() [4]r3.Vec {
	h := layout.BaseHeight
	return [4]r3.Vec{
		{X: layout.BaseLengthNeg, Y: h, Z: nearSideDepth},
		{X: layout.BaseLengthPos, Y: h, Z: nearSideDepth},
		{X: layout.BaseLengthNeg, Y: -h, Z: farSideDepth},
		{X: layout.BaseLengthPos, Y: -h, Z: farSideDepth},
	}
}

func (ind Indicator) corners() [4]r3.Vec {
	if ind.Corners != nil {
		return *ind.Corners
	}
	return DefaultCorners()
}

// Place returns the arrow pose for a slot. The quadrant of the slot
// relative to the anchor in world X/Y picks the corner; the arrow is
// rotated about Z to point along the in-plane direction to the slot,
// flipped by 180° because the arrow model points along -X.
func (ind Indicator) Place(slot geom.Pose, anchor r3.Vec) geom.Pose {
	c := ind.corners()
	s := slot.Position

	var corner r3.Vec
	switch {
	case s.X <= anchor.X && s.Y <= anchor.Y:
		corner = c[0]
	case s.X > anchor.X && s.Y <= anchor.Y:
		corner = c[1]
	case s.X <= anchor.X && s.Y > anchor.Y:
		corner = c[2]
	default:
		corner = c[3]
	}

	pos := r3.Add(anchor, corner)
	angle := HeadingDegrees(pos, s) + 180
	return geom.NewPose(pos, geom.AxisAngleDegrees(geom.AxisZ, angle))
}

// HeadingDegrees returns the in-plane heading from one point to another.
func HeadingDegrees(from, to r3.Vec) float64 {
	return geom.HeadingDegrees(from, to)
}

// Update returns the arrow pose for the active slot, or false when no
// slot is displaying and the arrow is hidden.
func (ind Indicator) Update(active *geom.Pose, anchor r3.Vec) (geom.Pose, bool) {
	if active == nil {
		return geom.Pose{}, false
	}
	return ind.Place(*active, anchor), true
}
