package anchor

import (
	"github.com/banshee-data/propmount/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// baseModelTilt turns the marker frame (normal out of the marker) into
// the base model's upright frame.
var baseModelTilt = geom.NewPose(r3.Vec{}, geom.FromEulerDegrees(-90, 0, 0))

// Placement adjusts where the base model and the slot guides hang
// relative to the marker: the marker sits on the front face, above and
// in front of the base's centre.
type Placement struct {
	Drop      float64 // metres along world -Y
	DepthPush float64 // metres along the viewer→marker ray
}

// Origin returns the placement origin for a working pose seen from
// viewer. The orientation is the working pose's.
func (p Placement) Origin(working geom.Pose, viewer r3.Vec) geom.Pose {
	pos := r3.Add(working.Position, r3.Vec{Y: -p.Drop})
	ray := r3.Sub(working.Position, viewer)
	if n := r3.Norm(ray); n > 0 {
		pos = r3.Add(pos, r3.Scale(p.DepthPush/n, ray))
	}
	return geom.NewPose(pos, working.Orientation)
}

// BaseModelPose returns the base model pose for a placement origin.
func BaseModelPose(origin geom.Pose) geom.Pose {
	return geom.Compose(origin, baseModelTilt)
}
