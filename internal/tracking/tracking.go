// Package tracking describes the boundary with the external marker
// tracker. The tracker is opaque: each tick the core pulls one
// Observation per marker of interest.
package tracking

import (
	"github.com/banshee-data/propmount/internal/geom"
)

// Status is the per-marker tracking status reported by the tracker.
type Status string

const (
	Tracked    Status = "tracked"
	NotTracked Status = "not_tracked"
)

// MarkerID identifies a physical marker. AnchorMarker is the primary
// marker on the base; secondary markers use the component number.
type MarkerID string

// AnchorMarker is the id of the primary marker.
const AnchorMarker MarkerID = "anchor"

// Observation is what the tracker reports for one marker on one tick.
type Observation struct {
	Pose   geom.Pose
	Status Status
}

// Lost is the observation for a marker the tracker cannot see.
var Lost = Observation{Status: NotTracked}

// Usable reports whether the observation carries a pose the core may use.
// A Tracked observation with a malformed pose is treated as not tracked.
func (o Observation) Usable() bool {
	return o.Status == Tracked && geom.Validate(o.Pose) == nil
}

// Tracker supplies observations. Implementations are queried once per
// tick per marker and must not block.
type Tracker interface {
	Observe(id MarkerID) Observation
}

// TrackerFunc adapts a function to the Tracker interface.
type TrackerFunc func(id MarkerID) Observation

// Observe calls f(id).
func (f TrackerFunc) Observe(id MarkerID) Observation { return f(id) }
