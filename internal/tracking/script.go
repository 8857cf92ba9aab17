package tracking

import (
	"fmt"

	"github.com/banshee-data/propmount/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// PoseRecord is the JSON form of a pose: position in metres and an
// orientation as Euler angles in degrees (Z, then X, then Y).
type PoseRecord struct {
	Position [3]float64 `json:"position"`
	Euler    [3]float64 `json:"euler_deg,omitempty"`
}

// Pose converts the record to a geom.Pose.
func (r PoseRecord) Pose() geom.Pose {
	return geom.NewPose(
		r3.Vec{X: r.Position[0], Y: r.Position[1], Z: r.Position[2]},
		geom.FromEulerDegrees(r.Euler[0], r.Euler[1], r.Euler[2]),
	)
}

// FrameRecord is one recorded tick: the viewer pose plus every marker
// the tracker saw. Markers absent from the map are not tracked.
type FrameRecord struct {
	Viewer  PoseRecord              `json:"viewer"`
	Markers map[MarkerID]PoseRecord `json:"markers,omitempty"`
}

// Script replays recorded frames. Observe answers for the current frame;
// Advance moves to the next one. Once exhausted, every marker is lost.
type Script struct {
	frames []FrameRecord
	pos    int
}

// NewScript creates a replay over frames.
func NewScript(frames []FrameRecord) *Script {
	return &Script{frames: frames}
}

// Len returns the number of recorded frames.
func (s *Script) Len() int { return len(s.frames) }

// Done reports whether every frame has been consumed.
func (s *Script) Done() bool { return s.pos >= len(s.frames) }

// Advance moves to the next frame and reports whether one exists.
func (s *Script) Advance() bool {
	if s.pos < len(s.frames) {
		s.pos++
	}
	return !s.Done()
}

// Viewer returns the viewer pose of the current frame.
func (s *Script) Viewer() (geom.Pose, error) {
	if s.Done() {
		return geom.Pose{}, fmt.Errorf("script exhausted after %d frames", len(s.frames))
	}
	return s.frames[s.pos].Viewer.Pose(), nil
}

// Observe implements Tracker.
func (s *Script) Observe(id MarkerID) Observation {
	if s.Done() {
		return Lost
	}
	rec, ok := s.frames[s.pos].Markers[id]
	if !ok {
		return Lost
	}
	return Observation{Pose: rec.Pose(), Status: Tracked}
}
