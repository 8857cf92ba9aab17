package proximity

import (
	"strconv"

	"github.com/banshee-data/propmount/internal/geom"
	"github.com/banshee-data/propmount/internal/slots"
	"github.com/banshee-data/propmount/internal/tracking"
	"gonum.org/v1/gonum/spatial/r3"
)

// Variant is the feedback model drawn at a secondary marker.
type Variant string

const (
	Hidden Variant = "hidden"
	Sphere Variant = "sphere" // proximity ball, coloured by class
	Tick   Variant = "tick"   // this is the component to pick up next
	Cross  Variant = "cross"  // wrong component
)

// Color is the sphere's feedback colour.
type Color string

const (
	NoColor     Color = ""
	Affirmative Color = "affirmative"
	Negative    Color = "negative"
)

// Offsets of the feedback models below the marker (world -Y, metres).
const (
	sphereDrop = 0.03
	tickDrop   = 0.015
	crossDrop  = 0.03
)

// Feedback is what a marker shows on one tick.
type Feedback struct {
	ID      int
	Variant Variant
	Color   Color
	Pose    geom.Pose
	// Class is set only when proximity was evaluated this tick.
	Class     Class
	Evaluated bool
}

// Marker follows one component's secondary marker. It observes the slot
// machine to know whether a mounting step is open and which component
// comes next.
type Marker struct {
	// ID is the component number printed on the part, starting at 1.
	ID int

	evaluator Evaluator
	snapshot  slots.Snapshot
	raw       geom.Pose // last usable marker pose
	last      Feedback
}

// NewMarker returns a marker for component id.
func NewMarker(id int, evaluator Evaluator) *Marker {
	return &Marker{ID: id, evaluator: evaluator, last: Feedback{ID: id, Variant: Hidden}}
}

// TrackingID is the id the tracker reports this marker under.
func (m *Marker) TrackingID() tracking.MarkerID {
	return tracking.MarkerID(strconv.Itoa(m.ID))
}

// SlotsChanged implements slots.Observer.
func (m *Marker) SlotsChanged(s slots.Snapshot) {
	m.snapshot = s
	if m.last.Variant == Hidden {
		return
	}
	m.last.Variant, m.last.Color = m.display(m.last.Color)
	m.last.Pose = m.modelPose(m.raw, m.last.Variant)
	if m.last.Variant != Sphere {
		m.last.Evaluated = false
		m.last.Class = ""
	}
}

// Feedback returns the feedback computed by the last Update or state change.
func (m *Marker) Feedback() Feedback { return m.last }

// Update computes this tick's feedback. viewer is the reference frame
// for proximity; active is the current slot's world pose, nil when no
// anchor pose is available.
func (m *Marker) Update(obs tracking.Observation, viewer geom.Pose, active *geom.Pose) Feedback {
	if !obs.Usable() {
		m.last = Feedback{ID: m.ID, Variant: Hidden}
		return m.last
	}

	m.raw = obs.Pose
	fb := Feedback{ID: m.ID}
	if Gate(m.snapshot) && active != nil {
		sphere := obs.Pose.Translate(r3.Vec{Y: -sphereDrop})
		fb.Class = m.evaluator.Evaluate(sphere, viewer, *active)
		fb.Evaluated = true
		fb.Color = colorFor(fb.Class)
	} else if m.snapshot.Mounting {
		fb.Color = m.last.Color
	}
	fb.Variant, fb.Color = m.display(fb.Color)
	fb.Pose = m.modelPose(obs.Pose, fb.Variant)
	m.last = fb
	return fb
}

// display picks the model: the sphere while mounting, otherwise a tick
// on the next component to pick up and a cross on every other one.
func (m *Marker) display(color Color) (Variant, Color) {
	if m.snapshot.Mounting {
		if color == NoColor {
			color = Negative
		}
		return Sphere, color
	}
	if m.ID == m.snapshot.CurrentIndex+1 {
		return Tick, NoColor
	}
	return Cross, NoColor
}

// modelPose offsets the model below the marker.
func (m *Marker) modelPose(markerPose geom.Pose, v Variant) geom.Pose {
	switch v {
	case Sphere:
		return markerPose.Translate(r3.Vec{Y: -sphereDrop})
	case Tick:
		return markerPose.Translate(r3.Vec{Y: -tickDrop})
	case Cross:
		return markerPose.Translate(r3.Vec{Y: -crossDrop})
	default:
		return markerPose
	}
}

func colorFor(c Class) Color {
	if c == VeryNear || c == Near {
		return Affirmative
	}
	return Negative
}
