package pipeline

import (
	"reflect"

	"github.com/banshee-data/propmount/internal/anchor"
	"github.com/banshee-data/propmount/internal/config"
	"github.com/banshee-data/propmount/internal/errors"
	"github.com/banshee-data/propmount/internal/geom"
	"github.com/banshee-data/propmount/internal/guidance"
	"github.com/banshee-data/propmount/internal/layout"
	"github.com/banshee-data/propmount/internal/proximity"
	"github.com/banshee-data/propmount/internal/slots"
	"github.com/banshee-data/propmount/internal/tracking"
	"gonum.org/v1/gonum/spatial/r3"
)

// isNilInterface checks if an interface value is nil or contains a nil pointer.
func isNilInterface(i interface{}) bool {
	if i == nil {
		return true
	}
	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// SceneConfig holds the collaborators of a scene.
type SceneConfig struct {
	Tracker tracking.Tracker
	Anchor  *anchor.Compositor
	Slots   *slots.Machine
	Tuning  *config.GuidanceConfig // nil uses defaults

	// MarkerIDs lists the component numbers with a secondary marker.
	MarkerIDs []int

	Indicator guidance.Indicator
	Renderer  Renderer // Optional
}

// Scene is the per-tick orchestrator.
type Scene struct {
	tracker   tracking.Tracker
	anchor    *anchor.Compositor
	slots     *slots.Machine
	indicator guidance.Indicator
	placement anchor.Placement
	markers   []*proximity.Marker
	renderer  Renderer

	tick       uint64
	viewer     geom.Pose // head pose of the tick in progress
	origin     geom.Pose // placement origin the guides hang off
	hasOrigin  bool
	guides     []geom.Pose // world pose per slot, composed on origin
	guidesKey  layout.Key
	dirty      bool
	recomputes int
}

// NewScene wires a scene. Markers are registered with the slot machine
// and the scene subscribes to anchor freezes. The renderer capability is
// resolved here, once.
func NewScene(cfg SceneConfig) (*Scene, error) {
	if isNilInterface(cfg.Tracker) {
		return nil, errors.InvalidInputf("scene needs a tracker")
	}
	if cfg.Anchor == nil || cfg.Slots == nil {
		return nil, errors.InvalidInputf("scene needs an anchor compositor and a slot machine")
	}
	tuning := cfg.Tuning
	if tuning == nil {
		tuning = config.EmptyGuidanceConfig()
	}

	s := &Scene{
		tracker:   cfg.Tracker,
		anchor:    cfg.Anchor,
		slots:     cfg.Slots,
		indicator: cfg.Indicator,
		placement: anchor.Placement{
			Drop:      tuning.GetAnchorDrop(),
			DepthPush: tuning.GetAnchorDepthPush(),
		},
		dirty: true,
	}
	if !isNilInterface(cfg.Renderer) {
		s.renderer = cfg.Renderer
	} else {
		diagf("no renderer; frames are returned only")
	}

	evaluator := proximity.NewEvaluator(tuning)
	seen := make(map[int]bool)
	for _, id := range cfg.MarkerIDs {
		if id < 1 || seen[id] {
			return nil, errors.InvalidInputf("invalid or duplicate marker id %d", id)
		}
		seen[id] = true
		m := proximity.NewMarker(id, evaluator)
		s.markers = append(s.markers, m)
		cfg.Slots.Register(m)
		m.SlotsChanged(cfg.Slots.Snapshot())
	}
	cfg.Slots.Register(s)
	cfg.Anchor.OnFreeze(s.onFreeze)
	return s, nil
}

// SlotsChanged implements slots.Observer. A new layout invalidates the
// cached guide poses.
func (s *Scene) SlotsChanged(snap slots.Snapshot) {
	if snap.Key != s.guidesKey || len(s.guides) != snap.Count {
		s.dirty = true
	}
}

// onFreeze pins the placement origin using the viewer at capture time
// and recomputes every guide against it at once, since a frozen anchor
// produces no further live updates.
func (s *Scene) onFreeze(captured geom.Pose) {
	origin := s.placement.Origin(captured, s.viewer.Position)
	diagf("anchor frozen at %s; recomputing guides from origin %s", captured, origin)
	s.recompute(origin)
}

func (s *Scene) recompute(origin geom.Pose) {
	entry := s.slots.Layout()
	guides := make([]geom.Pose, entry.Len())
	for i, off := range entry.Offsets {
		guides[i] = anchor.ComposeSlotPose(origin, off.Pose())
	}
	s.origin = origin
	s.hasOrigin = true
	s.guides = guides
	s.guidesKey = entry.Key
	s.dirty = false
	s.recomputes++
}

// Recomputes returns how many times the guide poses were rebuilt.
func (s *Scene) Recomputes() int { return s.recomputes }

// Markers returns the secondary-marker observers.
func (s *Scene) Markers() []*proximity.Marker { return s.markers }

// Tick runs one update. viewer is the head pose, the reference frame
// for proximity and the origin of the placement's depth push.
func (s *Scene) Tick(viewer geom.Pose) Frame {
	s.tick++
	s.viewer = viewer
	frame := Frame{Tick: s.tick, HighlightedPlug: NoPlug}

	// 1. Anchor.
	obs := s.tracker.Observe(tracking.AnchorMarker)
	if obs.Status == tracking.Tracked && !obs.Usable() {
		opsf("tick %d: anchor reported tracked with an invalid pose %s; ignored", s.tick, obs.Pose)
	}
	changed := s.anchor.Update(obs)
	working, hasPose := s.anchor.WorkingPose()
	frame.Anchor = AnchorView{Pose: working, HasPose: hasPose, Frozen: s.anchor.Frozen()}
	if hasPose {
		frame.Anchor.Distance = r3.Norm(r3.Sub(working.Position, viewer.Position))
	}
	tracef("tick %d anchor changed=%t has_pose=%t frozen=%t", s.tick, changed, hasPose, frame.Anchor.Frozen)

	// 2. Slot guides. Unfrozen, the origin follows both the marker and
	// the viewer; frozen, it stays where onFreeze pinned it.
	if hasPose {
		origin := s.origin
		if !s.anchor.Frozen() || !s.hasOrigin {
			origin = s.placement.Origin(working, viewer.Position)
		}
		if s.dirty || !s.hasOrigin || origin != s.origin {
			s.recompute(origin)
		}
		base := anchor.BaseModelPose(s.origin)
		frame.Base = &base
	}
	entry := s.slots.Layout()
	frame.Guides = make([]GuideView, entry.Len())
	for i := range frame.Guides {
		state, _ := s.slots.State(i)
		g := GuideView{Index: i, Variant: entry.Variant(i), State: state}
		if hasPose && i < len(s.guides) {
			g.Pose = s.guides[i]
			g.Visible = s.slots.Visible(i)
		}
		frame.Guides[i] = g
	}
	if idx := s.slots.CurrentIndex(); idx > 0 {
		frame.HighlightedPlug = idx - 1
	}

	// 3. Indicator.
	var active *geom.Pose
	if i, ok := s.slots.ActiveIndex(); ok && hasPose && i < len(s.guides) {
		active = &s.guides[i]
	}
	frame.Indicator.Pose, frame.Indicator.Visible = s.indicator.Update(active, s.origin.Position)

	// 4. Proximity, against the current slot even while its guide is hidden.
	var current *geom.Pose
	if idx := s.slots.CurrentIndex(); idx > 0 && hasPose && idx-1 < len(s.guides) {
		current = &s.guides[idx-1]
	}
	frame.Markers = make([]proximity.Feedback, len(s.markers))
	for i, m := range s.markers {
		frame.Markers[i] = m.Update(s.tracker.Observe(m.TrackingID()), viewer, current)
	}

	if s.renderer != nil {
		s.renderer.Render(frame)
	}
	return frame
}
