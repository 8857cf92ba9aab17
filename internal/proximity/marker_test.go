package proximity

import (
	"testing"

	"github.com/banshee-data/propmount/internal/geom"
	"github.com/banshee-data/propmount/internal/slots"
	"github.com/banshee-data/propmount/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func seen(p geom.Pose) tracking.Observation {
	return tracking.Observation{Pose: p, Status: tracking.Tracked}
}

func TestMarker_TrackingID(t *testing.T) {
	assert.Equal(t, tracking.MarkerID("3"), NewMarker(3, twoWay()).TrackingID())
}

func TestMarker_HiddenWhenNotTracked(t *testing.T) {
	m := NewMarker(1, twoWay())
	fb := m.Update(tracking.Lost, geom.Identity(), nil)
	assert.Equal(t, Hidden, fb.Variant)
	assert.False(t, fb.Evaluated)
}

func TestMarker_TickOrCrossWhenNotMounting(t *testing.T) {
	next := NewMarker(2, twoWay())
	other := NewMarker(3, twoWay())
	snap := slots.Snapshot{CurrentIndex: 1, Count: 4}
	next.SlotsChanged(snap)
	other.SlotsChanged(snap)

	at := geom.At(1, 1, 1)
	fb := next.Update(seen(at), geom.Identity(), nil)
	assert.Equal(t, Tick, fb.Variant)
	assert.True(t, geom.ApproxEqual(at.Translate(r3.Vec{Y: -0.015}), fb.Pose, 1e-12))

	fb = other.Update(seen(at), geom.Identity(), nil)
	assert.Equal(t, Cross, fb.Variant)
	assert.True(t, geom.ApproxEqual(at.Translate(r3.Vec{Y: -0.03}), fb.Pose, 1e-12))
	assert.Equal(t, NoColor, fb.Color)
}

func TestMarker_SphereColourFollowsProximity(t *testing.T) {
	m := NewMarker(1, twoWay())
	m.SlotsChanged(slots.Snapshot{CurrentIndex: 1, Count: 4, Mounting: true})
	slot := geom.At(0.5, 0.5, 0)

	// Sphere sits 0.03 below the marker; that is what is compared.
	onTarget := geom.At(0.5, 0.53, 0)
	fb := m.Update(seen(onTarget), geom.Identity(), &slot)
	require.True(t, fb.Evaluated)
	assert.Equal(t, Sphere, fb.Variant)
	assert.Equal(t, VeryNear, fb.Class)
	assert.Equal(t, Affirmative, fb.Color)
	assert.True(t, geom.ApproxEqual(geom.At(0.5, 0.5, 0), fb.Pose, 1e-12))

	fb = m.Update(seen(geom.At(0.7, 0.53, 0)), geom.Identity(), &slot)
	assert.Equal(t, Far, fb.Class)
	assert.Equal(t, Negative, fb.Color)
}

func TestMarker_SphereWithoutSlotPoseKeepsColour(t *testing.T) {
	m := NewMarker(1, twoWay())
	m.SlotsChanged(slots.Snapshot{CurrentIndex: 1, Count: 4, Mounting: true})

	fb := m.Update(seen(geom.At(0, 0, 0)), geom.Identity(), nil)
	assert.Equal(t, Sphere, fb.Variant)
	assert.False(t, fb.Evaluated)
	assert.Equal(t, Negative, fb.Color)

	slot := geom.At(0, -0.03, 0)
	m.Update(seen(geom.At(0, 0, 0)), geom.Identity(), &slot)
	fb = m.Update(seen(geom.At(0, 0, 0)), geom.Identity(), nil)
	assert.Equal(t, Affirmative, fb.Color)
}

// Finishing a mounting step switches a visible marker straight to the
// tick/cross display without waiting for the next tick.
func TestMarker_StateChangeRefreshesDisplay(t *testing.T) {
	m := NewMarker(2, twoWay())
	m.SlotsChanged(slots.Snapshot{CurrentIndex: 1, Count: 4, Mounting: true})
	slot := geom.At(0, 0, 0)
	at := geom.At(0, 0.03, 0)
	m.Update(seen(at), geom.Identity(), &slot)
	require.Equal(t, Sphere, m.Feedback().Variant)

	m.SlotsChanged(slots.Snapshot{CurrentIndex: 1, Count: 4, Mounting: false})
	fb := m.Feedback()
	assert.Equal(t, Tick, fb.Variant)
	assert.False(t, fb.Evaluated)
	assert.True(t, geom.ApproxEqual(at.Translate(r3.Vec{Y: -0.015}), fb.Pose, 1e-12))
}

func TestMarker_RegisteredWithMachine(t *testing.T) {
	machine := slots.NewMachine()
	markers := []*Marker{NewMarker(1, twoWay()), NewMarker(2, twoWay())}
	for _, mk := range markers {
		machine.Register(mk)
	}
	require.NoError(t, machine.Configure(true, 4))

	for _, mk := range markers {
		mk.Update(seen(geom.At(0, 0, 0)), geom.Identity(), nil)
	}
	assert.Equal(t, Tick, markers[0].Feedback().Variant)
	assert.Equal(t, Cross, markers[1].Feedback().Variant)

	_, _ = machine.ActivateNext()
	assert.Equal(t, Sphere, markers[0].Feedback().Variant)
	assert.Equal(t, Sphere, markers[1].Feedback().Variant)

	machine.FinishMountingStep()
	assert.Equal(t, Cross, markers[0].Feedback().Variant)
	assert.Equal(t, Tick, markers[1].Feedback().Variant)
}
