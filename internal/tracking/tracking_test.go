package tracking

import (
	"math"
	"testing"

	"github.com/banshee-data/propmount/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservationUsable(t *testing.T) {
	t.Parallel()

	assert.True(t, Observation{Pose: geom.At(1, 2, 3), Status: Tracked}.Usable())
	assert.False(t, Observation{Pose: geom.At(1, 2, 3), Status: NotTracked}.Usable())
	assert.False(t, Observation{Pose: geom.At(math.NaN(), 0, 0), Status: Tracked}.Usable())
	assert.False(t, Lost.Usable())
}

func TestScriptReplay(t *testing.T) {
	t.Parallel()

	s := NewScript([]FrameRecord{
		{Markers: map[MarkerID]PoseRecord{AnchorMarker: {Position: [3]float64{0, 0, 1}}}},
		{},
	})
	require.Equal(t, 2, s.Len())

	obs := s.Observe(AnchorMarker)
	assert.Equal(t, Tracked, obs.Status)
	assert.InDelta(t, 1.0, obs.Pose.Position.Z, 1e-12)
	assert.Equal(t, NotTracked, s.Observe("3").Status)

	require.True(t, s.Advance())
	assert.Equal(t, NotTracked, s.Observe(AnchorMarker).Status)

	assert.False(t, s.Advance())
	assert.True(t, s.Done())
	assert.Equal(t, Lost, s.Observe(AnchorMarker))
	_, err := s.Viewer()
	assert.Error(t, err)
}

func TestTrackerFunc(t *testing.T) {
	t.Parallel()

	var tr Tracker = TrackerFunc(func(id MarkerID) Observation {
		if id == AnchorMarker {
			return Observation{Pose: geom.Identity(), Status: Tracked}
		}
		return Lost
	})
	assert.True(t, tr.Observe(AnchorMarker).Usable())
	assert.False(t, tr.Observe("1").Usable())
}
