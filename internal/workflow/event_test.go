package workflow

import (
	"encoding/json"
	"testing"

	"github.com/banshee-data/propmount/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventKind(t *testing.T) {
	for _, k := range eventKinds {
		got, err := ParseEventKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseEventKind("selectcount")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestEventRecord(t *testing.T) {
	var recs []EventRecord
	require.NoError(t, json.Unmarshal([]byte(`[{"event":"SelectCount","value":9},{"event":"StartPressed"}]`), &recs))

	e, err := recs[0].Event()
	require.NoError(t, err)
	assert.Equal(t, Event{Kind: SelectCount, Value: 9}, e)
	assert.Equal(t, "SelectCount: 9", e.String())

	e, err = recs[1].Event()
	require.NoError(t, err)
	assert.Equal(t, "StartPressed", e.String())

	_, err = EventRecord{Name: "Explode"}.Event()
	assert.Error(t, err)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "AwaitingCableMount(3)", Step{Kind: AwaitingCableMount, Slot: 3}.String())
	assert.Equal(t, "Complete", Step{Kind: Complete}.String())
	assert.False(t, Step{Kind: Calibrating}.PerSlot())
}
