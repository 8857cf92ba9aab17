package errors

import (
	"testing"

	crdb "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	sentinel := New("all slots activated")
	wrapped := Wrap(sentinel, "activate next")

	require.NotNil(t, wrapped)
	assert.True(t, Is(wrapped, sentinel))
	assert.Contains(t, wrapped.Error(), "activate next")
	assert.Contains(t, wrapped.Error(), "all slots activated")
}

func TestInvalidInputf(t *testing.T) {
	err := InvalidInputf("count %d not supported", 5)

	assert.True(t, Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "count 5 not supported")
}

func TestInvalidInputf_ArgsStayRedactable(t *testing.T) {
	err := InvalidInputf("unknown event %q", "Dance")

	assert.Contains(t, err.Error(), `unknown event "Dance"`)
	redacted := crdb.Redact(err)
	assert.Contains(t, redacted, "unknown event")
	assert.NotContains(t, redacted, "Dance")
}

func TestAssertionFailure(t *testing.T) {
	err := AssertionFailedf("layout for count %d", 9)

	assert.True(t, IsAssertionFailure(err))
	assert.Contains(t, err.Error(), "layout for count 9")
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("no anchor pose"), "look at the base marker")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "look at the base marker", hints[0])
}
