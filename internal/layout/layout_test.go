package layout

import (
	"fmt"
	"testing"

	"github.com/banshee-data/propmount/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_LengthMatchesCount(t *testing.T) {
	t.Parallel()

	for _, symmetric := range []bool{true, false} {
		for _, count := range []int{4, 6} {
			symmetric, count := symmetric, count
			t.Run(fmt.Sprintf("symmetric=%v/count=%d", symmetric, count), func(t *testing.T) {
				t.Parallel()
				entry := Resolve(symmetric, count)
				assert.Equal(t, count, entry.Len())
				assert.Equal(t, Key{Symmetric: symmetric, Count: count}, entry.Key)
			})
		}
	}
}

func TestResolve_TablesAreDistinct(t *testing.T) {
	t.Parallel()

	sym := Resolve(true, 4)
	asym := Resolve(false, 4)
	assert.NotEqual(t, sym.Offsets, asym.Offsets)

	// First slot sits at the positive-length end in every table.
	for _, e := range []Entry{sym, asym, Resolve(true, 6), Resolve(false, 6)} {
		assert.InDelta(t, BaseLengthPos, e.Offsets[0].Position.X, 1e-12)
		assert.InDelta(t, BaseHeight, e.Offsets[0].Position.Y, 1e-12)
	}
}

func TestResolve_UnsupportedCountPanics(t *testing.T) {
	t.Parallel()

	for _, count := range []int{0, 3, 5, 7} {
		count := count
		t.Run(fmt.Sprint(count), func(t *testing.T) {
			t.Parallel()
			defer func() {
				r := recover()
				require.NotNil(t, r, "Resolve(%d) should panic", count)
				err, ok := r.(error)
				require.True(t, ok)
				assert.True(t, errors.IsAssertionFailure(err))
			}()
			Resolve(true, count)
		})
	}
}

func TestLookup_UnsupportedCount(t *testing.T) {
	t.Parallel()

	_, err := Lookup(Key{Symmetric: false, Count: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedCount))
}

func TestResolve_ReturnsCopy(t *testing.T) {
	t.Parallel()

	a := Resolve(true, 4)
	a.Offsets[0].Position.X = 99
	b := Resolve(true, 4)
	assert.InDelta(t, BaseLengthPos, b.Offsets[0].Position.X, 1e-12)
}

func TestClampCount(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want int }{
		{4, 4}, {6, 6}, {7, 6}, {9, 6}, {100, 6}, {5, 5}, {2, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampCount(tt.in), "ClampCount(%d)", tt.in)
	}
}

func TestEntry_OffsetBounds(t *testing.T) {
	t.Parallel()

	e := Resolve(false, 6)
	_, err := e.Offset(6)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	_, err = e.Offset(-1)
	assert.Error(t, err)

	off, err := e.Offset(5)
	require.NoError(t, err)
	assert.InDelta(t, -BaseWidth, off.Position.Z, 1e-12)
}

func TestEntry_VariantAlternates(t *testing.T) {
	t.Parallel()

	e := Resolve(true, 6)
	for i := 0; i < e.Len(); i++ {
		want := GuideRed
		if i%2 == 1 {
			want = GuideBlack
		}
		assert.Equal(t, want, e.Variant(i), "slot %d", i)
	}
}
