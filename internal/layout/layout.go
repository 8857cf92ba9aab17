package layout

import (
	"github.com/banshee-data/propmount/internal/errors"
	"github.com/banshee-data/propmount/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Base geometry (metres) relative to the placement origin.
const (
	BaseWidth     = 0.1482
	BaseHeight    = -0.1009
	BaseLengthNeg = -0.3505
	BaseLengthPos = 0.3455
)

// Supported component counts.
const (
	MinCount = 4
	MaxCount = 6
)

// ErrUnsupportedCount is returned by Lookup for counts outside {4, 6}.
var ErrUnsupportedCount = errors.New("unsupported component count")

// Key selects a layout.
type Key struct {
	Symmetric bool
	Count     int
}

// Offset is one slot's position and orientation relative to the origin.
type Offset struct {
	Position r3.Vec
	Euler    [3]float64 // degrees, applied Z then X then Y
}

// Pose returns the offset as a relative pose.
func (o Offset) Pose() geom.Pose {
	return geom.NewPose(o.Position, geom.FromEulerDegrees(o.Euler[0], o.Euler[1], o.Euler[2]))
}

// GuideVariant selects which guide model is drawn for a slot.
type GuideVariant string

const (
	GuideRed   GuideVariant = "red"
	GuideBlack GuideVariant = "black"
)

// Entry is the resolved layout: len(Offsets) == Key.Count.
type Entry struct {
	Key     Key
	Offsets []Offset
}

// Len returns the number of slots.
func (e Entry) Len() int { return len(e.Offsets) }

// Offset returns slot i's offset, bounds-checked.
func (e Entry) Offset(i int) (Offset, error) {
	if i < 0 || i >= len(e.Offsets) {
		return Offset{}, errors.InvalidInputf("slot %d out of range [0,%d)", i, len(e.Offsets))
	}
	return e.Offsets[i], nil
}

// Variant alternates red and black guides, starting with red at slot 0.
func (e Entry) Variant(i int) GuideVariant {
	if i%2 == 0 {
		return GuideRed
	}
	return GuideBlack
}

func pos(x, y, z float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: z} }

var (
	rotRight = [3]float64{-90, 0, 90}
	rotFront = [3]float64{-90, 0, 0}
	rotLeft  = [3]float64{-90, 0, -90}
	rotBack  = [3]float64{-90, 0, 180}
)

// Tables, in clockwise order starting at the positive-length end.
var (
	symmetric4 = []Offset{
		{pos(BaseLengthPos, BaseHeight, 0), rotRight},
		{pos(-0.0025, BaseHeight, BaseWidth), rotFront},
		{pos(BaseLengthNeg, BaseHeight, 0), rotLeft},
		{pos(-0.0025, BaseHeight, -BaseWidth), rotBack},
	}

	asymmetric4 = []Offset{
		{pos(BaseLengthPos, BaseHeight, -0.0402), rotRight},
		{pos(-0.1225, BaseHeight, BaseWidth), rotFront},
		{pos(BaseLengthNeg, BaseHeight, 0.0198), rotLeft},
		{pos(0.1975, BaseHeight, -BaseWidth), rotBack},
	}

	symmetric6 = []Offset{
		{pos(BaseLengthPos, BaseHeight, 0), rotRight},
		{pos(0.1975, BaseHeight, BaseWidth), rotFront},
		{pos(-0.2025, BaseHeight, BaseWidth), rotFront},
		{pos(BaseLengthNeg, BaseHeight, 0), rotLeft},
		{pos(-0.2025, BaseHeight, -BaseWidth), rotBack},
		{pos(0.1975, BaseHeight, -BaseWidth), rotBack},
	}

	asymmetric6 = []Offset{
		{pos(BaseLengthPos, BaseHeight, -0.052), rotRight},
		{pos(0.2725, BaseHeight, BaseWidth), rotFront},
		{pos(-0.1425, BaseHeight, BaseWidth), rotFront},
		{pos(BaseLengthNeg, BaseHeight, 0.0198), rotLeft},
		{pos(-0.1025, BaseHeight, -BaseWidth), rotBack},
		{pos(0.2725, BaseHeight, -BaseWidth), rotBack},
	}
)

// Supported reports whether count has a table.
func Supported(count int) bool {
	return count == MinCount || count == MaxCount
}

// ClampCount applies the upstream clamp: anything above MaxCount becomes MaxCount.
func ClampCount(n int) int {
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// Lookup resolves key, returning ErrUnsupportedCount for counts outside {4, 6}.
func Lookup(key Key) (Entry, error) {
	if !Supported(key.Count) {
		return Entry{}, errors.Wrapf(ErrUnsupportedCount, "count %d", key.Count)
	}

	var table []Offset
	switch {
	case key.Symmetric && key.Count == 4:
		table = symmetric4
	case key.Symmetric:
		table = symmetric6
	case key.Count == 4:
		table = asymmetric4
	default:
		table = asymmetric6
	}

	offsets := make([]Offset, len(table))
	copy(offsets, table)
	return Entry{Key: key, Offsets: offsets}, nil
}

// Resolve returns the layout for (symmetric, count). The workflow clamps
// and validates count before calling, so an unsupported count here is a
// bug and panics with an assertion failure.
func Resolve(symmetric bool, count int) Entry {
	entry, err := Lookup(Key{Symmetric: symmetric, Count: count})
	if err != nil {
		panic(errors.AssertionFailedf("layout.Resolve: %v", err))
	}
	return entry
}
