package pipeline

import (
	"github.com/banshee-data/propmount/internal/geom"
	"github.com/banshee-data/propmount/internal/layout"
	"github.com/banshee-data/propmount/internal/proximity"
	"github.com/banshee-data/propmount/internal/slots"
)

// NoPlug marks that no cable plug is highlighted.
const NoPlug = -1

// AnchorView is the anchor state as of this tick.
type AnchorView struct {
	Pose    geom.Pose
	HasPose bool
	Frozen  bool

	// Distance is the viewer-to-marker distance in metres, shown to the
	// operator while calibrating. Zero without a pose.
	Distance float64
}

// GuideView is one slot's guide model.
type GuideView struct {
	Index   int
	Pose    geom.Pose
	Visible bool
	Variant layout.GuideVariant
	State   slots.State
}

// IndicatorView is the direction arrow.
type IndicatorView struct {
	Pose    geom.Pose
	Visible bool
}

// Frame is everything a renderer needs for one tick. Poses are only
// meaningful where the matching Visible/HasPose flag is set.
type Frame struct {
	Tick   uint64
	Anchor AnchorView

	// Base is the base model pose; nil until an anchor pose exists.
	Base *geom.Pose

	Guides    []GuideView
	Indicator IndicatorView

	// HighlightedPlug is the cable plug for the current slot, or NoPlug.
	HighlightedPlug int

	Markers []proximity.Feedback
}

// VisibleGuides returns the indices of the guides drawn this tick.
func (f Frame) VisibleGuides() []int {
	var out []int
	for _, g := range f.Guides {
		if g.Visible {
			out = append(out, g.Index)
		}
	}
	return out
}

// Renderer consumes frames. It is optional.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

// Render calls f(frame).
func (f RendererFunc) Render(frame Frame) { f(frame) }
