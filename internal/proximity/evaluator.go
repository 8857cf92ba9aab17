// Package proximity classifies how close a component's secondary marker
// is to the active guide, and turns that into per-marker feedback.
package proximity

import (
	"math"

	"github.com/banshee-data/propmount/internal/config"
	"github.com/banshee-data/propmount/internal/geom"
	"github.com/banshee-data/propmount/internal/slots"
)

// Class is the discrete proximity result.
type Class string

const (
	Far      Class = "far"
	Near     Class = "near"
	VeryNear Class = "very_near"
)

// Evaluator compares positions in a reference frame (normally the
// viewer's) so drift shared by every marker seen from the same viewpoint
// cancels out.
type Evaluator struct {
	VeryNearThreshold float64
	// NearThreshold enables the Near tier when larger than
	// VeryNearThreshold. Zero disables it.
	NearThreshold float64
}

// NewEvaluator builds an evaluator from the tuning config.
func NewEvaluator(cfg *config.GuidanceConfig) Evaluator {
	return Evaluator{
		VeryNearThreshold: cfg.GetVeryNearThreshold(),
		NearThreshold:     cfg.GetNearThreshold(),
	}
}

// Evaluate classifies marker against slot. Both are taken into
// reference's local frame and compared on its two in-plane axes (X, Y).
func (e Evaluator) Evaluate(marker, reference, slot geom.Pose) Class {
	m := reference.InverseTransformPoint(marker.Position)
	s := reference.InverseTransformPoint(slot.Position)
	dx := math.Abs(m.X - s.X)
	dy := math.Abs(m.Y - s.Y)

	switch {
	case dx < e.VeryNearThreshold && dy < e.VeryNearThreshold:
		return VeryNear
	case e.NearThreshold > e.VeryNearThreshold && dx < e.NearThreshold && dy < e.NearThreshold:
		return Near
	default:
		return Far
	}
}

// Gate reports whether proximity is evaluated at all: only while a
// mounting step is open and at least one slot has been activated.
func Gate(s slots.Snapshot) bool {
	return s.Mounting && s.CurrentIndex > 0
}
