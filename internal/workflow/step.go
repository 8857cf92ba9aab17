package workflow

import "fmt"

// StepKind is the workflow position. The per-slot kinds carry a slot
// index in Step.Slot.
type StepKind string

const (
	ChoosingSymmetry   StepKind = "ChoosingSymmetry"
	ChoosingCount      StepKind = "ChoosingCount"
	AwaitingStart      StepKind = "AwaitingStart"
	Calibrating        StepKind = "Calibrating"
	AwaitingGrab       StepKind = "AwaitingGrab"
	AwaitingSlide      StepKind = "AwaitingSlide"
	AwaitingCableMount StepKind = "AwaitingCableMount"
	Complete           StepKind = "Complete"
)

// Step is the current workflow state.
type Step struct {
	Kind StepKind
	Slot int // 0-based; only meaningful when PerSlot
}

// PerSlot reports whether the step belongs to one slot's mounting cycle.
func (s Step) PerSlot() bool {
	switch s.Kind {
	case AwaitingGrab, AwaitingSlide, AwaitingCableMount:
		return true
	}
	return false
}

func (s Step) String() string {
	if s.PerSlot() {
		return fmt.Sprintf("%s(%d)", s.Kind, s.Slot)
	}
	return string(s.Kind)
}
