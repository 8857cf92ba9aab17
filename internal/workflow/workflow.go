// Package workflow sequences a mounting session: choosing the layout,
// calibrating the anchor, then a grab → slide → cable cycle per slot.
// It reacts to UI events, drives the slot machine and the anchor
// compositor, and records every transition to the session log.
package workflow

import (
	"fmt"
	"time"

	"github.com/banshee-data/propmount/internal/anchor"
	"github.com/banshee-data/propmount/internal/config"
	"github.com/banshee-data/propmount/internal/errors"
	"github.com/banshee-data/propmount/internal/layout"
	"github.com/banshee-data/propmount/internal/session"
	"github.com/banshee-data/propmount/internal/slots"
)

// ErrUnexpectedEvent is returned for an event that does not apply to
// the current step. The workflow state is unchanged.
var ErrUnexpectedEvent = errors.New("event not expected in current step")

// Workflow is the session's step machine. It is the only writer of the
// current step.
type Workflow struct {
	session *session.Context
	anchor  *anchor.Compositor
	slots   *slots.Machine

	maxCount  int
	step      Step
	symmetric bool
	count     int
}

// New returns a workflow at ChoosingSymmetry. A nil cfg uses defaults.
func New(sess *session.Context, comp *anchor.Compositor, machine *slots.Machine, cfg *config.GuidanceConfig) *Workflow {
	if cfg == nil {
		cfg = config.EmptyGuidanceConfig()
	}
	w := &Workflow{
		session:  sess,
		anchor:   comp,
		slots:    machine,
		maxCount: cfg.GetMaxComponents(),
	}
	w.enter(Step{Kind: ChoosingSymmetry})
	return w
}

func (w *Workflow) enter(s Step) {
	prev := w.step
	w.step = s
	w.session.Log("Enter " + s.String())
	diagf("%s -> %s", prev, s)
}

func (w *Workflow) unexpected(e Event) error {
	opsf("rejected %s in %s", e, w.step)
	return errors.Wrapf(ErrUnexpectedEvent, "%s in %s", e, w.step)
}

// Handle applies one UI event. Events that do not fit the current step
// return ErrUnexpectedEvent; a SelectCount outside the supported counts
// returns layout.ErrUnsupportedCount. Neither changes any state.
func (w *Workflow) Handle(e Event) error {
	tracef("handle %s in %s", e, w.step)

	switch w.step.Kind {
	case ChoosingSymmetry:
		switch e.Kind {
		case ChooseSymmetric, ChooseAsymmetric:
			w.session.Log(e.String())
			w.symmetric = e.Kind == ChooseSymmetric
			w.enter(Step{Kind: ChoosingCount})
			return nil
		}

	case ChoosingCount:
		if e.Kind == SelectCount {
			return w.selectCount(e)
		}

	case AwaitingStart:
		if e.Kind == StartPressed {
			w.session.Log(e.String())
			w.session.StartOverall()
			w.enter(Step{Kind: Calibrating})
			return nil
		}

	case Calibrating:
		switch e.Kind {
		case FreezeToggled:
			w.session.Log(e.String())
			frozen := w.anchor.ToggleFrozen()
			diagf("anchor frozen=%t", frozen)
			return nil
		case AdjustmentConfirmed:
			w.session.Log(e.String())
			if !w.anchor.Frozen() {
				w.anchor.SetFrozen(true)
			}
			if !w.anchor.HasPose() {
				opsf("adjustment confirmed before any anchor pose; guides stay hidden until one arrives")
			}
			w.enterGrab(0)
			return nil
		}

	case AwaitingGrab, AwaitingSlide, AwaitingCableMount:
		if e.Kind == FreezeToggled {
			w.session.Log(e.String())
			w.toggleFreezeDuringSlot()
			return nil
		}
		return w.handleSlotEvent(e)
	}

	return w.unexpected(e)
}

func (w *Workflow) selectCount(e Event) error {
	n := layout.ClampCount(e.Value)
	if n > w.maxCount {
		n = w.maxCount
	}
	if !layout.Supported(n) {
		opsf("rejected count %d (clamped %d)", e.Value, n)
		return errors.WithHint(
			errors.Wrapf(layout.ErrUnsupportedCount, "select count %d", e.Value),
			"choose 4 or 6 components",
		)
	}
	if err := w.slots.Configure(w.symmetric, n); err != nil {
		return err
	}
	w.session.Log(e.String())
	w.count = n
	diagf("configured symmetric=%t count=%d", w.symmetric, n)
	w.enter(Step{Kind: AwaitingStart})
	return nil
}

// toggleFreezeDuringSlot flips the anchor. Unfreezing takes the current
// guide down while the operator re-aligns; freezing again restores it.
func (w *Workflow) toggleFreezeDuringSlot() {
	if w.anchor.ToggleFrozen() {
		w.slots.ShowCurrent()
		diagf("anchor frozen, guide shown")
		return
	}
	w.slots.HideCurrent()
	diagf("anchor unfrozen, guide hidden")
}

func (w *Workflow) handleSlotEvent(e Event) error {
	i := w.step.Slot
	switch {
	case w.step.Kind == AwaitingGrab && e.Kind == GrabConfirmed:
		if _, err := w.slots.ActivateNext(); err != nil {
			opsf("grab confirmed for slot %d: %v", i, err)
			return err
		}
		w.session.Log(e.String())
		w.enter(Step{Kind: AwaitingSlide, Slot: i})
		return nil

	case w.step.Kind == AwaitingSlide && e.Kind == SlideConfirmed:
		w.session.Log(e.String())
		w.enter(Step{Kind: AwaitingCableMount, Slot: i})
		return nil

	case w.step.Kind == AwaitingCableMount && e.Kind == CableConfirmed:
		w.session.Log(e.String())
		w.slots.FinishMountingStep()
		d := w.session.FinishSlot()
		diagf("slot %d mounted in %s", i, d)
		if i+1 < w.count {
			w.enterGrab(i + 1)
			return nil
		}
		w.enter(Step{Kind: Complete})
		sum := w.session.Finish()
		diagf("session %s complete in %s", sum.SessionID, sum.Total)
		return nil
	}
	return w.unexpected(e)
}

func (w *Workflow) enterGrab(i int) {
	if _, err := w.slots.Prepare(); err != nil {
		opsf("prepare slot %d: %v", i, err)
	}
	w.session.StartSlot()
	w.enter(Step{Kind: AwaitingGrab, Slot: i})
}

// Step returns the current step.
func (w *Workflow) Step() Step { return w.step }

// SlotIndex returns the slot the current step works on, if any.
func (w *Workflow) SlotIndex() (int, bool) {
	return w.step.Slot, w.step.PerSlot()
}

// Symmetric reports the chosen layout family.
func (w *Workflow) Symmetric() bool { return w.symmetric }

// Count returns the configured number of slots; zero before SelectCount.
func (w *Workflow) Count() int { return w.count }

// Durations returns the mount time of every finished slot.
func (w *Workflow) Durations() []time.Duration { return w.session.Durations() }

// Total returns the overall time; zero until Complete.
func (w *Workflow) Total() time.Duration { return w.session.Total() }

// Prompt returns the operator instruction for the current step.
func (w *Workflow) Prompt() string {
	n := w.step.Slot + 1
	switch w.step.Kind {
	case ChoosingSymmetry:
		return "Choose Symmetric or Asymmetric"
	case ChoosingCount:
		return "Choose Number of Propellers"
	case AwaitingStart:
		return "Press Start to start the experiment"
	case Calibrating:
		return "Look at the marker and press Freeze.\n" +
			"Move the base to align with the hologram (high precision not required).\n" +
			"Unfrozen, the hologram follows the marker. Frozen, it stays where it is."
	case AwaitingGrab:
		return fmt.Sprintf("Check the number on the propeller and find number %d\n"+
			"Grab it and press Confirm Number", n)
	case AwaitingSlide:
		return fmt.Sprintf("Slide the propeller to match the hologram.\n"+
			"When the small marker is seen, the ball turns green at the correct position.\n"+
			"Then press Confirm Propeller. %d/%d", n, w.count)
	case AwaitingCableMount:
		return "Insert the propeller's cable into the highlighted plug\n" +
			"Then press Cable Mounted"
	case Complete:
		return "All Propellers Mounted!"
	}
	return ""
}
