package occupancygrid

import (
	"github.com/sarchlab/occugrid/sim"
	"github.com/sirupsen/logrus"
)

// HookPosTransition triggers after every rising edge of a controller. The
// hook item is a TransitionEvent.
var HookPosTransition = &sim.HookPos{Name: "GridTransition"}

// TransitionEvent is a transition together with the cycle it happened in.
type TransitionEvent struct {
	Cycle uint64
	Transition
}

// TransitionLogger logs the transitions that change something. Idle edges
// are not logged.
type TransitionLogger struct {
	sim.LogHookBase
}

// NewTransitionLogger creates a TransitionLogger that writes into logger.
func NewTransitionLogger(logger logrus.FieldLogger) *TransitionLogger {
	return &TransitionLogger{LogHookBase: sim.NewLogHookBase(logger)}
}

// Func logs the transition.
func (h *TransitionLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosTransition {
		return
	}

	evt, ok := ctx.Item.(TransitionEvent)
	if !ok {
		return
	}

	if evt.From == evt.To && !evt.Accepted && !evt.Dropped && !evt.Reset {
		return
	}

	entry := h.Logger.WithFields(logrus.Fields{
		"cycle": evt.Cycle,
		"from":  evt.From.String(),
		"to":    evt.To.String(),
		"x":     evt.Request.X,
		"y":     evt.Request.Y,
		"write": evt.Request.Write,
	})

	if named, ok := ctx.Domain.(sim.Named); ok {
		entry = entry.WithField("where", named.Name())
	}

	switch {
	case evt.Reset:
		entry.Info("reset")
	case evt.Dropped:
		entry.Warn("request dropped while busy")
	default:
		entry.Debug("transition")
	}
}
