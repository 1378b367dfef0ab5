package occupancygrid

import (
	"strings"

	"github.com/sarchlab/occugrid/mem/bram"
	"github.com/sarchlab/occugrid/sim"
	"github.com/sarchlab/occugrid/tracing"
)

// Stats counts what the controller has done. Counting never changes the
// behavior of the controller.
type Stats struct {
	AcceptedReads   uint64 `json:"accepted_reads"`
	AcceptedWrites  uint64 `json:"accepted_writes"`
	CompletedReads  uint64 `json:"completed_reads"`
	CompletedWrites uint64 `json:"completed_writes"`
	DroppedRequests uint64 `json:"dropped_requests"`
	AbortedRequests uint64 `json:"aborted_requests"`
	Resets          uint64 `json:"resets"`
	BusyCycles      uint64 `json:"busy_cycles"`
}

// Comp puts a controller on a clock. A harness drives In between rising
// edges, typically on the falling edge.
type Comp struct {
	*sim.ComponentBase

	In Inputs

	ctrl   *Controller
	stats  Stats
	taskID string
}

// Controller returns the controller that the component wraps.
func (c *Comp) Controller() *Controller {
	return c.ctrl
}

// Array returns the array that backs the grid.
func (c *Comp) Array() *bram.Comp {
	return c.ctrl.Array()
}

// Spec returns the configuration of the controller.
func (c *Comp) Spec() Spec {
	return c.ctrl.Spec()
}

// State returns the current state of the controller.
func (c *Comp) State() State {
	return c.ctrl.State()
}

// Outputs returns the signals the controller drives.
func (c *Comp) Outputs() Outputs {
	return c.ctrl.Outputs()
}

// Snapshot returns a copy of the controller registers.
func (c *Comp) Snapshot() Registers {
	return c.ctrl.Snapshot()
}

// Stats returns the counters of the component.
func (c *Comp) Stats() Stats {
	return c.stats
}

// RisingEdge steps the controller with the In pins. The component is busy
// while a request is in flight.
func (c *Comp) RisingEdge(cycle uint64) bool {
	t := c.ctrl.Step(c.In)

	c.count(t)
	c.trace(t)

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosTransition,
			Item:   TransitionEvent{Cycle: cycle, Transition: t},
		})
	}

	return t.To != StateStart
}

func (c *Comp) count(t Transition) {
	switch {
	case t.Reset:
		c.stats.Resets++
		if t.Aborted {
			c.stats.AbortedRequests++
		}
	case t.Accepted && t.Request.Write:
		c.stats.AcceptedWrites++
	case t.Accepted:
		c.stats.AcceptedReads++
	case t.Completed && t.Request.Write:
		c.stats.CompletedWrites++
	case t.Completed:
		c.stats.CompletedReads++
	}

	if t.Dropped {
		c.stats.DroppedRequests++
	}

	if t.To != StateStart {
		c.stats.BusyCycles++
	}
}

func (c *Comp) trace(t Transition) {
	switch {
	case t.Reset:
		if c.taskID != "" {
			tracing.AddTaskStep(c.taskID, c, "reset")
			tracing.EndTask(c.taskID, c)
			c.taskID = ""
		}
	case t.Accepted:
		c.taskID = sim.GetIDGenerator().Generate()
		tracing.StartTask(c.taskID, "", c, "req", requestKind(t.Request),
			t.Request)
	case t.Completed:
		tracing.AddTaskStep(c.taskID, c, stepName(t.From))
		tracing.EndTask(c.taskID, c)
		c.taskID = ""
	case t.From != t.To:
		tracing.AddTaskStep(c.taskID, c, stepName(t.From))
	}
}

func requestKind(r Request) string {
	if r.Write {
		return "write"
	}

	return "read"
}

func stepName(s State) string {
	return strings.ToLower(s.String())
}
