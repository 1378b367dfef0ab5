package testbench

import (
	"github.com/sarchlab/occugrid/mem/occupancygrid"
	"github.com/sarchlab/occugrid/sim"
)

// Agent issues a queue of operations to a controller. It drives the inputs
// on the falling edge, holds each request for exactly one rising edge and
// waits for ReadyForInput before issuing the next one. It collects the
// results of reads.
type Agent struct {
	*sim.ComponentBase

	grid    *occupancygrid.Comp
	queue   []Op
	waiting *Op
	results []Result
	issued  uint64
}

// NewAgent creates an agent that drives the controller. The agent must be
// registered on the clock of the controller as a falling-edge handler.
func NewAgent(name string, grid *occupancygrid.Comp) *Agent {
	return &Agent{
		ComponentBase: sim.NewComponentBase(name),
		grid:          grid,
	}
}

// Enqueue adds operations to the end of the queue.
func (a *Agent) Enqueue(ops ...Op) {
	a.queue = append(a.queue, ops...)
}

// Results returns the results of the completed reads, in completion order.
func (a *Agent) Results() []Result {
	return a.results
}

// NumIssued returns the number of operations presented to the controller.
func (a *Agent) NumIssued() uint64 {
	return a.issued
}

// Idle returns true if the agent has nothing left to issue or wait for.
func (a *Agent) Idle() bool {
	return len(a.queue) == 0 && a.waiting == nil
}

// FallingEdge samples the outputs of the controller and drives the inputs
// for the next rising edge.
func (a *Agent) FallingEdge(cycle uint64) bool {
	a.grid.In = occupancygrid.Inputs{}

	out := a.grid.Outputs()

	if a.waiting != nil && out.OutputValid {
		a.results = append(a.results, Result{
			Op:    *a.waiting,
			Value: out.ReadOccupied,
			Cycle: cycle,
		})
		a.waiting = nil
	}

	if a.waiting == nil && len(a.queue) > 0 {
		a.issue(out)
	}

	return !a.Idle() || a.grid.In != (occupancygrid.Inputs{})
}

func (a *Agent) issue(out occupancygrid.Outputs) {
	op := a.queue[0]

	switch op.Kind {
	case OpReset:
		a.grid.In = occupancygrid.Inputs{Reset: true}
	case OpWrite, OpRead:
		if !out.ReadyForInput {
			return
		}

		a.grid.In = occupancygrid.Inputs{
			InputValid:    true,
			WriteEnable:   op.Kind == OpWrite,
			CellX:         op.X,
			CellY:         op.Y,
			WriteOccupied: op.Value,
		}

		if op.Kind == OpRead {
			a.waiting = &op
		}
	}

	a.queue = a.queue[1:]
	a.issued++
}
