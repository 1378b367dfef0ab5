package occupancygrid

import (
	"github.com/sarchlab/occugrid/mem/bram"
)

// Transition describes what happened on one rising edge.
type Transition struct {
	From State
	To   State

	// Request is the request in flight after the edge, or the request that
	// completed on the edge.
	Request Request

	Reset     bool // The edge was a reset edge
	Accepted  bool // A request was latched
	Dropped   bool // A request was presented while busy and ignored
	Completed bool // A request finished and the controller returned to START
	Aborted   bool // A request in flight was discarded by reset
}

// Controller is the state machine that serves grid requests. It owns its
// array and is the only driver of the array inputs.
type Controller struct {
	spec  Spec
	array *bram.Comp
	regs  Registers
}

// Spec returns the configuration of the controller.
func (c *Controller) Spec() Spec {
	return c.spec
}

// Array returns the array that backs the grid. Callers should only use the
// debug backdoors of the array.
func (c *Controller) Array() *bram.Comp {
	return c.array
}

// State returns the current state.
func (c *Controller) State() State {
	return c.regs.State
}

// Outputs returns the signals the controller drives until the next edge.
func (c *Controller) Outputs() Outputs {
	return Outputs{
		ReadyForInput: c.regs.State == StateStart,
		OutputValid:   c.regs.OutputValid,
		ReadOccupied:  c.regs.ReadOccupied,
	}
}

// Snapshot returns a copy of the registers.
func (c *Controller) Snapshot() Registers {
	return c.regs
}

// EncodeAddress returns the array address of a cell.
func (c *Controller) EncodeAddress(x, y uint64) uint64 {
	return c.spec.EncodeAddress(x, y)
}

// DecodeAddress returns the cell of an array address.
func (c *Controller) DecodeAddress(addr uint64) (x, y uint64) {
	return c.spec.DecodeAddress(addr)
}

// Step applies one rising edge. The array samples the inputs driven by the
// registers before the edge, so a write commits on the edge that leaves
// WRITE and the read data used in FINISH was sampled on the edge that left
// WAIT.
func (c *Controller) Step(in Inputs) Transition {
	readData := c.array.ReadData()

	c.array.Edge(bram.Inputs{
		Addr:        c.regs.Request.Addr,
		WriteEnable: c.regs.State == StateWrite,
		WriteData:   c.regs.Request.Value,
	})

	t := Transition{
		From:    c.regs.State,
		Request: c.regs.Request,
	}

	c.regs.OutputValid = false

	if in.Reset {
		c.reset(&t)
		return t
	}

	switch c.regs.State {
	case StateStart:
		c.start(in, &t)
	case StateWait:
		if c.regs.Request.Write {
			c.regs.State = StateWrite
		} else {
			c.regs.State = StateFinish
		}
	case StateWrite:
		c.regs.State = StateStart
		t.Completed = true
	case StateFinish:
		c.regs.ReadOccupied = readData
		c.regs.OutputValid = true
		c.regs.State = StateStart
		t.Completed = true
	}

	if in.InputValid && t.From != StateStart {
		t.Dropped = true
	}

	t.To = c.regs.State

	return t
}

func (c *Controller) start(in Inputs, t *Transition) {
	if !in.InputValid {
		return
	}

	x := in.CellX & bram.Mask(c.spec.GridWidthLog2)
	y := in.CellY & bram.Mask(c.spec.GridHeightLog2)

	c.regs.Request = Request{
		X:     x,
		Y:     y,
		Write: in.WriteEnable,
		Value: in.WriteOccupied & bram.Mask(c.spec.DataWidth),
		Addr:  c.spec.EncodeAddress(x, y),
	}
	c.regs.State = StateWait

	t.Accepted = true
	t.Request = c.regs.Request
}

// The array is not reset. A write driven on the reset edge still commits.
func (c *Controller) reset(t *Transition) {
	t.Reset = true
	t.Aborted = t.From != StateStart

	c.regs = Registers{State: StateStart}

	t.To = StateStart
}
