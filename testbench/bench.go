// Package testbench drives an occupancy-grid controller the way a hardware
// testbench does: inputs change on the falling edge of the clock and outputs
// are sampled there too.
package testbench

import (
	"errors"
	"fmt"

	"github.com/sarchlab/occugrid/mem/occupancygrid"
	"github.com/sarchlab/occugrid/prng"
	"github.com/sarchlab/occugrid/sim"
)

// ErrTimeout is returned when a signal does not rise within the allowed
// number of cycles.
var ErrTimeout = errors.New("timeout")

// DefaultMaxWaitCycles bounds the waits of a Bench.
const DefaultMaxWaitCycles = 100

// Pins are the input pins of the bench. Reset is active low.
type Pins struct {
	RstN          bool
	InputValid    bool
	WriteEnable   bool
	CellX         uint64
	CellY         uint64
	WriteOccupied uint64

	Seed       uint64
	PRNGEnable bool
}

// Bench owns a clock, a controller and a random number generator that share
// the reset pin.
type Bench struct {
	Pins Pins

	// MaxWaitCycles bounds WaitReadyForInput and WaitOutputValid.
	MaxWaitCycles int

	clock *sim.Clock
	grid  *occupancygrid.Comp
	prng  *prng.Comp
}

// NewBench creates a bench around a controller with the given configuration.
func NewBench(spec occupancygrid.Spec) *Bench {
	b := &Bench{
		Pins:          Pins{RstN: true},
		MaxWaitCycles: DefaultMaxWaitCycles,
		clock:         sim.NewClock("Bench.Clock", nil, 500*sim.MHz),
		grid:          occupancygrid.MakeBuilder().WithSpec(spec).Build("Bench.Grid"),
		prng:          prng.MakeBuilder().Build("Bench.PRNG"),
	}

	b.clock.Register(b.grid)
	b.clock.Register(b.prng)

	return b
}

// Clock returns the clock of the bench.
func (b *Bench) Clock() *sim.Clock {
	return b.clock
}

// Grid returns the controller under test.
func (b *Bench) Grid() *occupancygrid.Comp {
	return b.grid
}

// PRNG returns the random number generator.
func (b *Bench) PRNG() *prng.Comp {
	return b.prng
}

// Tick applies the pins and runs the clock to the next falling edge.
func (b *Bench) Tick() {
	reset := !b.Pins.RstN

	b.grid.In = occupancygrid.Inputs{
		Reset:         reset,
		InputValid:    b.Pins.InputValid,
		WriteEnable:   b.Pins.WriteEnable,
		CellX:         b.Pins.CellX,
		CellY:         b.Pins.CellY,
		WriteOccupied: b.Pins.WriteOccupied,
	}
	b.prng.In = prng.Inputs{
		Reset: reset,
		En:    b.Pins.PRNGEnable,
		Seed:  b.Pins.Seed,
	}

	b.clock.Step()
}

// Reset holds reset low for one edge with the request pins cleared.
func (b *Bench) Reset() {
	b.Pins.RstN = false
	b.Pins.InputValid = false
	b.Pins.WriteEnable = false
	b.Pins.CellX = 0
	b.Pins.CellY = 0
	b.Pins.WriteOccupied = 0

	b.Tick()

	b.Pins.RstN = true

	b.Tick()
}

// WaitReadyForInput ticks until the controller can accept a request.
func (b *Bench) WaitReadyForInput() error {
	return b.waitFor("ready for input", func(o occupancygrid.Outputs) bool {
		return o.ReadyForInput
	})
}

// WaitOutputValid ticks until the controller presents a read result.
func (b *Bench) WaitOutputValid() error {
	return b.waitFor("output valid", func(o occupancygrid.Outputs) bool {
		return o.OutputValid
	})
}

func (b *Bench) waitFor(
	what string,
	cond func(occupancygrid.Outputs) bool,
) error {
	for i := 0; !cond(b.grid.Outputs()); i++ {
		if i >= b.MaxWaitCycles {
			return fmt.Errorf("%w: %s not seen in %d cycles",
				ErrTimeout, what, b.MaxWaitCycles)
		}

		b.Tick()
	}

	return nil
}

// WriteCell presents a write request for one cycle. It returns once the
// request is accepted, not when it is committed.
func (b *Bench) WriteCell(x, y, value uint64) error {
	if err := b.WaitReadyForInput(); err != nil {
		return err
	}

	b.Pins.CellX = x
	b.Pins.CellY = y
	b.Pins.WriteOccupied = value
	b.Pins.WriteEnable = true
	b.Pins.InputValid = true

	b.Tick()

	b.Pins.InputValid = false
	b.Pins.WriteEnable = false

	return nil
}

// ReadCell presents a read request and waits for the result.
func (b *Bench) ReadCell(x, y uint64) (uint64, error) {
	if err := b.WaitReadyForInput(); err != nil {
		return 0, err
	}

	b.Pins.CellX = x
	b.Pins.CellY = y
	b.Pins.WriteEnable = false
	b.Pins.InputValid = true

	b.Tick()

	b.Pins.InputValid = false

	if err := b.WaitOutputValid(); err != nil {
		return 0, err
	}

	return b.grid.Outputs().ReadOccupied, nil
}
