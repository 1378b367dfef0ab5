package sim

import (
	"fmt"
	"log"
)

// Clocked is a synchronous circuit. Its registers update on the rising edge of
// the clock that drives it.
type Clocked interface {
	Named

	// RisingEdge samples the inputs and updates the registers. It returns true
	// if the circuit still has work in flight.
	RisingEdge(cycle uint64) bool
}

// FallingEdgeHandler is implemented by components that act on the falling
// edge, typically drivers that change the inputs of clocked circuits.
type FallingEdgeHandler interface {
	Named

	// FallingEdge is called half a period after the rising edge of the same
	// cycle. It returns true if the handler still has work to do.
	FallingEdge(cycle uint64) bool
}

// HookPosRisingEdge triggers after all circuits have handled a rising edge.
// The hook item is the cycle number.
var HookPosRisingEdge = &HookPos{Name: "RisingEdge"}

// HookPosFallingEdge triggers after all handlers have handled a falling edge.
// The hook item is the cycle number.
var HookPosFallingEdge = &HookPos{Name: "FallingEdge"}

// EdgeEvent is the event that a Clock schedules for itself.
type EdgeEvent struct {
	*EventBase

	Cycle  uint64
	Rising bool
}

// A Clock drives a group of circuits that share one clock domain.
//
// Cycle numbers start from 1 at the first rising edge. The falling edge of a
// cycle carries the same number as its rising edge.
//
// A clock can be advanced directly with Step, or it can run on an Engine
// after Start. On an engine, the clock keeps ticking as long as any circuit or
// falling-edge handler reports that it is busy.
type Clock struct {
	*ComponentBase

	engine   Engine
	freq     Freq
	cycle    uint64
	circuits []Clocked
	fallers  []FallingEdgeHandler

	running  bool
	stopping bool
	busy     bool
	lastRise VTimeInSec
	hasRisen bool
}

// NewClock creates a clock. The engine may be nil if the clock is only
// advanced with Step.
func NewClock(name string, engine Engine, freq Freq) *Clock {
	if err := freq.Validate(); err != nil {
		log.Panic(err)
	}

	c := &Clock{
		ComponentBase: NewComponentBase(name),
		engine:        engine,
		freq:          freq,
	}

	return c
}

// Freq returns the frequency of the clock.
func (c *Clock) Freq() Freq {
	return c.freq
}

// CurrentCycle returns the number of the most recent rising edge.
func (c *Clock) CurrentCycle() uint64 {
	return c.cycle
}

// CurrentTime returns the time of the clock. On an engine, it is the engine
// time. Otherwise, it is the number of rising edges so far multiplied by the
// period.
func (c *Clock) CurrentTime() VTimeInSec {
	if c.engine != nil {
		return c.engine.CurrentTime()
	}

	return VTimeInSec(float64(c.cycle)) * c.freq.Period()
}

// IsRunning returns true if the clock has edges scheduled on its engine.
func (c *Clock) IsRunning() bool {
	return c.running
}

// Register adds a circuit to the clock domain. Circuits see the rising edge
// in registration order.
func (c *Clock) Register(circuit Clocked) {
	c.circuits = append(c.circuits, circuit)
}

// RegisterFallingEdgeHandler adds a falling-edge handler to the clock domain.
func (c *Clock) RegisterFallingEdgeHandler(h FallingEdgeHandler) {
	c.fallers = append(c.fallers, h)
}

// Step advances the clock by one full cycle, a rising edge followed by a
// falling edge, without involving the engine. It returns true if any circuit
// or handler is still busy.
func (c *Clock) Step() bool {
	busy := c.rise()
	busy = c.fall() || busy

	return busy
}

// RunCycles advances the clock by n full cycles.
func (c *Clock) RunCycles(n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

func (c *Clock) rise() bool {
	c.cycle++

	busy := false
	for _, circuit := range c.circuits {
		if circuit.RisingEdge(c.cycle) {
			busy = true
		}
	}

	c.InvokeHook(HookCtx{Domain: c, Pos: HookPosRisingEdge, Item: c.cycle})

	return busy
}

func (c *Clock) fall() bool {
	busy := false
	for _, h := range c.fallers {
		if h.FallingEdge(c.cycle) {
			busy = true
		}
	}

	c.InvokeHook(HookCtx{Domain: c, Pos: HookPosFallingEdge, Item: c.cycle})

	return busy
}

// Start schedules the next rising edge on the engine. It does nothing if the
// clock is already running.
func (c *Clock) Start() {
	if c.engine == nil {
		log.Panicf("clock %s has no engine", c.Name())
	}

	if c.running {
		c.stopping = false
		return
	}

	c.running = true
	c.stopping = false

	now := c.engine.CurrentTime()
	t := c.freq.ThisTick(now)

	if c.hasRisen && t <= c.lastRise {
		t = c.freq.NextTick(now)
	}

	c.scheduleRise(t)
}

// Stop lets the clock finish the current cycle and then stop, even if some
// circuits are still busy.
func (c *Clock) Stop() {
	c.stopping = true
}

// Handle handles the edge events scheduled by the clock itself.
func (c *Clock) Handle(e Event) error {
	evt, ok := e.(*EdgeEvent)
	if !ok {
		return fmt.Errorf("clock %s cannot handle event of type %T", c.Name(), e)
	}

	if evt.Rising {
		c.handleRise(evt)
		return nil
	}

	c.handleFall(evt)

	return nil
}

func (c *Clock) handleRise(evt *EdgeEvent) {
	c.lastRise = evt.Time()
	c.hasRisen = true
	c.busy = c.rise()

	fall := &EdgeEvent{
		EventBase: NewEventBase(c.freq.HalfTick(evt.Time()), c),
		Cycle:     c.cycle,
	}
	c.engine.Schedule(fall)
}

func (c *Clock) handleFall(evt *EdgeEvent) {
	busy := c.fall() || c.busy
	c.busy = false

	if busy && !c.stopping {
		c.scheduleRise(c.freq.NextTick(evt.Time()))
		return
	}

	c.running = false
	c.stopping = false
}

func (c *Clock) scheduleRise(t VTimeInSec) {
	rise := &EdgeEvent{
		EventBase: NewEventBase(t, c),
		Cycle:     c.cycle + 1,
		Rising:    true,
	}
	c.engine.Schedule(rise)
}
