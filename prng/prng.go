// Package prng models a 64-bit xorshift pseudo-random number generator that
// runs in the same clock domain as the grid controller.
package prng

import (
	"fmt"
	"log"

	"github.com/sarchlab/occugrid/sim"
)

// Spec holds the shift amounts of the xorshift register.
type Spec struct {
	ShiftA int // Left shift of the first step
	ShiftB int // Right shift of the second step
	ShiftC int // Left shift of the third step
}

// Defaults returns the classic xorshift64 triple.
func Defaults() Spec {
	return Spec{ShiftA: 13, ShiftB: 7, ShiftC: 17}
}

// Validate checks that every shift keeps some bits of the register.
func (s Spec) Validate() error {
	for _, shift := range []int{s.ShiftA, s.ShiftB, s.ShiftC} {
		if shift <= 0 || shift >= 64 {
			return fmt.Errorf("shift must be in [1, 63], got %d", shift)
		}
	}

	return nil
}

// Inputs are the signals the generator samples on a rising edge.
type Inputs struct {
	Reset bool
	En    bool
	Seed  uint64
}

// Generator is the register of the generator.
type Generator struct {
	spec  Spec
	state uint64
}

// Out returns the current output.
func (g *Generator) Out() uint64 {
	return g.state
}

// Step applies one rising edge. Reset loads the seed. Otherwise, the output
// advances if En is high and holds if it is low. Zero is a fixed point.
func (g *Generator) Step(in Inputs) uint64 {
	switch {
	case in.Reset:
		g.state = in.Seed
	case in.En:
		g.state = Next(g.spec, g.state)
	}

	return g.state
}

// Next returns the value that follows x.
func Next(spec Spec, x uint64) uint64 {
	x ^= x << spec.ShiftA
	x ^= x >> spec.ShiftB
	x ^= x << spec.ShiftC

	return x
}

// Comp puts a generator on a clock.
type Comp struct {
	*sim.ComponentBase
	*Generator

	In Inputs
}

// RisingEdge samples the In pins. The generator never holds work in flight,
// so it does not keep a clock running.
func (c *Comp) RisingEdge(_ uint64) bool {
	c.Step(c.In)

	return false
}

// Builder can build generators.
type Builder struct {
	spec Spec
}

// MakeBuilder returns a Builder with the default shifts.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

// WithSpec sets the shifts.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// BuildGenerator creates a bare generator. The register is zero until the
// first reset.
func (b Builder) BuildGenerator() *Generator {
	if err := b.spec.Validate(); err != nil {
		log.Panicf("cannot build generator: %v", err)
	}

	return &Generator{spec: b.spec}
}

// Build creates a generator component.
func (b Builder) Build(name string) *Comp {
	return &Comp{
		ComponentBase: sim.NewComponentBase(name),
		Generator:     b.BuildGenerator(),
	}
}
