package bram

import (
	"log"

	"github.com/sarchlab/occugrid/sim"
)

// Builder constructs an array either from a Spec or per-field setters.
type Builder struct {
	spec    Spec
	storage *Storage
}

// MakeBuilder returns a new Builder with the default Spec.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

// WithSpec replaces the whole configuration.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithAddrWidth sets the number of address bits.
func (b Builder) WithAddrWidth(width int) Builder {
	b.spec.AddrWidth = width
	return b
}

// WithDataWidth sets the number of bits in a word.
func (b Builder) WithDataWidth(width int) Builder {
	b.spec.DataWidth = width
	return b
}

// WithStorage makes the array use an existing storage. The storage must hold
// at least 2^AddrWidth words.
func (b Builder) WithStorage(storage *Storage) Builder {
	b.storage = storage
	return b
}

// Build creates the array.
func (b Builder) Build(name string) *Comp {
	if err := b.spec.Validate(); err != nil {
		log.Panicf("cannot build array %s: %v", name, err)
	}

	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		spec:          b.spec,
		storage:       b.storage,
	}

	if c.storage == nil {
		c.storage = NewStorage(b.spec.Capacity())
	}

	if c.storage.Capacity() < b.spec.Capacity() {
		log.Panicf("storage of array %s holds %d words, need %d",
			name, c.storage.Capacity(), b.spec.Capacity())
	}

	return c
}
