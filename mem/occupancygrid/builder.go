package occupancygrid

import (
	"log"

	"github.com/sarchlab/occugrid/mem/bram"
	"github.com/sarchlab/occugrid/sim"
)

// Builder constructs controllers either from a Spec or per-field setters.
type Builder struct {
	spec    Spec
	storage *bram.Storage
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

// WithGridWidthLog2 sets the grid width to 2^n cells.
func (b Builder) WithGridWidthLog2(n int) Builder {
	b.spec.GridWidthLog2 = n
	return b
}

// WithGridHeightLog2 sets the grid height to 2^n cells.
func (b Builder) WithGridHeightLog2(n int) Builder {
	b.spec.GridHeightLog2 = n
	return b
}

// WithDataWidth sets the number of bits stored per cell.
func (b Builder) WithDataWidth(width int) Builder {
	b.spec.DataWidth = width
	return b
}

// WithAddrWidth sets the number of bits in an array address.
func (b Builder) WithAddrWidth(width int) Builder {
	b.spec.AddrWidth = width
	return b
}

// WithStorage backs the array with an existing storage, for example a map
// that was loaded before the simulation.
func (b Builder) WithStorage(storage *bram.Storage) Builder {
	b.storage = storage
	return b
}

// BuildController creates a bare controller. The array is named after the
// controller.
func (b Builder) BuildController(name string) *Controller {
	if err := b.spec.Validate(); err != nil {
		log.Panicf("cannot build controller %s: %v", name, err)
	}

	array := bram.MakeBuilder().
		WithSpec(b.spec.ArraySpec()).
		WithStorage(b.storage).
		Build(sim.BuildName(name, "Array"))

	return &Controller{
		spec:  b.spec,
		array: array,
	}
}

// Build creates a controller component that can be registered on a clock.
func (b Builder) Build(name string) *Comp {
	return &Comp{
		ComponentBase: sim.NewComponentBase(name),
		ctrl:          b.BuildController(name),
	}
}
