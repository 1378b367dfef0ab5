package testbench

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sarchlab/occugrid/mem/bram"
	"github.com/sarchlab/occugrid/mem/occupancygrid"
)

// ErrMismatch is returned when a read does not match the model.
var ErrMismatch = errors.New("read mismatch")

// OpKind is the kind of an operation.
type OpKind int

// The kinds of operations.
const (
	OpRead OpKind = iota
	OpWrite
	OpReset
)

func (k OpKind) String() string {
	switch k {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpReset:
		return "reset"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is an operation that a driver issues to a controller.
type Op struct {
	Kind  OpKind `json:"kind"`
	X     uint64 `json:"x"`
	Y     uint64 `json:"y"`
	Value uint64 `json:"value"`
}

// Read returns a read operation.
func Read(x, y uint64) Op {
	return Op{Kind: OpRead, X: x, Y: y}
}

// Write returns a write operation.
func Write(x, y, value uint64) Op {
	return Op{Kind: OpWrite, X: x, Y: y, Value: value}
}

// Result is the outcome of a read.
type Result struct {
	Op    Op     `json:"op"`
	Value uint64 `json:"value"`
	Cycle uint64 `json:"cycle"`
}

// RandomOps returns n writes to random cells of the grid with random values
// that fit in a cell.
func RandomOps(rng *rand.Rand, spec occupancygrid.Spec, n int) []Op {
	mask := bram.Mask(spec.DataWidth)
	ops := make([]Op, 0, n)

	for i := 0; i < n; i++ {
		x := uint64(rng.Int63n(int64(spec.GridWidth())))
		y := uint64(rng.Int63n(int64(spec.GridHeight())))

		ops = append(ops, Write(x, y, rng.Uint64()&mask))
	}

	return ops
}

// Model is a golden reference of the content of a grid.
type Model struct {
	spec  occupancygrid.Spec
	cells map[uint64]uint64
}

// NewModel creates an empty model.
func NewModel(spec occupancygrid.Spec) *Model {
	return &Model{
		spec:  spec,
		cells: make(map[uint64]uint64),
	}
}

// Apply updates the model with a write. Other operations do not change the
// content of a grid.
func (m *Model) Apply(op Op) {
	if op.Kind != OpWrite {
		return
	}

	addr := m.spec.EncodeAddress(op.X, op.Y)
	m.cells[addr] = op.Value & bram.Mask(m.spec.DataWidth)
}

// Expect returns the value that a read of the cell should return.
func (m *Model) Expect(x, y uint64) uint64 {
	return m.cells[m.spec.EncodeAddress(x, y)]
}

// Written returns a read of every cell that has been written, in address
// order.
func (m *Model) Written() []Op {
	addrs := make([]uint64, 0, len(m.cells))
	for addr := range m.cells {
		addrs = append(addrs, addr)
	}

	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	ops := make([]Op, 0, len(addrs))
	for _, addr := range addrs {
		x, y := m.spec.DecodeAddress(addr)
		ops = append(ops, Read(x, y))
	}

	return ops
}

// Check compares read results with the model.
func (m *Model) Check(results []Result) error {
	var errs []error

	for _, r := range results {
		if r.Op.Kind != OpRead {
			continue
		}

		want := m.Expect(r.Op.X, r.Op.Y)
		if r.Value != want {
			errs = append(errs, fmt.Errorf(
				"%w at (%d, %d) in cycle %d: expected %d, got %d",
				ErrMismatch, r.Op.X, r.Op.Y, r.Cycle, want, r.Value))
		}
	}

	return errors.Join(errs...)
}
