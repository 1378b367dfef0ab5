package occupancygrid

import (
	"fmt"

	"github.com/sarchlab/occugrid/mem/bram"
)

// Spec holds immutable configuration values for the controller.
type Spec struct {
	GridWidthLog2  int // The grid is 2^GridWidthLog2 cells wide
	GridHeightLog2 int // The grid is 2^GridHeightLog2 cells high
	DataWidth      int // Bits stored per cell
	AddrWidth      int // Bits in an array address
}

// Defaults returns a 16x16 grid of 8-bit cells.
func Defaults() Spec {
	return Spec{
		GridWidthLog2:  4,
		GridHeightLog2: 4,
		DataWidth:      8,
		AddrWidth:      8,
	}
}

// Validate checks that the grid fits in the array.
func (s Spec) Validate() error {
	if s.GridWidthLog2 < 0 || s.GridHeightLog2 < 0 {
		return fmt.Errorf("grid size must not be negative, got 2^%d x 2^%d",
			s.GridWidthLog2, s.GridHeightLog2)
	}

	if s.AddrWidth < s.GridWidthLog2+s.GridHeightLog2 {
		return fmt.Errorf(
			"address width %d cannot hold a 2^%d x 2^%d grid",
			s.AddrWidth, s.GridWidthLog2, s.GridHeightLog2)
	}

	if err := s.ArraySpec().Validate(); err != nil {
		return fmt.Errorf("invalid array: %w", err)
	}

	return nil
}

// ArraySpec returns the configuration of the array that backs the grid.
func (s Spec) ArraySpec() bram.Spec {
	return bram.Spec{
		AddrWidth: s.AddrWidth,
		DataWidth: s.DataWidth,
	}
}

// GridWidth returns the number of cells in a row.
func (s Spec) GridWidth() uint64 {
	return uint64(1) << s.GridWidthLog2
}

// GridHeight returns the number of rows.
func (s Spec) GridHeight() uint64 {
	return uint64(1) << s.GridHeightLog2
}

// NumCells returns the number of cells in the grid.
func (s Spec) NumCells() uint64 {
	return s.GridWidth() * s.GridHeight()
}
