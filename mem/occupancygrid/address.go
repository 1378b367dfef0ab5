package occupancygrid

import "github.com/sarchlab/occugrid/mem/bram"

// EncodeAddress returns the array address of a cell in row-major order.
// Coordinates are truncated to the widths of the grid.
func (s Spec) EncodeAddress(x, y uint64) uint64 {
	x &= bram.Mask(s.GridWidthLog2)
	y &= bram.Mask(s.GridHeightLog2)

	return y<<s.GridWidthLog2 | x
}

// DecodeAddress returns the cell of an array address. Address bits above
// the grid are ignored.
func (s Spec) DecodeAddress(addr uint64) (x, y uint64) {
	x = addr & bram.Mask(s.GridWidthLog2)
	y = (addr >> s.GridWidthLog2) & bram.Mask(s.GridHeightLog2)

	return x, y
}
