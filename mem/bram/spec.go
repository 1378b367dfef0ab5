package bram

import "fmt"

// Limits of the configurable widths.
const (
	MaxAddrWidth = 40
	MaxDataWidth = 64
)

// Spec holds immutable configuration values for the array.
type Spec struct {
	AddrWidth int // Bits in an address; the array holds 2^AddrWidth words
	DataWidth int // Bits in a word
}

// Defaults returns the configuration of the occupancy-grid array: 256 words of
// 8 bits.
func Defaults() Spec {
	return Spec{
		AddrWidth: 8,
		DataWidth: 8,
	}
}

// Validate checks that the widths describe a buildable array.
func (s Spec) Validate() error {
	if s.AddrWidth <= 0 || s.AddrWidth > MaxAddrWidth {
		return fmt.Errorf("address width must be in [1, %d], got %d",
			MaxAddrWidth, s.AddrWidth)
	}

	if s.DataWidth <= 0 || s.DataWidth > MaxDataWidth {
		return fmt.Errorf("data width must be in [1, %d], got %d",
			MaxDataWidth, s.DataWidth)
	}

	return nil
}

// Capacity returns the number of words in the array.
func (s Spec) Capacity() uint64 {
	return uint64(1) << s.AddrWidth
}

// AddrMask returns the mask that truncates an address to the address width.
func (s Spec) AddrMask() uint64 {
	return Mask(s.AddrWidth)
}

// DataMask returns the mask that truncates a word to the data width.
func (s Spec) DataMask() uint64 {
	return Mask(s.DataWidth)
}

// Mask returns a mask with the lowest width bits set.
func Mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << width) - 1
}
