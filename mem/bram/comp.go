package bram

import (
	"github.com/sarchlab/occugrid/sim"
)

// Inputs are the signals the array samples on a rising edge.
type Inputs struct {
	Addr        uint64
	WriteEnable bool
	WriteData   uint64
}

// Comp is a block memory array.
//
// The owner drives In and advances the array with Edge. When the array sits
// on a sim.Clock by itself, RisingEdge samples In.
type Comp struct {
	*sim.ComponentBase

	In Inputs

	spec     Spec
	storage  *Storage
	readData uint64
}

// Spec returns the configuration of the array.
func (c *Comp) Spec() Spec {
	return c.spec
}

// Capacity returns the number of words in the array.
func (c *Comp) Capacity() uint64 {
	return c.spec.Capacity()
}

// ReadData returns the read-data register.
func (c *Comp) ReadData() uint64 {
	return c.readData
}

// Edge applies one rising edge with the given inputs. The read-data register
// takes the word stored at the address before the write of this edge.
func (c *Comp) Edge(in Inputs) {
	addr := in.Addr & c.spec.AddrMask()

	c.readData = c.mustRead(addr)

	if in.WriteEnable {
		c.mustWrite(addr, in.WriteData&c.spec.DataMask())
	}
}

// RisingEdge samples the In pins. The array never holds work in flight.
func (c *Comp) RisingEdge(_ uint64) bool {
	c.Edge(c.In)

	return false
}

// Peek returns the stored word at the address without a clock edge.
func (c *Comp) Peek(addr uint64) uint64 {
	return c.mustRead(addr & c.spec.AddrMask())
}

// Poke stores a word at the address without a clock edge. It is meant for
// preloading and debugging only.
func (c *Comp) Poke(addr uint64, word uint64) {
	c.mustWrite(addr&c.spec.AddrMask(), word&c.spec.DataMask())
}

// The address is always masked to the capacity, so storage errors are
// programming errors.
func (c *Comp) mustRead(addr uint64) uint64 {
	word, err := c.storage.Read(addr)
	if err != nil {
		panic(err)
	}

	return word
}

func (c *Comp) mustWrite(addr, word uint64) {
	err := c.storage.Write(addr, word)
	if err != nil {
		panic(err)
	}
}
