// Package bram models a synchronous block memory with one read port and one
// write port that share a single address bus.
//
// On every rising edge the array samples its address. The read-data register
// is loaded with the word stored at that address before the edge's write, if
// any, is applied. A read and a write to the same address in the same cycle
// therefore return the old value (read-before-write).
//
// Addresses and data wider than the configured widths are truncated, as
// hardware bit-width semantics would do. The array has no reset.
package bram
