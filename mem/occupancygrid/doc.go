// Package occupancygrid models a storage controller for an occupancy grid.
//
// The controller stores one word per cell of a two-dimensional grid in a
// block memory array. Requests arrive through a ready/valid handshake and
// are served one at a time by a four-state machine:
//
//	START --valid--> WAIT --write--> WRITE --> START
//	                   \
//	                    +--read---> FINISH --> START
//
// A write is accepted on the first rising edge and committed on the third. A
// read is accepted on the first rising edge and its result is valid after
// the third. Requests that arrive while the controller is busy are dropped.
package occupancygrid
