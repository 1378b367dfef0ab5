package occupancygrid

import "fmt"

// State is the state of the controller.
type State int

// The states of the controller. The zero value is the reset state.
const (
	StateStart State = iota
	StateWait
	StateWrite
	StateFinish
)

var stateNames = [...]string{
	StateStart:  "START",
	StateWait:   "WAIT",
	StateWrite:  "WRITE",
	StateFinish: "FINISH",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

// Request is a request latched by the controller.
type Request struct {
	X     uint64 `json:"x"`
	Y     uint64 `json:"y"`
	Write bool   `json:"write"`
	Value uint64 `json:"value"`
	Addr  uint64 `json:"addr"`
}

// Registers is the register state of the controller. It holds plain data
// only, so that it can be serialized.
type Registers struct {
	State        State   `json:"state"`
	Request      Request `json:"request"`
	OutputValid  bool    `json:"output_valid"`
	ReadOccupied uint64  `json:"read_occupied"`
}
