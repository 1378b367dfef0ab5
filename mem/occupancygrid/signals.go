package occupancygrid

// Inputs are the signals that the controller samples on a rising edge.
type Inputs struct {
	Reset         bool
	InputValid    bool
	WriteEnable   bool
	CellX         uint64
	CellY         uint64
	WriteOccupied uint64
}

// Outputs are the signals that the controller drives between edges.
type Outputs struct {
	ReadyForInput bool
	OutputValid   bool
	ReadOccupied  uint64
}
