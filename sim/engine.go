package sim

// TimeTeller tells the current simulated time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler accepts events that happen in the future.
type EventScheduler interface {
	Schedule(e Event)
}

// An Engine delivers scheduled events in time order. Clocks schedule their
// edges on an engine.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run handles events until no event is left.
	Run() error

	// Pause blocks the engine before the next event until Continue is
	// called.
	Pause()

	// Continue resumes a paused engine.
	Continue()
}
