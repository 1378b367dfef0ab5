package sim

// VTimeInSec is a point in simulated time, in seconds.
type VTimeInSec float64

// An Event is something that happens at a point in simulated time.
type Event interface {
	// Time returns when the event happens.
	Time() VTimeInSec

	// Handler returns the handler that the event is delivered to.
	Handler() Handler

	// IsSecondary tells if the event waits for all the primary events of the
	// same time to be handled first.
	IsSecondary() bool
}

// EventBase carries the fields that every event has. Embed it to build a
// concrete event.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates a primary EventBase with a fresh ID.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event is a secondary event.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler receives events. An event is delivered to exactly one handler,
// and only that handler changes state when the event is handled.
type Handler interface {
	Handle(e Event) error
}
