package orchestrator

import "github.com/goliatone/go-certgen/pkg/record"

// EventKind distinguishes progress notifications.
type EventKind int

const (
	// EventRecord is emitted once per processed record, success or failure.
	EventRecord EventKind = iota + 1
	// EventComplete is emitted once after the last record.
	EventComplete
)

func (k EventKind) String() string {
	switch k {
	case EventRecord:
		return "record"
	case EventComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Event is an advisory progress notification. Index is zero-based; Err is set
// when the record failed and was skipped.
type Event struct {
	Kind   EventKind
	Index  int
	Total  int
	Record record.CanonicalRecord
	Err    error
}

// Observer receives progress events. Implementations must not block for long;
// the batch waits for Notify to return.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Notify calls f(evt).
func (f ObserverFunc) Notify(evt Event) {
	f(evt)
}
