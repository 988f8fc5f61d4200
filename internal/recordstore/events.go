package recordstore

// EventKind classifies the outcome of a store operation.
type EventKind int

// Event kinds.
const (
	EventLoaded      EventKind = iota + 1 // history decoded
	EventMissing                          // key absent, treated as empty history
	EventCorrupt                          // stored value is not a valid history, treated as empty
	EventReadFailed                       // backend read failed
	EventAppended                         // record written
	EventWriteFailed                      // append abandoned
	EventCleared                          // key deleted
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventMissing:
		return "missing"
	case EventCorrupt:
		return "corrupt"
	case EventReadFailed:
		return "read_failed"
	case EventAppended:
		return "appended"
	case EventWriteFailed:
		return "write_failed"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event describes what a fail-soft operation did. Count is the number of
// records in the history after the operation.
type Event struct {
	Kind  EventKind
	Key   string
	Count int
	Err   error
}

// Observer receives an Event for every ReadAll, Append and Clear call.
type Observer func(Event)
