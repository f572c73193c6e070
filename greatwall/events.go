package greatwall

// EventType classifies an Event.
type EventType int

const (
	EventProgress EventType = iota
	EventCompleted
	EventCanceled
	EventFailed
)

func (t EventType) String() string {
	switch t {
	case EventProgress:
		return "progress"
	case EventCompleted:
		return "completed"
	case EventCanceled:
		return "canceled"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Bootstrap stage names.
const (
	StageSA1 = "sa1"
	StageSA2 = "sa2"
	StageSA3 = "sa3"
)

// Event reports bootstrap progress to a host. Events never carry secret
// material.
type Event struct {
	Type EventType
	// Stage is the bootstrap stage a Progress event refers to.
	Stage string
	// Done and Total count long-hash iterations during StageSA2.
	Done, Total int
	// Err is set on Failed and Canceled events.
	Err error
	// Kind is the error kind of a Failed event.
	Kind Kind
}

// Terminal reports whether no events follow e.
func (e Event) Terminal() bool { return e.Type != EventProgress }
