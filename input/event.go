// Package input tracks keyboard and mouse state across frames.
//
// Backends translate device input into Events; a Tracker folds each frame's
// batch into per-key state with press and release edges.
package input

// EventKind distinguishes input event categories
type EventKind uint8

const (
	EventKey         EventKind = iota // Key transition, Key and Down set
	EventMouseMove                    // Absolute pointer position in cells, X and Y set
	EventWheel                        // Signed wheel delta, positive away from the user
	EventMouseButton                  // Mouse button transition, Key and Down set
)

// String returns the kind name
func (k EventKind) String() string {
	switch k {
	case EventKey:
		return "Key"
	case EventMouseMove:
		return "MouseMove"
	case EventWheel:
		return "Wheel"
	case EventMouseButton:
		return "MouseButton"
	default:
		return "Unknown"
	}
}

// Event is a single input occurrence
type Event struct {
	Kind  EventKind
	Key   Key
	Down  bool
	X, Y  int
	Delta int
}

// Press builds a key press event
func Press(k Key) Event { return Event{Kind: EventKey, Key: k, Down: true} }

// Release builds a key release event
func Release(k Key) Event { return Event{Kind: EventKey, Key: k} }

// Source delivers pending input without blocking
type Source interface {
	// Drain appends every event pending since the last call to buf and returns it
	Drain(buf []Event) []Event
}

// SourceFunc adapts a function to Source
type SourceFunc func(buf []Event) []Event

// Drain calls f
func (f SourceFunc) Drain(buf []Event) []Event { return f(buf) }

// StateQuery reports the live state of a key outside the event stream
// ok is false when the query has no answer for k
type StateQuery interface {
	KeyDown(k Key) (down bool, ok bool)
}

// StateQueryFunc adapts a function to StateQuery
type StateQueryFunc func(k Key) (bool, bool)

// KeyDown calls f
func (f StateQueryFunc) KeyDown(k Key) (bool, bool) { return f(k) }

// Queue is a Source fed by explicit pushes, used by tests and scripted input
type Queue struct {
	events []Event
}

// Push appends events to the queue
func (q *Queue) Push(evs ...Event) {
	q.events = append(q.events, evs...)
}

// Drain hands over queued events
func (q *Queue) Drain(buf []Event) []Event {
	buf = append(buf, q.events...)
	q.events = q.events[:0]
	return buf
}
