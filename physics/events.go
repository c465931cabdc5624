package physics

// EventKind identifies contact state changes reported after a step.
type EventKind string

const (
	EventLanded     EventKind = "landed"
	EventLeftGround EventKind = "left_ground"
)

// Event is emitted when a body's grounded state differs from the previous cycle.
type Event struct {
	Kind     EventKind
	Body     Handle
	Material *Material
}

// EventHandler runs at the end of a step. Attach and detach calls made from
// a handler are deferred to the cycle boundary like any other mid-step mutation.
type EventHandler func(w *PhysicsWorld, evt Event)

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
