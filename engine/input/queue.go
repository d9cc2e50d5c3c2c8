package input

import "sync"

// Queue buffers events between the window callbacks and the frame loop. Push never blocks.
//
// Capacity only bounds cursor motion. When the queue is full a cursor event replaces a cursor event
// at the tail, or is dropped and counted when the tail is something else. Every other kind is always
// queued, so a button release or a quit can never be lost and leave a drag or the loop running.
type Queue struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	dropped  int
}

// NewQueue creates a Queue holding up to capacity pending events.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{events: make([]Event, 0, capacity), capacity: capacity}
}

// Push enqueues e and reports whether it was accepted. Only cursor events are ever rejected.
func (q *Queue) Push(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) < q.capacity || e.Kind != EventCursor {
		q.events = append(q.events, e)
		return true
	}
	// consecutive cursor positions collapse into the latest one
	if last := len(q.events) - 1; q.events[last].Kind == EventCursor {
		q.events[last] = e
		return true
	}
	q.dropped++
	return false
}

// Drain calls fn for every pending event in arrival order and returns how many it handled.
// It never waits for new events. Events pushed while fn runs are left for the next Drain.
func (q *Queue) Drain(fn func(Event)) int {
	q.mu.Lock()
	pending := q.events
	q.events = make([]Event, 0, q.capacity)
	q.mu.Unlock()

	for _, e := range pending {
		fn(e)
	}
	return len(pending)
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns how many events Push has discarded.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
