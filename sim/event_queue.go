package sim

import "container/heap"

// queuedEvent pairs an event with the sequence number it was pushed with.
type queuedEvent struct {
	event Event
	seq   uint64
}

// eventHeap implements heap.Interface.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []queuedEvent

func (h eventHeap) Len() int { return len(h) }

// Less orders by timestamp, then by insertion sequence (FIFO among equal timestamps).
func (h eventHeap) Less(i, j int) bool {
	ti, tj := h[i].event.Timestamp(), h[j].event.Timestamp()
	if !ti.Equal(tj) {
		return ti.Before(tj)
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(queuedEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = queuedEvent{}
	*h = old[0 : n-1]
	return item
}

// EventQueue is a priority queue of pending events with deterministic ordering.
// Ordering: timestamp → insertion sequence.
//
// Events pushed while another event is being handled become visible to the next
// PopEarliest call. There is no removal other than popping.
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make(eventHeap, 0)}
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return q.events.Len()
}

// Push schedules an event.
func (q *EventQueue) Push(e Event) {
	heap.Push(&q.events, queuedEvent{event: e, seq: q.nextSeq})
	q.nextSeq++
}

// PopEarliest removes and returns the earliest event. The boolean is false when
// the queue is empty.
func (q *EventQueue) PopEarliest() (Event, bool) {
	if q.events.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.events).(queuedEvent).event, true
}

// Peek returns the earliest event without removing it, or nil if the queue is empty.
func (q *EventQueue) Peek() Event {
	if q.events.Len() == 0 {
		return nil
	}
	return q.events[0].event
}
