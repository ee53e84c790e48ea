package events

import (
	"sync"

	"serialplot/models"
)

// Event carries a rendered frame to viewers.
type Event struct {
	Timestamp int
	Frame     *models.Frame
}

// EventHub fans events out to every subscriber. A subscriber that can't keep
// up misses events, it never blocks the publisher.
type EventHub struct {
	mu   sync.Mutex
	subs map[int]chan *Event
	next int
	last *Event
}

func NewHub() *EventHub {
	return &EventHub{subs: map[int]chan *Event{}}
}

// Subscribe registers a subscriber. The latest event, if any, is delivered
// immediately so a new viewer doesn't start blank.
func (h *EventHub) Subscribe() (int, <-chan *Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan *Event, 16)
	if h.last != nil {
		ch <- h.copy(h.last)
	}
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			close(c)
			delete(h.subs, id)
		}
	}
	return id, ch, cancel
}

func (h *EventHub) Broadcast(event *Event) {
	h.mu.Lock()
	h.last = event
	for _, ch := range h.subs {
		select {
		case ch <- h.copy(event):
		default:
		}
	}
	h.mu.Unlock()
}

// Last returns the most recent event or nil.
func (h *EventHub) Last() *Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return nil
	}
	return h.copy(h.last)
}

// Close drops every subscriber, closing their channels.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}

// copy shares the frame, frames are never modified after publishing.
func (h *EventHub) copy(e *Event) *Event {
	return &Event{e.Timestamp, e.Frame}
}
