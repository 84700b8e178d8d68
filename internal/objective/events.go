package objective

import (
	"log"
	"time"
)

// MaxRecentEvents bounds the bus's replay buffer.
const MaxRecentEvents = 100

// BusEvent is one orchestration-level event (activation, completion,
// failure, sweep) as opposed to the per-objective audit log.
type BusEvent struct {
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Listener receives bus events synchronously.
type Listener func(ev BusEvent)

// EventBus fans orchestration events out to listeners and keeps a
// bounded buffer of recent events for late subscribers. Single-writer:
// the manager owns it, listeners must not call back into the manager.
type EventBus struct {
	listeners map[string][]Listener
	recent    []BusEvent
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[string][]Listener)}
}

// Subscribe registers a listener for one event type. The type "*"
// receives everything.
func (b *EventBus) Subscribe(eventType string, l Listener) {
	b.listeners[eventType] = append(b.listeners[eventType], l)
}

// Emit delivers an event to matching listeners. A panicking listener is
// logged and skipped; it never breaks dispatch or the game turn.
func (b *EventBus) Emit(eventType string, data map[string]interface{}) {
	ev := BusEvent{Timestamp: time.Now(), Type: eventType, Data: data}

	b.recent = append(b.recent, ev)
	if len(b.recent) > MaxRecentEvents {
		b.recent = b.recent[len(b.recent)-MaxRecentEvents:]
	}

	for _, l := range b.listeners[eventType] {
		b.deliver(l, ev)
	}
	for _, l := range b.listeners["*"] {
		b.deliver(l, ev)
	}
}

func (b *EventBus) deliver(l Listener, ev BusEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Objectives][ERROR][EVENTS] Listener panic on %s: %v", ev.Type, r)
		}
	}()
	l(ev)
}

// Recent returns a copy of the replay buffer, oldest first.
func (b *EventBus) Recent() []BusEvent {
	return append([]BusEvent(nil), b.recent...)
}
