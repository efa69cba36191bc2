// Package events records game events and dispatches them to subscribers.
// Handlers run in a single pass: events emitted by a handler are recorded
// but not re-dispatched.
package events

import "github.com/nathoo/terracore/types"

// Handler observes an emitted event.
type Handler func(types.Event)

// Log accumulates events until drained.
type Log struct {
	events      []types.Event
	handlers    map[string][]Handler
	all         []Handler
	dispatching bool
}

// NewLog creates an empty event log.
func NewLog() *Log {
	return &Log{handlers: map[string][]Handler{}}
}

// On subscribes h to events of the given type. An empty type subscribes to
// every event.
func (l *Log) On(eventType string, h Handler) {
	if eventType == "" {
		l.all = append(l.all, h)
		return
	}
	l.handlers[eventType] = append(l.handlers[eventType], h)
}

// Emit records an event and dispatches it to subscribers.
func (l *Log) Emit(eventType, player string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	e := types.Event{Type: eventType, Player: player, Data: data}
	l.events = append(l.events, e)

	if l.dispatching {
		return
	}
	l.dispatching = true
	defer func() { l.dispatching = false }()
	for _, h := range l.handlers[eventType] {
		h(e)
	}
	for _, h := range l.all {
		h(e)
	}
}

// Drain returns the recorded events and clears the log.
func (l *Log) Drain() []types.Event {
	out := l.events
	l.events = nil
	return out
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	return len(l.events)
}
