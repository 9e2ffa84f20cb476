package events

import (
	"sync"

	"tagscout/internal/track"
)

// Type discriminates domain events.
type Type string

const (
	// ResultsUpdated fires after the result cache changes for a file.
	ResultsUpdated Type = "results_updated"
	// ComparisonUpdated fires after a file's comparison set is rebuilt.
	ComparisonUpdated Type = "comparison_updated"
	// BatchCompleted fires when a batch query finishes, with its summary.
	BatchCompleted Type = "batch_completed"
)

// Event is one domain notification. Path identifies the affected file for
// per-file events; Source is set when a single source produced the change.
type Event struct {
	Type   Type
	Path   string
	Source track.Source
	Detail string
}

// Handler consumes events. Handlers must not block.
type Handler func(Event)

// Bus fans events out to subscribers.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns a function that removes it.
func (b *Bus) Subscribe(handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// Publish delivers the event to every subscriber. A nil bus is a no-op so
// core components can run without wiring one up.
func (b *Bus) Publish(evt Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(evt)
	}
}
