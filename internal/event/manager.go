// internal/event/manager.go
package event

import (
	"sync"

	"github.com/inklet/inklet/internal/logger"
)

// Handler is the subscriber signature. The return value reports whether
// the event was consumed; dispatch currently ignores it but keeps the
// signature for future propagation control.
type Handler func(e Event) bool

// Manager handles event subscriptions and dispatching. Dispatch is
// synchronous: the engine is single-threaded and event-driven, and
// handlers are expected not to block.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewManager creates an empty event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds a handler for one event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// Dispatch sends an event to all handlers registered for its type.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	m.mu.RLock()
	handlers := m.handlers[eventType]
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}
	logger.Debugf("event: dispatching type %v to %d handler(s)", eventType, len(handlers))

	// Copy so a handler subscribing during dispatch can't grow the
	// slice we are ranging over.
	handlersCopy := make([]Handler, len(handlers))
	copy(handlersCopy, handlers)
	for _, handler := range handlersCopy {
		handler(Event{Type: eventType, Data: data})
	}
}
