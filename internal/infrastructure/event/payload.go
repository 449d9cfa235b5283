package event

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/fundbilling/backend/internal/domain/shared"
)

// PayloadEncoder renders the JSON payload of the event types it knows about.
// AuditHandler logs a payload only for those types.
type PayloadEncoder struct {
	mu    sync.RWMutex
	types map[string]struct{}
}

// NewPayloadEncoder creates an encoder with no known event types
func NewPayloadEncoder() *PayloadEncoder {
	return &PayloadEncoder{types: make(map[string]struct{})}
}

// Register adds an event type
func (e *PayloadEncoder) Register(eventType string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types[eventType] = struct{}{}
}

// Knows reports whether eventType was registered
func (e *PayloadEncoder) Knows(eventType string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.types[eventType]
	return ok
}

// EventTypes returns the registered event types, sorted
func (e *PayloadEncoder) EventTypes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	types := make([]string, 0, len(e.types))
	for t := range e.types {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Encode marshals the event
func (e *PayloadEncoder) Encode(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}
