package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory creates a zero-value event of one type.
type EventFactory func() Event

// Registry maps event types to factories for decoding journaled payloads.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EventFactory)}
}

// Register adds an event type to the registry.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Known reports whether eventType has been registered.
func (r *Registry) Known(eventType string) bool {
	_, ok := r.factories[eventType]
	return ok
}

// Unmarshal decodes a raw event into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}

	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}
	return event, nil
}

// DefaultRegistry returns a registry with every catalog event registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EventMovieAdded, func() Event { return &MovieAdded{} })
	r.Register(EventMovieRemoved, func() Event { return &MovieRemoved{} })
	r.Register(EventMovieUpdated, func() Event { return &MovieUpdated{} })
	r.Register(EventCatalogReindexed, func() Event { return &CatalogReindexed{} })
	r.Register(EventCatalogFlushed, func() Event { return &CatalogFlushed{} })
	return r
}
