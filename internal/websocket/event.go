package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventAction represents what happened to an entity
type EventAction string

const (
	ActionCreated   EventAction = "created"
	ActionUpdated   EventAction = "updated"
	ActionDeleted   EventAction = "deleted"
	ActionRefreshed EventAction = "refreshed"
)

// Event is a change-feed message pushed to connected admin tabs so their
// cached collections can react without polling.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "product.created"
	Entity    string      `json:"entity"`    // Entity type e.g. "product"
	Payload   interface{} `json:"payload"`   // Entity data, or nil for refreshed/deleted
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event for the given action and entity type
func NewEvent(action EventAction, entity string, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entity, action),
		Entity:    entity,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// CollectionCreated creates an <entity>.created event
func CollectionCreated(entity string, payload interface{}) Event {
	return NewEvent(ActionCreated, entity, payload)
}

// CollectionUpdated creates an <entity>.updated event
func CollectionUpdated(entity string, payload interface{}) Event {
	return NewEvent(ActionUpdated, entity, payload)
}

// CollectionDeleted creates an <entity>.deleted event carrying only the id
func CollectionDeleted(entity string, id string) Event {
	return NewEvent(ActionDeleted, entity, map[string]string{"id": id})
}

// CollectionRefreshed creates an <entity>.refreshed event signalling that the
// whole collection was reloaded from the backend
func CollectionRefreshed(entity string) Event {
	return NewEvent(ActionRefreshed, entity, nil)
}
