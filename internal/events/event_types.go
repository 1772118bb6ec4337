package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventContentSaved EventType = "content_saved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, at time.Time, payload interface{}) Event {
	return Event{ID: uuid.NewString(), Type: eventType, Timestamp: at, Payload: payload}
}

// ContentSavedPayload lists the fields written by one save.
type ContentSavedPayload struct {
	Keys []string `json:"keys"`
}
