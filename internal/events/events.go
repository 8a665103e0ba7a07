package events

import (
	"encoding/json"
	"time"
)

// Event type names carried on the live channel.
const (
	// TypeTaskCreated announces a task that was just persisted.
	TypeTaskCreated = "task_created"
)

// Event is the envelope pushed to live channels. The payload is arbitrary
// structured data with no schema enforcement; client-relayed messages pass
// through verbatim without ever being wrapped in this envelope.
type Event struct {
	// Type names the kind of change being announced.
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent creates an Event of the given type with the payload serialized
// to JSON.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Marshal serializes the whole envelope for delivery on a live channel.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
