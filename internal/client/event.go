package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLocation EventType = "location"
	EventSOSAlert EventType = "sos_alert"
	EventEvidence EventType = "evidence"
	EventUserSync EventType = "user_sync"
)

func (t EventType) Valid() bool {
	switch t {
	case EventLocation, EventSOSAlert, EventEvidence, EventUserSync:
		return true
	}
	return false
}

// Event is one outbound sync message. Payload must only hold JSON-shaped
// values; use PayloadOf to build it from a record.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent stamps a fresh event id and the current time.
func NewEvent(t EventType, payload map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// PayloadOf flattens v into the generic map form through its JSON encoding.
func PayloadOf(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("payload of %T is not an object: %w", v, err)
	}
	return m, nil
}
