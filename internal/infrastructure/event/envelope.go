// Package event publishes integration events about refreshed notifications.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Routing keys published on the events exchange
const (
	RoutingNotificationsRefreshed = "notifications.refreshed"
)

// Envelope wraps an event payload with its metadata
type Envelope struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope serializes a payload into an envelope
func NewEnvelope(eventType, source string, payload any, at time.Time) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		Source:     source,
		OccurredAt: at.UTC(),
		Payload:    body,
	}, nil
}

// Decode unmarshals the envelope payload into out
func (e Envelope) Decode(out any) error {
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}
