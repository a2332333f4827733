package events

import (
	"time"

	"github.com/google/uuid"
)

// Event codes published on the bus. The channel-posting gateway consumes
// REQUIREMENT_SUBMITTED; the lifecycle codes exist for dashboards and audit.
const (
	TypeRequirementSubmitted = "REQUIREMENT_SUBMITTED"
	TypeFlowStarted          = "FLOW_STARTED"
	TypeFlowCancelled        = "FLOW_CANCELLED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventID returns the unique identity of this occurrence. Publishers use
	// it as the broker deduplication key.
	EventID() string

	// EventType returns the unique code for this event (e.g., "FLOW_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by all intake events.
type BaseEvent struct {
	ID         string
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewRequirementSubmitted wraps a rendered requirement document for the
// backlog channel gateway.
func NewRequirementSubmitted(channelID, userID, body string) BaseEvent {
	return BaseEvent{
		ID:   uuid.NewString(),
		Type: TypeRequirementSubmitted,
		Data: map[string]interface{}{
			"channel_id": channelID,
			"user_id":    userID,
			"body":       body,
		},
		OccurredAt: time.Now(),
	}
}

// NewFlowStarted records that a user entered the intake flow.
func NewFlowStarted(userID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       TypeFlowStarted,
		Data:       map[string]interface{}{"user_id": userID},
		OccurredAt: time.Now(),
	}
}

// NewFlowCancelled records that a user abandoned the intake flow.
func NewFlowCancelled(userID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       TypeFlowCancelled,
		Data:       map[string]interface{}{"user_id": userID},
		OccurredAt: time.Now(),
	}
}
