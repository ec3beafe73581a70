package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation used by the typed constructors below.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
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

// --- Session lifecycle events ---

func NewSessionCreated(sessionId, userId uuid.UUID, language string) Event {
	return BaseEvent{
		Type: "SESSION_CREATED",
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"user_id":    userId.String(),
			"language":   language,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionTerminated(sessionId uuid.UUID, reason string, questionCount int) Event {
	return BaseEvent{
		Type: "SESSION_TERMINATED",
		Data: map[string]interface{}{
			"session_id":     sessionId.String(),
			"reason":         reason,
			"question_count": questionCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewFeedbackSubmitted(sessionId uuid.UUID, rating string) Event {
	return BaseEvent{
		Type: "FEEDBACK_SUBMITTED",
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"rating":     rating,
		},
		OccurredAt: time.Now(),
	}
}

func NewExpertHandoff(sessionId uuid.UUID, expertName, expertEmail string) Event {
	return BaseEvent{
		Type: "EXPERT_HANDOFF",
		Data: map[string]interface{}{
			"session_id":   sessionId.String(),
			"expert_name":  expertName,
			"expert_email": expertEmail,
		},
		OccurredAt: time.Now(),
	}
}
