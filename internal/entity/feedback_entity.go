package entity

import (
	"time"

	"github.com/google/uuid"
)

// Feedback holds the single rating captured when a session terminates.
// Expert contact details are never persisted here, only the rating.
type Feedback struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Rating    string
	CreatedAt time.Time
}
