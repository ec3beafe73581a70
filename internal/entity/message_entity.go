package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is one half of a turn. Ordinal is strictly increasing and gapless
// within a session. Messages are never mutated or deleted.
type Message struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Text      string
	ProductId *uuid.UUID
	Ordinal   int
	CreatedAt time.Time
}
