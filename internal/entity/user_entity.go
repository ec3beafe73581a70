package entity

import (
	"time"

	"github.com/google/uuid"
)

// User identity is the (email, phone) pair. Language is the stored
// preference copied onto each session at creation.
type User struct {
	Id        uuid.UUID
	Email     string
	Phone     string
	Language  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
