package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	SessionStateActive          SessionState = "active"
	SessionStateFeedbackPending SessionState = "feedback_pending"
	SessionStateTerminated      SessionState = "terminated"
)

// Session is the authoritative record of one support conversation.
// Language never changes within a session; QuestionCount never exceeds the
// configured turn limit. Terminated sessions are retained for audit.
type Session struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Language       string
	State          SessionState
	QuestionCount  int
	CreatedAt      time.Time
	LastActivityAt time.Time
}

func (s *Session) IsActive() bool {
	return s.State == SessionStateActive
}

func (s *Session) IsTerminal() bool {
	return s.State == SessionStateTerminated
}
