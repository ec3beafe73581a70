package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
	// Language may be omitted for a returning user; the stored preference
	// is used instead.
	Language string `json:"language" validate:"omitempty,oneof=en ms"`
}

type RegisterResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Language  string    `json:"language"`
}

type ChatRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Query     string    `json:"query" validate:"required"`
}

type ChatProduct struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ChatResponse struct {
	Answer        string       `json:"answer"`
	Product       *ChatProduct `json:"product"`
	Confidence    float64      `json:"confidence"`
	QuestionCount int          `json:"question_count"`
	Terminated    bool         `json:"terminated"`
	// Notice carries the termination message delivered together with the
	// final answer when the turn limit is reached.
	Notice string `json:"notice,omitempty"`
}

type FeedbackRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	// "skip" is accepted as an alias and stored as "skipped".
	Rating    string    `json:"rating" validate:"required,oneof=satisfied not_satisfied skipped skip"`
}

type ExpertContactResponse struct {
	Name        string   `json:"name"`
	Title       string   `json:"title,omitempty"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Specialties []string `json:"specialties,omitempty"`
}

type FeedbackResponse struct {
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	ExpertContact *ExpertContactResponse `json:"expert_contact,omitempty"`
	ExpertDetails string                 `json:"expert_details,omitempty"`
}

type StatusResponse struct {
	PersistenceOk bool  `json:"persistence_ok"`
	RetrievalOk   bool  `json:"retrieval_ok"`
	CacheOk       bool  `json:"cache_ok"`
	ChunkCount    int64 `json:"chunk_count"`
}

type HistoryMessage struct {
	Role      string     `json:"role"`
	Text      string     `json:"text"`
	ProductId *uuid.UUID `json:"product_id,omitempty"`
	Ordinal   int        `json:"ordinal"`
	CreatedAt time.Time  `json:"created_at"`
}

type SessionHistoryResponse struct {
	SessionId     uuid.UUID        `json:"session_id"`
	State         string           `json:"state"`
	Language      string           `json:"language"`
	QuestionCount int              `json:"question_count"`
	Messages      []HistoryMessage `json:"messages"`
}
