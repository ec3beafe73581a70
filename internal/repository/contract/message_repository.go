package contract

import (
	"context"

	"iot-support-be/internal/entity"
	"iot-support-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// NextOrdinal returns the next gapless sequence number for a session.
	// Callers must hold the per-session lock to keep the sequence race-free.
	NextOrdinal(ctx context.Context, sessionId uuid.UUID) (int, error)

	// LastProductId returns the most recently matched product in a session,
	// or nil when no turn ever resolved to a product.
	LastProductId(ctx context.Context, sessionId uuid.UUID) (*uuid.UUID, error)
}
