package unitofwork

import (
	"context"

	"iot-support-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	MessageRepository() contract.MessageRepository
	FeedbackRepository() contract.FeedbackRepository
	ProductRepository() contract.ProductRepository
	ExpertRepository() contract.ExpertRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
}
