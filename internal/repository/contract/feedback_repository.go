package contract

import (
	"context"

	"iot-support-be/internal/entity"
	"iot-support-be/internal/repository/specification"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feedback, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
