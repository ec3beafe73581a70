package contract

import (
	"context"

	"iot-support-be/internal/entity"
	"iot-support-be/internal/repository/specification"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type ExpertRepository interface {
	Create(ctx context.Context, expert *entity.ExpertContact) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ExpertContact, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExpertContact, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
