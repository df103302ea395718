package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Order, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Order, int64, error)
	Update(ctx context.Context, order *entity.Order) error
}
