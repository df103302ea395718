package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

type GigRepository interface {
	Create(ctx context.Context, gig *entity.Gig) error
	GetByID(ctx context.Context, id string) (*entity.Gig, error)
	List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Gig, int64, error)
	Update(ctx context.Context, gig *entity.Gig) error
	UpdateRating(ctx context.Context, gigID string, rating int) error
	Delete(ctx context.Context, id string) error
}
