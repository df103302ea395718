package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	ExistsByGigAndBuyer(ctx context.Context, gigID, buyerID string) (bool, error)
	ListByGigID(ctx context.Context, gigID string) ([]*entity.Review, error)
	ListByBuyerID(ctx context.Context, buyerID string) ([]*entity.Review, error)
}
