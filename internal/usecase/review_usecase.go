package usecase

import (
	"context"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	gigRepo    repository.GigRepository
	orderRepo  repository.OrderRepository
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	gigRepo repository.GigRepository,
	orderRepo repository.OrderRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		gigRepo:    gigRepo,
		orderRepo:  orderRepo,
	}
}

type CreateReviewInput struct {
	GigID   string
	OrderID string
	Rating  int
	Comment string
}

// CreateReview records a buyer's review of a gig and folds the rating
// into the gig's running average. One review per buyer per gig, and
// only after the order is completed.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, buyerID string, input CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != buyerID {
		return nil, errors.Forbidden("Only the buyer of this order can review it", nil)
	}
	if order.GigID != input.GigID {
		return nil, errors.BadRequest("Order does not belong to this gig", nil)
	}
	if order.Status != entity.OrderStatusCompleted {
		return nil, errors.BadRequest("You can only review completed orders", nil)
	}

	exists, err := uc.reviewRepo.ExistsByGigAndBuyer(ctx, input.GigID, buyerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("You have already reviewed this gig")
	}

	review := &entity.Review{
		GigID:    input.GigID,
		OrderID:  input.OrderID,
		BuyerID:  buyerID,
		SellerID: order.SellerID,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}

	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		logger.Error("Failed to create review for gig %s: %v", input.GigID, err)
		return nil, err
	}

	if err := uc.gigRepo.UpdateRating(ctx, input.GigID, input.Rating); err != nil {
		// The review itself is durable; the aggregate catches up on the
		// next successful update.
		logger.Error("Failed to update rating for gig %s: %v", input.GigID, err)
	}

	return review, nil
}

func (uc *ReviewUseCase) ListGigReviews(ctx context.Context, gigID string) ([]*entity.Review, error) {
	if _, err := uc.gigRepo.GetByID(ctx, gigID); err != nil {
		return nil, err
	}

	return uc.reviewRepo.ListByGigID(ctx, gigID)
}

func (uc *ReviewUseCase) ListBuyerReviews(ctx context.Context, buyerID string) ([]*entity.Review, error) {
	return uc.reviewRepo.ListByBuyerID(ctx, buyerID)
}
