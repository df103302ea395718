package usecase

import (
	"context"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/internal/infrastructure/ratelimit"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

type GigUseCase struct {
	gigRepo     repository.GigRepository
	userRepo    repository.UserRepository
	rateLimiter *ratelimit.RateLimiter
}

func NewGigUseCase(gigRepo repository.GigRepository, userRepo repository.UserRepository) *GigUseCase {
	return &GigUseCase{
		gigRepo:     gigRepo,
		userRepo:    userRepo,
		rateLimiter: ratelimit.NewRateLimiter(),
	}
}

type CreateGigInput struct {
	Title        string
	Description  string
	Category     string
	SubCategory  string
	Price        float64
	DeliveryTime int
	Revisions    int
	Images       []string
}

type UpdateGigInput struct {
	Title        string
	Description  string
	Category     string
	SubCategory  string
	Price        float64
	DeliveryTime int
	Revisions    int
	Images       []string
}

func (uc *GigUseCase) CreateGig(ctx context.Context, sellerID string, input CreateGigInput) (*entity.Gig, error) {
	if allowed, wait := uc.rateLimiter.Allow(sellerID, "create_gig"); !allowed {
		logger.Warn("CreateGig rate limited: user %s must wait %v", sellerID, wait)
		return nil, errors.TooManyRequests("Please wait before creating another gig")
	}

	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Role != entity.RoleFreelancer && seller.Role != entity.RoleAdmin {
		return nil, errors.Forbidden("Only freelancers can create gigs", nil)
	}

	gig := &entity.Gig{
		SellerID:     sellerID,
		Username:     seller.Username,
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		SubCategory:  input.SubCategory,
		Price:        input.Price,
		DeliveryTime: input.DeliveryTime,
		Revisions:    input.Revisions,
		Images:       input.Images,
	}

	if err := uc.gigRepo.Create(ctx, gig); err != nil {
		logger.Error("Failed to create gig for seller %s: %v", sellerID, err)
		return nil, err
	}

	return gig, nil
}

func (uc *GigUseCase) GetGig(ctx context.Context, gigID string) (*entity.Gig, error) {
	return uc.gigRepo.GetByID(ctx, gigID)
}

func (uc *GigUseCase) ListGigs(ctx context.Context, category, sort string, limit, offset int) ([]*entity.Gig, int64, error) {
	filter := map[string]interface{}{}
	if category != "" {
		filter["category"] = category
	}

	return uc.gigRepo.List(ctx, filter, sort, limit, offset)
}

func (uc *GigUseCase) ListSellerGigs(ctx context.Context, sellerID string) ([]*entity.Gig, int64, error) {
	return uc.gigRepo.List(ctx, map[string]interface{}{"sellerId": sellerID}, "", 0, 0)
}

func (uc *GigUseCase) UpdateGig(ctx context.Context, userID, gigID string, input UpdateGigInput) (*entity.Gig, error) {
	gig, err := uc.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	if gig.SellerID != userID {
		return nil, errors.Forbidden("You can only update your own gigs", nil)
	}

	gig.Title = input.Title
	gig.Description = input.Description
	gig.Category = input.Category
	gig.SubCategory = input.SubCategory
	gig.Price = input.Price
	gig.DeliveryTime = input.DeliveryTime
	gig.Revisions = input.Revisions
	gig.Images = input.Images

	if err := uc.gigRepo.Update(ctx, gig); err != nil {
		logger.Error("Failed to update gig %s: %v", gigID, err)
		return nil, err
	}

	return gig, nil
}

func (uc *GigUseCase) DeleteGig(ctx context.Context, userID, gigID string) error {
	gig, err := uc.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return err
	}

	if gig.SellerID != userID {
		return errors.Forbidden("You can only delete your own gigs", nil)
	}

	return uc.gigRepo.Delete(ctx, gigID)
}

// AdminDeleteGig removes a gig without the ownership check; callers
// must already be behind the admin gate.
func (uc *GigUseCase) AdminDeleteGig(ctx context.Context, gigID string) error {
	if _, err := uc.gigRepo.GetByID(ctx, gigID); err != nil {
		return err
	}

	return uc.gigRepo.Delete(ctx, gigID)
}
