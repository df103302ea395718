package usecase

import (
	"context"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

type OrderUseCase struct {
	orderRepo repository.OrderRepository
	gigRepo   repository.GigRepository
}

func NewOrderUseCase(orderRepo repository.OrderRepository, gigRepo repository.GigRepository) *OrderUseCase {
	return &OrderUseCase{
		orderRepo: orderRepo,
		gigRepo:   gigRepo,
	}
}

type CreateOrderInput struct {
	GigID string
	Price float64
}

// Status transitions each role may perform. Sellers drive fulfilment,
// buyers close out or cancel.
var sellerTransitions = map[string]bool{
	entity.OrderStatusInProgress: true,
	entity.OrderStatusDelivered:  true,
	entity.OrderStatusCancelled:  true,
}

var buyerTransitions = map[string]bool{
	entity.OrderStatusCompleted: true,
	entity.OrderStatusCancelled: true,
}

// CreateOrder places an order for a gig at its current price. The
// submitted price must match the gig's price to reject stale checkouts.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, buyerID string, input CreateOrderInput) (*entity.Order, error) {
	gig, err := uc.gigRepo.GetByID(ctx, input.GigID)
	if err != nil {
		return nil, err
	}

	if gig.SellerID == buyerID {
		return nil, errors.BadRequest("You cannot order your own gig", nil)
	}

	if input.Price != gig.Price {
		return nil, errors.BadRequest("Provided price does not match gig price", nil)
	}

	order := &entity.Order{
		GigID:    gig.ID,
		BuyerID:  buyerID,
		SellerID: gig.SellerID,
		Price:    gig.Price,
		Status:   entity.OrderStatusPending,
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		logger.Error("Failed to create order for gig %s: %v", gig.ID, err)
		return nil, err
	}

	return order, nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this order", nil)
	}

	return order, nil
}

func (uc *OrderUseCase) GetUserOrders(ctx context.Context, userID string) ([]*entity.Order, error) {
	return uc.orderRepo.ListByUserID(ctx, userID)
}

// UpdateStatus applies a role-gated status transition: only the order's
// buyer or seller may change it, and each role has its own set of
// permitted target states.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, userID, orderID, status string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsParticipant(userID) {
		return nil, errors.Forbidden("You are not authorized to update this order", nil)
	}

	allowed := false
	switch userID {
	case order.SellerID:
		allowed = sellerTransitions[status]
	case order.BuyerID:
		allowed = buyerTransitions[status]
	}
	if !allowed {
		return nil, errors.Forbidden("Your role cannot change the order to this status", nil)
	}

	order.Status = status
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		logger.Error("Failed to update status of order %s: %v", orderID, err)
		return nil, err
	}

	return order, nil
}

// ListAllOrders is the admin view across all users.
func (uc *OrderUseCase) ListAllOrders(ctx context.Context, limit, offset int) ([]*entity.Order, int64, error) {
	return uc.orderRepo.List(ctx, limit, offset)
}
