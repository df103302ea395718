package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = r.client.Collection("orders").NewDoc().ID
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.StoreUnavailable("Failed to create order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection("orders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, errors.StoreUnavailable("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}

	return &order, nil
}

// ListByUserID returns orders where the user is either buyer or seller,
// newest first.
func (r *firestoreOrderRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Order, error) {
	var orders []*entity.Order
	seen := make(map[string]bool)

	for _, field := range []string{"buyerId", "sellerId"} {
		docs, err := r.client.Collection("orders").Where(field, "==", userID).Documents(ctx).GetAll()
		if err != nil {
			return nil, errors.StoreUnavailable("Failed to fetch orders", err)
		}

		for _, doc := range docs {
			if seen[doc.Ref.ID] {
				continue
			}
			seen[doc.Ref.ID] = true

			var order entity.Order
			if err := doc.DataTo(&order); err != nil {
				return nil, errors.Internal("Failed to parse order data", err)
			}
			orders = append(orders, &order)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (r *firestoreOrderRepository) List(ctx context.Context, limit, offset int) ([]*entity.Order, int64, error) {
	query := r.client.Collection("orders").OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.StoreUnavailable("Failed to fetch orders", err)
	}
	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var orders []*entity.Order
	for _, doc := range allDocs[start:end] {
		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return nil, 0, errors.Internal("Failed to parse order data", err)
		}
		orders = append(orders, &order)
	}

	return orders, total, nil
}

func (r *firestoreOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	order.UpdatedAt = time.Now()

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.StoreUnavailable("Failed to update order", err)
	}

	return nil
}
