package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()

	_, err := r.client.Collection("reviews").Doc(review.ID).Set(ctx, review)
	if err != nil {
		return errors.Internal("Failed to create review", err)
	}

	return nil
}

func (r *firestoreReviewRepository) ExistsByGigAndBuyer(ctx context.Context, gigID, buyerID string) (bool, error) {
	iter := r.client.Collection("reviews").
		Where("gigId", "==", gigID).
		Where("buyerId", "==", buyerID).
		Limit(1).
		Documents(ctx)

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, errors.Internal("Failed to query reviews", err)
	}

	return true, nil
}

func (r *firestoreReviewRepository) ListByGigID(ctx context.Context, gigID string) ([]*entity.Review, error) {
	return r.listByField(ctx, "gigId", gigID)
}

func (r *firestoreReviewRepository) ListByBuyerID(ctx context.Context, buyerID string) ([]*entity.Review, error) {
	return r.listByField(ctx, "buyerId", buyerID)
}

func (r *firestoreReviewRepository) listByField(ctx context.Context, field, value string) ([]*entity.Review, error) {
	iter := r.client.Collection("reviews").
		Where(field, "==", value).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)

	var reviews []*entity.Review
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate reviews", err)
		}

		var review entity.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, errors.Internal("Failed to parse review data", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}
