package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
)

type firestoreGigRepository struct {
	client *firestore.Client
}

func NewFirestoreGigRepository(client *firestore.Client) repository.GigRepository {
	return &firestoreGigRepository{
		client: client,
	}
}

func (r *firestoreGigRepository) Create(ctx context.Context, gig *entity.Gig) error {
	if gig.ID == "" {
		gig.ID = r.client.Collection("gigs").NewDoc().ID
	}

	now := time.Now()
	gig.CreatedAt = now
	gig.UpdatedAt = now

	_, err := r.client.Collection("gigs").Doc(gig.ID).Set(ctx, gig)
	if err != nil {
		return errors.Internal("Failed to create gig", err)
	}

	return nil
}

func (r *firestoreGigRepository) GetByID(ctx context.Context, id string) (*entity.Gig, error) {
	doc, err := r.client.Collection("gigs").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Gig", err)
		}
		return nil, errors.Internal("Failed to get gig", err)
	}

	var gig entity.Gig
	if err := doc.DataTo(&gig); err != nil {
		return nil, errors.Internal("Failed to parse gig data", err)
	}

	return &gig, nil
}

func (r *firestoreGigRepository) List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Gig, int64, error) {
	query := r.client.Collection("gigs").Query

	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	if sort != "" {
		parts := strings.Split(sort, "_")
		field := parts[0]
		order := firestore.Asc
		if len(parts) > 1 && parts[1] == "desc" {
			order = firestore.Desc
		}
		query = query.OrderBy(field, order)
	} else {
		query = query.OrderBy("createdAt", firestore.Desc)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count gigs", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var gigs []*entity.Gig

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate gigs", err)
		}

		var gig entity.Gig
		if err := doc.DataTo(&gig); err != nil {
			return nil, 0, errors.Internal("Failed to parse gig data", err)
		}
		gigs = append(gigs, &gig)
	}

	return gigs, total, nil
}

func (r *firestoreGigRepository) Update(ctx context.Context, gig *entity.Gig) error {
	gig.UpdatedAt = time.Now()

	_, err := r.client.Collection("gigs").Doc(gig.ID).Set(ctx, gig)
	if err != nil {
		return errors.Internal("Failed to update gig", err)
	}

	return nil
}

// UpdateRating folds one new rating into the gig's running average
// inside a transaction, so concurrent reviews cannot lose updates.
func (r *firestoreGigRepository) UpdateRating(ctx context.Context, gigID string, rating int) error {
	gigRef := r.client.Collection("gigs").Doc(gigID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(gigRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Gig", err)
			}
			return err
		}

		var gig entity.Gig
		if err := doc.DataTo(&gig); err != nil {
			return err
		}

		ratingSum := gig.Rating * float64(gig.NumReviews)
		gig.NumReviews++
		gig.Rating = (ratingSum + float64(rating)) / float64(gig.NumReviews)

		return tx.Update(gigRef, []firestore.Update{
			{Path: "rating", Value: gig.Rating},
			{Path: "numReviews", Value: gig.NumReviews},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return err
		}
		return errors.Internal("Failed to update gig rating", err)
	}

	return nil
}

func (r *firestoreGigRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("gigs").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete gig", err)
	}

	return nil
}
