package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/domain/entity"
	"gigmarket/pkg/errors"
)

type memReviewRepo struct {
	reviews []*entity.Review
}

func (r *memReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = "rev-new"
	}
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *memReviewRepo) ExistsByGigAndBuyer(ctx context.Context, gigID, buyerID string) (bool, error) {
	for _, rev := range r.reviews {
		if rev.GigID == gigID && rev.BuyerID == buyerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReviewRepo) ListByGigID(ctx context.Context, gigID string) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, rev := range r.reviews {
		if rev.GigID == gigID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r *memReviewRepo) ListByBuyerID(ctx context.Context, buyerID string) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, rev := range r.reviews {
		if rev.BuyerID == buyerID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func completedOrder() *entity.Order {
	order := testOrder()
	order.Status = entity.OrderStatusCompleted
	return order
}

func TestCreateReviewUpdatesGigRating(t *testing.T) {
	gigRepo := newMemGigRepo(testGig())
	uc := NewReviewUseCase(&memReviewRepo{}, gigRepo, newMemOrderRepo(completedOrder()))

	review, err := uc.CreateReview(context.Background(), "b1", CreateReviewInput{
		GigID:   "gig1",
		OrderID: "ord1",
		Rating:  4,
		Comment: "Good work",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)

	gig := gigRepo.gigs["gig1"]
	assert.Equal(t, 1, gig.NumReviews)
	assert.InDelta(t, 4.0, gig.Rating, 0.001)
}

func TestCreateReviewAveragesRatings(t *testing.T) {
	gigRepo := newMemGigRepo(testGig())
	orderRepo := newMemOrderRepo(completedOrder())

	secondOrder := completedOrder()
	secondOrder.ID = "ord2"
	secondOrder.BuyerID = "b2"
	require.NoError(t, orderRepo.Create(context.Background(), secondOrder))

	uc := NewReviewUseCase(&memReviewRepo{}, gigRepo, orderRepo)

	_, err := uc.CreateReview(context.Background(), "b1", CreateReviewInput{GigID: "gig1", OrderID: "ord1", Rating: 5, Comment: "Excellent"})
	require.NoError(t, err)
	_, err = uc.CreateReview(context.Background(), "b2", CreateReviewInput{GigID: "gig1", OrderID: "ord2", Rating: 3, Comment: "Decent"})
	require.NoError(t, err)

	gig := gigRepo.gigs["gig1"]
	assert.Equal(t, 2, gig.NumReviews)
	assert.InDelta(t, 4.0, gig.Rating, 0.001)
}

func TestCreateReviewRequiresCompletedOrder(t *testing.T) {
	uc := NewReviewUseCase(&memReviewRepo{}, newMemGigRepo(testGig()), newMemOrderRepo(testOrder()))

	_, err := uc.CreateReview(context.Background(), "b1", CreateReviewInput{GigID: "gig1", OrderID: "ord1", Rating: 5, Comment: "Too early"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateReviewRejectsNonBuyer(t *testing.T) {
	uc := NewReviewUseCase(&memReviewRepo{}, newMemGigRepo(testGig()), newMemOrderRepo(completedOrder()))

	_, err := uc.CreateReview(context.Background(), "s1", CreateReviewInput{GigID: "gig1", OrderID: "ord1", Rating: 5, Comment: "Self praise"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestCreateReviewRejectsDuplicate(t *testing.T) {
	uc := NewReviewUseCase(&memReviewRepo{}, newMemGigRepo(testGig()), newMemOrderRepo(completedOrder()))

	_, err := uc.CreateReview(context.Background(), "b1", CreateReviewInput{GigID: "gig1", OrderID: "ord1", Rating: 5, Comment: "First"})
	require.NoError(t, err)

	_, err = uc.CreateReview(context.Background(), "b1", CreateReviewInput{GigID: "gig1", OrderID: "ord1", Rating: 1, Comment: "Second"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	uc := NewReviewUseCase(&memReviewRepo{}, newMemGigRepo(testGig()), newMemOrderRepo(completedOrder()))

	for _, rating := range []int{0, 6, -1} {
		_, err := uc.CreateReview(context.Background(), "b1", CreateReviewInput{GigID: "gig1", OrderID: "ord1", Rating: rating, Comment: "Bad rating"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, "BAD_REQUEST"))
	}
}
