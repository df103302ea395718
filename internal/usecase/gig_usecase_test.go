package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/domain/entity"
	"gigmarket/pkg/errors"
)

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *memUserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	var out []*entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func freelancer() *entity.User {
	return &entity.User{ID: "s1", Username: "designpro", Role: entity.RoleFreelancer}
}

func client() *entity.User {
	return &entity.User{ID: "b1", Username: "buyer", Role: entity.RoleClient}
}

func TestCreateGigRequiresFreelancerRole(t *testing.T) {
	uc := NewGigUseCase(newMemGigRepo(), newMemUserRepo(freelancer(), client()))

	input := CreateGigInput{Title: "Logo design", Description: "I will design a professional logo", Category: "design", Price: 150, DeliveryTime: 3}

	gig, err := uc.CreateGig(context.Background(), "s1", input)
	require.NoError(t, err)
	assert.Equal(t, "designpro", gig.Username)

	_, err = uc.CreateGig(context.Background(), "b1", input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestUpdateGigRejectsNonOwner(t *testing.T) {
	uc := NewGigUseCase(newMemGigRepo(testGig()), newMemUserRepo(freelancer()))

	_, err := uc.UpdateGig(context.Background(), "someone-else", "gig1", UpdateGigInput{
		Title: "Hijacked", Description: "Should never be applied here", Category: "design", Price: 1, DeliveryTime: 1,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestDeleteGigRejectsNonOwner(t *testing.T) {
	gigRepo := newMemGigRepo(testGig())
	uc := NewGigUseCase(gigRepo, newMemUserRepo(freelancer()))

	err := uc.DeleteGig(context.Background(), "someone-else", "gig1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.Contains(t, gigRepo.gigs, "gig1")
}

func TestAdminDeleteGigSkipsOwnershipCheck(t *testing.T) {
	gigRepo := newMemGigRepo(testGig())
	uc := NewGigUseCase(gigRepo, newMemUserRepo(freelancer()))

	require.NoError(t, uc.AdminDeleteGig(context.Background(), "gig1"))
	assert.NotContains(t, gigRepo.gigs, "gig1")
}
