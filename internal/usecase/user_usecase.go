package usecase

import (
	"context"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/internal/infrastructure/firebase"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

type UserUseCase struct {
	userRepo   repository.UserRepository
	authClient *firebase.FirebaseAuthClient
}

func NewUserUseCase(userRepo repository.UserRepository, authClient *firebase.FirebaseAuthClient) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		authClient: authClient,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
	Role     string
}

type UpdateProfileInput struct {
	Username string
	Bio      string
	PhotoURL string
}

// Register creates the Firebase account and its profile document, and
// returns the profile plus a custom token for the first sign-in.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, string, error) {
	if input.Role != entity.RoleClient && input.Role != entity.RoleFreelancer {
		return nil, "", errors.BadRequest("Role must be client or freelancer", nil)
	}

	uid, err := uc.authClient.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		logger.Error("Failed to create auth account for %s: %v", input.Email, err)
		return nil, "", errors.Internal("Failed to create account", err)
	}

	user := &entity.User{
		ID:       uid,
		Email:    input.Email,
		Username: input.Username,
		Role:     input.Role,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Roll back the auth account so the email can retry.
		if delErr := uc.authClient.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to roll back auth account %s: %v", uid, delErr)
		}
		return nil, "", err
	}

	token, err := uc.authClient.GenerateToken(ctx, uid)
	if err != nil {
		logger.Error("Failed to generate token for %s: %v", uid, err)
		return user, "", nil
	}

	return user, token, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	user.Bio = input.Bio
	user.PhotoURL = input.PhotoURL

	if err := uc.userRepo.Update(ctx, user); err != nil {
		logger.Error("Failed to update profile %s: %v", userID, err)
		return nil, err
	}

	return user, nil
}

// UpdateRole is the admin path for promoting or demoting an account.
func (uc *UserUseCase) UpdateRole(ctx context.Context, userID, role string) (*entity.User, error) {
	if role != entity.RoleClient && role != entity.RoleFreelancer && role != entity.RoleAdmin {
		return nil, errors.BadRequest("Unknown role", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := uc.userRepo.Update(ctx, user); err != nil {
		logger.Error("Failed to update role of user %s: %v", userID, err)
		return nil, err
	}

	return user, nil
}

// ListUsers is the admin directory view.
func (uc *UserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	return uc.userRepo.List(ctx, limit, offset)
}

// DeleteUser removes both the profile document and the auth account.
func (uc *UserUseCase) DeleteUser(ctx context.Context, userID string) error {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	if err := uc.authClient.DeleteUser(ctx, userID); err != nil {
		logger.Error("Failed to delete auth account %s: %v", userID, err)
	}

	return nil
}
