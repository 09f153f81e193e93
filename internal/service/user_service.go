package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile reads, edits and account deletion.
type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries the profile-edit form fields. Password is the
// account password re-entered for confirmation, not a new password.
type UpdateProfileInput struct {
	Password       string
	Username       string
	Email          string
	Bio            string
	Location       string
	ImageURL       string
	HeaderImageURL string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies profile edits to the acting user's own account.
// The account password must be re-confirmed; a mismatch is an
// authorization failure, not a validation failure.
func (s *UserService) UpdateProfile(ctx context.Context, actorID uint, in UpdateProfileInput) (*models.User, error) {
	if actorID == 0 {
		return nil, models.NewUnauthorizedError("Access unauthorized")
	}

	// Fetch straight from the database: the cached copy has its password
	// digest stripped, and the confirmation check (and the Save below) need
	// the digest intact.
	user, err := s.userRepo.GetWithCredentials(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, models.NewUnauthorizedError("Access unauthorized")
	}

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.Location != "" {
		if err := validation.ValidateLocation(in.Location); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Location = in.Location
	}
	if in.ImageURL != "" {
		if err := validation.ValidateImageURL(in.ImageURL); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.ImageURL = in.ImageURL
	}
	if in.HeaderImageURL != "" {
		if err := validation.ValidateImageURL(in.HeaderImageURL); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.HeaderImageURL = in.HeaderImageURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the acting user's own account with full cascade.
func (s *UserService) DeleteAccount(ctx context.Context, actorID uint) error {
	if actorID == 0 {
		return models.NewUnauthorizedError("Access unauthorized")
	}
	// Confirm the account still exists so a stale token yields 404, not a
	// silent no-op.
	if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, actorID)
}
