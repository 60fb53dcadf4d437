package service

import (
	"context"
	"strings"

	"cinetheque/internal/models"
	"cinetheque/internal/repository"
)

const maxBioLen = 500

type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries optional profile edits; nil fields are left unchanged.
type UpdateProfileInput struct {
	UserID uint
	Bio    *string
	Avatar *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "User", id)
	}
	return user, nil
}

// IsAdmin reports whether the user holds admin rights. Unknown users are not admins.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, translateRepoError(err, "User", in.UserID)
	}

	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Avatar != nil {
		avatar := strings.TrimSpace(*in.Avatar)
		if avatar != "" && !strings.HasPrefix(avatar, "/media/i/") && !strings.HasPrefix(avatar, "https://") {
			return nil, models.NewValidationError("Avatar must be an uploaded image or an https URL")
		}
		user.Avatar = avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, translateRepoError(err, "User", user.ID)
	}
	return user, nil
}

func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, translateRepoError(err, "User", targetID)
	}

	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, translateRepoError(err, "User", targetID)
	}
	return user, nil
}
