package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cinetheque/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    strPtr(strings.Repeat("x", 501)),
		})
		assertValidationError(t, err)
	})

	t.Run("avatar from elsewhere", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Avatar: strPtr("javascript:alert(1)"),
		})
		assertValidationError(t, err)
	})
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Bio: "my bio", Avatar: "/media/i/abc/master.jpg"}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: strPtr("new bio")})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "new bio", user.Bio)
	assert.Equal(t, "/media/i/abc/master.jpg", user.Avatar)
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Parallel()
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return nil, gorm.ErrRecordNotFound }
	svc := NewUserService(repo)

	_, err := svc.GetUserByID(context.Background(), 9)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestUserService_IsAdmin(t *testing.T) {
	t.Parallel()
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		switch id {
		case 1:
			return &models.User{ID: 1, IsAdmin: true}, nil
		case 2:
			return nil, gorm.ErrRecordNotFound
		default:
			return nil, errors.New("db down")
		}
	}
	svc := NewUserService(repo)

	ok, err := svc.IsAdmin(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdmin(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.IsAdmin(context.Background(), 3)
	assert.Error(t, err)
}

func TestUserService_SetAdmin(t *testing.T) {
	t.Parallel()
	repo := noopUserRepo()
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.SetAdmin(context.Background(), 4, true)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	require.NotNil(t, saved)
	assert.Equal(t, uint(4), saved.ID)
}
