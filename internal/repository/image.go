package repository

import (
	"context"

	"cinetheque/internal/models"

	"gorm.io/gorm"
)

// ImageRepository defines persistence operations for uploaded images.
type ImageRepository interface {
	Create(ctx context.Context, img *models.Image) error
	GetByHash(ctx context.Context, hash string) (*models.Image, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Image, error)
	Delete(ctx context.Context, id uint) error
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository returns a new ImageRepository implementation.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, img *models.Image) error {
	return wrapWriteError(r.db.WithContext(ctx).Create(img).Error, "image")
}

func (r *imageRepository) GetByHash(ctx context.Context, hash string) (*models.Image, error) {
	var img models.Image
	if err := r.db.WithContext(ctx).Where("hash = ?", hash).First(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *imageRepository) ListByUser(ctx context.Context, userID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&images).Error
	return images, err
}

func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Image{}, id).Error
}
