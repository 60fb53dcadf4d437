package repository

import (
	"context"

	"cinetheque/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository stores episode bookmarks.
type BookmarkRepository interface {
	Add(ctx context.Context, userID, episodeID uint) error
	Remove(ctx context.Context, userID, episodeID uint) error
	Exists(ctx context.Context, userID, episodeID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.EpisodeBookmark, int64, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository returns a new BookmarkRepository implementation.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Add bookmarks the episode. Bookmarking it again is a no-op.
func (r *bookmarkRepository) Add(ctx context.Context, userID, episodeID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.EpisodeBookmark{UserID: userID, EpisodeID: episodeID}).Error
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID, episodeID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND episode_id = ?", userID, episodeID).
		Delete(&models.EpisodeBookmark{}).Error
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, episodeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.EpisodeBookmark{}).
		Where("user_id = ? AND episode_id = ?", userID, episodeID).
		Count(&n).Error
	return n > 0, err
}

// ListByUser returns the user's bookmarks, newest first, with the episode,
// its season and the serie preloaded.
func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.EpisodeBookmark, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.EpisodeBookmark{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bookmarks []models.EpisodeBookmark
	err := r.db.WithContext(ctx).
		Preload("Episode.Season.Serie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookmarks).Error
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}
