package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinetheque/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository derives and stores per-user forum statistics.
type StatsRepository interface {
	Compute(ctx context.Context, userID uint) (*models.ForumUserStats, error)
	Save(ctx context.Context, stats *models.ForumUserStats) error
	Get(ctx context.Context, userID uint) (*models.ForumUserStats, error)
	Top(ctx context.Context, limit int) ([]models.ForumUserStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository returns a new StatsRepository implementation.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Compute counts the user's authored topics, posts and replies and the
// upvotes received on their topics and posts. Reputation is filled in.
func (r *statsRepository) Compute(ctx context.Context, userID uint) (*models.ForumUserStats, error) {
	db := r.db.WithContext(ctx)
	stats := &models.ForumUserStats{UserID: userID}

	var topics, posts, replies, topicUpvotes, postUpvotes int64
	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.ForumTopic{}).Where("user_id = ?", userID), &topics},
		{db.Model(&models.ForumPost{}).Where("user_id = ?", userID), &posts},
		{db.Model(&models.ForumReply{}).Where("user_id = ?", userID), &replies},
		{db.Model(&models.UpvoteForumTopic{}).
			Joins("JOIN forum_topics ON forum_topics.id = upvote_forum_topics.topic_id").
			Where("forum_topics.user_id = ?", userID), &topicUpvotes},
		{db.Model(&models.UpvoteForumPost{}).
			Joins("JOIN forum_posts ON forum_posts.id = upvote_forum_posts.post_id").
			Where("forum_posts.user_id = ?", userID), &postUpvotes},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count stats for user %d: %w", userID, err)
		}
	}

	stats.TopicCount = int(topics)
	stats.PostCount = int(posts)
	stats.ReplyCount = int(replies)
	stats.UpvotesReceived = int(topicUpvotes + postUpvotes)
	stats.Recompute()

	for _, model := range []interface{}{&models.ForumTopic{}, &models.ForumPost{}, &models.ForumReply{}} {
		latest, err := latestCreatedAt(db, model, userID)
		if err != nil {
			return nil, fmt.Errorf("latest activity for user %d: %w", userID, err)
		}
		if latest != nil && (stats.LastPostAt == nil || latest.After(*stats.LastPostAt)) {
			stats.LastPostAt = latest
		}
	}
	return stats, nil
}

// latestCreatedAt reads the newest created_at the user authored in model's table.
func latestCreatedAt(db *gorm.DB, model interface{}, userID uint) (*time.Time, error) {
	var rows []struct {
		CreatedAt time.Time
	}
	err := db.Model(model).
		Select("created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	latest := rows[0].CreatedAt
	return &latest, nil
}

// Save upserts the single stats row for stats.UserID.
func (r *statsRepository) Save(ctx context.Context, stats *models.ForumUserStats) error {
	stats.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"topic_count", "post_count", "reply_count", "upvotes_received",
			"reputation", "last_post_at", "updated_at",
		}),
	}).Omit("User").Create(stats).Error
}

// Get returns the stored row, or a zero row for a user never rolled up.
func (r *statsRepository) Get(ctx context.Context, userID uint) (*models.ForumUserStats, error) {
	var stats models.ForumUserStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ForumUserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Top returns the leaderboard ordered by reputation, highest first.
func (r *statsRepository) Top(ctx context.Context, limit int) ([]models.ForumUserStats, error) {
	var rows []models.ForumUserStats
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("reputation DESC").
		Order("user_id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
