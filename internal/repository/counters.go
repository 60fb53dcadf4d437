package repository

import (
	"context"
	"fmt"

	"cinetheque/internal/models"

	"gorm.io/gorm"
)

// Denormalized counters are always rewritten from COUNT/MAX subqueries over the
// child rows, never incremented, so a recompute is idempotent and can run
// inside the same transaction as the write that made it necessary.

// RecomputeTopicCounters rewrites a topic's post count, vote totals and
// last_post_at. A topic without posts falls back to its own created_at.
func RecomputeTopicCounters(tx *gorm.DB, topicID uint) error {
	err := tx.Model(&models.ForumTopic{}).Where("id = ?", topicID).UpdateColumns(map[string]interface{}{
		"post_count":     gorm.Expr("(SELECT COUNT(*) FROM forum_posts WHERE forum_posts.topic_id = forum_topics.id)"),
		"upvote_count":   gorm.Expr("(SELECT COUNT(*) FROM upvote_forum_topics WHERE upvote_forum_topics.topic_id = forum_topics.id)"),
		"downvote_count": gorm.Expr("(SELECT COUNT(*) FROM downvote_forum_topics WHERE downvote_forum_topics.topic_id = forum_topics.id)"),
		"last_post_at":   gorm.Expr("COALESCE((SELECT MAX(forum_posts.created_at) FROM forum_posts WHERE forum_posts.topic_id = forum_topics.id), forum_topics.created_at)"),
	}).Error
	if err != nil {
		return fmt.Errorf("recompute topic %d counters: %w", topicID, err)
	}
	return nil
}

// RecomputePostCounters rewrites a post's reply count and vote totals.
func RecomputePostCounters(tx *gorm.DB, postID uint) error {
	err := tx.Model(&models.ForumPost{}).Where("id = ?", postID).UpdateColumns(map[string]interface{}{
		"reply_count":    gorm.Expr("(SELECT COUNT(*) FROM forum_replies WHERE forum_replies.post_id = forum_posts.id)"),
		"upvote_count":   gorm.Expr("(SELECT COUNT(*) FROM upvote_forum_posts WHERE upvote_forum_posts.post_id = forum_posts.id)"),
		"downvote_count": gorm.Expr("(SELECT COUNT(*) FROM downvote_forum_posts WHERE downvote_forum_posts.post_id = forum_posts.id)"),
	}).Error
	if err != nil {
		return fmt.Errorf("recompute post %d counters: %w", postID, err)
	}
	return nil
}

// RecomputeCategoryCounters rewrites a category's topic count, post count and
// last_post_at (the newest last_post_at among its topics, or NULL).
func RecomputeCategoryCounters(tx *gorm.DB, categoryID uint) error {
	err := tx.Model(&models.ForumCategory{}).Where("id = ?", categoryID).UpdateColumns(map[string]interface{}{
		"topic_count": gorm.Expr("(SELECT COUNT(*) FROM forum_topics WHERE forum_topics.category_id = forum_categories.id)"),
		"post_count": gorm.Expr("(SELECT COUNT(*) FROM forum_posts JOIN forum_topics ON forum_topics.id = forum_posts.topic_id " +
			"WHERE forum_topics.category_id = forum_categories.id)"),
		"last_post_at": gorm.Expr("(SELECT MAX(forum_topics.last_post_at) FROM forum_topics WHERE forum_topics.category_id = forum_categories.id)"),
	}).Error
	if err != nil {
		return fmt.Errorf("recompute category %d counters: %w", categoryID, err)
	}
	return nil
}

// RecomputePlaylistItemCount rewrites a playlist's item_count as the sum of
// its rows across every item table.
func RecomputePlaylistItemCount(tx *gorm.DB, playlistID uint) error {
	err := tx.Model(&models.Playlist{}).Where("id = ?", playlistID).UpdateColumn("item_count", gorm.Expr(
		"(SELECT COUNT(*) FROM playlist_movies WHERE playlist_movies.playlist_id = playlists.id) + "+
			"(SELECT COUNT(*) FROM playlist_series WHERE playlist_series.playlist_id = playlists.id) + "+
			"(SELECT COUNT(*) FROM playlist_seasons WHERE playlist_seasons.playlist_id = playlists.id) + "+
			"(SELECT COUNT(*) FROM playlist_episodes WHERE playlist_episodes.playlist_id = playlists.id) + "+
			"(SELECT COUNT(*) FROM playlist_actors WHERE playlist_actors.playlist_id = playlists.id) + "+
			"(SELECT COUNT(*) FROM playlist_crew WHERE playlist_crew.playlist_id = playlists.id)",
	)).Error
	if err != nil {
		return fmt.Errorf("recompute playlist %d item count: %w", playlistID, err)
	}
	return nil
}

// RecomputeAllCounters rewrites every denormalized counter in the database.
// The seed command runs it after bulk inserts that bypass the repositories.
func RecomputeAllCounters(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs, topicIDs, categoryIDs, playlistIDs []uint
		if err := tx.Model(&models.ForumPost{}).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		for _, id := range postIDs {
			if err := RecomputePostCounters(tx, id); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.ForumTopic{}).Pluck("id", &topicIDs).Error; err != nil {
			return err
		}
		for _, id := range topicIDs {
			if err := RecomputeTopicCounters(tx, id); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.ForumCategory{}).Pluck("id", &categoryIDs).Error; err != nil {
			return err
		}
		for _, id := range categoryIDs {
			if err := RecomputeCategoryCounters(tx, id); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Playlist{}).Pluck("id", &playlistIDs).Error; err != nil {
			return err
		}
		for _, id := range playlistIDs {
			if err := RecomputePlaylistItemCount(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}
