package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ForumCategoriesKey = "forum:categories"
	ForumTagsKey       = "forum:tags"
	GenresKey          = "catalog:genres"
	MovieKeyPrefix     = "movie:%d"
	SerieKeyPrefix     = "serie:%d"
	UserStatsKeyPrefix = "forum:stats:user:%d"
	LeaderboardPrefix  = "forum:stats:top:%d"

	leaderboardPattern = "forum:stats:top:*"
)

const (
	ReferenceTTL = 30 * time.Minute
	CatalogTTL   = 10 * time.Minute
	StatsTTL     = 5 * time.Minute
)

func MovieKey(movieID uint) string {
	return fmt.Sprintf(MovieKeyPrefix, movieID)
}

func SerieKey(serieID uint) string {
	return fmt.Sprintf(SerieKeyPrefix, serieID)
}

func UserStatsKey(userID uint) string {
	return fmt.Sprintf(UserStatsKeyPrefix, userID)
}

func LeaderboardKey(limit int) string {
	return fmt.Sprintf(LeaderboardPrefix, limit)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateForumReference(ctx context.Context) {
	Invalidate(ctx, ForumCategoriesKey, ForumTagsKey)
}

// InvalidateStats drops a user's stats and every cached leaderboard.
func InvalidateStats(ctx context.Context, userID uint) {
	Invalidate(ctx, UserStatsKey(userID))
	InvalidatePattern(ctx, leaderboardPattern)
}

// InvalidatePattern deletes every key matching pattern using SCAN.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
