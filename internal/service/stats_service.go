package service

import (
	"context"
	"log/slog"
	"time"

	"cinetheque/internal/cache"
	"cinetheque/internal/middleware"
	"cinetheque/internal/models"
	"cinetheque/internal/observability"
	"cinetheque/internal/repository"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

// StatsService rolls forum activity up into per-user reputation.
type StatsService struct {
	stats repository.StatsRepository
	users repository.UserRepository
}

// RollupResult summarizes a batch roll-up.
type RollupResult struct {
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration_ns"`
}

func NewStatsService(stats repository.StatsRepository, users repository.UserRepository) *StatsService {
	return &StatsService{stats: stats, users: users}
}

// RecomputeUser recounts one user's activity and stores the result.
func (s *StatsService) RecomputeUser(ctx context.Context, userID uint) (*models.ForumUserStats, error) {
	stats, err := s.stats.Compute(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateStats(ctx, userID)
	return stats, nil
}

// RecomputeAll rolls up every user. A failing user is logged and skipped.
func (s *StatsService) RecomputeAll(ctx context.Context) (result RollupResult, err error) {
	ctx, finish := observability.StartSpan(ctx, "forum.stats_rollup")
	defer func() { finish(err) }()

	start := time.Now()
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return result, models.NewInternalError(err)
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if _, uerr := s.RecomputeUser(ctx, id); uerr != nil {
			result.Failed++
			observability.StatsRollupFailures.Inc()
			middleware.Logger.ErrorContext(ctx, "user stats roll-up failed",
				slog.Uint64("user_id", uint64(id)),
				slog.String("error", uerr.Error()),
			)
			continue
		}
		result.Processed++
	}

	result.Duration = time.Since(start)
	observability.StatsRollupDuration.Observe(result.Duration.Seconds())
	middleware.Logger.InfoContext(ctx, "user stats roll-up finished",
		slog.Int("processed", result.Processed),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

// GetUserStats returns the stored stats, a zero row when never computed.
func (s *StatsService) GetUserStats(ctx context.Context, userID uint) (*models.ForumUserStats, error) {
	var stats models.ForumUserStats
	err := cache.Aside(ctx, cache.UserStatsKey(userID), &stats, cache.StatsTTL, func() error {
		row, fetchErr := s.stats.Get(ctx, userID)
		if fetchErr != nil {
			return fetchErr
		}
		stats = *row
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &stats, nil
}

// TopUsers returns the reputation leaderboard.
func (s *StatsService) TopUsers(ctx context.Context, limit int) ([]models.ForumUserStats, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	var rows []models.ForumUserStats
	err := cache.Aside(ctx, cache.LeaderboardKey(limit), &rows, cache.StatsTTL, func() error {
		var fetchErr error
		rows, fetchErr = s.stats.Top(ctx, limit)
		return fetchErr
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if rows == nil {
		rows = []models.ForumUserStats{}
	}
	return rows, nil
}
