package service

import (
	"context"
	"errors"
	"testing"

	"cinetheque/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_RecomputeAll_ContinuesPastFailures(t *testing.T) {
	logs := captureLogs(t)

	users := noopUserRepo()
	users.listIDsFn = func(_ context.Context) ([]uint, error) { return []uint{1, 2, 3}, nil }

	stats := noopStatsRepo()
	stats.computeFn = func(_ context.Context, id uint) (*models.ForumUserStats, error) {
		if id == 2 {
			return nil, errors.New("count failed")
		}
		s := &models.ForumUserStats{UserID: id, TopicCount: 1, PostCount: 2}
		s.Recompute()
		return s, nil
	}
	var saved []uint
	stats.saveFn = func(_ context.Context, s *models.ForumUserStats) error {
		saved = append(saved, s.UserID)
		assert.Equal(t, 9, s.Reputation)
		return nil
	}

	svc := NewStatsService(stats, users)
	result, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []uint{1, 3}, saved)
	assert.Contains(t, logs.String(), "count failed")
}

func TestStatsService_RecomputeAll_ListFailure(t *testing.T) {
	users := noopUserRepo()
	users.listIDsFn = func(_ context.Context) ([]uint, error) { return nil, errors.New("boom") }

	svc := NewStatsService(noopStatsRepo(), users)
	_, err := svc.RecomputeAll(context.Background())
	assertAppErrorCode(t, err, models.CodeInternal)
}

func TestStatsService_TopUsers_ClampsLimit(t *testing.T) {
	t.Parallel()
	stats := noopStatsRepo()
	var limits []int
	stats.topFn = func(_ context.Context, limit int) ([]models.ForumUserStats, error) {
		limits = append(limits, limit)
		return nil, nil
	}
	svc := NewStatsService(stats, noopUserRepo())

	rows, err := svc.TopUsers(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	_, err = svc.TopUsers(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, []int{defaultLeaderboardSize, maxLeaderboardSize}, limits)
}

func TestStatsService_GetUserStats_ZeroRow(t *testing.T) {
	t.Parallel()
	svc := NewStatsService(noopStatsRepo(), noopUserRepo())
	stats, err := svc.GetUserStats(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), stats.UserID)
	assert.Zero(t, stats.Reputation)
}
