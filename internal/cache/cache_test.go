package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestAside_MissThenHit(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "drama", Count: 3}
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "drama", first.Name)
	assert.True(t, mr.Exists("k"))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	var second payload
	require.NoError(t, Aside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls, "second read should be served from redis")
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := setupMiniredis(t)

	var dest payload
	err := Aside(context.Background(), "k", &dest, time.Minute, func() error {
		return errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists("k"))
}

func TestAside_WithoutRedisAlwaysFetches(t *testing.T) {
	SetClient(nil)

	calls := 0
	var dest payload
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "k", &dest, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestAside_CorruptEntryFallsBackToSource(t *testing.T) {
	mr := setupMiniredis(t)
	require.NoError(t, mr.Set("k", "{not json"))

	var dest payload
	require.NoError(t, Aside(context.Background(), "k", &dest, time.Minute, func() error {
		dest = payload{Name: "fresh"}
		return nil
	}))
	assert.Equal(t, "fresh", dest.Name)
}

func TestInvalidateStats(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserStatsKey(7), payload{}, StatsTTL))
	require.NoError(t, SetJSON(ctx, LeaderboardKey(10), payload{}, StatsTTL))
	require.NoError(t, SetJSON(ctx, LeaderboardKey(25), payload{}, StatsTTL))
	require.NoError(t, SetJSON(ctx, MovieKey(1), payload{}, CatalogTTL))

	InvalidateStats(ctx, 7)

	assert.False(t, mr.Exists(UserStatsKey(7)))
	assert.False(t, mr.Exists(LeaderboardKey(10)))
	assert.False(t, mr.Exists(LeaderboardKey(25)))
	assert.True(t, mr.Exists(MovieKey(1)))
}

func TestOptions(t *testing.T) {
	opts, err := Options("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	opts, err = Options("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = Options("redis://cache:6380/notadb")
	assert.Error(t, err)
}
