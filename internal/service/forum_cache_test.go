package service

import (
	"context"
	"errors"
	"testing"

	"cinetheque/internal/cache"
	"cinetheque/internal/models"
	"cinetheque/internal/repository"
	"cinetheque/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForumService_CategoryCountersNotStaleInCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	f := newForumFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	category := testutil.CreateCategory(t, f.db, "noir")

	categoryCounts := func() (topics, posts int) {
		t.Helper()
		categories, err := f.svc.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 1)
		return categories[0].TopicCount, categories[0].PostCount
	}

	topics, posts := categoryCounts()
	assert.Zero(t, topics)
	assert.Zero(t, posts)
	assert.True(t, mr.Exists(cache.ForumCategoriesKey))

	topic, err := f.svc.CreateTopic(ctx, CreateTopicInput{UserID: alice.ID, CategoryID: category.ID, Title: "Out of the Past", Content: "Mitchum."})
	require.NoError(t, err)
	topics, _ = categoryCounts()
	assert.Equal(t, 1, topics)

	post, err := f.svc.CreatePost(ctx, CreatePostInput{UserID: alice.ID, TopicID: topic.ID, Content: "Greer as the femme fatale."})
	require.NoError(t, err)
	_, posts = categoryCounts()
	assert.Equal(t, 1, posts)

	require.NoError(t, f.svc.DeletePost(ctx, alice.ID, post.ID))
	_, posts = categoryCounts()
	assert.Zero(t, posts)

	require.NoError(t, f.svc.DeleteTopic(ctx, alice.ID, topic.ID))
	topics, _ = categoryCounts()
	assert.Zero(t, topics)
}

func TestForumService_UserVotesFailureIsLogged(t *testing.T) {
	logs := captureLogs(t)
	ctx := context.Background()

	topics := noopTopicRepo()
	topics.listFn = func(_ context.Context, _ repository.TopicQuery) ([]models.ForumTopic, int64, error) {
		return []models.ForumTopic{{ID: 1}, {ID: 2}}, 2, nil
	}
	posts := noopPostRepo()
	posts.listByTopicFn = func(_ context.Context, _ uint, _, _ int) ([]models.ForumPost, int64, error) {
		return []models.ForumPost{{ID: 3}}, 1, nil
	}
	votes := noopVoteRepo()
	votes.userVotesFn = func(_ context.Context, _ uint, _ models.VoteTarget, _ []uint) (map[uint]models.VoteDirection, error) {
		return nil, errors.New("connection reset")
	}
	svc := NewForumService(repository.NewForumReferenceRepository(testutil.NewTestDB(t)), topics, posts, votes, nil, nil)

	topicList, err := svc.ListTopics(ctx, ListTopicsInput{CurrentUserID: 9})
	require.NoError(t, err)
	require.Len(t, topicList.Items, 2)
	assert.Equal(t, models.VoteNone, topicList.Items[0].UserVote)

	topic, err := svc.GetTopic(ctx, GetTopicInput{ID: 1, CurrentUserID: 9})
	require.NoError(t, err)
	assert.Equal(t, models.VoteNone, topic.UserVote)

	postList, err := svc.ListPosts(ctx, ListPostsInput{TopicID: 1, CurrentUserID: 9})
	require.NoError(t, err)
	require.Len(t, postList.Items, 1)

	assert.Contains(t, logs.String(), "user vote lookup failed")
	assert.Contains(t, logs.String(), "target_type=topic")
	assert.Contains(t, logs.String(), "target_type=post")
	assert.Contains(t, logs.String(), "connection reset")
}
