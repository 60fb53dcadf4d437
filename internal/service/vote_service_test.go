package service

import (
	"context"
	"testing"

	"cinetheque/internal/featureflags"
	"cinetheque/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVoteFixture(flags string) (*VoteService, *topicRepoStub, *postRepoStub, *voteRepoStub, *eventRecorder) {
	topics := noopTopicRepo()
	topics.getByIDFn = func(_ context.Context, id uint) (*models.ForumTopic, error) {
		return &models.ForumTopic{ID: id, UserID: 7}, nil
	}
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.ForumPost, error) {
		return &models.ForumPost{ID: id, TopicID: 3, UserID: 7, Topic: &models.ForumTopic{ID: 3}}, nil
	}
	votes := noopVoteRepo()
	events := &eventRecorder{}
	svc := NewVoteService(votes, topics, posts, featureflags.NewManager(flags), events)
	return svc, topics, posts, votes, events
}

func TestVoteService_RecordVote_Validation(t *testing.T) {
	t.Parallel()
	svc, _, _, _, _ := newVoteFixture("forum_post_downvotes=on")
	ctx := context.Background()

	_, err := svc.RecordVote(ctx, RecordVoteInput{UserID: 1, TargetType: "reply", TargetID: 1, Direction: "up"})
	assertValidationError(t, err)

	_, err = svc.RecordVote(ctx, RecordVoteInput{UserID: 1, TargetType: "topic", TargetID: 1, Direction: "sideways"})
	assertValidationError(t, err)

	_, err = svc.RecordVote(ctx, RecordVoteInput{TargetType: "topic", TargetID: 1, Direction: "up"})
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestVoteService_RecordVote_RejectsSelfVote(t *testing.T) {
	t.Parallel()
	svc, _, _, votes, _ := newVoteFixture("forum_post_downvotes=on")
	called := false
	votes.toggleFn = func(_ context.Context, _ uint, _ models.VoteTarget, _ uint, _ models.VoteDirection) (models.VoteState, error) {
		called = true
		return models.VoteState{}, nil
	}

	_, err := svc.RecordVote(context.Background(), RecordVoteInput{UserID: 7, TargetType: "topic", TargetID: 1, Direction: "up"})
	assertValidationError(t, err)
	_, err = svc.RecordVote(context.Background(), RecordVoteInput{UserID: 7, TargetType: "post", TargetID: 1, Direction: "up"})
	assertValidationError(t, err)
	assert.False(t, called)
}

func TestVoteService_RecordVote_RejectsLockedTopic(t *testing.T) {
	t.Parallel()
	svc, topics, posts, _, _ := newVoteFixture("forum_post_downvotes=on")
	topics.getByIDFn = func(_ context.Context, id uint) (*models.ForumTopic, error) {
		return &models.ForumTopic{ID: id, UserID: 7, IsLocked: true}, nil
	}
	posts.getByIDFn = func(_ context.Context, id uint) (*models.ForumPost, error) {
		return &models.ForumPost{ID: id, UserID: 7, TopicID: 3, Topic: &models.ForumTopic{ID: 3, IsLocked: true}}, nil
	}

	_, err := svc.RecordVote(context.Background(), RecordVoteInput{UserID: 2, TargetType: "topic", TargetID: 1, Direction: "up"})
	assertValidationError(t, err)
	_, err = svc.RecordVote(context.Background(), RecordVoteInput{UserID: 2, TargetType: "post", TargetID: 1, Direction: "down"})
	assertValidationError(t, err)
}

func TestVoteService_RecordVote_PostDownvoteFlag(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		svc, _, _, _, _ := newVoteFixture("forum_post_downvotes=off")
		_, err := svc.RecordVote(context.Background(), RecordVoteInput{UserID: 2, TargetType: "post", TargetID: 1, Direction: "down"})
		assertValidationError(t, err)

		// Topic downvotes are never gated.
		state, err := svc.RecordVote(context.Background(), RecordVoteInput{UserID: 2, TargetType: "topic", TargetID: 1, Direction: "down"})
		require.NoError(t, err)
		assert.Equal(t, models.VoteDown, state.UserVote)
	})

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		svc, _, _, _, _ := newVoteFixture("forum_post_downvotes=on")
		state, err := svc.RecordVote(context.Background(), RecordVoteInput{UserID: 2, TargetType: "post", TargetID: 1, Direction: "down"})
		require.NoError(t, err)
		assert.Equal(t, models.VoteDown, state.UserVote)
	})
}

func TestVoteService_RecordVote_PublishesCounts(t *testing.T) {
	t.Parallel()
	svc, _, _, votes, events := newVoteFixture("")
	votes.toggleFn = func(_ context.Context, userID uint, target models.VoteTarget, id uint, d models.VoteDirection) (models.VoteState, error) {
		assert.Equal(t, uint(2), userID)
		assert.Equal(t, models.VoteTargetPost, target)
		assert.Equal(t, models.VoteUp, d)
		return models.VoteState{Target: target, TargetID: id, Upvotes: 4, Downvotes: 1, UserVote: d, Action: models.VoteActionSwitched}, nil
	}

	state, err := svc.RecordVote(context.Background(), RecordVoteInput{UserID: 2, TargetType: "post", TargetID: 9, Direction: "up"})
	require.NoError(t, err)
	assert.Equal(t, 4, state.Upvotes)
	assert.Equal(t, models.VoteActionSwitched, state.Action)

	require.Len(t, events.events, 1)
	ev := events.events[0]
	assert.Equal(t, models.EventVoteUpdated, ev.Type)
	assert.Equal(t, uint(3), ev.TopicID)
	payload, ok := ev.Payload.(models.VoteState)
	require.True(t, ok)
	assert.Equal(t, 4, payload.Upvotes)
	assert.Equal(t, models.VoteNone, payload.UserVote, "broadcast state must not carry the voter's choice")
}

func TestVoteService_RecordVote_UnknownTarget(t *testing.T) {
	t.Parallel()
	svc, topics, _, _, _ := newVoteFixture("")
	topics.getByIDFn = func(_ context.Context, _ uint) (*models.ForumTopic, error) {
		return nil, gorm.ErrRecordNotFound
	}
	_, err := svc.RecordVote(context.Background(), RecordVoteInput{UserID: 2, TargetType: "topic", TargetID: 404, Direction: "up"})
	assertAppErrorCode(t, err, models.CodeNotFound)
}
