package service

import (
	"context"

	"cinetheque/internal/featureflags"
	"cinetheque/internal/models"
	"cinetheque/internal/observability"
	"cinetheque/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// VoteService records forum votes on topics and posts.
type VoteService struct {
	votes  repository.VoteRepository
	topics repository.TopicRepository
	posts  repository.PostRepository
	flags  *featureflags.Manager
	events EventPublisher
}

type RecordVoteInput struct {
	UserID     uint
	TargetType string
	TargetID   uint
	Direction  string
}

func NewVoteService(
	votes repository.VoteRepository,
	topics repository.TopicRepository,
	posts repository.PostRepository,
	flags *featureflags.Manager,
	events EventPublisher,
) *VoteService {
	return &VoteService{
		votes:  votes,
		topics: topics,
		posts:  posts,
		flags:  flags,
		events: events,
	}
}

// voteTarget is what the vote rules need to know about the voted content.
type voteTarget struct {
	ownerID uint
	topicID uint
	locked  bool
}

func (s *VoteService) loadTarget(ctx context.Context, target models.VoteTarget, id uint) (voteTarget, error) {
	if target == models.VoteTargetTopic {
		topic, err := s.topics.GetByID(ctx, id)
		if err != nil {
			return voteTarget{}, translateRepoError(err, "Topic", id)
		}
		return voteTarget{ownerID: topic.UserID, topicID: topic.ID, locked: topic.IsLocked}, nil
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return voteTarget{}, translateRepoError(err, "Post", id)
	}
	t := voteTarget{ownerID: post.UserID, topicID: post.TopicID}
	if post.Topic != nil {
		t.locked = post.Topic.IsLocked
	}
	return t, nil
}

// RecordVote toggles the caller's vote on a topic or post. Repeating a vote
// removes it; voting the other way replaces it.
func (s *VoteService) RecordVote(ctx context.Context, in RecordVoteInput) (state *models.VoteState, err error) {
	ctx, finish := observability.StartSpan(ctx, "forum.record_vote",
		attribute.String("vote.target", in.TargetType),
		attribute.Int64("vote.target_id", int64(in.TargetID)),
	)
	defer func() { finish(err) }()

	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	target, perr := models.ParseVoteTarget(in.TargetType)
	if perr != nil {
		return nil, models.NewValidationError("target_type must be topic or post")
	}
	direction, perr := models.ParseVoteDirection(in.Direction)
	if perr != nil {
		return nil, models.NewValidationError("direction must be up or down")
	}
	if target == models.VoteTargetPost && direction == models.VoteDown &&
		!s.flags.Enabled(featureflags.ForumPostDownvotes, in.UserID) {
		return nil, models.NewValidationError("Downvoting posts is disabled")
	}

	t, err := s.loadTarget(ctx, target, in.TargetID)
	if err != nil {
		return nil, err
	}
	if t.ownerID == in.UserID {
		return nil, models.NewValidationError("You cannot vote on your own content")
	}
	if t.locked {
		return nil, models.NewValidationError("Topic is locked")
	}

	result, err := s.votes.Toggle(ctx, in.UserID, target, in.TargetID, direction)
	if err != nil {
		return nil, translateRepoError(err, string(target), in.TargetID)
	}
	observability.ForumVotes.WithLabelValues(string(target), string(direction), string(result.Action)).Inc()

	publishEvent(ctx, s.events, models.ForumEvent{
		Type:    models.EventVoteUpdated,
		TopicID: t.topicID,
		Payload: models.VoteState{
			Target:    result.Target,
			TargetID:  result.TargetID,
			Upvotes:   result.Upvotes,
			Downvotes: result.Downvotes,
		},
	})
	return &result, nil
}

// VoteState reports a target's totals and the caller's current vote.
func (s *VoteService) VoteState(ctx context.Context, userID uint, targetType string, targetID uint) (*models.VoteState, error) {
	target, err := models.ParseVoteTarget(targetType)
	if err != nil {
		return nil, models.NewValidationError("target_type must be topic or post")
	}
	state, err := s.votes.State(ctx, userID, target, targetID)
	if err != nil {
		return nil, translateRepoError(err, string(target), targetID)
	}
	return &state, nil
}
