package service

import (
	"context"

	"cinetheque/internal/cache"
	"cinetheque/internal/models"
	"cinetheque/internal/observability"
	"cinetheque/internal/pagination"
	"cinetheque/internal/validation"
)

type ListPostsInput struct {
	TopicID       uint
	Page          int
	PerPage       int
	CurrentUserID uint
}

type CreatePostInput struct {
	UserID  uint
	TopicID uint
	Content string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type ListRepliesInput struct {
	PostID  uint
	Page    int
	PerPage int
}

type CreateReplyInput struct {
	UserID  uint
	PostID  uint
	Content string
}

// ListPosts returns a topic's posts oldest first, annotated with the caller's votes.
func (s *ForumService) ListPosts(ctx context.Context, in ListPostsInput) (*Listing[models.ForumPost], error) {
	if _, err := s.topics.GetByID(ctx, in.TopicID); err != nil {
		return nil, translateRepoError(err, "Topic", in.TopicID)
	}

	req := pagination.NewRequest(in.Page, in.PerPage, pagination.ListPerPage)
	posts, total, err := s.posts.ListByTopic(ctx, in.TopicID, req.Offset(), req.Limit())
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if in.CurrentUserID != 0 && len(posts) > 0 {
		ids := make([]uint, len(posts))
		for i := range posts {
			ids[i] = posts[i].ID
		}
		votes, err := s.votes.UserVotes(ctx, in.CurrentUserID, models.VoteTargetPost, ids)
		if err != nil {
			logUserVotesFailure(ctx, in.CurrentUserID, models.VoteTargetPost, err)
		}
		for i := range posts {
			posts[i].UserVote = votes[posts[i].ID]
		}
	}

	return newListing(posts, total, req), nil
}

func (s *ForumService) CreatePost(ctx context.Context, in CreatePostInput) (*models.ForumPost, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validation.ValidateContent(in.Content, validation.MaxContentLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	topic, err := s.topics.GetByID(ctx, in.TopicID)
	if err != nil {
		return nil, translateRepoError(err, "Topic", in.TopicID)
	}
	if topic.IsLocked {
		return nil, models.NewValidationError("Topic is locked")
	}

	post := &models.ForumPost{
		Content: in.Content,
		Slug:    validation.UniqueSlug(topic.Title),
		TopicID: topic.ID,
		UserID:  in.UserID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, translateRepoError(err, "Topic", topic.ID)
	}
	observability.ForumContentCreated.WithLabelValues("post").Inc()
	cache.Invalidate(ctx, cache.ForumCategoriesKey)

	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, translateRepoError(err, "Post", post.ID)
	}
	s.publish(ctx, models.EventPostCreated, topic.ID, created)
	return created, nil
}

// UpdatePost rewrites a post's content and marks it edited.
func (s *ForumService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.ForumPost, error) {
	if err := validation.ValidateContent(in.Content, validation.MaxContentLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, translateRepoError(err, "Post", in.PostID)
	}
	if err := s.authorize(ctx, post.UserID, in.UserID); err != nil {
		return nil, err
	}
	if post.Topic != nil && post.Topic.IsLocked {
		return nil, models.NewValidationError("Topic is locked")
	}

	post.Content = in.Content
	post.IsEdited = true
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, translateRepoError(err, "Post", post.ID)
	}
	return post, nil
}

func (s *ForumService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return translateRepoError(err, "Post", postID)
	}
	if err := s.authorize(ctx, post.UserID, userID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post); err != nil {
		return translateRepoError(err, "Post", postID)
	}
	cache.Invalidate(ctx, cache.ForumCategoriesKey)
	return nil
}

// ListReplies returns a post's replies oldest first.
func (s *ForumService) ListReplies(ctx context.Context, in ListRepliesInput) (*Listing[models.ForumReply], error) {
	if _, err := s.posts.GetByID(ctx, in.PostID); err != nil {
		return nil, translateRepoError(err, "Post", in.PostID)
	}
	req := pagination.NewRequest(in.Page, in.PerPage, pagination.ListPerPage)
	replies, total, err := s.posts.ListReplies(ctx, in.PostID, req.Offset(), req.Limit())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return newListing(replies, total, req), nil
}

func (s *ForumService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.ForumReply, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validation.ValidateContent(in.Content, validation.MaxReplyLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, translateRepoError(err, "Post", in.PostID)
	}

	reply := &models.ForumReply{
		Content: in.Content,
		PostID:  post.ID,
		UserID:  in.UserID,
	}
	if err := s.posts.CreateReply(ctx, reply); err != nil {
		return nil, translateRepoError(err, "Post", post.ID)
	}
	observability.ForumContentCreated.WithLabelValues("reply").Inc()

	created, err := s.posts.GetReplyByID(ctx, reply.ID)
	if err != nil {
		return nil, translateRepoError(err, "Reply", reply.ID)
	}
	s.publish(ctx, models.EventReplyCreated, post.TopicID, created)
	return created, nil
}

func (s *ForumService) DeleteReply(ctx context.Context, userID, replyID uint) error {
	reply, err := s.posts.GetReplyByID(ctx, replyID)
	if err != nil {
		return translateRepoError(err, "Reply", replyID)
	}
	if err := s.authorize(ctx, reply.UserID, userID); err != nil {
		return err
	}
	if err := s.posts.DeleteReply(ctx, reply); err != nil {
		return translateRepoError(err, "Reply", replyID)
	}
	return nil
}
