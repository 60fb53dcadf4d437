package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cinetheque/internal/cache"
	"cinetheque/internal/middleware"
	"cinetheque/internal/models"
	"cinetheque/internal/observability"
	"cinetheque/internal/pagination"
	"cinetheque/internal/repository"
	"cinetheque/internal/validation"
)

// slugAttempts bounds how often a colliding slug is regenerated.
const slugAttempts = 3

type ListTopicsInput struct {
	CategoryID    uint
	CategorySlug  string
	TagID         uint
	AuthorID      uint
	Search        string
	SortBy        string
	Order         string
	Page          int
	PerPage       int
	CurrentUserID uint
}

type GetTopicInput struct {
	ID            uint
	Slug          string
	CurrentUserID uint
}

type CreateTopicInput struct {
	UserID     uint
	CategoryID uint
	Title      string
	Content    string
	TagIDs     []uint
}

// UpdateTopicInput carries optional edits. Pinning, locking and status are
// reserved to admins.
type UpdateTopicInput struct {
	UserID   uint
	TopicID  uint
	Title    *string
	Content  *string
	TagIDs   *[]uint
	IsPinned *bool
	IsLocked *bool
	Status   *string
}

// ListTopics returns one page of topics. Unknown sort keys and orders fall
// back to last activity, newest first.
func (s *ForumService) ListTopics(ctx context.Context, in ListTopicsInput) (*Listing[models.ForumTopic], error) {
	categoryID := in.CategoryID
	if categoryID == 0 && in.CategorySlug != "" {
		category, err := s.refs.GetCategoryBySlug(ctx, in.CategorySlug)
		if err != nil {
			return nil, translateRepoError(err, "Category", in.CategorySlug)
		}
		categoryID = category.ID
	}

	sortBy := in.SortBy
	if !repository.IsTopicSort(sortBy) {
		sortBy = repository.DefaultTopicSort
	}

	req := pagination.NewRequest(in.Page, in.PerPage, pagination.ListPerPage)
	topics, total, err := s.topics.List(ctx, repository.TopicQuery{
		CategoryID: categoryID,
		TagID:      in.TagID,
		UserID:     in.AuthorID,
		Search:     strings.TrimSpace(in.Search),
		SortBy:     sortBy,
		Order:      in.Order,
		Offset:     req.Offset(),
		Limit:      req.Limit(),
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if in.CurrentUserID != 0 && len(topics) > 0 {
		ids := make([]uint, len(topics))
		for i := range topics {
			ids[i] = topics[i].ID
		}
		votes, err := s.votes.UserVotes(ctx, in.CurrentUserID, models.VoteTargetTopic, ids)
		if err != nil {
			logUserVotesFailure(ctx, in.CurrentUserID, models.VoteTargetTopic, err)
		}
		for i := range topics {
			topics[i].UserVote = votes[topics[i].ID]
		}
	}

	return newListing(topics, total, req), nil
}

// GetTopic loads a topic by ID or slug and counts the view.
func (s *ForumService) GetTopic(ctx context.Context, in GetTopicInput) (*models.ForumTopic, error) {
	var (
		topic *models.ForumTopic
		err   error
		key   interface{} = in.ID
	)
	switch {
	case in.ID != 0:
		topic, err = s.topics.GetByID(ctx, in.ID)
	case in.Slug != "":
		key = in.Slug
		topic, err = s.topics.GetBySlug(ctx, in.Slug)
	default:
		return nil, models.NewValidationError("Topic ID or slug is required")
	}
	if err != nil {
		return nil, translateRepoError(err, "Topic", key)
	}

	if err := s.topics.IncrementViewCount(ctx, topic.ID); err != nil {
		middleware.Logger.WarnContext(ctx, "topic view count update failed",
			slog.Uint64("topic_id", uint64(topic.ID)),
			slog.String("error", err.Error()),
		)
	} else {
		topic.ViewCount++
	}

	if in.CurrentUserID != 0 {
		votes, err := s.votes.UserVotes(ctx, in.CurrentUserID, models.VoteTargetTopic, []uint{topic.ID})
		if err != nil {
			logUserVotesFailure(ctx, in.CurrentUserID, models.VoteTargetTopic, err)
		}
		topic.UserVote = votes[topic.ID]
	}
	return topic, nil
}

func (s *ForumService) CreateTopic(ctx context.Context, in CreateTopicInput) (*models.ForumTopic, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validation.ValidateTopic(in.Title, in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.CategoryID == 0 {
		return nil, models.NewValidationError("Category is required")
	}

	category, err := s.refs.GetCategoryByID(ctx, in.CategoryID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewValidationError("Unknown category")
		}
		return nil, models.NewInternalError(err)
	}
	if !category.IsActive {
		return nil, models.NewValidationError("Category is not accepting topics")
	}

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	topic := &models.ForumTopic{
		Title:      title,
		Content:    in.Content,
		Slug:       validation.Slugify(title),
		CategoryID: category.ID,
		UserID:     in.UserID,
		Tags:       tags,
	}
	if validation.ValidateSlug(topic.Slug) != nil {
		topic.Slug = validation.UniqueSlug(title)
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		err = s.topics.Create(ctx, topic)
		if !errors.Is(err, repository.ErrConflict) {
			break
		}
		topic.ID = 0
		topic.Slug = validation.UniqueSlug(title)
	}
	if err != nil {
		return nil, translateRepoError(err, "Topic", topic.Slug)
	}
	observability.ForumContentCreated.WithLabelValues("topic").Inc()
	cache.Invalidate(ctx, cache.ForumCategoriesKey)

	created, err := s.topics.GetByID(ctx, topic.ID)
	if err != nil {
		return nil, translateRepoError(err, "Topic", topic.ID)
	}
	s.publish(ctx, models.EventTopicCreated, 0, created)
	return created, nil
}

func (s *ForumService) UpdateTopic(ctx context.Context, in UpdateTopicInput) (*models.ForumTopic, error) {
	topic, err := s.topics.GetByID(ctx, in.TopicID)
	if err != nil {
		return nil, translateRepoError(err, "Topic", in.TopicID)
	}
	if err := s.authorize(ctx, topic.UserID, in.UserID); err != nil {
		return nil, err
	}
	if in.IsPinned != nil || in.IsLocked != nil || in.Status != nil {
		if err := s.adminOnly(ctx, in.UserID); err != nil {
			return nil, err
		}
	}

	title, content := topic.Title, topic.Content
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		content = *in.Content
	}
	if err := validation.ValidateTopic(title, content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	topic.Title, topic.Content = title, content

	if in.IsPinned != nil {
		topic.IsPinned = *in.IsPinned
	}
	if in.IsLocked != nil {
		topic.IsLocked = *in.IsLocked
	}
	if in.Status != nil {
		switch *in.Status {
		case models.TopicStatusOpen, models.TopicStatusClosed, models.TopicStatusArchived:
			topic.Status = *in.Status
		default:
			return nil, models.NewValidationError("Invalid status")
		}
	}

	var tags []models.ForumTag
	if in.TagIDs != nil {
		if tags, err = s.resolveTags(ctx, *in.TagIDs); err != nil {
			return nil, err
		}
	}

	if err := s.topics.Update(ctx, topic, tags, in.TagIDs != nil); err != nil {
		return nil, translateRepoError(err, "Topic", topic.ID)
	}
	return topic, nil
}

func (s *ForumService) DeleteTopic(ctx context.Context, userID, topicID uint) error {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return translateRepoError(err, "Topic", topicID)
	}
	if err := s.authorize(ctx, topic.UserID, userID); err != nil {
		return err
	}
	if err := s.topics.Delete(ctx, topic); err != nil {
		return translateRepoError(err, "Topic", topicID)
	}
	cache.Invalidate(ctx, cache.ForumCategoriesKey)
	return nil
}
