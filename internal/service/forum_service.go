package service

import (
	"context"
	"log/slog"
	"strings"

	"cinetheque/internal/cache"
	"cinetheque/internal/middleware"
	"cinetheque/internal/models"
	"cinetheque/internal/repository"
	"cinetheque/internal/validation"
)

// EventPublisher delivers forum events to realtime subscribers.
type EventPublisher interface {
	PublishForumEvent(ctx context.Context, event models.ForumEvent) error
}

// ForumService serves forum categories, tags, topics, posts and replies.
type ForumService struct {
	refs    repository.ForumReferenceRepository
	topics  repository.TopicRepository
	posts   repository.PostRepository
	votes   repository.VoteRepository
	isAdmin func(ctx context.Context, userID uint) (bool, error)
	events  EventPublisher
}

type CategoryInput struct {
	Name        string
	Description string
	Slug        string
	SortOrder   int
	IsActive    *bool
}

type TagInput struct {
	Name        string
	Description string
	Color       string
}

func NewForumService(
	refs repository.ForumReferenceRepository,
	topics repository.TopicRepository,
	posts repository.PostRepository,
	votes repository.VoteRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
	events EventPublisher,
) *ForumService {
	return &ForumService{
		refs:    refs,
		topics:  topics,
		posts:   posts,
		votes:   votes,
		isAdmin: isAdmin,
		events:  events,
	}
}

// ListCategories returns the active categories in display order.
func (s *ForumService) ListCategories(ctx context.Context) ([]models.ForumCategory, error) {
	var categories []models.ForumCategory
	err := cache.Aside(ctx, cache.ForumCategoriesKey, &categories, cache.ReferenceTTL, func() error {
		var fetchErr error
		categories, fetchErr = s.refs.ListCategories(ctx, false)
		return fetchErr
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

// ListAllCategories includes inactive categories and bypasses the cache.
func (s *ForumService) ListAllCategories(ctx context.Context) ([]models.ForumCategory, error) {
	categories, err := s.refs.ListCategories(ctx, true)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (s *ForumService) GetCategory(ctx context.Context, slug string) (*models.ForumCategory, error) {
	category, err := s.refs.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, translateRepoError(err, "Category", slug)
	}
	return category, nil
}

func (s *ForumService) CreateCategory(ctx context.Context, in CategoryInput) (*models.ForumCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(name) > 100 {
		return nil, models.NewValidationError("Name too long (max 100 characters)")
	}
	slug := in.Slug
	if slug == "" {
		slug = validation.Slugify(name)
	}
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	category := &models.ForumCategory{
		Name:        name,
		Description: in.Description,
		Slug:        slug,
		SortOrder:   in.SortOrder,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.refs.CreateCategory(ctx, category); err != nil {
		return nil, translateRepoError(err, "Category", slug)
	}
	cache.InvalidateForumReference(ctx)
	return category, nil
}

func (s *ForumService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.ForumCategory, error) {
	category, err := s.refs.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Category", id)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if len(name) > 100 {
			return nil, models.NewValidationError("Name too long (max 100 characters)")
		}
		category.Name = name
	}
	if in.Slug != "" {
		if err := validation.ValidateSlug(in.Slug); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		category.Slug = in.Slug
	}
	if in.Description != "" {
		category.Description = in.Description
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	category.SortOrder = in.SortOrder

	if err := s.refs.UpdateCategory(ctx, category); err != nil {
		return nil, translateRepoError(err, "Category", id)
	}
	cache.InvalidateForumReference(ctx)
	return category, nil
}

func (s *ForumService) ListTags(ctx context.Context) ([]models.ForumTag, error) {
	var tags []models.ForumTag
	err := cache.Aside(ctx, cache.ForumTagsKey, &tags, cache.ReferenceTTL, func() error {
		var fetchErr error
		tags, fetchErr = s.refs.ListTags(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (s *ForumService) CreateTag(ctx context.Context, in TagInput) (*models.ForumTag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(name) > 50 {
		return nil, models.NewValidationError("Name too long (max 50 characters)")
	}
	if err := validation.ValidateHexColor(in.Color); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	tag := &models.ForumTag{Name: name, Description: in.Description, Color: in.Color}
	if err := s.refs.CreateTag(ctx, tag); err != nil {
		return nil, translateRepoError(err, "Tag", name)
	}
	cache.InvalidateForumReference(ctx)
	return tag, nil
}

// resolveTags loads the requested tags, rejecting unknown IDs.
func (s *ForumService) resolveTags(ctx context.Context, ids []uint) ([]models.ForumTag, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > validation.MaxTagsPerTopic {
		return nil, models.NewValidationError("Too many tags (max 5)")
	}
	tags, err := s.refs.GetTagsByIDs(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(tags) != len(ids) {
		return nil, models.NewValidationError("Unknown tag")
	}
	return tags, nil
}

// authorize allows the content owner and admins.
func (s *ForumService) authorize(ctx context.Context, ownerID, userID uint) error {
	if userID != 0 && ownerID == userID {
		return nil
	}
	if s.isAdmin != nil && userID != 0 {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return models.NewInternalError(err)
		}
		if admin {
			return nil
		}
	}
	return models.NewForbiddenError("Not authorized to modify this content")
}

func (s *ForumService) adminOnly(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewForbiddenError("Admin access required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !admin {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}

// publish hands an event to the realtime layer. Delivery is best-effort.
func (s *ForumService) publish(ctx context.Context, eventType string, topicID uint, payload interface{}) {
	publishEvent(ctx, s.events, models.ForumEvent{Type: eventType, TopicID: topicID, Payload: payload})
}

func publishEvent(ctx context.Context, events EventPublisher, event models.ForumEvent) {
	if events == nil {
		return
	}
	if err := events.PublishForumEvent(ctx, event); err != nil {
		middleware.Logger.WarnContext(ctx, "forum event publish failed",
			slog.String("type", event.Type),
			slog.Uint64("topic_id", uint64(event.TopicID)),
			slog.String("error", err.Error()),
		)
	}
}

// logUserVotesFailure records a failed vote lookup. The listing is still
// served, without the caller's votes.
func logUserVotesFailure(ctx context.Context, userID uint, target models.VoteTarget, err error) {
	middleware.Logger.WarnContext(ctx, "user vote lookup failed",
		slog.Uint64("user_id", uint64(userID)),
		slog.String("target_type", string(target)),
		slog.String("error", err.Error()),
	)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
