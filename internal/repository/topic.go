package repository

import (
	"context"
	"errors"
	"time"

	"cinetheque/internal/models"

	"gorm.io/gorm"
)

// ErrTopicLocked is returned when content is written under a locked topic.
var ErrTopicLocked = errors.New("topic is locked")

// DefaultTopicSort is the sort applied when none (or an unknown one) is requested.
const DefaultTopicSort = "lastPostAt"

// topicSortColumns whitelists the sortable topic columns by their API name.
var topicSortColumns = map[string]string{
	"lastPostAt": "forum_topics.last_post_at",
	"createdAt":  "forum_topics.created_at",
	"viewCount":  "forum_topics.view_count",
	"title":      "forum_topics.title",
	"postCount":  "forum_topics.post_count",
	"upvotes":    "forum_topics.upvote_count",
}

// IsTopicSort reports whether sortBy names a sortable topic column.
func IsTopicSort(sortBy string) bool {
	_, ok := topicSortColumns[sortBy]
	return ok
}

// TopicQuery filters, sorts and pages a topic listing.
type TopicQuery struct {
	CategoryID uint
	TagID      uint
	UserID     uint
	Search     string
	SortBy     string
	Order      string
	Offset     int
	Limit      int
}

// TopicRepository defines persistence operations for forum topics.
type TopicRepository interface {
	List(ctx context.Context, q TopicQuery) ([]models.ForumTopic, int64, error)
	GetByID(ctx context.Context, id uint) (*models.ForumTopic, error)
	GetBySlug(ctx context.Context, slug string) (*models.ForumTopic, error)
	IncrementViewCount(ctx context.Context, id uint) error
	Create(ctx context.Context, topic *models.ForumTopic) error
	Update(ctx context.Context, topic *models.ForumTopic, tags []models.ForumTag, replaceTags bool) error
	Delete(ctx context.Context, topic *models.ForumTopic) error
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository returns a new TopicRepository implementation.
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) filtered(ctx context.Context, q TopicQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.ForumTopic{})
	if q.CategoryID != 0 {
		db = db.Where("forum_topics.category_id = ?", q.CategoryID)
	}
	if q.UserID != 0 {
		db = db.Where("forum_topics.user_id = ?", q.UserID)
	}
	if q.TagID != 0 {
		db = db.Where("forum_topics.id IN (SELECT forum_topic_id FROM forum_topic_tags WHERE forum_tag_id = ?)", q.TagID)
	}
	if q.Search != "" {
		db = db.Where(`LOWER(forum_topics.title) LIKE ? ESCAPE '\'`, likePattern(q.Search))
	}
	return db
}

// List returns one page of topics plus the unpaged total. Pinned topics come first.
func (r *topicRepository) List(ctx context.Context, q TopicQuery) ([]models.ForumTopic, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := topicSortColumns[q.SortBy]
	if !ok {
		column = topicSortColumns[DefaultTopicSort]
	}

	var topics []models.ForumTopic
	err := r.filtered(ctx, q).
		Preload("User").
		Preload("Category").
		Preload("Tags").
		Order("forum_topics.is_pinned DESC").
		Order(column + " " + orderDirection(q.Order, "DESC")).
		Order("forum_topics.id DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&topics).Error
	if err != nil {
		return nil, 0, err
	}
	return topics, total, nil
}

func (r *topicRepository) GetByID(ctx context.Context, id uint) (*models.ForumTopic, error) {
	var topic models.ForumTopic
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Category").
		Preload("Tags").
		First(&topic, id).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) GetBySlug(ctx context.Context, slug string) (*models.ForumTopic, error) {
	var topic models.ForumTopic
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Category").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.ForumTopic{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// Create inserts the topic with its tags and refreshes the category counters
// in one transaction. The new topic's last_post_at is its own creation time.
func (r *topicRepository) Create(ctx context.Context, topic *models.ForumTopic) error {
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = time.Now().UTC()
	}
	topic.LastPostAt = topic.CreatedAt
	if topic.Status == "" {
		topic.Status = models.TopicStatusOpen
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags.*").Create(topic).Error; err != nil {
			return wrapWriteError(err, "topic")
		}
		return RecomputeCategoryCounters(tx, topic.CategoryID)
	})
}

// Update writes the editable fields. When replaceTags is set the tag set is
// replaced by tags (possibly empty).
func (r *topicRepository) Update(ctx context.Context, topic *models.ForumTopic, tags []models.ForumTag, replaceTags bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(topic).
			Select("title", "content", "is_pinned", "is_locked", "status").
			Updates(topic).Error
		if err != nil {
			return wrapWriteError(err, "topic")
		}
		if !replaceTags {
			return nil
		}
		if err := tx.Model(topic).Association("Tags").Replace(tags); err != nil {
			return err
		}
		topic.Tags = tags
		return nil
	})
}

// Delete removes the topic together with its posts, replies, votes and tag
// links, then refreshes the category counters.
func (r *topicRepository) Delete(ctx context.Context, topic *models.ForumTopic) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&models.ForumPost{}).Select("id").Where("topic_id = ?", topic.ID)

		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.ForumReply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.UpvoteForumPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.DownvoteForumPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("topic_id = ?", topic.ID).Delete(&models.ForumPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("topic_id = ?", topic.ID).Delete(&models.UpvoteForumTopic{}).Error; err != nil {
			return err
		}
		if err := tx.Where("topic_id = ?", topic.ID).Delete(&models.DownvoteForumTopic{}).Error; err != nil {
			return err
		}
		if err := tx.Model(topic).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&models.ForumTopic{}, topic.ID).Error; err != nil {
			return err
		}
		return RecomputeCategoryCounters(tx, topic.CategoryID)
	})
}
