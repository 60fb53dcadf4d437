package repository

import (
	"context"

	"cinetheque/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for forum posts and their replies.
type PostRepository interface {
	ListByTopic(ctx context.Context, topicID uint, offset, limit int) ([]models.ForumPost, int64, error)
	GetByID(ctx context.Context, id uint) (*models.ForumPost, error)
	Create(ctx context.Context, post *models.ForumPost) error
	Update(ctx context.Context, post *models.ForumPost) error
	Delete(ctx context.Context, post *models.ForumPost) error

	ListReplies(ctx context.Context, postID uint, offset, limit int) ([]models.ForumReply, int64, error)
	GetReplyByID(ctx context.Context, id uint) (*models.ForumReply, error)
	CreateReply(ctx context.Context, reply *models.ForumReply) error
	DeleteReply(ctx context.Context, reply *models.ForumReply) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// ListByTopic returns a topic's posts oldest first.
func (r *postRepository) ListByTopic(ctx context.Context, topicID uint, offset, limit int) ([]models.ForumPost, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ForumPost{}).Where("topic_id = ?", topicID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.ForumPost
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("topic_id = ?", topicID).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.ForumPost, error) {
	var post models.ForumPost
	if err := r.db.WithContext(ctx).Preload("User").Preload("Topic").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// lockedTopic loads the topic inside tx and rejects locked ones.
func lockedTopic(tx *gorm.DB, topicID uint) (*models.ForumTopic, error) {
	var topic models.ForumTopic
	if err := tx.Select("id", "category_id", "is_locked").First(&topic, topicID).Error; err != nil {
		return nil, err
	}
	if topic.IsLocked {
		return nil, ErrTopicLocked
	}
	return &topic, nil
}

// Create inserts the post and refreshes the topic and category counters
// (post counts and last_post_at) in one transaction.
func (r *postRepository) Create(ctx context.Context, post *models.ForumPost) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		topic, err := lockedTopic(tx, post.TopicID)
		if err != nil {
			return err
		}
		if err := tx.Omit("Topic", "User").Create(post).Error; err != nil {
			return wrapWriteError(err, "post")
		}
		if err := RecomputeTopicCounters(tx, topic.ID); err != nil {
			return err
		}
		return RecomputeCategoryCounters(tx, topic.CategoryID)
	})
}

func (r *postRepository) Update(ctx context.Context, post *models.ForumPost) error {
	return r.db.WithContext(ctx).Model(post).Select("content", "is_edited").Updates(post).Error
}

// Delete removes the post with its replies and votes and refreshes the
// topic and category counters.
func (r *postRepository) Delete(ctx context.Context, post *models.ForumPost) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.ForumTopic
		if err := tx.Select("id", "category_id").First(&topic, post.TopicID).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.ForumReply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.UpvoteForumPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.DownvoteForumPost{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ForumPost{}, post.ID).Error; err != nil {
			return err
		}
		if err := RecomputeTopicCounters(tx, topic.ID); err != nil {
			return err
		}
		return RecomputeCategoryCounters(tx, topic.CategoryID)
	})
}

// ListReplies returns a post's replies oldest first.
func (r *postRepository) ListReplies(ctx context.Context, postID uint, offset, limit int) ([]models.ForumReply, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ForumReply{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var replies []models.ForumReply
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&replies).Error
	if err != nil {
		return nil, 0, err
	}
	return replies, total, nil
}

func (r *postRepository) GetReplyByID(ctx context.Context, id uint) (*models.ForumReply, error) {
	var reply models.ForumReply
	if err := r.db.WithContext(ctx).Preload("User").Preload("Post").First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

// CreateReply inserts the reply and refreshes the parent post's reply count.
func (r *postRepository) CreateReply(ctx context.Context, reply *models.ForumReply) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.ForumPost
		if err := tx.Select("id", "topic_id").First(&post, reply.PostID).Error; err != nil {
			return err
		}
		if _, err := lockedTopic(tx, post.TopicID); err != nil {
			return err
		}
		if err := tx.Omit("Post", "User").Create(reply).Error; err != nil {
			return err
		}
		return RecomputePostCounters(tx, post.ID)
	})
}

func (r *postRepository) DeleteReply(ctx context.Context, reply *models.ForumReply) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ForumReply{}, reply.ID).Error; err != nil {
			return err
		}
		return RecomputePostCounters(tx, reply.PostID)
	})
}
