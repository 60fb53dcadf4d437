package repository

import (
	"context"

	"cinetheque/internal/models"

	"gorm.io/gorm"
)

// ForumReferenceRepository stores forum categories and tags.
type ForumReferenceRepository interface {
	ListCategories(ctx context.Context, includeInactive bool) ([]models.ForumCategory, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.ForumCategory, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.ForumCategory, error)
	CreateCategory(ctx context.Context, category *models.ForumCategory) error
	UpdateCategory(ctx context.Context, category *models.ForumCategory) error
	ListTags(ctx context.Context) ([]models.ForumTag, error)
	GetTagsByIDs(ctx context.Context, ids []uint) ([]models.ForumTag, error)
	CreateTag(ctx context.Context, tag *models.ForumTag) error
}

type forumReferenceRepository struct {
	db *gorm.DB
}

// NewForumReferenceRepository returns a new ForumReferenceRepository implementation.
func NewForumReferenceRepository(db *gorm.DB) ForumReferenceRepository {
	return &forumReferenceRepository{db: db}
}

func (r *forumReferenceRepository) ListCategories(ctx context.Context, includeInactive bool) ([]models.ForumCategory, error) {
	var categories []models.ForumCategory
	q := r.db.WithContext(ctx).Order("sort_order ASC").Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *forumReferenceRepository) GetCategoryByID(ctx context.Context, id uint) (*models.ForumCategory, error) {
	var category models.ForumCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *forumReferenceRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.ForumCategory, error) {
	var category models.ForumCategory
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *forumReferenceRepository) CreateCategory(ctx context.Context, category *models.ForumCategory) error {
	return wrapWriteError(r.db.WithContext(ctx).Create(category).Error, "category")
}

// UpdateCategory writes the editable fields only; counters belong to the recompute path.
func (r *forumReferenceRepository) UpdateCategory(ctx context.Context, category *models.ForumCategory) error {
	err := r.db.WithContext(ctx).Model(category).
		Select("name", "description", "slug", "sort_order", "is_active").
		Updates(category).Error
	return wrapWriteError(err, "category")
}

func (r *forumReferenceRepository) ListTags(ctx context.Context) ([]models.ForumTag, error) {
	var tags []models.ForumTag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *forumReferenceRepository) GetTagsByIDs(ctx context.Context, ids []uint) ([]models.ForumTag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.ForumTag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *forumReferenceRepository) CreateTag(ctx context.Context, tag *models.ForumTag) error {
	return wrapWriteError(r.db.WithContext(ctx).Create(tag).Error, "tag")
}
