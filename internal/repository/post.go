package repository

import (
	"context"

	"lineup/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	})
	return posts, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("author_id = ?", authorID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	})
	return posts, err
}
