package repository

import (
	"context"

	"lineup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark data operations.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, userID, postID string) error
	Get(ctx context.Context, userID, postID string) (*models.Bookmark, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Bookmark, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Create is idempotent: bookmarking an already-bookmarked post is a no-op.
func (r *bookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(bookmark).Error
}

func (r *bookmarkRepository) Delete(ctx context.Context, userID, postID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Bookmark{}).Error
}

func (r *bookmarkRepository) Get(ctx context.Context, userID, postID string) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Preload("Post").
			First(&bookmark, "user_id = ? AND post_id = ?", userID, postID).Error
	})
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Preload("Post").
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&bookmarks).Error
	})
	return bookmarks, err
}
