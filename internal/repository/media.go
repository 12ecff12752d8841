package repository

import (
	"context"

	"lineup/internal/models"

	"gorm.io/gorm"
)

// MediaRepository defines the interface for media data operations.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id string) (*models.Media, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Media, error)
	Delete(ctx context.Context, id string) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	var media models.Media
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).First(&media, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Media
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	})
	return rows, err
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Media{}, "id = ?", id).Error
}
