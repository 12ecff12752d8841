package repository

import (
	"context"

	"lineup/internal/models"

	"gorm.io/gorm"
)

// MetadataRepository defines the interface for metadata lookups.
type MetadataRepository interface {
	Create(ctx context.Context, metadata *models.Metadata) error
	ListByType(ctx context.Context, metadataType string) ([]models.Metadata, error)
	ListAll(ctx context.Context) ([]models.Metadata, error)
}

type metadataRepository struct {
	db *gorm.DB
}

// NewMetadataRepository creates a new metadata repository.
func NewMetadataRepository(db *gorm.DB) MetadataRepository {
	return &metadataRepository{db: db}
}

func (r *metadataRepository) Create(ctx context.Context, metadata *models.Metadata) error {
	return r.db.WithContext(ctx).Create(metadata).Error
}

func (r *metadataRepository) ListByType(ctx context.Context, metadataType string) ([]models.Metadata, error) {
	var rows []models.Metadata
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("type = ?", metadataType).
			Order("name ASC").
			Find(&rows).Error
	})
	return rows, err
}

func (r *metadataRepository) ListAll(ctx context.Context) ([]models.Metadata, error) {
	var rows []models.Metadata
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Order("type ASC, name ASC").
			Find(&rows).Error
	})
	return rows, err
}
