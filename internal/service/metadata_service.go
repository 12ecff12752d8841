package service

import (
	"context"

	"lineup/internal/cache"
	"lineup/internal/models"
	"lineup/internal/repository"
)

// MetadataService serves the near-static tag, genre and artist lookups.
type MetadataService struct {
	metadataRepo repository.MetadataRepository
}

// NewMetadataService returns a new MetadataService.
func NewMetadataService(metadataRepo repository.MetadataRepository) *MetadataService {
	return &MetadataService{metadataRepo: metadataRepo}
}

// ListByType returns all metadata rows of the given type.
func (s *MetadataService) ListByType(ctx context.Context, metadataType string) ([]models.Metadata, error) {
	valid := false
	for _, t := range models.MetadataTypes {
		if t == metadataType {
			valid = true
			break
		}
	}
	if !valid {
		return nil, models.NewValidationError("Unknown metadata type")
	}

	var rows []models.Metadata
	err := cache.Aside(ctx, cache.MetadataKey(metadataType), &rows, cache.MetadataTTL, func() error {
		fetched, err := s.metadataRepo.ListByType(ctx, metadataType)
		if err != nil {
			return err
		}
		rows = fetched
		return nil
	})
	return rows, err
}

// ListAll returns every metadata row grouped by type ordering.
func (s *MetadataService) ListAll(ctx context.Context) ([]models.Metadata, error) {
	var rows []models.Metadata
	err := cache.Aside(ctx, cache.MetadataAllKey, &rows, cache.MetadataTTL, func() error {
		fetched, err := s.metadataRepo.ListAll(ctx)
		if err != nil {
			return err
		}
		rows = fetched
		return nil
	})
	return rows, err
}
