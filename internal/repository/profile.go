package repository

import (
	"context"
	"errors"

	"lineup/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).First(&profile, "email = ?", email).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).First(&profile, "username = ?", username).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UsernameExists performs a single bounded existence query; the username is
// always passed as a bind parameter, never interpolated.
func (r *profileRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&models.Profile{}).
			Where("username = ?", username).
			Count(&count).Error
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&profiles).Error
	})
	return profiles, err
}
