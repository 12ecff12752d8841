// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile represents a lineUp user profile.
type Profile struct {
	ID                  string         `gorm:"type:uuid;primaryKey" json:"id"`
	Username            string         `gorm:"unique;not null" json:"username"`
	Email               string         `gorm:"unique;not null" json:"email"`
	Password            string         `gorm:"not null" json:"-"`
	FirstName           *string        `json:"first_name"`
	LastName            *string        `json:"last_name"`
	Location            *string        `json:"location"`
	UserType            string         `gorm:"default:'member'" json:"user_type"`
	PhoneCountryCode    *string        `json:"phone_country_code"`
	PhoneNumber         *string        `json:"phone_number"`
	YearOfBirth         *int           `json:"year_of_birth"`
	OnboardingCompleted bool           `gorm:"default:false" json:"onboarding_completed"`
	AvatarURL           *string        `json:"avatar_url"`
	Bio                 *string        `json:"bio"`
	AboutMe             *string        `json:"about_me"`
	ThemeColor          *string        `json:"theme_color"`
	SpotifyPlaylistURL  *string        `json:"spotify_playlist_url"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
