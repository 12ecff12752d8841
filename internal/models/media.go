package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media represents an uploaded media asset and its derived thumbnail.
type Media struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      string    `gorm:"type:uuid;not null;index" json:"owner_id"`
	URL          string    `gorm:"not null" json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Type         string    `gorm:"not null" json:"type"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (m *Media) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
