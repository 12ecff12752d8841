package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Metadata taxonomy types.
const (
	MetadataTypeTag    = "tag"
	MetadataTypeGenre  = "genre"
	MetadataTypeArtist = "artist"
)

// MetadataTypes lists the valid metadata type values.
var MetadataTypes = []string{MetadataTypeTag, MetadataTypeGenre, MetadataTypeArtist}

// Metadata is a read-only taxonomy entity (tags, genres, artists).
// CreatedAt is nullable: rows imported from the legacy store may lack it,
// and the API reports null rather than inventing a timestamp.
type Metadata struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	Type      string     `gorm:"not null;index" json:"type"`
	Name      string     `gorm:"not null" json:"name"`
	CreatedAt *time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (m *Metadata) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
