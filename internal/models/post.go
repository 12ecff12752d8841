package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a user post in the feed.
type Post struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Author    *Profile       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	MediaID   *string        `gorm:"type:uuid" json:"media_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Bookmark marks a post as saved by a user. The owner is always the
// authenticated identity, never a client-supplied value.
type Bookmark struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	PostID    string    `gorm:"type:uuid;primaryKey" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
