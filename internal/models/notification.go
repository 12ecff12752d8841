package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification represents an in-app notification for a user.
type Notification struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID string    `gorm:"type:uuid;not null;index" json:"recipient_id"`
	ActorID     *string   `gorm:"type:uuid" json:"actor_id"`
	Type        string    `gorm:"not null" json:"type"`
	Message     string    `json:"message"`
	TargetID    *string   `json:"target_id"`
	TargetType  *string   `json:"target_type"`
	IsRead      bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
