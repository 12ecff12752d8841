package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation types.
const (
	ConversationTypeDirect = "direct"
	ConversationTypeGroup  = "group"
)

// ConversationTypes lists the valid conversation type values.
var ConversationTypes = []string{ConversationTypeDirect, ConversationTypeGroup}

// Conversation represents a direct or group conversation.
type Conversation struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	Type         string         `gorm:"not null;index" json:"type"`
	Name         *string        `json:"name"`
	AvatarURL    *string        `json:"avatar_url"`
	CreatedBy    string         `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Participants []Profile      `gorm:"many2many:conversation_participants;" json:"participants,omitempty"`
	Messages     []Message      `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Conversation) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ConversationParticipant is the join table tracking membership in a conversation.
type ConversationParticipant struct {
	ConversationID string    `gorm:"type:uuid;primaryKey" json:"conversation_id"`
	ProfileID      string    `gorm:"type:uuid;primaryKey" json:"profile_id"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`
	LastReadAt     time.Time `json:"last_read_at"`
}

// Message represents a chat message in a conversation.
type Message struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID   string         `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Conversation     *Conversation  `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
	SenderID         string         `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender           *Profile       `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Content          string         `gorm:"type:text;not null" json:"content"`
	ReplyToMessageID *string        `gorm:"type:uuid" json:"reply_to_message_id"`
	Media            []Media        `gorm:"many2many:message_media;" json:"media,omitempty"`
	EditedAt         *time.Time     `json:"edited_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MessageMedia is the join table attaching media to messages in order.
type MessageMedia struct {
	MessageID string `gorm:"type:uuid;primaryKey" json:"message_id"`
	MediaID   string `gorm:"type:uuid;primaryKey" json:"media_id"`
	Position  int    `gorm:"not null;default:0" json:"position"`
}
