package repository

import (
	"context"

	"lineup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository defines the interface for conversation and message data operations.
type ChatRepository interface {
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	UpdateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	GetUserConversations(ctx context.Context, profileID string) ([]*models.Conversation, error)
	FindDirectConversation(ctx context.Context, profileID, otherProfileID string) (*models.Conversation, error)
	AddParticipant(ctx context.Context, convID, profileID string) error
	CreateMessage(ctx context.Context, msg *models.Message, mediaIDs []string) error
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	UpdateMessage(ctx context.Context, msg *models.Message) error
	GetMessages(ctx context.Context, convID string, limit, offset int) ([]*models.Message, error)
	UpdateLastRead(ctx context.Context, convID, profileID string) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *chatRepository) UpdateConversation(ctx context.Context, conv *models.Conversation) error {
	return r.db.WithContext(ctx).Save(conv).Error
}

func (r *chatRepository) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Preload("Participants").
			Preload("Messages", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC").Limit(50)
			}).
			Preload("Messages.Media").
			First(&conv, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	// Fetched DESC to get the latest window, but clients expect chronological order.
	for i, j := 0, len(conv.Messages)-1; i < j; i, j = i+1, j-1 {
		conv.Messages[i], conv.Messages[j] = conv.Messages[j], conv.Messages[i]
	}

	return &conv, nil
}

func (r *chatRepository) GetUserConversations(ctx context.Context, profileID string) ([]*models.Conversation, error) {
	var conversations []*models.Conversation
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Joins("JOIN conversation_participants cp ON conversations.id = cp.conversation_id").
			Where("cp.profile_id = ?", profileID).
			Preload("Participants").
			Preload("Messages", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC").Limit(1)
			}).
			Order("conversations.updated_at DESC").
			Find(&conversations).Error
	})
	return conversations, err
}

// FindDirectConversation returns the most recent direct conversation whose
// participant set is exactly {profileID, otherProfileID}, or ErrRecordNotFound.
func (r *chatRepository) FindDirectConversation(ctx context.Context, profileID, otherProfileID string) (*models.Conversation, error) {
	var existing models.Conversation
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Model(&models.Conversation{}).
			Joins(
				"JOIN conversation_participants cp_self ON cp_self.conversation_id = conversations.id AND cp_self.profile_id = ?",
				profileID,
			).
			Joins(
				"JOIN conversation_participants cp_other ON cp_other.conversation_id = conversations.id AND cp_other.profile_id = ?",
				otherProfileID,
			).
			Where("conversations.type = ?", models.ConversationTypeDirect).
			Where(
				"NOT EXISTS (SELECT 1 FROM conversation_participants cp_extra WHERE cp_extra.conversation_id = conversations.id AND cp_extra.profile_id NOT IN (?, ?))",
				profileID,
				otherProfileID,
			).
			Order("conversations.updated_at DESC").
			First(&existing).Error
	})
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *chatRepository) AddParticipant(ctx context.Context, convID, profileID string) error {
	participant := models.ConversationParticipant{
		ConversationID: convID,
		ProfileID:      profileID,
	}
	// OnConflict keeps participant insertion idempotent.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error
}

// CreateMessage persists the message and its ordered media attachments in one
// transaction.
func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message, mediaIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Media").Create(msg).Error; err != nil {
			return err
		}
		for i, mediaID := range mediaIDs {
			link := models.MessageMedia{
				MessageID: msg.ID,
				MediaID:   mediaID,
				Position:  i,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		// Bump the conversation so it sorts to the top of the inbox.
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", tx.NowFunc()).Error
	})
}

func (r *chatRepository) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	var msg models.Message
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Preload("Media", func(db *gorm.DB) *gorm.DB {
				return db.Order("message_media.position ASC")
			}).
			First(&msg, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatRepository) UpdateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", msg.ID).
		Updates(map[string]interface{}{
			"content":   msg.Content,
			"edited_at": msg.EditedAt,
		}).Error
}

func (r *chatRepository) GetMessages(ctx context.Context, convID string, limit, offset int) ([]*models.Message, error) {
	var messages []*models.Message
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("conversation_id = ?", convID).
			Preload("Media", func(db *gorm.DB) *gorm.DB {
				return db.Order("message_media.position ASC")
			}).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&messages).Error
	})
	if err != nil {
		return nil, err
	}

	// Fetched DESC to get the latest page, but clients expect chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *chatRepository) UpdateLastRead(ctx context.Context, convID, profileID string) error {
	return r.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND profile_id = ?", convID, profileID).
		Update("last_read_at", r.db.NowFunc()).Error
}
