package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lineup/internal/cache"
	"lineup/internal/models"
	"lineup/internal/observability"
	"lineup/internal/repository"

	"gorm.io/gorm"
)

// EventPublisher pushes realtime events to conversation subscribers. A nil
// publisher disables fan-out without affecting persistence.
type EventPublisher interface {
	PublishConversation(ctx context.Context, conversationID string, payload []byte) error
}

// ChatService provides conversation and message business logic.
type ChatService struct {
	chatRepo            repository.ChatRepository
	profileRepo         repository.ProfileRepository
	mediaRepo           repository.MediaRepository
	notificationService *NotificationService
	publisher           EventPublisher
}

// CreateConversationInput is the input for creating a conversation.
type CreateConversationInput struct {
	CreatorID      string
	Type           string
	Name           *string
	AvatarURL      *string
	ParticipantIDs []string
}

// SendMessageInput is the input for sending a message.
type SendMessageInput struct {
	SenderID         string
	ConversationID   string
	Content          string
	MediaIDs         []string
	ReplyToMessageID *string
}

// NewChatService returns a new ChatService.
func NewChatService(
	chatRepo repository.ChatRepository,
	profileRepo repository.ProfileRepository,
	mediaRepo repository.MediaRepository,
	notificationService *NotificationService,
	publisher EventPublisher,
) *ChatService {
	return &ChatService{
		chatRepo:            chatRepo,
		profileRepo:         profileRepo,
		mediaRepo:           mediaRepo,
		notificationService: notificationService,
		publisher:           publisher,
	}
}

// CreateConversation creates a direct or group conversation. The creator is
// always a participant. A direct conversation holds exactly two distinct
// participants; creating a second direct conversation with the same pair
// returns the existing one.
func (s *ChatService) CreateConversation(ctx context.Context, in CreateConversationInput) (*models.Conversation, error) {
	participantSet := map[string]struct{}{in.CreatorID: {}}
	for _, id := range in.ParticipantIDs {
		participantSet[id] = struct{}{}
	}

	switch in.Type {
	case models.ConversationTypeDirect:
		if len(participantSet) != 2 {
			return nil, models.NewValidationError("Direct conversations require exactly one other participant")
		}
	case models.ConversationTypeGroup:
		if in.Name == nil || *in.Name == "" {
			return nil, models.NewValidationError("Group conversations require a name")
		}
	default:
		return nil, models.NewValidationError("Unknown conversation type")
	}

	for id := range participantSet {
		if id == in.CreatorID {
			continue
		}
		if _, err := s.profileRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Participant not found")
			}
			return nil, err
		}
	}

	if in.Type == models.ConversationTypeDirect {
		var otherID string
		for id := range participantSet {
			if id != in.CreatorID {
				otherID = id
			}
		}
		existing, err := s.chatRepo.FindDirectConversation(ctx, in.CreatorID, otherID)
		switch {
		case err == nil:
			return s.chatRepo.GetConversation(ctx, existing.ID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No duplicate, create below.
		default:
			return nil, err
		}
	}

	conv := &models.Conversation{
		Type:      in.Type,
		Name:      in.Name,
		AvatarURL: in.AvatarURL,
		CreatedBy: in.CreatorID,
	}
	if err := s.chatRepo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(participantSet))
	if err := s.chatRepo.AddParticipant(ctx, conv.ID, in.CreatorID); err != nil {
		return nil, err
	}
	ids = append(ids, in.CreatorID)
	for id := range participantSet {
		if id == in.CreatorID {
			continue
		}
		if err := s.chatRepo.AddParticipant(ctx, conv.ID, id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	cache.InvalidateConversations(ctx, ids...)
	return s.chatRepo.GetConversation(ctx, conv.ID)
}

// GetConversations returns the user's conversations, most recently active
// first.
func (s *ChatService) GetConversations(ctx context.Context, profileID string) ([]*models.Conversation, error) {
	return s.chatRepo.GetUserConversations(ctx, profileID)
}

// GetConversationForUser returns the conversation if the user participates in
// it.
func (s *ChatService) GetConversationForUser(ctx context.Context, convID, profileID string) (*models.Conversation, error) {
	conv, err := s.chatRepo.GetConversation(ctx, convID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Conversation not found")
	}
	if err != nil {
		return nil, err
	}
	if !isConversationParticipant(conv, profileID) {
		return nil, models.NewForbiddenError("You are not a participant in this conversation")
	}
	return conv, nil
}

// UpdateConversationInput is the input for patching a conversation.
type UpdateConversationInput struct {
	ConversationID string
	RequesterID    string
	Name           *string
	AvatarURL      *string
}

// UpdateConversation patches the conversation's name and avatar. Only
// participants may update it, and a group name cannot be cleared.
func (s *ChatService) UpdateConversation(ctx context.Context, in UpdateConversationInput) (*models.Conversation, error) {
	conv, err := s.GetConversationForUser(ctx, in.ConversationID, in.RequesterID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" && conv.Type == models.ConversationTypeGroup {
			return nil, models.NewValidationError("Group conversations require a name")
		}
		conv.Name = in.Name
	}
	if in.AvatarURL != nil {
		conv.AvatarURL = in.AvatarURL
	}

	if err := s.chatRepo.UpdateConversation(ctx, conv); err != nil {
		return nil, err
	}

	ids := make([]string, len(conv.Participants))
	for i, p := range conv.Participants {
		ids[i] = p.ID
	}
	cache.InvalidateConversations(ctx, ids...)
	return conv, nil
}

// SendMessage persists a message in a conversation the sender participates
// in, then notifies the other participants.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	conv, err := s.chatRepo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Conversation not found")
	}
	if err != nil {
		return nil, err
	}
	if !isConversationParticipant(conv, in.SenderID) {
		return nil, models.NewForbiddenError("You are not a participant in this conversation")
	}

	if len(in.MediaIDs) > 0 {
		found, err := s.mediaRepo.GetByIDs(ctx, in.MediaIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]models.Media, len(found))
		for _, m := range found {
			byID[m.ID] = m
		}
		for _, id := range in.MediaIDs {
			m, ok := byID[id]
			if !ok {
				return nil, models.NewNotFoundError("Media not found")
			}
			if m.OwnerID != in.SenderID {
				return nil, models.NewForbiddenError("Cannot attach media owned by another user")
			}
		}
	}

	if in.ReplyToMessageID != nil {
		parent, err := s.chatRepo.GetMessage(ctx, *in.ReplyToMessageID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Replied-to message not found")
		}
		if err != nil {
			return nil, err
		}
		if parent.ConversationID != in.ConversationID {
			return nil, models.NewValidationError("Cannot reply to a message from another conversation")
		}
	}

	msg := &models.Message{
		ConversationID:   in.ConversationID,
		SenderID:         in.SenderID,
		Content:          in.Content,
		ReplyToMessageID: in.ReplyToMessageID,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg, in.MediaIDs); err != nil {
		return nil, err
	}
	observability.MessagesSent.WithLabelValues(conv.Type).Inc()

	created, err := s.chatRepo.GetMessage(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	s.fanOut(ctx, conv, created)

	ids := make([]string, len(conv.Participants))
	for i, p := range conv.Participants {
		ids[i] = p.ID
	}
	cache.InvalidateConversations(ctx, ids...)
	return created, nil
}

// fanOut creates notifications for the other participants and publishes the
// message to realtime subscribers. Failures here never fail the send.
func (s *ChatService) fanOut(ctx context.Context, conv *models.Conversation, msg *models.Message) {
	if s.notificationService != nil {
		targetType := "message"
		for _, p := range conv.Participants {
			if p.ID == msg.SenderID {
				continue
			}
			_, _ = s.notificationService.CreateNotification(ctx, CreateNotificationInput{
				RecipientID: p.ID,
				ActorID:     &msg.SenderID,
				Type:        "new_message",
				Message:     "You have a new message",
				TargetID:    &msg.ID,
				TargetType:  &targetType,
			})
		}
	}

	if s.publisher != nil {
		payload, err := json.Marshal(map[string]any{
			"event":          "message.created",
			"conversationId": msg.ConversationID,
			"messageId":      msg.ID,
			"senderId":       msg.SenderID,
		})
		if err == nil {
			_ = s.publisher.PublishConversation(ctx, msg.ConversationID, payload)
		}
	}
}

// EditMessage rewrites the message content and stamps editedAt. Only the
// sender may edit, and the edit survives even when the new content equals the
// old.
func (s *ChatService) EditMessage(ctx context.Context, messageID, requesterID, content string) (*models.Message, error) {
	msg, err := s.chatRepo.GetMessage(ctx, messageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Message not found")
	}
	if err != nil {
		return nil, err
	}
	if msg.SenderID != requesterID {
		return nil, models.NewForbiddenError("Only the sender can edit this message")
	}

	now := time.Now().UTC()
	msg.Content = content
	msg.EditedAt = &now
	if err := s.chatRepo.UpdateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessages returns a chronological page of messages for a participant.
func (s *ChatService) GetMessages(ctx context.Context, convID, profileID string, limit, offset int) ([]*models.Message, error) {
	if _, err := s.GetConversationForUser(ctx, convID, profileID); err != nil {
		return nil, err
	}
	return s.chatRepo.GetMessages(ctx, convID, limit, offset)
}

// MarkConversationRead stamps the participant's last-read time.
func (s *ChatService) MarkConversationRead(ctx context.Context, convID, profileID string) error {
	if _, err := s.GetConversationForUser(ctx, convID, profileID); err != nil {
		return err
	}
	return s.chatRepo.UpdateLastRead(ctx, convID, profileID)
}

func isConversationParticipant(conv *models.Conversation, profileID string) bool {
	for _, p := range conv.Participants {
		if p.ID == profileID {
			return true
		}
	}
	return false
}
