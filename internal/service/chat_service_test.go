package service

import (
	"context"
	"testing"

	"lineup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	aliceID = "11111111-1111-4111-8111-111111111111"
	bobID   = "22222222-2222-4222-8222-222222222222"
	carolID = "33333333-3333-4333-8333-333333333333"
)

func existingProfileRepo() *profileRepoStub {
	repo := noopProfileRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.Profile, error) {
		return &models.Profile{ID: id}, nil
	}
	return repo
}

func TestChatService_CreateConversation_DirectDedupe(t *testing.T) {
	t.Parallel()

	existing := &models.Conversation{
		ID:        "conv-1",
		Type:      models.ConversationTypeDirect,
		CreatedBy: aliceID,
	}
	repo := noopChatRepo()
	repo.findDirectConversationFn = func(_ context.Context, a, b string) (*models.Conversation, error) {
		assert.Equal(t, aliceID, a)
		assert.Equal(t, bobID, b)
		return existing, nil
	}
	repo.getConversationFn = func(_ context.Context, id string) (*models.Conversation, error) {
		require.Equal(t, existing.ID, id)
		return existing, nil
	}
	created := false
	repo.createConversationFn = func(context.Context, *models.Conversation) error {
		created = true
		return nil
	}
	svc := NewChatService(repo, existingProfileRepo(), noopMediaRepo(), nil, nil)

	conv, err := svc.CreateConversation(context.Background(), CreateConversationInput{
		CreatorID:      aliceID,
		Type:           models.ConversationTypeDirect,
		ParticipantIDs: []string{bobID},
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, conv.ID)
	assert.False(t, created, "an existing direct conversation must be returned, not duplicated")
}

func TestChatService_CreateConversation_DirectRequiresExactlyTwo(t *testing.T) {
	t.Parallel()

	svc := NewChatService(noopChatRepo(), existingProfileRepo(), noopMediaRepo(), nil, nil)

	tests := []struct {
		name           string
		participantIDs []string
	}{
		{name: "self only", participantIDs: []string{aliceID}},
		{name: "no participants", participantIDs: nil},
		{name: "three people", participantIDs: []string{bobID, carolID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateConversation(context.Background(), CreateConversationInput{
				CreatorID:      aliceID,
				Type:           models.ConversationTypeDirect,
				ParticipantIDs: tt.participantIDs,
			})
			assertAppErrorCode(t, err, "VALIDATION_ERROR")
		})
	}
}

func TestChatService_CreateConversation_GroupRequiresName(t *testing.T) {
	t.Parallel()

	svc := NewChatService(noopChatRepo(), existingProfileRepo(), noopMediaRepo(), nil, nil)

	_, err := svc.CreateConversation(context.Background(), CreateConversationInput{
		CreatorID:      aliceID,
		Type:           models.ConversationTypeGroup,
		ParticipantIDs: []string{bobID, carolID},
	})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestChatService_CreateConversation_GroupAddsCreator(t *testing.T) {
	t.Parallel()

	repo := noopChatRepo()
	repo.createConversationFn = func(_ context.Context, conv *models.Conversation) error {
		conv.ID = "conv-9"
		return nil
	}
	var added []string
	repo.addParticipantFn = func(_ context.Context, _, profileID string) error {
		added = append(added, profileID)
		return nil
	}
	repo.getConversationFn = func(_ context.Context, id string) (*models.Conversation, error) {
		return &models.Conversation{ID: id, Type: models.ConversationTypeGroup}, nil
	}
	svc := NewChatService(repo, existingProfileRepo(), noopMediaRepo(), nil, nil)

	name := "weekend plans"
	_, err := svc.CreateConversation(context.Background(), CreateConversationInput{
		CreatorID:      aliceID,
		Type:           models.ConversationTypeGroup,
		Name:           &name,
		ParticipantIDs: []string{bobID, carolID},
	})
	require.NoError(t, err)
	assert.Contains(t, added, aliceID)
	assert.Contains(t, added, bobID)
	assert.Contains(t, added, carolID)
	assert.Len(t, added, 3)
}

func conversationWith(participants ...string) *models.Conversation {
	conv := &models.Conversation{
		ID:   "conv-1",
		Type: models.ConversationTypeGroup,
	}
	for _, id := range participants {
		conv.Participants = append(conv.Participants, models.Profile{ID: id})
	}
	return conv
}

func TestChatService_SendMessage_NonParticipantRejected(t *testing.T) {
	t.Parallel()

	repo := noopChatRepo()
	repo.getConversationFn = func(context.Context, string) (*models.Conversation, error) {
		return conversationWith(aliceID, bobID), nil
	}
	svc := NewChatService(repo, existingProfileRepo(), noopMediaRepo(), nil, nil)

	_, err := svc.SendMessage(context.Background(), SendMessageInput{
		SenderID:       carolID,
		ConversationID: "conv-1",
		Content:        "hello",
	})
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestChatService_SendMessage_ReplyMustBeSameConversation(t *testing.T) {
	t.Parallel()

	repo := noopChatRepo()
	repo.getConversationFn = func(context.Context, string) (*models.Conversation, error) {
		return conversationWith(aliceID, bobID), nil
	}
	repo.getMessageFn = func(_ context.Context, id string) (*models.Message, error) {
		return &models.Message{ID: id, ConversationID: "other-conv", SenderID: bobID}, nil
	}
	svc := NewChatService(repo, existingProfileRepo(), noopMediaRepo(), nil, nil)

	parentID := "44444444-4444-4444-8444-444444444444"
	_, err := svc.SendMessage(context.Background(), SendMessageInput{
		SenderID:         aliceID,
		ConversationID:   "conv-1",
		Content:          "a reply",
		ReplyToMessageID: &parentID,
	})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestChatService_SendMessage_ForeignMediaRejected(t *testing.T) {
	t.Parallel()

	repo := noopChatRepo()
	repo.getConversationFn = func(context.Context, string) (*models.Conversation, error) {
		return conversationWith(aliceID, bobID), nil
	}
	media := noopMediaRepo()
	media.getByIDsFn = func(_ context.Context, ids []string) ([]models.Media, error) {
		return []models.Media{{ID: ids[0], OwnerID: bobID}}, nil
	}
	svc := NewChatService(repo, existingProfileRepo(), media, nil, nil)

	_, err := svc.SendMessage(context.Background(), SendMessageInput{
		SenderID:       aliceID,
		ConversationID: "conv-1",
		Content:        "look at this",
		MediaIDs:       []string{"55555555-5555-4555-8555-555555555555"},
	})
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestChatService_SendMessage_NotifiesOtherParticipants(t *testing.T) {
	t.Parallel()

	repo := noopChatRepo()
	repo.getConversationFn = func(context.Context, string) (*models.Conversation, error) {
		return conversationWith(aliceID, bobID, carolID), nil
	}
	repo.createMessageFn = func(_ context.Context, msg *models.Message, _ []string) error {
		msg.ID = "msg-1"
		return nil
	}
	sent := false
	repo.getMessageFn = func(_ context.Context, id string) (*models.Message, error) {
		sent = true
		return &models.Message{ID: id, ConversationID: "conv-1", SenderID: aliceID, Content: "hi"}, nil
	}

	notifRepo := noopNotificationRepo()
	var recipients []string
	notifRepo.createFn = func(_ context.Context, n *models.Notification) error {
		recipients = append(recipients, n.RecipientID)
		return nil
	}
	svc := NewChatService(repo, existingProfileRepo(), noopMediaRepo(), NewNotificationService(notifRepo), nil)

	msg, err := svc.SendMessage(context.Background(), SendMessageInput{
		SenderID:       aliceID,
		ConversationID: "conv-1",
		Content:        "hi",
	})
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "msg-1", msg.ID)
	assert.ElementsMatch(t, []string{bobID, carolID}, recipients, "the sender never gets a notification")
}

func TestChatService_EditMessage(t *testing.T) {
	t.Parallel()

	t.Run("only the sender can edit", func(t *testing.T) {
		t.Parallel()
		repo := noopChatRepo()
		repo.getMessageFn = func(_ context.Context, id string) (*models.Message, error) {
			return &models.Message{ID: id, ConversationID: "conv-1", SenderID: aliceID, Content: "orig"}, nil
		}
		svc := NewChatService(repo, existingProfileRepo(), noopMediaRepo(), nil, nil)

		_, err := svc.EditMessage(context.Background(), "msg-1", bobID, "hacked")
		assertAppErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("edit stamps editedAt even for identical content", func(t *testing.T) {
		t.Parallel()
		repo := noopChatRepo()
		repo.getMessageFn = func(_ context.Context, id string) (*models.Message, error) {
			return &models.Message{ID: id, ConversationID: "conv-1", SenderID: aliceID, Content: "same"}, nil
		}
		var saved *models.Message
		repo.updateMessageFn = func(_ context.Context, msg *models.Message) error {
			saved = msg
			return nil
		}
		svc := NewChatService(repo, existingProfileRepo(), noopMediaRepo(), nil, nil)

		msg, err := svc.EditMessage(context.Background(), "msg-1", aliceID, "same")
		require.NoError(t, err)
		require.NotNil(t, saved)
		require.NotNil(t, msg.EditedAt)
		assert.Equal(t, "same", msg.Content)
	})

	t.Run("missing message", func(t *testing.T) {
		t.Parallel()
		repo := noopChatRepo()
		repo.getMessageFn = func(context.Context, string) (*models.Message, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewChatService(repo, existingProfileRepo(), noopMediaRepo(), nil, nil)

		_, err := svc.EditMessage(context.Background(), "nope", aliceID, "x")
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestChatService_GetMessages_RequiresParticipation(t *testing.T) {
	t.Parallel()

	repo := noopChatRepo()
	repo.getConversationFn = func(context.Context, string) (*models.Conversation, error) {
		return conversationWith(aliceID, bobID), nil
	}
	svc := NewChatService(repo, existingProfileRepo(), noopMediaRepo(), nil, nil)

	_, err := svc.GetMessages(context.Background(), "conv-1", carolID, 50, 0)
	assertAppErrorCode(t, err, "FORBIDDEN")
}
