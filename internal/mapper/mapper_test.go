package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"lineup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProfile_AbsentFieldsAreExplicitNull(t *testing.T) {
	t.Parallel()

	resp := Profile(&models.Profile{
		ID:       "p1",
		Username: "casey",
		UserType: "member",
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, field := range []string{"firstName", "lastName", "bio", "avatarUrl", "yearOfBirth", "spotifyPlaylistUrl"} {
		require.Contains(t, raw, field)
		assert.Equal(t, "null", string(raw[field]), "absent %s must serialize as null, not be omitted", field)
	}
	// The password hash never appears in the API shape.
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "email")
}

func TestProfile_PresentFieldsSurvive(t *testing.T) {
	t.Parallel()

	year := 1990
	resp := Profile(&models.Profile{
		ID:          "p1",
		Username:    "casey",
		FirstName:   strPtr("Casey"),
		YearOfBirth: &year,
	})
	require.NotNil(t, resp.FirstName)
	assert.Equal(t, "Casey", *resp.FirstName)
	require.NotNil(t, resp.YearOfBirth)
	assert.Equal(t, 1990, *resp.YearOfBirth)
}

func TestConversation_LastMessageAndParticipants(t *testing.T) {
	t.Parallel()

	conv := &models.Conversation{
		ID:        "c1",
		Type:      models.ConversationTypeDirect,
		CreatedBy: "p1",
		Participants: []models.Profile{
			{ID: "p1", Username: "casey"},
			{ID: "p2", Username: "riley"},
		},
		Messages: []models.Message{
			{ID: "m1", Content: "first"},
			{ID: "m2", Content: "latest"},
		},
	}

	resp := Conversation(conv)
	assert.Len(t, resp.Participants, 2)
	require.NotNil(t, resp.LastMessage)
	assert.Equal(t, "latest", resp.LastMessage.Content)

	t.Run("no participants maps to empty array, not null", func(t *testing.T) {
		resp := Conversation(&models.Conversation{ID: "c2", Type: models.ConversationTypeDirect})
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"participants":[]`)
		assert.Contains(t, string(data), `"lastMessage":null`)
	})
}

func TestMessage_MediaDefaultsToEmptyArray(t *testing.T) {
	t.Parallel()

	resp := Message(&models.Message{ID: "m1", Content: "hi"})
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"media":[]`)
	assert.Contains(t, string(data), `"editedAt":null`)
}

func TestMetadata_NeverFabricatesCreatedAt(t *testing.T) {
	t.Parallel()

	resp := Metadata(&models.Metadata{ID: "md1", Type: "genre", Name: "techno"})
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"createdAt":null`)

	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resp = Metadata(&models.Metadata{ID: "md2", Type: "genre", Name: "house", CreatedAt: &when})
	require.NotNil(t, resp.CreatedAt)
	assert.True(t, resp.CreatedAt.Equal(when))
}

func TestMapping_IsIdempotentOverAPIShape(t *testing.T) {
	t.Parallel()

	// Serializing, re-reading and re-serializing the API shape must yield
	// the same JSON: mapping introduces no lossy transforms.
	resp := Profile(&models.Profile{ID: "p1", Username: "casey", FirstName: strPtr("Casey")})
	first, err := json.Marshal(resp)
	require.NoError(t, err)

	var round ProfileResponse
	require.NoError(t, json.Unmarshal(first, &round))
	second, err := json.Marshal(round)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestSliceMappers(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Posts(nil))
	assert.Len(t, Posts([]*models.Post{{ID: "p1"}, {ID: "p2"}}), 2)
	assert.Nil(t, MetadataList(nil))
}
