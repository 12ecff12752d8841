// Package mapper converts storage rows into API response shapes. Every mapper
// is a pure function: snake_case rows in, camelCase responses out, with absent
// optional values rendered as explicit JSON null.
package mapper

import (
	"time"

	"lineup/internal/models"
)

// ProfileResponse is the API shape of a profile row.
type ProfileResponse struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	FirstName           *string   `json:"firstName"`
	LastName            *string   `json:"lastName"`
	Location            *string   `json:"location"`
	UserType            string    `json:"userType"`
	PhoneCountryCode    *string   `json:"phoneCountryCode"`
	PhoneNumber         *string   `json:"phoneNumber"`
	YearOfBirth         *int      `json:"yearOfBirth"`
	OnboardingCompleted bool      `json:"onboardingCompleted"`
	AvatarURL           *string   `json:"avatarUrl"`
	Bio                 *string   `json:"bio"`
	AboutMe             *string   `json:"aboutMe"`
	ThemeColor          *string   `json:"themeColor"`
	SpotifyPlaylistURL  *string   `json:"spotifyPlaylistUrl"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ConversationResponse is the API shape of a conversation row.
type ConversationResponse struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	Name         *string           `json:"name"`
	AvatarURL    *string           `json:"avatarUrl"`
	CreatedBy    string            `json:"createdBy"`
	Participants []ProfileResponse `json:"participants"`
	LastMessage  *MessageResponse  `json:"lastMessage"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// MessageResponse is the API shape of a message row.
type MessageResponse struct {
	ID               string          `json:"id"`
	ConversationID   string          `json:"conversationId"`
	SenderID         string          `json:"senderId"`
	Content          string          `json:"content"`
	ReplyToMessageID *string         `json:"replyToMessageId"`
	Media            []MediaResponse `json:"media"`
	EditedAt         *time.Time      `json:"editedAt"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// MediaResponse is the API shape of a media row.
type MediaResponse struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PostResponse is the API shape of a post row.
type PostResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	MediaID   *string   `json:"mediaId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookmarkResponse is the API shape of a bookmark row.
type BookmarkResponse struct {
	UserID    string        `json:"userId"`
	PostID    string        `json:"postId"`
	Post      *PostResponse `json:"post"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NotificationResponse is the API shape of a notification row.
type NotificationResponse struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	ActorID     *string   `json:"actorId"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	TargetID    *string   `json:"targetId"`
	TargetType  *string   `json:"targetType"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MetadataResponse is the API shape of a metadata row. CreatedAt is null when
// the row has no timestamp; the mapper never fabricates one.
type MetadataResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"createdAt"`
}

// Profile maps a profile row to its API shape.
func Profile(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                  p.ID,
		Username:            p.Username,
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		Location:            p.Location,
		UserType:            p.UserType,
		PhoneCountryCode:    p.PhoneCountryCode,
		PhoneNumber:         p.PhoneNumber,
		YearOfBirth:         p.YearOfBirth,
		OnboardingCompleted: p.OnboardingCompleted,
		AvatarURL:           p.AvatarURL,
		Bio:                 p.Bio,
		AboutMe:             p.AboutMe,
		ThemeColor:          p.ThemeColor,
		SpotifyPlaylistURL:  p.SpotifyPlaylistURL,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// Profiles maps a slice of profile rows.
func Profiles(rows []models.Profile) []ProfileResponse {
	return mapSlice(rows, func(p models.Profile) ProfileResponse { return Profile(&p) })
}

// Conversation maps a conversation row, including participants and the most
// recent message when preloaded.
func Conversation(c *models.Conversation) ConversationResponse {
	resp := ConversationResponse{
		ID:           c.ID,
		Type:         c.Type,
		Name:         c.Name,
		AvatarURL:    c.AvatarURL,
		CreatedBy:    c.CreatedBy,
		Participants: Profiles(c.Participants),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if resp.Participants == nil {
		resp.Participants = []ProfileResponse{}
	}
	if len(c.Messages) > 0 {
		last := Message(&c.Messages[len(c.Messages)-1])
		resp.LastMessage = &last
	}
	return resp
}

// Conversations maps a slice of conversation rows.
func Conversations(rows []*models.Conversation) []ConversationResponse {
	return mapSlice(rows, func(c *models.Conversation) ConversationResponse { return Conversation(c) })
}

// Message maps a message row to its API shape.
func Message(m *models.Message) MessageResponse {
	media := mapSlice(m.Media, func(md models.Media) MediaResponse { return Media(&md) })
	if media == nil {
		media = []MediaResponse{}
	}
	return MessageResponse{
		ID:               m.ID,
		ConversationID:   m.ConversationID,
		SenderID:         m.SenderID,
		Content:          m.Content,
		ReplyToMessageID: m.ReplyToMessageID,
		Media:            media,
		EditedAt:         m.EditedAt,
		CreatedAt:        m.CreatedAt,
	}
}

// Messages maps a slice of message rows.
func Messages(rows []*models.Message) []MessageResponse {
	return mapSlice(rows, func(m *models.Message) MessageResponse { return Message(m) })
}

// Media maps a media row to its API shape.
func Media(m *models.Media) MediaResponse {
	return MediaResponse{
		ID:           m.ID,
		URL:          m.URL,
		ThumbnailURL: m.ThumbnailURL,
		Type:         m.Type,
		CreatedAt:    m.CreatedAt,
	}
}

// Post maps a post row to its API shape.
func Post(p *models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		MediaID:   p.MediaID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Posts maps a slice of post rows.
func Posts(rows []*models.Post) []PostResponse {
	return mapSlice(rows, func(p *models.Post) PostResponse { return Post(p) })
}

// Bookmark maps a bookmark row to its API shape.
func Bookmark(b *models.Bookmark) BookmarkResponse {
	resp := BookmarkResponse{
		UserID:    b.UserID,
		PostID:    b.PostID,
		CreatedAt: b.CreatedAt,
	}
	if b.Post != nil {
		post := Post(b.Post)
		resp.Post = &post
	}
	return resp
}

// Bookmarks maps a slice of bookmark rows.
func Bookmarks(rows []models.Bookmark) []BookmarkResponse {
	return mapSlice(rows, func(b models.Bookmark) BookmarkResponse { return Bookmark(&b) })
}

// Notification maps a notification row to its API shape.
func Notification(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		ActorID:     n.ActorID,
		Type:        n.Type,
		Message:     n.Message,
		TargetID:    n.TargetID,
		TargetType:  n.TargetType,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

// Notifications maps a slice of notification rows.
func Notifications(rows []models.Notification) []NotificationResponse {
	return mapSlice(rows, func(n models.Notification) NotificationResponse { return Notification(&n) })
}

// Metadata maps a metadata row to its API shape.
func Metadata(m *models.Metadata) MetadataResponse {
	return MetadataResponse{
		ID:        m.ID,
		Type:      m.Type,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// MetadataList maps a slice of metadata rows.
func MetadataList(rows []models.Metadata) []MetadataResponse {
	return mapSlice(rows, func(m models.Metadata) MetadataResponse { return Metadata(&m) })
}

// mapSlice lifts a single-item mapper over a slice.
func mapSlice[T any, R any](rows []T, mapOne func(T) R) []R {
	if rows == nil {
		return nil
	}
	out := make([]R, len(rows))
	for i, row := range rows {
		out[i] = mapOne(row)
	}
	return out
}
