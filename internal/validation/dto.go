package validation

import (
	"regexp"

	"lineup/internal/models"
)

// Field bounds shared between the validation layer and services.
const (
	UsernameMinLen         = 3
	UsernameMaxLen         = 30
	ConversationNameMinLen = 1
	ConversationNameMaxLen = 100
	MessageContentMinLen   = 1
	MessageContentMaxLen   = 5000
	PostTitleMaxLen        = 200
	PostContentMaxLen      = 10000
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateUsername checks username length and character set.
func ValidateUsername(username string) Violations {
	return Collect(
		Length("username", username, UsernameMinLen, UsernameMaxLen),
		func() Violations {
			if username != "" && !usernameRegex.MatchString(username) {
				return Violations{{
					Field:      "username",
					Constraint: "format",
					Message:    "may only contain letters, numbers, underscores, dots and hyphens",
				}}
			}
			return nil
		},
	)
}

// CreateConversationRequest is the body of POST /api/conversations.
type CreateConversationRequest struct {
	Type           string   `json:"type"`
	Name           *string  `json:"name"`
	AvatarURL      *string  `json:"avatarUrl"`
	ParticipantIDs []string `json:"participantIds"`
}

// Validate collects every violated constraint on the request.
func (r CreateConversationRequest) Validate() Violations {
	checks := []Check{
		OneOf("type", r.Type, models.ConversationTypes...),
		NonEmptySlice("participantIds", len(r.ParticipantIDs)),
		UUIDSliceFormat("participantIds", r.ParticipantIDs),
		OptionalLength("name", r.Name, ConversationNameMinLen, ConversationNameMaxLen),
	}
	if r.Type == models.ConversationTypeGroup && r.Name == nil {
		checks = append(checks, func() Violations {
			return Violations{{
				Field:      "name",
				Constraint: "required",
				Message:    "is required for group conversations",
			}}
		})
	}
	return Collect(checks...)
}

// UpdateConversationRequest is the body of PATCH /api/conversations/:id.
type UpdateConversationRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

// Validate collects every violated constraint on the request.
func (r UpdateConversationRequest) Validate() Violations {
	return Collect(
		OptionalLength("name", r.Name, ConversationNameMinLen, ConversationNameMaxLen),
	)
}

// SendMessageRequest is the body of POST /api/conversations/:id/messages.
type SendMessageRequest struct {
	Content          string   `json:"content"`
	MediaIDs         []string `json:"mediaIds"`
	ReplyToMessageID *string  `json:"replyToMessageId"`
}

// Validate collects every violated constraint on the request.
func (r SendMessageRequest) Validate() Violations {
	return Collect(
		Length("content", r.Content, MessageContentMinLen, MessageContentMaxLen),
		UUIDSliceFormat("mediaIds", r.MediaIDs),
		OptionalUUIDFormat("replyToMessageId", r.ReplyToMessageID),
	)
}

// EditMessageRequest is the body of PATCH /api/messages/:id.
type EditMessageRequest struct {
	Content string `json:"content"`
}

// Validate collects every violated constraint on the request.
func (r EditMessageRequest) Validate() Violations {
	return Collect(
		Length("content", r.Content, MessageContentMinLen, MessageContentMaxLen),
	)
}

// CreateBookmarkRequest is the body of POST /api/bookmarks. Any client-supplied
// owner field is deliberately absent: ownership comes from the auth context.
type CreateBookmarkRequest struct {
	PostID string `json:"postId"`
}

// Validate collects every violated constraint on the request.
func (r CreateBookmarkRequest) Validate() Violations {
	return Collect(
		UUIDFormat("postId", r.PostID),
	)
}

// UpdateNotificationRequest is the body of PATCH /api/notifications/:id.
type UpdateNotificationRequest struct {
	IsRead *bool `json:"isRead"`
}

// Validate collects every violated constraint on the request.
func (r UpdateNotificationRequest) Validate() Violations {
	return Collect(func() Violations {
		if r.IsRead == nil {
			return Violations{{
				Field:      "isRead",
				Constraint: "required",
				Message:    "is required and must be a boolean",
			}}
		}
		return nil
	})
}

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	MediaID *string `json:"mediaId"`
}

// Validate collects every violated constraint on the request.
func (r CreatePostRequest) Validate() Violations {
	return Collect(
		Length("title", r.Title, 1, PostTitleMaxLen),
		Length("content", r.Content, 1, PostContentMaxLen),
		OptionalUUIDFormat("mediaId", r.MediaID),
	)
}

// AsFieldViolations converts violations into the models error shape.
func (v Violations) AsFieldViolations() []models.FieldViolation {
	out := make([]models.FieldViolation, len(v))
	for i, violation := range v {
		out[i] = models.FieldViolation{
			Field:      violation.Field,
			Constraint: violation.Constraint,
			Message:    violation.Message,
		}
	}
	return out
}
