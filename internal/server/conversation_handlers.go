package server

import (
	"lineup/internal/mapper"
	"lineup/internal/models"
	"lineup/internal/service"
	"lineup/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateConversation starts a direct or group conversation. Creating a
// direct conversation with an existing pair returns the existing one.
func (s *Server) CreateConversation(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req validation.CreateConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if violations := req.Validate(); len(violations) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("Invalid conversation", violations.AsFieldViolations()))
	}

	conv, err := s.chatService.CreateConversation(c.UserContext(), service.CreateConversationInput{
		CreatorID:      userID,
		Type:           req.Type,
		Name:           req.Name,
		AvatarURL:      req.AvatarURL,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mapper.Conversation(conv))
}

// ListConversations returns the caller's conversations, most recently
// active first.
func (s *Server) ListConversations(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	convs, err := s.chatService.GetConversations(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"conversations": mapper.Conversations(convs)})
}

// GetConversation returns one conversation the caller participates in.
func (s *Server) GetConversation(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	convID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	conv, err := s.chatService.GetConversationForUser(c.UserContext(), convID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(mapper.Conversation(conv))
}

// UpdateConversation renames a conversation or changes its avatar.
func (s *Server) UpdateConversation(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	convID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req validation.UpdateConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if violations := req.Validate(); len(violations) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("Invalid conversation update", violations.AsFieldViolations()))
	}

	conv, err := s.chatService.UpdateConversation(c.UserContext(), service.UpdateConversationInput{
		ConversationID: convID,
		RequesterID:    userID,
		Name:           req.Name,
		AvatarURL:      req.AvatarURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(mapper.Conversation(conv))
}

// SendMessage posts a message into a conversation.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	convID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req validation.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if violations := req.Validate(); len(violations) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("Invalid message", violations.AsFieldViolations()))
	}

	msg, err := s.chatService.SendMessage(c.UserContext(), service.SendMessageInput{
		SenderID:         userID,
		ConversationID:   convID,
		Content:          req.Content,
		MediaIDs:         req.MediaIDs,
		ReplyToMessageID: req.ReplyToMessageID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mapper.Message(msg))
}

// GetMessages returns a page of messages in chronological order.
func (s *Server) GetMessages(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	convID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	page := parsePagination(c)

	msgs, err := s.chatService.GetMessages(c.UserContext(), convID, userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"messages": mapper.Messages(msgs)})
}

// EditMessage replaces a message's content. Only the sender may edit, and
// every successful edit stamps editedAt.
func (s *Server) EditMessage(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	messageID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req validation.EditMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if violations := req.Validate(); len(violations) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("Invalid message edit", violations.AsFieldViolations()))
	}

	msg, err := s.chatService.EditMessage(c.UserContext(), messageID, userID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(mapper.Message(msg))
}

// MarkConversationRead updates the caller's last-read marker.
func (s *Server) MarkConversationRead(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	convID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.chatService.MarkConversationRead(c.UserContext(), convID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
