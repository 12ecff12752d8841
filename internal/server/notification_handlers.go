package server

import (
	"lineup/internal/mapper"
	"lineup/internal/models"
	"lineup/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ListNotifications returns the caller's notifications, newest first.
func (s *Server) ListNotifications(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)

	rows, err := s.notificationService.ListNotifications(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": mapper.Notifications(rows)})
}

// UnreadNotificationCount returns how many notifications are still unread.
func (s *Server) UnreadNotificationCount(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	count, err := s.notificationService.CountUnread(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// UpdateNotification sets the read state of one notification. Re-marking an
// already-read notification succeeds.
func (s *Server) UpdateNotification(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req validation.UpdateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if violations := req.Validate(); len(violations) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("Invalid notification update", violations.AsFieldViolations()))
	}

	n, err := s.notificationService.SetRead(c.UserContext(), id, userID, *req.IsRead)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(mapper.Notification(n))
}
