package server

import (
	"lineup/internal/mapper"
	"lineup/internal/models"
	"lineup/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateBookmark saves a post for the authenticated profile. The owner is
// always the caller. Re-bookmarking the same post succeeds.
func (s *Server) CreateBookmark(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req validation.CreateBookmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if violations := req.Validate(); len(violations) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("Invalid bookmark", violations.AsFieldViolations()))
	}

	bookmark, err := s.bookmarkService.CreateBookmark(c.UserContext(), userID, req.PostID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mapper.Bookmark(bookmark))
}

// DeleteBookmark removes the caller's bookmark for a post.
func (s *Server) DeleteBookmark(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID, err := parseUUIDParam(c, "postId")
	if err != nil {
		return err
	}

	if err := s.bookmarkService.DeleteBookmark(c.UserContext(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListBookmarks returns the caller's bookmarks with their posts.
func (s *Server) ListBookmarks(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)

	bookmarks, err := s.bookmarkService.ListBookmarks(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarks": mapper.Bookmarks(bookmarks)})
}
