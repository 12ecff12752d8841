package server

import (
	"lineup/internal/mapper"
	"lineup/internal/models"
	"lineup/internal/service"
	"lineup/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreatePost creates a post authored by the authenticated profile.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req validation.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if violations := req.Validate(); len(violations) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("Invalid post", violations.AsFieldViolations()))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		MediaID:  req.MediaID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mapper.Post(post))
}

// GetPost returns a single post by ID.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(mapper.Post(post))
}

// ListPosts returns a page of posts, newest first.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page := parsePagination(c)

	posts, err := s.postService.ListPosts(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": mapper.Posts(posts)})
}

// DeletePost removes a post. Only the author may delete it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.postService.DeletePost(c.UserContext(), id, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
