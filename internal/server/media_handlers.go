package server

import (
	"io"

	"lineup/internal/mapper"
	"lineup/internal/models"
	"lineup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia accepts a multipart image upload, stores a normalized WebP
// plus thumbnail and returns the media row.
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A 'file' form field is required"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return respondServiceError(c, err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return respondServiceError(c, err)
	}

	media, err := s.mediaService.Upload(c.UserContext(), service.UploadMediaInput{
		OwnerID:     userID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mapper.Media(media))
}

// GetMedia returns a media row by ID.
func (s *Server) GetMedia(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	media, err := s.mediaService.GetMedia(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(mapper.Media(media))
}
