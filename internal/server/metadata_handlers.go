package server

import (
	"lineup/internal/mapper"
	"lineup/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListMetadata returns the taxonomy rows, optionally filtered by type.
func (s *Server) ListMetadata(c *fiber.Ctx) error {
	metadataType := c.Query("type")

	var rows []models.Metadata
	var err error
	if metadataType == "" {
		rows, err = s.metadataService.ListAll(c.UserContext())
	} else {
		rows, err = s.metadataService.ListByType(c.UserContext(), metadataType)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"metadata": mapper.MetadataList(rows)})
}
