package server

import (
	"errors"

	"lineup/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten signals that the handler already wrote an error
// response; the fiber error handler must not write a second body.
var errResponseWritten = errors.New("error response already written")

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Pagination carries validated limit/offset query values.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit/offset query parameters, clamping the limit to
// a sane maximum.
func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// parseUUIDParam validates a UUID route parameter. On failure it writes a 400
// response and returns the sentinel so the caller can bail out.
func parseUUIDParam(c *fiber.Ctx, name string) (string, error) {
	value := c.Params(name)
	if _, err := uuid.Parse(value); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("Invalid identifier", []models.FieldViolation{{
				Field:      name,
				Constraint: "uuid",
				Message:    "must be a valid UUID",
			}}))
		return "", errResponseWritten
	}
	return value, nil
}

// requireUserID returns the authenticated profile ID set by the auth
// middleware. Writes a 401 when the middleware was bypassed.
func requireUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
		return "", errResponseWritten
	}
	return userID, nil
}

// respondServiceError maps an AppError code to an HTTP status and writes the
// standard envelope. Unknown errors become 500s.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, statusForCode(appErr.Code), appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// asAppError is a small wrapper around errors.As for handler readability.
func asAppError(err error, target **models.AppError) bool {
	return errors.As(err, target)
}

func statusForCode(code string) int {
	switch code {
	case "NOT_FOUND":
		return fiber.StatusNotFound
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	case "CONFLICT":
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
