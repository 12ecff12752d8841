package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// FieldViolation describes a single failed constraint on a request field.
type FieldViolation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error      string           `json:"error"`
	Code       string           `json:"code,omitempty"`
	Details    string           `json:"details,omitempty"`
	Violations []FieldViolation `json:"violations,omitempty"`
}

// AppError represents a custom application error.
type AppError struct {
	Code       string
	Message    string
	Err        error
	Violations []FieldViolation
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError returns a NOT_FOUND error.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
	}
}

// NewValidationError returns a VALIDATION_ERROR with a single message.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewFieldValidationError returns a VALIDATION_ERROR carrying itemized
// field violations so clients see every problem at once.
func NewFieldValidationError(message string, violations []FieldViolation) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		Violations: violations,
	}
}

// NewConflictError returns a CONFLICT error for uniqueness collisions.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewUnauthorizedError returns an UNAUTHORIZED error.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

// NewForbiddenError returns a FORBIDDEN error.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

// NewInternalError wraps an unexpected error. The underlying error is kept
// for server-side logging but never serialized to clients.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError writes a standardized error response. Internal errors are
// reported generically; details are only exposed for non-internal AppErrors.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error:      appErr.Message,
			Code:       appErr.Code,
			Violations: appErr.Violations,
		}
		if appErr.Err != nil && appErr.Code != "INTERNAL_ERROR" {
			response.Details = appErr.Err.Error()
		}
	} else if status >= fiber.StatusInternalServerError {
		response = ErrorResponse{
			Error: "Internal server error",
			Code:  "INTERNAL_ERROR",
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
