package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Response is the uniform API envelope. Every endpoint returns this shape:
// success with optional data, or failure with a user-facing error string.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError writes the failure envelope. Wrapped causes stay
// server-side; the client only sees the user-facing message and code.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := Response{Success: false}

	if appErr, ok := err.(*AppError); ok {
		response.Error = appErr.Message
		response.Code = appErr.Code
	} else {
		response.Error = err.Error()
	}

	return c.Status(status).JSON(response)
}

// RespondWithData writes the success envelope with the given payload.
func RespondWithData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Data:    data,
	})
}
