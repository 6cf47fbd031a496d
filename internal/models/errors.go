package models

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
	// RedirectTo is set on NOT_OWNER errors: the public detail URL of the
	// item the denied mutation targeted.
	RedirectTo string
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

// NewNotFoundError covers both "does not exist" and "exists but hidden from
// this viewer". The message is deliberately identical in both cases so the
// response never leaks the existence of hidden content.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
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

// NewNotOwnerError signals a mutation attempt by an authenticated non-owner.
// Handlers translate it into a redirect to the item's detail page rather
// than an error response.
func NewNotOwnerError(redirectTo string) *AppError {
	return &AppError{
		Code:       "NOT_OWNER",
		Message:    "only the author may modify this item",
		RedirectTo: redirectTo,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response. The wrapped cause
// is logged, never serialized: clients only ever see the public message, so
// driver and SQL error strings cannot leak.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			slog.ErrorContext(c.UserContext(), "request failed",
				slog.String("code", appErr.Code),
				slog.String("error", appErr.Err.Error()),
			)
		}
	} else {
		slog.ErrorContext(c.UserContext(), "request failed",
			slog.String("error", err.Error()),
		)
		response = ErrorResponse{
			Error: "Internal server error",
			Code:  "INTERNAL_ERROR",
		}
	}

	return c.Status(status).JSON(response)
}
