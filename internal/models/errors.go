package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`

	// Quota context, present only on QUOTA_EXCEEDED responses.
	Limit   *int             `json:"limit,omitempty"`
	Current *int             `json:"current,omitempty"`
	Plan    SubscriptionPlan `json:"plan,omitempty"`
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

func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Code:    "UPSTREAM_UNAVAILABLE",
		Message: message,
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// QuotaScope distinguishes which plan ceiling was hit.
type QuotaScope string

const (
	QuotaScopeMonthly QuotaScope = "monthly"
	QuotaScopeTotal   QuotaScope = "total"
)

// QuotaExceededError is returned by the usage policy when a plan limit has
// been reached. It carries enough context for the client to render an
// upgrade prompt.
type QuotaExceededError struct {
	Scope   QuotaScope
	Limit   int
	Current int
	Plan    SubscriptionPlan
}

func (e *QuotaExceededError) Error() string {
	if e.Scope == QuotaScopeMonthly {
		return "Monthly post limit reached"
	}
	return "Total post limit reached"
}

// IsQuotaExceeded reports whether err is (or wraps) a QuotaExceededError.
func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var quotaErr *QuotaExceededError
	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else if errors.As(err, &quotaErr) {
		limit, current := quotaErr.Limit, quotaErr.Current
		response = ErrorResponse{
			Error:   quotaErr.Error(),
			Code:    "QUOTA_EXCEEDED",
			Limit:   &limit,
			Current: &current,
			Plan:    quotaErr.Plan,
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

// StatusForError maps an application error to its HTTP status code.
func StatusForError(err error) int {
	var quotaErr *QuotaExceededError
	if errors.As(err, &quotaErr) {
		return fiber.StatusForbidden
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			return fiber.StatusBadRequest
		case "UNAUTHORIZED":
			return fiber.StatusUnauthorized
		case "FORBIDDEN":
			return fiber.StatusForbidden
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "UPSTREAM_UNAVAILABLE":
			return fiber.StatusServiceUnavailable
		}
	}
	return fiber.StatusInternalServerError
}
