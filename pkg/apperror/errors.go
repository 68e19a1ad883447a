// Package apperror carries the HTTP status a failed operation should map to.
package apperror

import (
	"errors"
	"net/http"
)

// AppError is an error a client can act on, or an internal failure that
// keeps its cause for logging while showing a generic message.
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`

	cause error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// ErrInternalServer is what clients see for any unexpected failure
var ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}

// NewInternalError records cause behind a 500. Only message reaches the client.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, cause: cause}
}

// NewValidationError reports one or more invalid fields
func NewValidationError(fields ...FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fields,
	}
}

// NewNotFoundError creates a not found error, e.g. NewNotFoundError("Customer")
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: resource + " not found"}
}

// NewConflictError is used when the request clashes with existing state,
// such as a duplicate slug or deleting a bill-linked ledger entry
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError returns the AppError in err's chain. Anything else becomes an
// internal error wrapping err.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(ErrInternalServer.Message, err)
}
