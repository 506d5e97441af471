// Package apperror defines the error taxonomy the services speak. Every
// error that crosses the service boundary is (or wraps) an *AppError, which
// carries the HTTP status the presentation layer should answer with.
package apperror

import (
	"errors"
	"net/http"
)

// AppError is an error with an HTTP status attached.
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError pins a validation failure to one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Generic sentinels.
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Validation errors: the caller may retry with corrected input, no state was changed.
var (
	ErrInsufficientStock = &AppError{Code: http.StatusBadRequest, Message: "Insufficient stock"}
	ErrInvalidAmount     = &AppError{Code: http.StatusBadRequest, Message: "Invalid payment amount"}
	ErrCustomerRequired  = &AppError{Code: http.StatusBadRequest, Message: "A customer is required for partial or credit payments"}
	ErrOrderNotEditable  = &AppError{Code: http.StatusBadRequest, Message: "Order can no longer be modified"}
)

// Integrity violations: rejected outright, never clamped or silently repaired.
var (
	ErrCreditLimitExceeded = &AppError{Code: http.StatusConflict, Message: "Customer credit limit exceeded"}
	ErrImmutableRecord     = &AppError{Code: http.StatusConflict, Message: "Record is append-only and cannot be modified"}
)

// NewAppError builds an error with an arbitrary status.
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewNotFoundError answers 404 for the named resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: resource + " not found"}
}

// NewConflictError answers 409.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

// NewBadRequestError answers 400.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// NewValidationError answers 422 with per-field detail.
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// IsAppError reports whether err is (or wraps) an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError unwraps err to an AppError, treating anything else as a 500.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: http.StatusInternalServerError, Message: err.Error()}
}
