// Package apperrors defines the domain error taxonomy. Handlers and
// middleware return these; the central HTTP error handler translates them
// into the response envelope.
package apperrors

import "net/http"

// FieldError carries field-level detail for validation failures.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// AppError is a domain error with an HTTP status.
type AppError struct {
	Status  int
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation is a 400 with optional field-level detail.
func Validation(message string, fields ...FieldError) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message, Fields: fields}
}

// Unauthorized is a 401: missing, invalid or expired credentials.
func Unauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden is a 403: authenticated but not the owner.
func Forbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

// NotFound is a 404: missing or soft-deleted resource.
func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

// Conflict is a duplicate unique field. Reported as 400 alongside other
// client errors.
func Conflict(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

// Internal is a 500 wrapping an unexpected error.
func Internal(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}
