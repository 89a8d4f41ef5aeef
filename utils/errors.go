package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the stable, client-visible classification of an AppError.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "InvalidInput"
	KindNotFound           ErrorKind = "NotFound"
	KindVerificationFailed ErrorKind = "VerificationFailed"
	KindConflict           ErrorKind = "Conflict"
	KindUnauthorized       ErrorKind = "Unauthorized"
	KindForbidden          ErrorKind = "Forbidden"
	KindPersistence        ErrorKind = "PersistenceError"
	KindUpstream           ErrorKind = "UpstreamError"
)

var kindStatus = map[ErrorKind]int{
	KindInvalidInput:       http.StatusBadRequest,
	KindNotFound:           http.StatusNotFound,
	KindVerificationFailed: http.StatusBadRequest,
	KindConflict:           http.StatusConflict,
	KindUnauthorized:       http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindPersistence:        http.StatusInternalServerError,
	KindUpstream:           http.StatusBadGateway,
}

// AppError represents an application error
type AppError struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError of the same kind, so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NewAppError creates a new AppError
func NewAppError(kind ErrorKind, message string, err error) *AppError {
	code, ok := kindStatus[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// InvalidInputError creates a 400 error for malformed or missing fields
func InvalidInputError(message string, err error) *AppError {
	return NewAppError(KindInvalidInput, message, err)
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(KindNotFound, message, err)
}

// VerificationFailedError creates a 400 error for a rejected signature
func VerificationFailedError(message string, err error) *AppError {
	return NewAppError(KindVerificationFailed, message, err)
}

// ConflictError creates a 409 Conflict error
func ConflictError(message string, err error) *AppError {
	return NewAppError(KindConflict, message, err)
}

// UnauthorizedError creates a 401 Unauthorized error
func UnauthorizedError(message string, err error) *AppError {
	return NewAppError(KindUnauthorized, message, err)
}

// ForbiddenError creates a 403 Forbidden error
func ForbiddenError(message string, err error) *AppError {
	return NewAppError(KindForbidden, message, err)
}

// PersistenceError creates a 500 error for storage failures
func PersistenceError(message string, err error) *AppError {
	return NewAppError(KindPersistence, message, err)
}

// UpstreamError creates a 502 error for failures of a third-party service
func UpstreamError(message string, err error) *AppError {
	return NewAppError(KindUpstream, message, err)
}

// GetAppError returns the AppError in err's chain, if any
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err carries an AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind == kind
	}
	return false
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
