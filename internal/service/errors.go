package service

import (
	"errors"
	"fmt"
)

// ErrorCode classifies application errors so the engine can decide what a
// caller may see. Validation, authorization, conflict and not-found errors
// are recoverable and surface their message; storage errors are logged in
// full and surfaced generically.
type ErrorCode string

const (
	ErrCodeValidation    ErrorCode = "VALIDATION"
	ErrCodeAuthorization ErrorCode = "AUTHORIZATION"
	ErrCodeStateConflict ErrorCode = "STATE_CONFLICT"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeStorage       ErrorCode = "STORAGE"
)

// AppError is a code-tagged error carrying a caller-safe message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewAuthorizationError(format string, args ...interface{}) *AppError {
	return &AppError{Code: ErrCodeAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NewStateConflictError(format string, args ...interface{}) *AppError {
	return &AppError{Code: ErrCodeStateConflict, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewStorageError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeStorage, Message: message, Err: err}
}

// CodeOf returns the error's code, defaulting to ErrCodeStorage for
// untagged errors so unknown failures are never leaked to callers.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeStorage
}

// IsRecoverable reports whether the error's message is safe to show a caller.
func IsRecoverable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidation, ErrCodeAuthorization, ErrCodeStateConflict, ErrCodeNotFound:
		return true
	}
	return false
}

// CallerMessage returns the message a caller should see for err.
func CallerMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && IsRecoverable(err) {
		return appErr.Message
	}
	return "an internal error occurred, please try again later"
}
