// Package apperror defines the domain error taxonomy for the learning map
// service. Every error that crosses the orchestration boundary is one of
// these tagged variants; raw errors from collaborators never escape.
package apperror

import (
	"errors"
	"fmt"
)

// AppError is a tagged domain error. Code determines the HTTP status and
// retry semantics; Message is always safe to show a caller.
type AppError struct {
	Code    Code
	Message string
	Details []string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New constructs an AppError with the given code and message.
// An empty message falls back to the code's default.
func New(code Code, message string) *AppError {
	if message == "" {
		message = code.DefaultMessage()
	}
	return &AppError{Code: code, Message: message}
}

// Wrap constructs an AppError that records an underlying cause.
func Wrap(code Code, message string, cause error) *AppError {
	err := New(code, message)
	err.Cause = cause
	return err
}

// WithDetails attaches per-field detail messages, typically from request
// or schema validation.
func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = append(e.Details, details...)
	return e
}

// Validation constructs a VALIDATION_ERROR with field-level details.
func Validation(message string, details ...string) *AppError {
	return New(CodeValidation, message).WithDetails(details...)
}

// InvalidInput constructs an INVALID_INPUT error.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// NotFound constructs a NOT_FOUND error.
func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

// From returns err as an *AppError if it is one (directly or wrapped),
// or a generic INTERNAL_SERVER_ERROR wrapping err otherwise. The second
// return reports whether err already carried a domain code.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return Wrap(CodeInternal, "", err), false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
