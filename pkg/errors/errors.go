package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrValidation
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
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

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
	}
}

// Validation reports a constraint violation. The fields map carries a
// per-field message for the caller's error envelope.
func Validation(message string, fields map[string]string, err error) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Fields:  fields,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func codeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrNotFound
}

func IsBadRequest(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrBadRequest
}

func IsValidation(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrValidation
}
