// Package errors provides structured error types for mindmap.
//
// Every error that crosses a package boundary towards the CLI or the HTTP
// server carries a machine-readable [Code] so that callers can react
// without matching on message text:
//
//	err := errors.New(errors.ErrCodeInvalidMode, "unknown view mode %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidMode) {
//	    // fall back to the outline mode
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, cause, "save snapshot %s", key)
//
// Load and storage failures are never fatal to an editing session; the codes
// exist so they can be logged and reported consistently.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers and for the HTTP status mapping.
type Code string

const (
	// Rejected input.
	ErrCodeInvalidJSON    Code = "INVALID_JSON"
	ErrCodeInvalidOutline Code = "INVALID_OUTLINE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidMode    Code = "INVALID_MODE"
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	ErrCodeNotFound Code = "NOT_FOUND"

	// Failures while running.
	ErrCodeStorage     Code = "STORAGE"
	ErrCodeDetached    Code = "DETACHED"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL"
)

// Error carries a Code, a message fit for users, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error without a cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage drops the code prefix and the cause of an *Error. Other errors
// are returned as is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the status the HTTP API answers with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidJSON, ErrCodeInvalidOutline, ErrCodeInvalidFormat,
		ErrCodeInvalidMode, ErrCodeInvalidInput, ErrCodeInvalidPath:
		return 400
	case ErrCodeNotFound:
		return 404
	case ErrCodeDetached:
		return 409
	case ErrCodeUnsupported:
		return 501
	default:
		return 500
	}
}
