// Package errors provides structured error types for placer.
//
// This package defines error codes and types that enable:
//   - Consistent exit behavior in the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - AUTH_*: Login failures
//   - TRANSPORT / TIMEOUT: Network-related errors
//   - WRITE_*: Canvas write failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUsage, "expected 2 arguments, got %d", n)
//	if errors.Is(err, errors.ErrCodeUsage) {
//	    // Print usage
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "probe (%d, %d)", x, y)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeUsage         Code = "USAGE"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidImage  Code = "INVALID_IMAGE"

	// Authentication errors
	ErrCodeAuthFailed     Code = "AUTH_FAILED"
	ErrCodeSessionExpired Code = "SESSION_EXPIRED"

	// Network errors
	ErrCodeTransport Code = "TRANSPORT"
	ErrCodeTimeout   Code = "TIMEOUT"

	// Canvas errors
	ErrCodeWriteRejected Code = "WRITE_REJECTED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by error types that carry a code without being *Error.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error (or a type with a Code
// method) with a matching code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RejectedError reports a pixel write the canvas kept refusing.
type RejectedError struct {
	X, Y        int // Absolute canvas coordinate
	Attempts    int // Write attempts made
	WaitSeconds int // Cooldown reported by the last response
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	return fmt.Sprintf("write to (%d, %d) rejected after %d attempts", e.X, e.Y, e.Attempts)
}

// Code returns the error code for this error type.
func (e *RejectedError) Code() Code {
	return ErrCodeWriteRejected
}
