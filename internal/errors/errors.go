package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates a local, static misconfiguration
	// (e.g. missing BFF base URL) detected before any network call.
	// Call sites that can observe this code must never redirect to login,
	// otherwise a broken config produces an infinite redirect loop.
	ErrCodeConfiguration ErrorCode = "configuration"
	// ErrCodeTransport indicates the HTTP round trip itself failed.
	ErrCodeTransport ErrorCode = "transport"
	// ErrCodeInvalidResponse indicates a 2xx response whose body could not
	// be decoded into the expected shape.
	ErrCodeInvalidResponse ErrorCode = "invalid_response"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Configuration creates a new Configuration error.
func Configuration(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsConfiguration checks if an error is a Configuration error.
// This is the distinguishing test every redirect site relies on.
func IsConfiguration(err error) bool {
	return isCode(err, ErrCodeConfiguration)
}

// IsTransport checks if an error is a Transport error.
func IsTransport(err error) bool {
	return isCode(err, ErrCodeTransport)
}

// IsInvalidResponse checks if an error is an InvalidResponse error.
func IsInvalidResponse(err error) bool {
	return isCode(err, ErrCodeInvalidResponse)
}
