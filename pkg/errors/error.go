// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid requests, missing fields, bad configuration files
//   - Data/Resource errors (200-299): Missing snapshots, store failures, ticker universe failures
//   - Strategy errors (400-499): Strategy lookup, plugin registration, configuration and evaluation errors
//   - Scheduling and notification errors (500-599): Cron schedules and scan event publishing
//   - Provider errors (700-799): Option chain fetch failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeMissingParameter, "missing strategy id")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeStrategyNotFound, "strategy config not found: %s", id)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodePersistenceFailed, "failed to write document", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeStrategyNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsResolutionError reports whether err happened while turning a strategy id
// into an evaluator. These errors abort a scan before any provider call.
func IsResolutionError(err error) bool {
	switch GetCode(err) {
	case ErrCodeStrategyNotFound,
		ErrCodePluginNotFound,
		ErrCodeStrategyConfigError,
		ErrCodeVersionMismatch:
		return true
	default:
		return false
	}
}

// IsNotFound reports whether err describes a missing resource rather than a failure.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeStrategyNotFound, ErrCodePluginNotFound, ErrCodeDataNotFound:
		return true
	default:
		return false
	}
}
