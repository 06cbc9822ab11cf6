// Package errors provides structured error types for the yourcommute explorer.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that the CLI, the terminal explorer and the HTTP API can decide
// how to surface it:
//
//   - MALFORMED_NETWORK: the network data cannot be joined into a valid graph.
//     This is fatal at load time.
//   - NO_ROUTE: two stations do not share a line path. Informational.
//   - FETCH_FAILED, NETWORK_ERROR, TIMEOUT: loading rollup data failed. Only
//     the scatterplot reports these.
//   - UNKNOWN_STATION: a station ID (usually from a URL fragment) is unknown.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedNetwork, "link %d: target index %d out of range", i, idx)
//	if errors.Is(err, errors.ErrCodeMalformedNetwork) {
//	    // abort startup
//	}
//
//	err = errors.Wrap(errors.ErrCodeFetchFailed, cause, "load rollup for %s", from)
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidStationID Code = "INVALID_STATION_ID"
	ErrCodeInvalidHash      Code = "INVALID_HASH"

	// Network data errors
	ErrCodeMalformedNetwork Code = "MALFORMED_NETWORK"
	ErrCodeUnknownStation   Code = "UNKNOWN_STATION"
	ErrCodeNoRoute          Code = "NO_ROUTE"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Fetch errors
	ErrCodeFetchFailed Code = "FETCH_FAILED"
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Is reports whether err has the given error code.
// Only the outermost *Error in the chain is consulted, so a wrapped
// MALFORMED_NETWORK reported as FETCH_FAILED is a fetch failure.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// As is the standard library's errors.As, so callers need one errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsDeadline reports whether err came from an expired context or a client
// timeout.
func IsDeadline(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
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

// IsRecoverable reports whether the explorer can keep running after err.
// Only malformed network data and internal errors are fatal.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedNetwork, ErrCodeInternal:
		return false
	default:
		return true
	}
}
