// Package errors provides structured error types for gnparser.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// A name that cannot be parsed is not an error: it produces a result with
// parsed=false. Errors here describe invalid options, invalid batches and
// internal faults.
//
// # Error Codes
//
//   - INVALID_*: Input validation failures, reported before any parsing
//   - INTERNAL_ERROR: A fault recovered while parsing a single name
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCode, "unknown code: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidCode) {
//	    // Handle validation error
//	}
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidCode   Code = "INVALID_CODE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeTimeout      Code = "TIMEOUT"

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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
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

// Fault records a panic recovered while parsing one name.
type Fault struct {
	Name  string // Verbatim input that triggered the fault
	Value any    // Recovered panic value
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: parsing %q: %v", ErrCodeInternal, f.Name, f.Value)
}

// Code returns the error code for this error type.
func (f *Fault) Code() Code {
	return ErrCodeInternal
}

// IsFault reports whether err is or wraps a recovered parse fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}
