// Package errors provides structured error types for penstroke.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - Identification of the offending input line
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The synthesis pipeline fails a whole request with one of three codes:
//   - INVALID_LINE: a line is too long or contains a character the model cannot write
//   - EMPTY_INPUT: no non-blank line was supplied
//   - MODEL_INVOCATION: the sampling model failed or returned malformed output
//
// Other INVALID_* codes cover request parameters; NOT_FOUND, NETWORK_* and
// INTERNAL_* cover storage and transport.
//
// # Usage
//
//	err := errors.NewLine(errors.ErrCodeInvalidLine, 2, "line 2 exceeds 75 characters (80)")
//	if errors.Is(err, errors.ErrCodeInvalidLine) {
//	    line, _ := errors.LineOf(err)
//	    // Report the offending line
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeModelInvocation, origErr, "sample %d lines", n)
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
	ErrCodeInvalidLine   Code = "INVALID_LINE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeEmptyInput    Code = "EMPTY_INPUT"

	// Model errors
	ErrCodeModelInvocation Code = "MODEL_INVOCATION"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)

	line    int
	hasLine bool
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

// Line returns the index of the input line the error refers to.
// ok is false for errors that are not tied to a line.
func (e *Error) Line() (line int, ok bool) {
	return e.line, e.hasLine
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewLine creates a new Error that refers to input line 'line'.
func NewLine(code Code, line int, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.line, e.hasLine = line, true
	return e
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

// LineOf extracts the offending line index from an error chain.
func LineOf(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Line()
	}
	return 0, false
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
