// Package errors provides structured error types for pydocscraper.
//
// This package defines error codes and types that enable:
//   - A stable taxonomy for the scraping pipeline (network, structure, input)
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - *_NOT_FOUND: Expected content missing from a fetched page
//   - CONNECTION_ERROR, EMPTY_RESPONSE, HTTP_STATUS: Fetch failures
//   - INTERNAL, FILESYSTEM: Unexpected local failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidMode, "unknown mode: %s", mode)
//	if errors.Is(err, errors.ErrCodeInvalidMode) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeConnection, origErr, "GET %s", url)
//
// Structural failures of the document reader are reported as
// [*TagNotFoundError], which carries the tag and filter for diagnostics and
// also answers to [ErrCodeTagNotFound].
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
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidMode         Code = "INVALID_MODE"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"
	ErrCodeInvalidPath         Code = "INVALID_PATH"
	ErrCodeInvalidAbbreviation Code = "INVALID_ABBREVIATION"

	// Page structure errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeTagNotFound       Code = "TAG_NOT_FOUND"
	ErrCodeAttributeNotFound Code = "ATTRIBUTE_NOT_FOUND"

	// Fetch errors
	ErrCodeConnection    Code = "CONNECTION_ERROR"
	ErrCodeEmptyResponse Code = "EMPTY_RESPONSE"
	ErrCodeHTTPStatus    Code = "HTTP_STATUS"

	// Internal errors
	ErrCodeFilesystem Code = "FILESYSTEM"
	ErrCodeInternal   Code = "INTERNAL_ERROR"
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
// It unwraps the error chain looking for an *Error or a *TagNotFoundError
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var tnf *TagNotFoundError
	if errors.As(err, &tnf) {
		return tnf.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and its cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// TagNotFoundError reports that a required element is absent from a parsed page.
type TagNotFoundError struct {
	Tag    string // Element name that was searched for
	Filter string // Human-readable attribute filter, empty when unfiltered
}

// Error implements the error interface.
func (e *TagNotFoundError) Error() string {
	if e.Filter == "" {
		return fmt.Sprintf("%s: tag <%s> not found", ErrCodeTagNotFound, e.Tag)
	}
	return fmt.Sprintf("%s: tag <%s> %s not found", ErrCodeTagNotFound, e.Tag, e.Filter)
}

// Code returns the error code for this error type.
func (e *TagNotFoundError) Code() Code {
	return ErrCodeTagNotFound
}
