// Package domainerrors defines the typed error kinds returned by domain
// services. Transport layers translate codes into HTTP statuses; services
// never inspect raw collaborator errors outside this package.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. The set is closed: every failure a service
// returns carries exactly one of these.
type Code string

const (
	// CodeValidation marks field-level input rejections raised by aggregate
	// constructors and mutators.
	CodeValidation Code = "validation_error"
	// CodeBadRequest marks malformed or missing request input detected before
	// domain rules run.
	CodeBadRequest Code = "bad_request"
	// CodeConflict marks uniqueness violations (duplicate CPF).
	CodeConflict Code = "conflict"
	// CodeNotFound marks lookups where the id does not resolve.
	CodeNotFound Code = "not_found"
	// CodeUnauthorized marks authentication failures. Lookup miss and bad
	// password share this code so callers cannot probe account existence.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks authenticated but disallowed operations.
	CodeForbidden Code = "forbidden"
	// CodeInternal marks unexpected collaborator faults. The cause is kept for
	// diagnostics but never surfaced to callers.
	CodeInternal Code = "internal_error"
)

// Error is the concrete domain error. Field is set for validation errors that
// are attributable to a single input field.
type Error struct {
	Code    Code
	Field   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewField builds a validation-style error attributed to a specific field.
func NewField(code Code, field, message string) *Error {
	return &Error{Code: code, Field: field, Message: message}
}

// Wrap attaches a domain code to a collaborator error, preserving the cause
// for errors.Is/As chains and diagnostics.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the domain code from err, defaulting to CodeInternal for
// unclassified errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FieldOf returns the offending field for validation errors, or "".
func FieldOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Field
	}
	return ""
}
