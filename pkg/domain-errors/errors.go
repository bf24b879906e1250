// Package domainerrors provides coded errors that services return and the
// transport layer translates into HTTP responses.
//
// Stores return sentinel errors (pkg/platform/sentinel) for infrastructure
// facts; services translate those into coded errors here. Handlers never
// inspect raw store errors.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and logging.
type Code string

const (
	// CodeBadRequest covers malformed requests: bad JSON, bad path values.
	CodeBadRequest Code = "bad_request"
	// CodeValidation covers user input rule violations. Errors with this
	// code carry the full list of field violations so callers can surface
	// every problem in one pass.
	CodeValidation Code = "validation_failed"
	// CodeInvalidInput covers a single unparsable value, such as a patch
	// field that cannot be converted to its semantic type.
	CodeInvalidInput Code = "invalid_input"
	// CodeInvalidRange covers a query range whose upper bound precedes its
	// lower bound.
	CodeInvalidRange Code = "invalid_range"
	// CodeNotFound signals that a referenced entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict signals a uniqueness or state conflict.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation signals a broken domain invariant. Services
	// usually translate these into CodeValidation before they reach the
	// transport.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnavailable signals that a collaborator is temporarily down.
	CodeUnavailable Code = "unavailable"
	// CodeInternal covers unexpected failures. The transport suppresses the
	// description for these so internal detail never leaks.
	CodeInternal Code = "internal_error"
)

// FieldViolation is a single field-level validation failure.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a coded domain error. Use New/Wrap/NewValidation to construct.
type Error struct {
	ErrCode    Code
	Message    string
	Violations []FieldViolation
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrCode, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.ErrCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs a coded error with a message.
func New(code Code, message string) error {
	return &Error{ErrCode: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{ErrCode: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/As inspection.
func Wrap(err error, code Code, message string) error {
	return &Error{ErrCode: code, Message: message, cause: err}
}

// NewValidation constructs a validation error carrying every field violation
// detected in one pass.
func NewValidation(violations []FieldViolation) error {
	return &Error{
		ErrCode:    CodeValidation,
		Message:    "validation failed",
		Violations: violations,
	}
}

// NewFieldViolation constructs an invalid-input error naming the offending
// field and the rejected value.
func NewFieldViolation(field, value string) error {
	return &Error{
		ErrCode:    CodeInvalidInput,
		Message:    fmt.Sprintf("invalid value %q for field %q", value, field),
		Violations: []FieldViolation{{Field: field, Message: fmt.Sprintf("invalid value %q", value)}},
	}
}

// HasCode reports whether err (or any error it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.ErrCode == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// unclassified errors so nothing unexpected maps to a client fault.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.ErrCode
	}
	return CodeInternal
}

// ViolationsOf extracts the field violations from err, or nil.
func ViolationsOf(err error) []FieldViolation {
	var de *Error
	if errors.As(err, &de) {
		return de.Violations
	}
	return nil
}

// MessageOf extracts the message from err, or the raw error text for
// unclassified errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
