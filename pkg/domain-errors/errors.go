package domainerrors

import "errors"

// Code classifies a domain error. Every service-level failure carries exactly
// one code; the HTTP boundary maps codes to status categories and never leaks
// anything beyond the error's literal message.
type Code string

const (
	// CodeNotFound means the referenced entity does not exist in its owning store.
	CodeNotFound Code = "not_found"
	// CodeNotAllowed means the entity exists but the caller's action violates a
	// precondition (not a member, not the owner, already a member, ...).
	CodeNotAllowed Code = "not_allowed"

	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// Error is the tagged error variant used across all concept modules. Stores do
// not return these directly; they speak sentinel errors which services
// translate here, keeping transient store failures distinct from genuine
// domain-rule violations.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error while keeping the
// cause available to errors.Is/As.
func Wrap(err error, code Code, message string) error {
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

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not pass through the domain taxonomy.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
