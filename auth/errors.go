package auth

import "errors"

// Kind discriminates the error variants the service can return. Each kind
// maps to exactly one HTTP status and one wire shape at the handler
// boundary.
type Kind int

const (
	// KindValidation carries field-level detail for malformed input.
	KindValidation Kind = iota
	// KindConflict marks a duplicate-email registration.
	KindConflict
	// KindUnauthorized covers bad credentials and missing/invalid/expired/
	// revoked tokens. The message is deliberately generic and identical
	// across causes.
	KindUnauthorized
	// KindNotFound marks an absent resource for an authenticated caller.
	KindNotFound
	// KindInternal wraps store or unexpected failures. The underlying
	// cause is logged server-side and never sent to the client.
	KindInternal
)

// Error is the tagged error variant returned by the service. Fields is
// populated only for KindValidation and KindConflict.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// NewValidationError builds a KindValidation error with field detail.
func NewValidationError(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// NewConflictError builds a KindConflict error attributed to one field.
func NewConflictError(field, message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}

// NewUnauthorizedError builds a KindUnauthorized error with a generic message.
func NewUnauthorizedError(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NewNotFoundError builds a KindNotFound error.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewInternalError wraps an unexpected failure. The cause stays server-side.
func NewInternalError(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: cause}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for
// anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
