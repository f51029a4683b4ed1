package domain

import "errors"

// ErrorKind classifies an AppError for HTTP mapping and logging.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindInternal     ErrorKind = "internal"
)

// AppError is the error type returned by domain and application code.
// Reason is a stable machine-readable identifier; Message is safe to
// show to the caller.
type AppError struct {
	Kind    ErrorKind
	Reason  string
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError creates a validation AppError with the given reason.
func NewValidationError(reason, message string) *AppError {
	return &AppError{Kind: KindValidation, Reason: reason, Message: message}
}

// NewUnauthorizedError creates an AppError for a missing or invalid session.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Reason: "unauthorized", Message: message}
}

// NewForbiddenError creates an AppError for insufficient privilege.
func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Reason: "forbidden", Message: message}
}

// NewNotFoundError creates an AppError for a missing resource.
func NewNotFoundError(resource, id string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Reason:  "not_found",
		Message: resource + " not found: " + id,
	}
}

// NewConflictError creates a conflict AppError with the given reason.
func NewConflictError(reason, message string) *AppError {
	return &AppError{Kind: KindConflict, Reason: reason, Message: message}
}

// NewInternalError wraps an unexpected failure. The underlying error text
// is never exposed to callers; the response layer replaces it with a
// generic message.
func NewInternalError(message string) *AppError {
	return &AppError{Kind: KindInternal, Reason: "internal", Message: message}
}

// AsAppError extracts an *AppError from err, if present.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ReasonOf returns the machine-readable reason of err, or "internal" if
// err is not an AppError.
func ReasonOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Reason
	}
	return "internal"
}
