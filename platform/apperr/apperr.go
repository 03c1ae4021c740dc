// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer middleware
// automatically maps them to appropriate HTTP status codes.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates invalid input data.
	KindValidation
	// KindConflict indicates a conflict with existing state (e.g., a slot
	// already booked).
	KindConflict
	// KindInvalidStatus indicates an illegal lifecycle transition.
	KindInvalidStatus
	// KindForbidden indicates the action is not allowed for the user.
	KindForbidden
	// KindModuleAccess indicates a module view permission denies access.
	KindModuleAccess
	// KindAlreadyExists indicates a unique-key violation on write.
	KindAlreadyExists
	// KindUnauthorized indicates authentication is required or failed.
	KindUnauthorized
	// KindBadRequest indicates a malformed or invalid request.
	KindBadRequest
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Error is a domain error with a typed Kind for HTTP mapping and a stable
// machine-readable Code for API consumers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindConflict, KindAlreadyExists:
		return http.StatusConflict
	case KindInvalidStatus:
		return http.StatusUnprocessableEntity
	case KindForbidden, KindModuleAccess:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func codeFor(kind Kind) string {
	switch kind {
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConflict:
		return "CONFLICT"
	case KindInvalidStatus:
		return "INVALID_STATUS"
	case KindForbidden:
		return "FORBIDDEN"
	case KindModuleAccess:
		return "MODULE_ACCESS_FORBIDDEN"
	case KindAlreadyExists:
		return "ALREADY_EXISTS"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Code: codeFor(kind), Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Code: codeFor(kind), Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails returns the error with additional details.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Conflict creates a conflict error (e.g., duplicate booking).
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// InvalidStatus creates an illegal-transition error.
func InvalidStatus(message string) *Error {
	return New(KindInvalidStatus, message)
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// ModuleAccessForbidden creates a module permission error.
func ModuleAccessForbidden(message string) *Error {
	return New(KindModuleAccess, message)
}

// AlreadyExists creates a unique-key violation error.
func AlreadyExists(message string) *Error {
	return New(KindAlreadyExists, message)
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if the error is not an *Error.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
