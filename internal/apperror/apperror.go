// Package apperror defines the error taxonomy shared by the gateway, session
// and page layers. Sentinel errors classify the failure; *AppError carries the
// human-readable message that page controllers surface.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is raised locally, before any network call, for
	// missing or malformed identifiers and search keywords.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound maps an upstream 404 for a specific resource.
	ErrNotFound = errors.New("not found")

	// ErrAuthDenied is the structured 403 returned by the login endpoint,
	// carrying a message and a reason that must be shown verbatim.
	ErrAuthDenied = errors.New("authentication denied")

	// ErrUpstream covers every other transport or HTTP failure from the
	// backend API.
	ErrUpstream = errors.New("upstream error")

	// ErrForbidden marks actions the current identity may not perform.
	ErrForbidden = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel classifying the error
	Message string // human-readable error message
	Field   string // optional: field causing the error
	Reason  string // optional: upstream-supplied denial reason
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidArgument returns an AppError for a bad caller-supplied value.
// No request has been issued when this is returned.
func InvalidArgument(field, message string) *AppError {
	return &AppError{
		Err:     ErrInvalidArgument,
		Message: message,
		Field:   field,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// AuthDenied wraps the message and reason of a 403 login response. Both are
// surfaced verbatim to the user.
func AuthDenied(message, reason string) *AppError {
	return &AppError{
		Err:     ErrAuthDenied,
		Message: message,
		Reason:  reason,
	}
}

// Upstream returns an AppError for a failed backend call. The message should
// be the server-supplied one when the error body could be decoded, a generic
// fallback otherwise.
func Upstream(message string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: message,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
