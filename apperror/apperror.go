// Package apperror holds the error taxonomy shared by services and handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	InvalidRequest           Kind = "INVALID_REQUEST"
	Unauthorized             Kind = "UNAUTHORIZED"
	Forbidden                Kind = "FORBIDDEN"
	NotFound                 Kind = "NOT_FOUND"
	EventEnded               Kind = "EVENT_ENDED"
	InsufficientInventory    Kind = "INSUFFICIENT_INVENTORY"
	AlreadyCancelled         Kind = "ALREADY_CANCELLED"
	CancellationWindowClosed Kind = "CANCELLATION_WINDOW_CLOSED"
	Conflict                 Kind = "CONFLICT"
	Internal                 Kind = "INTERNAL"
)

var statusByKind = map[Kind]int{
	InvalidRequest:           http.StatusBadRequest,
	Unauthorized:             http.StatusUnauthorized,
	Forbidden:                http.StatusForbidden,
	NotFound:                 http.StatusNotFound,
	EventEnded:               http.StatusConflict,
	InsufficientInventory:    http.StatusConflict,
	AlreadyCancelled:         http.StatusConflict,
	CancellationWindowClosed: http.StatusConflict,
	Conflict:                 http.StatusConflict,
	Internal:                 http.StatusInternalServerError,
}

type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status is the HTTP status code for the error's kind.
func (e *Error) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// Insufficient reports that only remaining units are left for the requested tier.
func Insufficient(remaining int) *Error {
	return New(InsufficientInventory, fmt.Sprintf("only %d tickets remaining", remaining)).
		With("remaining", remaining)
}

// KindOf returns the Kind of err, or Internal for anything outside the taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// From converts any error into an *Error, wrapping unknown errors as Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(Internal, "unexpected error", err)
}
