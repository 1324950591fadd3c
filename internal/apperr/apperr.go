// Package apperr defines the error taxonomy shared by the REST and
// GraphQL surfaces. Every failure a handler can report is an *Error with
// a Kind; the kind decides the HTTP status and the GraphQL extensions.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	ValidationFailed Kind = iota + 1
	Unauthenticated
	Unauthorized
	NotFound
	MissingAttachment
	Conflict
	StoreError
	Inconsistency
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application error. Violations is non-nil only for
// ValidationFailed.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	Err        error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case ValidationFailed, MissingAttachment:
		return http.StatusUnprocessableEntity
	case Unauthenticated:
		return http.StatusUnauthorized
	case Unauthorized:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Extensions satisfies graphql-go's gqlerrors.ExtendedError so GraphQL
// responses carry {status, data} alongside the message.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"status": e.Status()}
	if len(e.Violations) > 0 {
		ext["data"] = e.Violations
	}
	return ext
}

// New builds an *Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Invalid builds a ValidationFailed error carrying the violations.
func Invalid(violations []Violation) *Error {
	return &Error{Kind: ValidationFailed, Message: "Invalid input.", Violations: violations}
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// wireError is the JSON error body: {message, status, data?}.
type wireError struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    []Violation `json:"data,omitempty"`
}

// WriteJSON writes err to w in the wire format. Errors that are not
// *Error are reported as a generic 500 without leaking the cause.
func WriteJSON(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: StoreError, Message: "An error occurred."}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status())
	json.NewEncoder(w).Encode(wireError{
		Message: e.Message,
		Status:  e.Status(),
		Data:    e.Violations,
	})
}
