// Package apperr defines the application error taxonomy shared by services,
// repositories and HTTP handlers. Services return *Error values with a stable
// machine-readable code; the echo error handler translates them into JSON
// envelopes so storage-engine details never leak to clients.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a typed application failure. Code is stable and machine readable,
// Status is the HTTP status it maps to, Message is safe to show to clients.
type Error struct {
	Code    string `json:"error"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// Client errors (4xx).

func NotFound(msg string) *Error {
	return &Error{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: msg}
}

func AlreadyExists(msg string) *Error {
	return &Error{Code: "ALREADY_EXISTS", Status: http.StatusConflict, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Code: "VALIDATION_ERROR", Status: http.StatusUnprocessableEntity, Message: msg}
}

func BadRequest(msg string) *Error {
	return &Error{Code: "BAD_REQUEST", Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized means no credential or an invalid credential was presented.
func Unauthorized(msg string) *Error {
	return &Error{Code: "UNAUTHORIZED", Status: http.StatusUnauthorized, Message: msg}
}

// PermissionDenied means the credential was valid but rights are insufficient.
func PermissionDenied(msg string) *Error {
	return &Error{Code: "PERMISSION_DENIED", Status: http.StatusForbidden, Message: msg}
}

// Server errors (5xx).

func Database(msg string) *Error {
	return &Error{Code: "DATABASE_ERROR", Status: http.StatusInternalServerError, Message: msg}
}

func Internal(msg string) *Error {
	return &Error{Code: "INTERNAL_SERVER_ERROR", Status: http.StatusInternalServerError, Message: msg}
}

// As unwraps err into *Error when possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
