// Package remote defines the error type shared by the Tick and
// FreshBooks API clients.
package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is any non-success response from either remote service. Code
// mirrors the HTTP status when one was received; 0 means the failure
// happened at the transport level (connect, timeout, read).
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Code)
}

// NewError creates a remote Error
func NewError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Code returns the HTTP status carried by err, or -1 if err is not a
// remote Error.
func Code(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return -1
}

// IsNotFound reports whether err is a remote 404
func IsNotFound(err error) bool {
	return Code(err) == http.StatusNotFound
}

// IsAuth reports whether err signals invalid credentials. Callers use
// this to tell the user to re-run login rather than retry.
func IsAuth(err error) bool {
	return Code(err) == http.StatusUnauthorized
}
