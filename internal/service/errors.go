package service

import (
	"errors"
	"net/http"
)

// Error is returned by every MenuService operation. Status is the HTTP status
// the caller should surface.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on status so callers can test errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Status == t.Status
}

var (
	ErrInvalidInput   = &Error{Status: http.StatusBadRequest, Message: "Invalid Input"}
	ErrNotFound       = &Error{Status: http.StatusNotFound, Message: "Not found"}
	ErrDatabase       = &Error{Status: http.StatusInternalServerError, Message: "Internal Server Error"}
	ErrNotImplemented = &Error{Status: http.StatusNotImplemented, Message: "Method Not Implemented"}
)

func InvalidInput(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func DatabaseError(msg string) error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

func NotImplemented(msg string) error {
	return &Error{Status: http.StatusNotImplemented, Message: msg}
}

// StatusOf returns the status carried by err, or 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
