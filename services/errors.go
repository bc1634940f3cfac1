package services

import "net/http"

// Error is a service-level failure with the HTTP status it should map
// to. Controllers translate it with controllers.respondError; nothing is
// swallowed and nothing is retried.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func ErrNotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func ErrBadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func ErrForbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func ErrConflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

func ErrInternal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}
