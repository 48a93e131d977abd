package errors

import (
	"errors"
	"net/http"
	"strings"
)

// APIError is what services hand back to handlers. Status picks the HTTP
// status; Code is stable and machine-readable.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func New(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func Internal(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, "internal_error", message)
}

func BadRequest(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}

// Invalid turns a validation error wrapping sentinel into a 400, dropping the
// sentinel's own text from the message.
func Invalid(code string, err, sentinel error) *APIError {
	message := err.Error()
	if sentinel != nil && errors.Is(err, sentinel) {
		message = strings.TrimPrefix(message, sentinel.Error()+": ")
	}
	return BadRequest(code, message)
}

func Unauthorized(message string) *APIError {
	if message == "" {
		message = "unauthorized"
	}
	return New(http.StatusUnauthorized, "unauthorized", message)
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code, message string, details any) *APIError {
	err := New(http.StatusConflict, code, message)
	err.Details = details
	return err
}
