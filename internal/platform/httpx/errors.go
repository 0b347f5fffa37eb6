// Package httpx provides JSON response helpers.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors the domain layer wraps to pick a status code.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// StatusFor maps a domain error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as an error body, hiding internal error text
// behind fallback for 5xx responses.
func RespondError(w http.ResponseWriter, err error, fallback string) {
	status := StatusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = fallback
	}
	Error(w, status, msg)
}
