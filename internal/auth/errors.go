package auth

import (
	"errors"
	"net/http"
)

// Request-terminal failures of the credential and ownership checks.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("forbidden")
	ErrRevoked           = errors.New("credential revoked")
)

// StatusFor maps an auth failure to its HTTP status. Anything that is not one
// of the sentinels above is an internal error.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidCredential), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	msg := http.StatusText(status)
	switch {
	case errors.Is(err, ErrMissingCredential):
		msg = "Missing auth token"
	case errors.Is(err, ErrInvalidCredential):
		msg = "Invalid auth token"
	case errors.Is(err, ErrForbidden):
		msg = "Forbidden"
	}
	http.Error(w, msg, status)
}
