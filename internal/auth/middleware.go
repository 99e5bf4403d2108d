package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/metrics"
)

// BearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. A missing header, another scheme or an empty token all count as a
// missing credential.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrMissingCredential
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingCredential
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingCredential
	}
	return token, nil
}

// QueryOrBearerToken also accepts ?token=, for websocket upgrades where
// browsers cannot set headers.
func QueryOrBearerToken(r *http.Request) (string, error) {
	if token, err := BearerToken(r); err == nil {
		return token, nil
	}
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token, nil
	}
	return "", ErrMissingCredential
}

// TokenExtractor pulls a raw credential out of a request.
type TokenExtractor func(r *http.Request) (string, error)

// Authenticate creates a middleware for protecting routes. It verifies the
// bearer credential and passes the identity down via the request context.
func Authenticate(v *Verifier) func(http.Handler) http.Handler {
	return AuthenticateWith(v, BearerToken)
}

// AuthenticateWith is Authenticate with a custom token source.
func AuthenticateWith(v *Verifier, extract TokenExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extract(r)
			if err != nil {
				metrics.AuthFailures.WithLabelValues("missing").Inc()
				writeError(w, err)
				return
			}

			identity, err := v.Verify(r.Context(), tokenStr)
			if err != nil {
				switch {
				case errors.Is(err, ErrRevoked):
					metrics.AuthFailures.WithLabelValues("revoked").Inc()
				case errors.Is(err, ErrInvalidCredential):
					metrics.AuthFailures.WithLabelValues("invalid").Inc()
				default:
					metrics.AuthFailures.WithLabelValues("internal").Inc()
					log.Error().Err(err).Msg("Credential verification failed")
				}
				writeError(w, err)
				return
			}

			log.Debug().Int64("user_id", identity.ID).Str("path", r.URL.Path).Msg("Authenticated request")
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
