package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/auth"
	"github.com/isdelr/folio-be/internal/metrics"
	"github.com/isdelr/folio-be/internal/models"
	"github.com/isdelr/folio-be/internal/services"
)

// TokenIssuer mints a credential for a user.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

// TokenRevoker invalidates a credential before it expires.
type TokenRevoker interface {
	Revoke(ctx context.Context, id *auth.Identity) error
}

// AuthHandler handles registration, login and the caller's own session.
type AuthHandler struct {
	users   services.UserServiceProvider
	issuer  TokenIssuer
	revoker TokenRevoker
}

// NewAuthHandler creates a new AuthHandler. revoker may be nil when logout
// is not offered.
func NewAuthHandler(users services.UserServiceProvider, issuer TokenIssuer, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, revoker: revoker}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decode(w, r, &payload) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeServiceError(w, err, "User")
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles user authentication and token generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decode(w, r, &payload) {
		metrics.LoginAttempts.WithLabelValues("invalid_request").Inc()
		return
	}

	user, err := h.users.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("email", payload.Email).Msg("Login lookup failed")
		writeServiceError(w, err, "User")
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.respondWithToken(w, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user models.User) {
	token, err := h.issuer.Issue(user)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	metrics.TokensIssued.Inc()

	// sanitize user for response
	user.PasswordHash = ""
	writeJSON(w, status, AuthResponse{Token: token, User: user})
}

// GetMe retrieves the currently authenticated user.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(r.Context(), identity.ID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", identity.ID).Msg("User from token not found in DB")
		writeServiceError(w, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout revokes the credential used for this request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	if h.revoker == nil {
		http.Error(w, "Logout is not supported", http.StatusNotImplemented)
		return
	}

	if err := h.revoker.Revoke(r.Context(), identity); err != nil {
		log.Error().Err(err).Int64("user_id", identity.ID).Msg("Failed to revoke token")
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}
	log.Info().Int64("user_id", identity.ID).Str("jti", identity.TokenID).Msg("Token revoked")
	w.WriteHeader(http.StatusNoContent)
}
