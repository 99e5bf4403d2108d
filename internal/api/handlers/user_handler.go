package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/models"
	"github.com/isdelr/folio-be/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// ChangePasswordPayload defines the structure for password changes.
type ChangePasswordPayload struct {
	CurrentPassword string `json:"currentPassword" validate:"required,maxbytes=72"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,maxbytes=72"`
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("Failed to get user by ID")
		writeServiceError(w, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update handles updating a user's profile information.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload models.Profile
	if !decode(w, r, &payload) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, payload)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to update user")
		writeServiceError(w, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of a user account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		writeServiceError(w, err, "User")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles changing a user's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload ChangePasswordPayload
	if !decode(w, r, &payload) {
		return
	}

	if err := h.service.UpdatePassword(r.Context(), id, payload.CurrentPassword, payload.NewPassword); err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("Failed to change password")
		if errors.Is(err, services.ErrInvalidCredentials) {
			http.Error(w, "Current password is incorrect", http.StatusBadRequest)
			return
		}
		writeServiceError(w, err, "User")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
