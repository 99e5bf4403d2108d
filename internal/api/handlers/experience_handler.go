package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/models"
	"github.com/isdelr/folio-be/internal/services"
)

// ExperienceHandler handles HTTP requests for work experience.
type ExperienceHandler struct {
	service services.ExperienceServiceProvider
}

// NewExperienceHandler creates a new ExperienceHandler.
func NewExperienceHandler(service services.ExperienceServiceProvider) *ExperienceHandler {
	return &ExperienceHandler{service: service}
}

// ListForUser handles GET /users/{id}/experiences.
func (h *ExperienceHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	experiences, err := h.service.GetExperiencesForUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list experiences")
		writeServiceError(w, err, "Experience")
		return
	}
	writeJSON(w, http.StatusOK, experiences)
}

// Get handles retrieving a single experience.
func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	experience, err := h.service.GetExperienceByID(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("experience_id", id).Msg("Failed to get experience")
		writeServiceError(w, err, "Experience")
		return
	}
	writeJSON(w, http.StatusOK, experience)
}

// Create handles adding an experience owned by the caller.
func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var payload models.Experience
	if !decode(w, r, &payload) {
		return
	}

	experience, err := h.service.CreateExperience(r.Context(), identity.ID, payload)
	if err != nil {
		log.Error().Err(err).Int64("user_id", identity.ID).Msg("Failed to create experience")
		writeServiceError(w, err, "Experience")
		return
	}
	writeJSON(w, http.StatusCreated, experience)
}

// Update handles editing an experience. Ownership is checked by middleware.
func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload models.Experience
	if !decode(w, r, &payload) {
		return
	}

	experience, err := h.service.UpdateExperience(r.Context(), id, payload)
	if err != nil {
		log.Error().Err(err).Int64("experience_id", id).Msg("Failed to update experience")
		writeServiceError(w, err, "Experience")
		return
	}
	writeJSON(w, http.StatusOK, experience)
}

// Delete handles removing an experience. Ownership is checked by middleware.
func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteExperience(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("experience_id", id).Msg("Failed to delete experience")
		writeServiceError(w, err, "Experience")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
