package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/models"
	"github.com/isdelr/folio-be/internal/services"
)

// SkillHandler handles HTTP requests for skills.
type SkillHandler struct {
	service services.SkillServiceProvider
}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler(service services.SkillServiceProvider) *SkillHandler {
	return &SkillHandler{service: service}
}

// ListForUser handles GET /users/{id}/skills.
func (h *SkillHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	skills, err := h.service.GetSkillsForUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list skills")
		writeServiceError(w, err, "Skill")
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// Get handles retrieving a single skill.
func (h *SkillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	skill, err := h.service.GetSkillByID(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("skill_id", id).Msg("Failed to get skill")
		writeServiceError(w, err, "Skill")
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// Create handles adding a skill owned by the caller.
func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var payload models.Skill
	if !decode(w, r, &payload) {
		return
	}

	skill, err := h.service.CreateSkill(r.Context(), identity.ID, payload)
	if err != nil {
		log.Error().Err(err).Int64("user_id", identity.ID).Msg("Failed to create skill")
		writeServiceError(w, err, "Skill")
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

// Update handles editing a skill. Ownership is checked by middleware.
func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload models.Skill
	if !decode(w, r, &payload) {
		return
	}

	skill, err := h.service.UpdateSkill(r.Context(), id, payload)
	if err != nil {
		log.Error().Err(err).Int64("skill_id", id).Msg("Failed to update skill")
		writeServiceError(w, err, "Skill")
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// Delete handles removing a skill. Ownership is checked by middleware.
func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteSkill(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("skill_id", id).Msg("Failed to delete skill")
		writeServiceError(w, err, "Skill")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
