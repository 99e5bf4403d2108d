package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/models"
	"github.com/isdelr/folio-be/internal/services"
)

// ProjectHandler handles HTTP requests for portfolio projects.
type ProjectHandler struct {
	service services.ProjectServiceProvider
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service services.ProjectServiceProvider) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// ListForUser handles GET /users/{id}/projects.
func (h *ProjectHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	projects, err := h.service.GetProjectsForUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list projects")
		writeServiceError(w, err, "Project")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get handles retrieving a single project.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	project, err := h.service.GetProjectByID(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("project_id", id).Msg("Failed to get project")
		writeServiceError(w, err, "Project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Create handles adding a project owned by the caller.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var payload models.Project
	if !decode(w, r, &payload) {
		return
	}

	project, err := h.service.CreateProject(r.Context(), identity.ID, payload)
	if err != nil {
		log.Error().Err(err).Int64("user_id", identity.ID).Msg("Failed to create project")
		writeServiceError(w, err, "Project")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// Update handles editing a project. Ownership is checked by middleware.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload models.Project
	if !decode(w, r, &payload) {
		return
	}

	project, err := h.service.UpdateProject(r.Context(), id, payload)
	if err != nil {
		log.Error().Err(err).Int64("project_id", id).Msg("Failed to update project")
		writeServiceError(w, err, "Project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete handles removing a project. Ownership is checked by middleware.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("project_id", id).Msg("Failed to delete project")
		writeServiceError(w, err, "Project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
