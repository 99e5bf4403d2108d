package services

import (
	"context"
	"fmt"

	"github.com/isdelr/folio-be/internal/database"
	"github.com/isdelr/folio-be/internal/models"
)

// ProjectServiceProvider defines the interface for project services.
type ProjectServiceProvider interface {
	GetProjectsForUser(ctx context.Context, userID int64) ([]models.Project, error)
	GetProjectByID(ctx context.Context, id int64) (models.Project, error)
	CreateProject(ctx context.Context, ownerID int64, project models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id int64, project models.Project) (models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// ProjectService provides business logic for project management.
type ProjectService struct {
	db     *database.DB
	events EventRecorder
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *database.DB, events EventRecorder) *ProjectService {
	return &ProjectService{db: db, events: events}
}

const projectColumns = `id, user_id, title, description, tech_stack_json, repo_url, live_url, image_url, position, created_at, updated_at`

// scanProject is a helper to scan a project from a row or rows object.
func scanProject(scanner interface{ Scan(...any) error }) (models.Project, error) {
	var p models.Project
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.TechStackJSON,
		&p.RepoURL, &p.LiveURL, &p.ImageURL, &p.Position, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}
	p.PrepareForAPI()
	return p, nil
}

// GetProjectsForUser retrieves all projects of a user in display order.
func (s *ProjectService) GetProjectsForUser(ctx context.Context, userID int64) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		s.db.Rebind("SELECT "+projectColumns+" FROM projects WHERE user_id = ? ORDER BY position ASC, id ASC"), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProjectByID retrieves a single project by its ID.
func (s *ProjectService) GetProjectByID(ctx context.Context, id int64) (models.Project, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT "+projectColumns+" FROM projects WHERE id = ?"), id)
	p, err := scanProject(row)
	if err != nil {
		return models.Project{}, fmt.Errorf("project %d: %w", id, notFound(err))
	}
	return p, nil
}

// CreateProject adds a project owned by ownerID. Any owner in the payload is ignored.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID int64, project models.Project) (models.Project, error) {
	project.PrepareForSave()

	var id int64
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO projects (user_id, title, description, tech_stack_json, repo_url, live_url, image_url, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		ownerID, project.Title, project.Description, project.TechStackJSON,
		project.RepoURL, project.LiveURL, project.ImageURL, project.Position,
	).Scan(&id)
	if err != nil {
		return models.Project{}, insertErr("project", err)
	}

	s.events.CreateEvent(ctx, ownerID, "project.create", fmt.Sprintf("Project '%s' created.", project.Title))
	return s.GetProjectByID(ctx, id)
}

// UpdateProject updates an existing project. The owner never changes.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, project models.Project) (models.Project, error) {
	project.PrepareForSave()

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE projects
		SET title = ?, description = ?, tech_stack_json = ?, repo_url = ?, live_url = ?, image_url = ?,
		    position = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`),
		project.Title, project.Description, project.TechStackJSON, project.RepoURL,
		project.LiveURL, project.ImageURL, project.Position, id,
	)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project %d: %w", id, err)
	}
	if err := requireAffected(res, "project", id); err != nil {
		return models.Project{}, err
	}

	updated, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	s.events.CreateEvent(ctx, updated.UserID, "project.update", fmt.Sprintf("Project '%s' updated.", updated.Title))
	return updated, nil
}

// DeleteProject removes a project from the database.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM projects WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if err := requireAffected(res, "project", id); err != nil {
		return err
	}

	s.events.CreateEvent(ctx, project.UserID, "project.delete", fmt.Sprintf("Project '%s' was deleted.", project.Title))
	return nil
}
