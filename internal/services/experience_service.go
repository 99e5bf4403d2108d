package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/isdelr/folio-be/internal/database"
	"github.com/isdelr/folio-be/internal/models"
)

// ExperienceServiceProvider defines the interface for experience services.
type ExperienceServiceProvider interface {
	GetExperiencesForUser(ctx context.Context, userID int64) ([]models.Experience, error)
	GetExperienceByID(ctx context.Context, id int64) (models.Experience, error)
	CreateExperience(ctx context.Context, ownerID int64, exp models.Experience) (models.Experience, error)
	UpdateExperience(ctx context.Context, id int64, exp models.Experience) (models.Experience, error)
	DeleteExperience(ctx context.Context, id int64) error
}

// ExperienceService provides business logic for work experience management.
type ExperienceService struct {
	db     *database.DB
	events EventRecorder
	now    func() time.Time
}

// NewExperienceService creates a new ExperienceService.
func NewExperienceService(db *database.DB, events EventRecorder) *ExperienceService {
	return &ExperienceService{db: db, events: events, now: time.Now}
}

const experienceColumns = `id, user_id, company, role, location, start_date, end_date, is_current, description, created_at, updated_at`

func (s *ExperienceService) scanExperience(scanner interface{ Scan(...any) error }) (models.Experience, error) {
	var e models.Experience
	var endDate sql.NullString
	err := scanner.Scan(
		&e.ID, &e.UserID, &e.Company, &e.Role, &e.Location, &e.StartDate,
		&endDate, &e.Current, &e.Description, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return e, err
	}
	if endDate.Valid {
		e.EndDate = &endDate.String
	}
	e.PrepareForAPI(s.now())
	return e, nil
}

// GetExperiencesForUser retrieves a user's experiences, most recent first.
func (s *ExperienceService) GetExperiencesForUser(ctx context.Context, userID int64) ([]models.Experience, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(
		"SELECT "+experienceColumns+" FROM experiences WHERE user_id = ? ORDER BY is_current DESC, start_date DESC, id DESC"), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	experiences := []models.Experience{}
	for rows.Next() {
		e, err := s.scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}

// GetExperienceByID retrieves a single experience by its ID.
func (s *ExperienceService) GetExperienceByID(ctx context.Context, id int64) (models.Experience, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT "+experienceColumns+" FROM experiences WHERE id = ?"), id)
	e, err := s.scanExperience(row)
	if err != nil {
		return models.Experience{}, fmt.Errorf("experience %d: %w", id, notFound(err))
	}
	return e, nil
}

// CreateExperience adds an experience owned by ownerID.
func (s *ExperienceService) CreateExperience(ctx context.Context, ownerID int64, exp models.Experience) (models.Experience, error) {
	if err := exp.Normalize(); err != nil {
		return models.Experience{}, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO experiences (user_id, company, role, location, start_date, end_date, is_current, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		ownerID, exp.Company, exp.Role, exp.Location, exp.StartDate, exp.EndDate, exp.Current, exp.Description,
	).Scan(&id)
	if err != nil {
		return models.Experience{}, insertErr("experience", err)
	}

	s.events.CreateEvent(ctx, ownerID, "experience.create", fmt.Sprintf("Experience at '%s' added.", exp.Company))
	return s.GetExperienceByID(ctx, id)
}

// UpdateExperience updates an existing experience.
func (s *ExperienceService) UpdateExperience(ctx context.Context, id int64, exp models.Experience) (models.Experience, error) {
	if err := exp.Normalize(); err != nil {
		return models.Experience{}, err
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE experiences
		SET company = ?, role = ?, location = ?, start_date = ?, end_date = ?, is_current = ?, description = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`),
		exp.Company, exp.Role, exp.Location, exp.StartDate, exp.EndDate, exp.Current, exp.Description, id,
	)
	if err != nil {
		return models.Experience{}, fmt.Errorf("update experience %d: %w", id, err)
	}
	if err := requireAffected(res, "experience", id); err != nil {
		return models.Experience{}, err
	}

	updated, err := s.GetExperienceByID(ctx, id)
	if err != nil {
		return models.Experience{}, err
	}
	s.events.CreateEvent(ctx, updated.UserID, "experience.update", fmt.Sprintf("Experience at '%s' updated.", updated.Company))
	return updated, nil
}

// DeleteExperience removes an experience from the database.
func (s *ExperienceService) DeleteExperience(ctx context.Context, id int64) error {
	exp, err := s.GetExperienceByID(ctx, id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM experiences WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete experience %d: %w", id, err)
	}
	if err := requireAffected(res, "experience", id); err != nil {
		return err
	}

	s.events.CreateEvent(ctx, exp.UserID, "experience.delete", fmt.Sprintf("Experience at '%s' was removed.", exp.Company))
	return nil
}
