package services

import (
	"context"
	"fmt"

	"github.com/isdelr/folio-be/internal/database"
	"github.com/isdelr/folio-be/internal/models"
)

// SkillServiceProvider defines the interface for skill services.
type SkillServiceProvider interface {
	GetSkillsForUser(ctx context.Context, userID int64) ([]models.Skill, error)
	GetSkillByID(ctx context.Context, id int64) (models.Skill, error)
	CreateSkill(ctx context.Context, ownerID int64, skill models.Skill) (models.Skill, error)
	UpdateSkill(ctx context.Context, id int64, skill models.Skill) (models.Skill, error)
	DeleteSkill(ctx context.Context, id int64) error
}

// SkillService provides business logic for skill management.
type SkillService struct {
	db     *database.DB
	events EventRecorder
}

// NewSkillService creates a new SkillService.
func NewSkillService(db *database.DB, events EventRecorder) *SkillService {
	return &SkillService{db: db, events: events}
}

const skillColumns = `id, user_id, name, category, level, created_at`

func scanSkill(scanner interface{ Scan(...any) error }) (models.Skill, error) {
	var sk models.Skill
	err := scanner.Scan(&sk.ID, &sk.UserID, &sk.Name, &sk.Category, &sk.Level, &sk.CreatedAt)
	return sk, err
}

// GetSkillsForUser retrieves all skills of a user grouped by category.
func (s *SkillService) GetSkillsForUser(ctx context.Context, userID int64) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx,
		s.db.Rebind("SELECT "+skillColumns+" FROM skills WHERE user_id = ? ORDER BY category ASC, level DESC, name ASC"), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := []models.Skill{}
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

// GetSkillByID retrieves a single skill by its ID.
func (s *SkillService) GetSkillByID(ctx context.Context, id int64) (models.Skill, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT "+skillColumns+" FROM skills WHERE id = ?"), id)
	sk, err := scanSkill(row)
	if err != nil {
		return models.Skill{}, fmt.Errorf("skill %d: %w", id, notFound(err))
	}
	return sk, nil
}

// CreateSkill adds a skill owned by ownerID.
func (s *SkillService) CreateSkill(ctx context.Context, ownerID int64, skill models.Skill) (models.Skill, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("INSERT INTO skills (user_id, name, category, level) VALUES (?, ?, ?, ?) RETURNING id"),
		ownerID, skill.Name, skill.Category, skill.Level,
	).Scan(&id)
	if err != nil {
		return models.Skill{}, insertErr("skill", err)
	}

	s.events.CreateEvent(ctx, ownerID, "skill.create", fmt.Sprintf("Skill '%s' added.", skill.Name))
	return s.GetSkillByID(ctx, id)
}

// UpdateSkill updates an existing skill.
func (s *SkillService) UpdateSkill(ctx context.Context, id int64, skill models.Skill) (models.Skill, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE skills SET name = ?, category = ?, level = ? WHERE id = ?"),
		skill.Name, skill.Category, skill.Level, id)
	if err != nil {
		return models.Skill{}, fmt.Errorf("update skill %d: %w", id, err)
	}
	if err := requireAffected(res, "skill", id); err != nil {
		return models.Skill{}, err
	}

	updated, err := s.GetSkillByID(ctx, id)
	if err != nil {
		return models.Skill{}, err
	}
	s.events.CreateEvent(ctx, updated.UserID, "skill.update", fmt.Sprintf("Skill '%s' updated.", updated.Name))
	return updated, nil
}

// DeleteSkill removes a skill from the database.
func (s *SkillService) DeleteSkill(ctx context.Context, id int64) error {
	skill, err := s.GetSkillByID(ctx, id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM skills WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete skill %d: %w", id, err)
	}
	if err := requireAffected(res, "skill", id); err != nil {
		return err
	}

	s.events.CreateEvent(ctx, skill.UserID, "skill.delete", fmt.Sprintf("Skill '%s' was removed.", skill.Name))
	return nil
}
