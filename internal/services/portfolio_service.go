package services

import (
	"context"
	"fmt"

	"github.com/isdelr/folio-be/internal/models"
)

// PortfolioServiceProvider defines the interface for the public portfolio view.
type PortfolioServiceProvider interface {
	GetPortfolio(ctx context.Context, userID int64) (models.Portfolio, error)
}

// PortfolioService assembles a published user's profile and resources.
type PortfolioService struct {
	users       UserServiceProvider
	projects    ProjectServiceProvider
	skills      SkillServiceProvider
	experiences ExperienceServiceProvider
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(users UserServiceProvider, projects ProjectServiceProvider, skills SkillServiceProvider, experiences ExperienceServiceProvider) *PortfolioService {
	return &PortfolioService{users: users, projects: projects, skills: skills, experiences: experiences}
}

// GetPortfolio returns the aggregate view. Unpublished users look the same as
// missing ones.
func (s *PortfolioService) GetPortfolio(ctx context.Context, userID int64) (models.Portfolio, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.Portfolio{}, err
	}
	if !user.Published {
		return models.Portfolio{}, fmt.Errorf("portfolio %d: %w", userID, ErrNotFound)
	}

	projects, err := s.projects.GetProjectsForUser(ctx, userID)
	if err != nil {
		return models.Portfolio{}, fmt.Errorf("load projects: %w", err)
	}
	skills, err := s.skills.GetSkillsForUser(ctx, userID)
	if err != nil {
		return models.Portfolio{}, fmt.Errorf("load skills: %w", err)
	}
	experiences, err := s.experiences.GetExperiencesForUser(ctx, userID)
	if err != nil {
		return models.Portfolio{}, fmt.Errorf("load experiences: %w", err)
	}

	return models.Portfolio{
		User:        user,
		Projects:    projects,
		Skills:      skills,
		Experiences: experiences,
	}, nil
}
