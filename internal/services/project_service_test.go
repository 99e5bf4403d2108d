package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/folio-be/internal/database"
	"github.com/isdelr/folio-be/internal/models"
)

func TestProjectService_CRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	rec := &stubRecorder{}
	users := newUserService(db, rec)
	projects := NewProjectService(db, rec)
	owner := newTestUser(t, users, "owner@example.com")

	created, err := projects.CreateProject(ctx, owner, models.Project{
		UserID:    owner + 42, // ignored
		Title:     "Compiler",
		TechStack: []string{"Go", "LLVM"},
		Position:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, owner, created.UserID)
	assert.Equal(t, []string{"Go", "LLVM"}, created.TechStack)

	second, err := projects.CreateProject(ctx, owner, models.Project{Title: "Shell", Position: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{}, second.TechStack)

	list, err := projects.GetProjectsForUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Shell", list[0].Title)
	assert.Equal(t, "Compiler", list[1].Title)

	updated, err := projects.UpdateProject(ctx, created.ID, models.Project{Title: "Compiler v2", TechStack: []string{"Go"}})
	require.NoError(t, err)
	assert.Equal(t, "Compiler v2", updated.Title)
	assert.Equal(t, owner, updated.UserID)

	require.NoError(t, projects.DeleteProject(ctx, created.ID))
	_, err = projects.GetProjectByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, projects.DeleteProject(ctx, created.ID), ErrNotFound)

	_, err = projects.UpdateProject(ctx, created.ID, models.Project{Title: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{
		"user.register", "project.create", "project.create", "project.update", "project.delete",
	}, rec.types())
}

func TestProjectService_PostgresPlaceholders(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()

	projects := NewProjectService(database.Wrap(sqlDB, database.Postgres), &stubRecorder{})

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE user_id = $1 ORDER BY position ASC, id ASC")).
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection reset"))

	_, err = projects.GetProjectsForUser(context.Background(), 7)
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
