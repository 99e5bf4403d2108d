package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/folio-be/internal/database"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write collides with a unique column.
	ErrConflict = errors.New("conflict")
	// ErrOwnerMissing is returned when a row is created for a user that no
	// longer exists.
	ErrOwnerMissing = errors.New("owner no longer exists")
	// ErrInvalidCredentials is returned when an email/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// notFound maps sql.ErrNoRows onto ErrNotFound and leaves other errors alone.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// insertErr wraps a failed insert, mapping a dangling user_id onto ErrOwnerMissing.
func insertErr(what string, err error) error {
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("insert %s: %w", what, ErrOwnerMissing)
	}
	return fmt.Errorf("insert %s: %w", what, err)
}
