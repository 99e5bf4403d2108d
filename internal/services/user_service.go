package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/folio-be/internal/database"
	"github.com/isdelr/folio-be/internal/models"
)

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	CreateUser(ctx context.Context, name, email, password string) (models.User, error)
	UpdateUser(ctx context.Context, id int64, profile models.Profile) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, currentPassword, newPassword string) error
	DeleteUser(ctx context.Context, id int64) error
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db     *database.DB
	hasher PasswordHasher
	events EventRecorder
}

// NewUserService creates a new UserService.
func NewUserService(db *database.DB, hasher PasswordHasher, events EventRecorder) *UserService {
	return &UserService{db: db, hasher: hasher, events: events}
}

const userColumns = `id, email, name, headline, bio, location, website, avatar_url, published, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }, withHash bool) (models.User, error) {
	var u models.User
	dest := []any{
		&u.ID, &u.Email, &u.Name, &u.Headline, &u.Bio, &u.Location,
		&u.Website, &u.AvatarURL, &u.Published, &u.CreatedAt, &u.UpdatedAt,
	}
	if withHash {
		dest = append(dest, &u.PasswordHash)
	}
	if err := scanner.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	user, err := scanUser(row, false)
	if err != nil {
		return models.User{}, fmt.Errorf("user %d: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT "+userColumns+", password_hash FROM users WHERE email = ?"), normalizeEmail(email))
	user, err := scanUser(row, true)
	if err != nil {
		return models.User{}, fmt.Errorf("user with email %s: %w", email, err)
	}
	return user, nil
}

// CreateUser creates a new user, hashing their password.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (models.User, error) {
	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		s.db.Rebind("INSERT INTO users (email, name, password_hash) VALUES (?, ?, ?) RETURNING id"),
		normalizeEmail(email), strings.TrimSpace(name), hashedPassword,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	s.events.CreateEvent(ctx, id, "user.register", "Account created.")
	return s.GetUserByID(ctx, id)
}

// UpdateUser updates a user's non-sensitive information.
func (s *UserService) UpdateUser(ctx context.Context, id int64, profile models.Profile) (models.User, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE users
		SET email = ?, name = ?, headline = ?, bio = ?, location = ?, website = ?, avatar_url = ?,
		    published = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`),
		normalizeEmail(profile.Email), strings.TrimSpace(profile.Name), profile.Headline, profile.Bio,
		profile.Location, profile.Website, profile.AvatarURL, profile.Published, id,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("email %s already registered: %w", profile.Email, ErrConflict)
		}
		return models.User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	if err := requireAffected(res, "user", id); err != nil {
		return models.User{}, err
	}

	s.events.CreateEvent(ctx, id, "user.update", "Profile updated.")
	return s.GetUserByID(ctx, id)
}

// UpdatePassword verifies the current password, then hashes and sets a new password for a user.
func (s *UserService) UpdatePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	var hash string
	err := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT password_hash FROM users WHERE id = ?"), id).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("could not find user to update password: %w", err)
	}

	if !s.hasher.Verify(currentPassword, hash) {
		return fmt.Errorf("current password is incorrect: %w", ErrInvalidCredentials)
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"), newHash, id)
	if err != nil {
		return fmt.Errorf("update password for user %d: %w", id, err)
	}

	s.events.CreateEvent(ctx, id, "user.password", "Password changed.")
	return nil
}

// DeleteUser removes a user and, through cascading keys, everything they own.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return requireAffected(res, "user", id)
}

// AuthenticateUser verifies a user's credentials. Unknown emails and wrong
// passwords produce the same error.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, fmt.Errorf("authentication failed: %w", ErrInvalidCredentials)
		}
		return models.User{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, fmt.Errorf("authentication failed: %w", ErrInvalidCredentials)
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

func requireAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
