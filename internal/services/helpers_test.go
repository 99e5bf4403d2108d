package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isdelr/folio-be/internal/auth"
	"github.com/isdelr/folio-be/internal/database"
)

type recordedEvent struct {
	UserID int64
	Type   string
}

type stubRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *stubRecorder) CreateEvent(_ context.Context, userID int64, eventType, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{UserID: userID, Type: eventType})
}

func (r *stubRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.New(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func newTestUser(t *testing.T, users *UserService, email string) int64 {
	t.Helper()
	u, err := users.CreateUser(context.Background(), "Test User", email, "correct horse battery")
	require.NoError(t, err)
	return u.ID
}

func newUserService(db *database.DB, rec EventRecorder) *UserService {
	return NewUserService(db, auth.NewPasswordHasher(), rec)
}
