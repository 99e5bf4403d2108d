package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	mu   sync.Mutex
	sent map[int64][][]byte
}

func (p *stubPublisher) PublishToUser(userID int64, message []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sent == nil {
		p.sent = make(map[int64][][]byte)
	}
	p.sent[userID] = append(p.sent[userID], message)
}

func TestEventService_RecordAndList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	pub := &stubPublisher{}
	events := NewEventService(db, pub)
	users := newUserService(db, events)
	id := newTestUser(t, users, "events@example.com")

	events.CreateEvent(ctx, id, "project.create", "Project 'A' created.")

	list, err := events.GetRecentEvents(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	types := []string{list[0].Type, list[1].Type}
	assert.ElementsMatch(t, []string{"user.register", "project.create"}, types)

	limited, err := events.GetRecentEvents(ctx, id, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.Len(t, pub.sent[id], 2)
	var msg struct {
		Action  string `json:"action"`
		Payload struct {
			Type   string `json:"type"`
			UserID int64  `json:"userId"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(pub.sent[id][1], &msg))
	assert.Equal(t, "event", msg.Action)
	assert.Equal(t, "project.create", msg.Payload.Type)
	assert.Equal(t, id, msg.Payload.UserID)
}

func TestEventService_FailedInsertIsNotPublished(t *testing.T) {
	pub := &stubPublisher{}
	events := NewEventService(newTestDB(t), pub)

	// no such user, the foreign key rejects the row
	events.CreateEvent(context.Background(), 12345, "user.update", "nope")

	assert.Empty(t, pub.sent)
}

func TestEventService_PruneBefore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	events := NewEventService(db, nil)
	users := newUserService(db, events)
	id := newTestUser(t, users, "prune@example.com")

	_, err := db.ExecContext(ctx,
		"INSERT INTO events (id, user_id, type, message, created_at) VALUES ('old', ?, 'x', 'old', ?)",
		id, db.TimeArg(time.Now().Add(-48*time.Hour)))
	require.NoError(t, err)

	n, err := events.PruneBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err := events.GetRecentEvents(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "user.register", list[0].Type)
}
