package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/database"
	"github.com/isdelr/folio-be/internal/models"
	"github.com/isdelr/folio-be/internal/websocket"
)

// EventRecorder is the write side of the activity log. Recording is best
// effort: failures are logged, never returned to the mutation that caused them.
type EventRecorder interface {
	CreateEvent(ctx context.Context, userID int64, eventType, message string)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	EventRecorder
	GetRecentEvents(ctx context.Context, userID int64, limit int) ([]models.Event, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Publisher pushes a message to a user's live connections.
type Publisher interface {
	PublishToUser(userID int64, message []byte)
}

// EventService provides business logic for event management.
type EventService struct {
	db        *database.DB
	publisher Publisher
	now       func() time.Time
}

// NewEventService creates a new EventService. publisher may be nil.
func NewEventService(db *database.DB, publisher Publisher) *EventService {
	return &EventService{db: db, publisher: publisher, now: time.Now}
}

// CreateEvent logs a new event to the database and pushes it to the user's
// live connections.
func (s *EventService) CreateEvent(ctx context.Context, userID int64, eventType, message string) {
	event := models.Event{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      eventType,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		s.db.Rebind("INSERT INTO events (id, user_id, type, message) VALUES (?, ?, ?, ?)"),
		event.ID, event.UserID, event.Type, event.Message)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Str("type", eventType).Msg("Failed to record event")
		return
	}

	if s.publisher == nil {
		return
	}
	payload, err := websocket.Encode("event", event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode event for publishing")
		return
	}
	s.publisher.PublishToUser(userID, payload)
}

// GetRecentEvents retrieves the most recent events of a user.
func (s *EventService) GetRecentEvents(ctx context.Context, userID int64, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		s.db.Rebind("SELECT id, user_id, type, message, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC LIMIT ?"),
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.UserID, &event.Type, &event.Message, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneBefore deletes events older than cutoff.
func (s *EventService) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM events WHERE created_at < ?"), s.db.TimeArg(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
