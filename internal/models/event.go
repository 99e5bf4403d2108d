package models

import "time"

// Event is an entry in a user's activity log.
type Event struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Type      string    `json:"type"` // e.g. "project.create", "user.update"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
