package models

import "time"

// Skill is a named competency with a 1-5 proficiency level.
type Skill struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name" validate:"required,max=80"`
	Category  string    `json:"category" validate:"max=80"`
	Level     int       `json:"level" validate:"min=1,max=5"`
	CreatedAt time.Time `json:"createdAt"`
}
