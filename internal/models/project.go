package models

import (
	"encoding/json"
	"time"
)

// Project is a piece of work shown on a portfolio.
type Project struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	TechStack   []string  `json:"techStack" validate:"max=30,dive,required,max=50"`
	RepoURL     string    `json:"repoUrl" validate:"omitempty,url,max=500"`
	LiveURL     string    `json:"liveUrl" validate:"omitempty,url,max=500"`
	ImageURL    string    `json:"imageUrl" validate:"omitempty,url,max=500"`
	Position    int       `json:"position" validate:"min=0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	TechStackJSON string `json:"-"`
}

// PrepareForSave marshals the tech stack into its JSON column form.
func (p *Project) PrepareForSave() {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	b, _ := json.Marshal(p.TechStack)
	p.TechStackJSON = string(b)
}

// PrepareForAPI unmarshals the JSON column back into the tech stack slice.
func (p *Project) PrepareForAPI() {
	p.TechStack = []string{}
	if p.TechStackJSON != "" {
		json.Unmarshal([]byte(p.TechStackJSON), &p.TechStack)
	}
}
