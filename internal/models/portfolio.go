package models

// Portfolio is the public, read-only view of a published user.
type Portfolio struct {
	User        User         `json:"user"`
	Projects    []Project    `json:"projects"`
	Skills      []Skill      `json:"skills"`
	Experiences []Experience `json:"experiences"`
}
