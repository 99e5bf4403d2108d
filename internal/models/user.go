package models

import "time"

// User is an identity that owns a portfolio.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Headline     string    `json:"headline"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	Website      string    `json:"website"`
	AvatarURL    string    `json:"avatarUrl"`
	Published    bool      `json:"published"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile holds the editable, non-credential fields of a user.
type Profile struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Name      string `json:"name" validate:"required,max=120"`
	Headline  string `json:"headline" validate:"max=200"`
	Bio       string `json:"bio" validate:"max=5000"`
	Location  string `json:"location" validate:"max=120"`
	Website   string `json:"website" validate:"omitempty,url,max=500"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url,max=500"`
	Published bool   `json:"published"`
}
