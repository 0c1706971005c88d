package model

import "time"

// User mirrors the 'users' table.
type User struct {
	ID             int64      `json:"id"`
	FullName       string     `json:"fullname"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	DateBirth      *time.Time `json:"date_birth,omitempty"`
	Location       *string    `json:"location,omitempty"`
	IsActive       bool       `json:"is_active"`
	DateCreated    time.Time  `json:"date_created"`
	DateLastLogin  time.Time  `json:"date_last_login"`
}

// PublicProfile is the sanitized view of a user exposed to guests.
type PublicProfile struct {
	ID        int64   `json:"id"`
	FullName  string  `json:"fullname"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Location  *string `json:"location,omitempty"`
	Skills    []Skill `json:"skills"`
}
