package model

import "time"

// Notification types delivered to users.
const (
	NotificationTypeSystem      = "system"
	NotificationTypeEvent       = "event"
	NotificationTypeApplication = "application"
	NotificationTypeReview      = "review"
)

// Notification mirrors the 'notifications' table.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
