package model

import "time"

// Review mirrors the 'reviews' table. Rating is bounded 1-5 by a check
// constraint; the service validates before insert as well.
type Review struct {
	ID         int64     `json:"id"`
	EventID    int64     `json:"event_id"`
	FromUserID int64     `json:"from_user_id"`
	ToUserID   int64     `json:"to_user_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewStats aggregates the reviews received by a single user.
type ReviewStats struct {
	UserID        int64   `json:"user_id"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}
