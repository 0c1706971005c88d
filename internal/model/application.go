package model

import "time"

// Application status lifecycle: pending -> approved | rejected by the
// organizer, or canceled by the volunteer who filed it.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
	ApplicationStatusCanceled = "canceled"
)

// Application mirrors the 'applications' table. One application per volunteer
// per event is enforced by a unique constraint.
type Application struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event_id"`
	VolunteerID int64     `json:"volunteer_id"`
	Message     *string   `json:"message,omitempty"`
	Status      string    `json:"status"`
	DateCreated time.Time `json:"date_created"`
}

// ValidApplicationStatus reports whether s is a member of the application
// status enum.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusCanceled:
		return true
	}
	return false
}
