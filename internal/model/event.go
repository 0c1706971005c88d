package model

import "time"

// Event status lifecycle: pending -> approved | canceled; approved events
// become completed once their end date passes.
const (
	EventStatusPending   = "pending"
	EventStatusApproved  = "approved"
	EventStatusCanceled  = "canceled"
	EventStatusCompleted = "completed"
)

// Event mirrors the 'events' table.
type Event struct {
	ID                 int64     `json:"id"`
	OrganizerID        int64     `json:"organizer_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Location           string    `json:"location"`
	RequiredVolunteers int       `json:"required_volunteers"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Status             string    `json:"status"`
	ImageURL           *string   `json:"event_image_url,omitempty"`
	DateCreated        time.Time `json:"date_created"`
}

// EventDetails is an event enriched with its organizer, tags, required skills
// and volunteer counters for the details endpoint.
type EventDetails struct {
	Event
	Organizer               PublicProfile `json:"organizer"`
	Tags                    []Tag         `json:"tags"`
	RequiredSkills          []Skill       `json:"required_skills"`
	ApprovedVolunteersCount int           `json:"approved_volunteers_count"`
}

// ValidEventStatus reports whether s is a member of the event status enum.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusPending, EventStatusApproved, EventStatusCanceled, EventStatusCompleted:
		return true
	}
	return false
}
