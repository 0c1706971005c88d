package model

// Well-known role names. "admin" and "user" are system roles, "volunteer" and
// "organizer" are chosen by users themselves.
const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleVolunteer = "volunteer"
	RoleOrganizer = "organizer"
)

// Role mirrors the 'roles_info' table.
type Role struct {
	ID          int64   `json:"id"`
	Name        string  `json:"role_name"`
	Description *string `json:"description,omitempty"`
}
