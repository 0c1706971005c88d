package model

// Skill mirrors the 'skills' table.
type Skill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
