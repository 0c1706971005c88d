package model

// Tag mirrors the 'tags' table.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
