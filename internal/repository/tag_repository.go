package repository

import (
	"context"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// TagStore is the persistence contract for tags.
type TagStore interface {
	ListAll(ctx context.Context) ([]model.Tag, error)
}

// TagRepo implements TagStore over MySQL.
type TagRepo struct{ db DBTX }

func NewTagRepo(db DBTX) *TagRepo { return &TagRepo{db: db} }

// ListAll returns every tag ordered by name.
func (r *TagRepo) ListAll(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
