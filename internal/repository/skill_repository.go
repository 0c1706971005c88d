package repository

import (
	"context"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// SkillStore is the persistence contract for skills and user skill links.
type SkillStore interface {
	ListAll(ctx context.Context) ([]model.Skill, error)
	ReplaceForUser(ctx context.Context, userID int64, skillIDs []int64) error
}

// SkillRepo implements SkillStore over MySQL.
type SkillRepo struct{ db DBTX }

func NewSkillRepo(db DBTX) *SkillRepo { return &SkillRepo{db: db} }

// ListAll returns every skill ordered by name.
func (r *SkillRepo) ListAll(ctx context.Context) ([]model.Skill, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM skills ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Skill, 0)
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplaceForUser rewrites a user's skill set in place.
func (r *SkillRepo) ReplaceForUser(ctx context.Context, userID int64, skillIDs []int64) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM user_skills WHERE user_id=?", userID); err != nil {
		return err
	}
	if len(skillIDs) == 0 {
		return nil
	}
	query := "INSERT INTO user_skills (user_id, skill_id) VALUES "
	args := make([]any, 0, len(skillIDs)*2)
	for i, id := range skillIDs {
		if i > 0 {
			query += ","
		}
		query += "(?,?)"
		args = append(args, userID, id)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
