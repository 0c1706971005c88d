package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// ReviewStore is the persistence contract for post-event reviews.
type ReviewStore interface {
	Create(ctx context.Context, rev *model.Review) error
	ListForUser(ctx context.Context, toUserID int64, page, pageSize int) ([]model.Review, int, error)
	Stats(ctx context.Context, toUserID int64) (model.ReviewStats, error)
}

// ReviewRepo implements ReviewStore over MySQL.
type ReviewRepo struct{ db DBTX }

func NewReviewRepo(db DBTX) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and populates the generated ID.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (event_id, from_user_id, to_user_id, rating, comment) VALUES (?,?,?,?,?)",
		rev.EventID, rev.FromUserID, rev.ToUserID, rev.Rating, rev.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = id
	return nil
}

// ListForUser returns one page of reviews received by a user, newest first.
func (r *ReviewRepo) ListForUser(ctx context.Context, toUserID int64, page, pageSize int) ([]model.Review, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE to_user_id=?", toUserID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, from_user_id, to_user_id, rating, comment, created_at
		 FROM reviews WHERE to_user_id=?
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`, toUserID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Review, 0, pageSize)
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.EventID, &rev.FromUserID, &rev.ToUserID,
			&rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rev)
	}
	return out, total, rows.Err()
}

// Stats aggregates count and average rating for reviews received by a user.
func (r *ReviewRepo) Stats(ctx context.Context, toUserID int64) (model.ReviewStats, error) {
	stats := model.ReviewStats{UserID: toUserID}
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), AVG(rating) FROM reviews WHERE to_user_id=?", toUserID).
		Scan(&stats.ReviewCount, &avg)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.ReviewStats{}, err
	}
	if avg.Valid {
		stats.AverageRating = avg.Float64
	}
	return stats, nil
}
