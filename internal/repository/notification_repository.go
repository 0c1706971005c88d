package repository

import (
	"context"
	"strings"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// NotificationFilters defines filters & pagination for notification listings.
type NotificationFilters struct {
	IsRead   *bool
	Type     string
	Page     int
	PageSize int
}

// NotificationList bundles one page of notifications with its counters.
type NotificationList struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int                  `json:"total"`
	UnreadCount   int                  `json:"unread_count"`
	Page          int                  `json:"page"`
	PageSize      int                  `json:"page_size"`
}

// NotificationStore is the persistence contract for user notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	BulkCreate(ctx context.Context, ns []model.Notification) (int, error)
	ListForUser(ctx context.Context, userID int64, f NotificationFilters) (NotificationList, error)
	MarkRead(ctx context.Context, ids []int64, userID int64) (int, error)
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, ids []int64, userID int64) (int, error)
}

// NotificationRepo implements NotificationStore over MySQL.
type NotificationRepo struct{ db DBTX }

func NewNotificationRepo(db DBTX) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts a notification and populates the generated ID.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (user_id, title, message, type) VALUES (?,?,?,?)",
		n.UserID, n.Title, n.Message, n.Type)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

// BulkCreate inserts several notifications in one statement and returns how
// many rows were written. An empty slice is a no-op.
func (r *NotificationRepo) BulkCreate(ctx context.Context, ns []model.Notification) (int, error) {
	if len(ns) == 0 {
		return 0, nil
	}
	query := "INSERT INTO notifications (user_id, title, message, type) VALUES "
	args := make([]any, 0, len(ns)*4)
	for i, n := range ns {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?)"
		args = append(args, n.UserID, n.Title, n.Message, n.Type)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	written, err := res.RowsAffected()
	return int(written), err
}

// ListForUser returns one page of a user's notifications, newest first, with
// total and unread counters.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int64, f NotificationFilters) (NotificationList, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}
	if f.IsRead != nil {
		where = append(where, "is_read = ?")
		args = append(args, *f.IsRead)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	cond := strings.Join(where, " AND ")

	out := NotificationList{Page: f.Page, PageSize: f.PageSize, Notifications: make([]model.Notification, 0, f.PageSize)}

	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE "+cond, args...).Scan(&out.Total); err != nil {
		return NotificationList{}, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=0", userID).
		Scan(&out.UnreadCount); err != nil {
		return NotificationList{}, err
	}

	offset := (f.Page - 1) * f.PageSize
	argsData := append(append([]any{}, args...), f.PageSize, offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, message, type, is_read, created_at
		 FROM notifications WHERE `+cond+`
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`, argsData...)
	if err != nil {
		return NotificationList{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return NotificationList{}, err
		}
		out.Notifications = append(out.Notifications, n)
	}
	return out, rows.Err()
}

// MarkRead flags the given notifications as read, scoped to their owner.
func (r *NotificationRepo) MarkRead(ctx context.Context, ids []int64, userID int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, userID)
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE id IN ("+placeholders+") AND user_id=?", args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// MarkAllRead flags every unread notification of a user as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE user_id=? AND is_read=0", userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Delete removes the given notifications, scoped to their owner.
func (r *NotificationRepo) Delete(ctx context.Context, ids []int64, userID int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, userID)
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE id IN ("+placeholders+") AND user_id=?", args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
