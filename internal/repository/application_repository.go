package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// ApplicationFilters defines filters & pagination for application listings.
type ApplicationFilters struct {
	EventID     int64
	VolunteerID int64
	Status      string
	Page        int
	PageSize    int
}

// ApplicationStore is the persistence contract for volunteer applications.
type ApplicationStore interface {
	Create(ctx context.Context, a *model.Application) error
	GetByID(ctx context.Context, id int64) (model.Application, error)
	UpdateStatus(ctx context.Context, id int64, status string) (bool, error)
	List(ctx context.Context, f ApplicationFilters) ([]model.Application, int, error)
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int, error)
	ExistsApproved(ctx context.Context, eventID, volunteerID int64) (bool, error)
}

// ApplicationRepo implements ApplicationStore over MySQL.
type ApplicationRepo struct{ db DBTX }

func NewApplicationRepo(db DBTX) *ApplicationRepo { return &ApplicationRepo{db: db} }

const applicationColumns = "id, event_id, volunteer_id, message, status, date_created"

func scanApplication(row interface{ Scan(...any) error }) (model.Application, error) {
	var a model.Application
	err := row.Scan(&a.ID, &a.EventID, &a.VolunteerID, &a.Message, &a.Status, &a.DateCreated)
	return a, err
}

// Create inserts an application in status pending. A second application by the
// same volunteer for the same event violates the unique constraint and yields
// ErrDuplicate.
func (r *ApplicationRepo) Create(ctx context.Context, a *model.Application) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO applications (event_id, volunteer_id, message) VALUES (?,?,?)",
		a.EventID, a.VolunteerID, a.Message)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	a.Status = model.ApplicationStatusPending
	return nil
}

// GetByID fetches an application by id.
func (r *ApplicationRepo) GetByID(ctx context.Context, id int64) (model.Application, error) {
	a, err := scanApplication(r.db.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Application{}, ErrNotFound
	}
	return a, err
}

// UpdateStatus writes a new application status. It returns whether a row changed.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE applications SET status=? WHERE id=?", status, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns one page of applications matching the filters plus the total count.
func (r *ApplicationRepo) List(ctx context.Context, f ApplicationFilters) ([]model.Application, int, error) {
	where := []string{}
	args := []any{}

	if f.EventID != 0 {
		where = append(where, "event_id = ?")
		args = append(args, f.EventID)
	}
	if f.VolunteerID != 0 {
		where = append(where, "volunteer_id = ?")
		args = append(args, f.VolunteerID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM applications WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.PageSize
	offset := (f.Page - 1) * f.PageSize
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+applicationColumns+` FROM applications
		 WHERE `+cond+`
		 ORDER BY date_created DESC
		 LIMIT ? OFFSET ?`, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Application, 0, limit)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// BulkUpdateStatus sets the status of several applications in one statement
// and returns how many rows changed.
func (r *ApplicationRepo) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, status)
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE applications SET status=? WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ExistsApproved reports whether the volunteer has an approved application
// for the event. Used by the review rules.
func (r *ApplicationRepo) ExistsApproved(ctx context.Context, eventID, volunteerID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM applications WHERE event_id=? AND volunteer_id=? AND status=? LIMIT 1",
		eventID, volunteerID, model.ApplicationStatusApproved).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
