package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// EventFilters defines filters & pagination for event listings.
type EventFilters struct {
	Status      string
	Location    string
	TagIDs      []int64
	OrganizerID int64
	Page        int
	PageSize    int
}

// EventUpdate carries the optional fields of an event update. Nil pointers
// leave the current value untouched.
type EventUpdate struct {
	Title              *string
	Description        *string
	Location           *string
	RequiredVolunteers *int
	StartDate          *string
	EndDate            *string
	ImageURL           *string
	TagIDs             []int64 // nil keeps current tags, empty clears them
	SkillIDs           []int64 // nil keeps current skills, empty clears them
}

// EventStore is the persistence contract for events and their tag/skill links.
type EventStore interface {
	Create(ctx context.Context, e *model.Event, tagIDs, skillIDs []int64) error
	GetByID(ctx context.Context, id int64) (model.Event, error)
	GetDetails(ctx context.Context, id int64) (model.EventDetails, error)
	Update(ctx context.Context, id int64, upd EventUpdate) error
	Delete(ctx context.Context, id int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) (bool, error)
	List(ctx context.Context, f EventFilters) ([]model.Event, int, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]model.Event, error)
	CountApprovedVolunteers(ctx context.Context, eventID int64) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// EventRepo implements EventStore over MySQL.
type EventRepo struct{ db DBTX }

func NewEventRepo(db DBTX) *EventRepo { return &EventRepo{db: db} }

const eventColumns = "id, organizer_id, title, description, location, required_volunteers, start_date, end_date, status, event_image_url, date_created"

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Location,
		&e.RequiredVolunteers, &e.StartDate, &e.EndDate, &e.Status, &e.ImageURL, &e.DateCreated)
	return e, err
}

// Create inserts an event in status pending together with its tag and skill
// links, populating the generated ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event, tagIDs, skillIDs []int64) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (organizer_id, title, description, location, required_volunteers, start_date, end_date, event_image_url)
		 VALUES (?,?,?,?,?,?,?,?)`,
		e.OrganizerID, e.Title, e.Description, e.Location, e.RequiredVolunteers,
		e.StartDate, e.EndDate, e.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	e.Status = model.EventStatusPending

	if err := r.insertLinks(ctx, "event_tags", "tag_id", id, tagIDs); err != nil {
		return err
	}
	return r.insertLinks(ctx, "required_events_skills", "skill_id", id, skillIDs)
}

// insertLinks bulk-inserts event junction rows in a single statement.
func (r *EventRepo) insertLinks(ctx context.Context, table, column string, eventID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := "INSERT INTO " + table + " (event_id, " + column + ") VALUES "
	args := make([]any, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "(?,?)"
		args = append(args, eventID, id)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID fetches a bare event row.
func (r *EventRepo) GetByID(ctx context.Context, id int64) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrNotFound
	}
	return e, err
}

// GetDetails fetches an event enriched with organizer, tags, required skills
// and the approved volunteer count.
func (r *EventRepo) GetDetails(ctx context.Context, id int64) (model.EventDetails, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return model.EventDetails{}, err
	}
	d := model.EventDetails{Event: e}

	err = r.db.QueryRowContext(ctx,
		"SELECT id, fullname, avatar_url, location FROM users WHERE id=? LIMIT 1", e.OrganizerID).
		Scan(&d.Organizer.ID, &d.Organizer.FullName, &d.Organizer.AvatarURL, &d.Organizer.Location)
	if err != nil {
		return model.EventDetails{}, err
	}

	tags, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.name FROM tags t
		 JOIN event_tags et ON et.tag_id = t.id
		 WHERE et.event_id = ? ORDER BY t.name`, id)
	if err != nil {
		return model.EventDetails{}, err
	}
	defer tags.Close()
	d.Tags = make([]model.Tag, 0)
	for tags.Next() {
		var t model.Tag
		if err := tags.Scan(&t.ID, &t.Name); err != nil {
			return model.EventDetails{}, err
		}
		d.Tags = append(d.Tags, t)
	}
	if err := tags.Err(); err != nil {
		return model.EventDetails{}, err
	}

	skills, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.name FROM skills s
		 JOIN required_events_skills res ON res.skill_id = s.id
		 WHERE res.event_id = ? ORDER BY s.name`, id)
	if err != nil {
		return model.EventDetails{}, err
	}
	defer skills.Close()
	d.RequiredSkills = make([]model.Skill, 0)
	for skills.Next() {
		var s model.Skill
		if err := skills.Scan(&s.ID, &s.Name); err != nil {
			return model.EventDetails{}, err
		}
		d.RequiredSkills = append(d.RequiredSkills, s)
	}
	if err := skills.Err(); err != nil {
		return model.EventDetails{}, err
	}

	d.ApprovedVolunteersCount, err = r.CountApprovedVolunteers(ctx, id)
	return d, err
}

// Update writes the provided fields and replaces tag/skill links when the
// corresponding slices are non-nil.
func (r *EventRepo) Update(ctx context.Context, id int64, upd EventUpdate) error {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.RequiredVolunteers != nil {
		add("required_volunteers", *upd.RequiredVolunteers)
	}
	if upd.StartDate != nil {
		add("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		add("end_date", *upd.EndDate)
	}
	if upd.ImageURL != nil {
		add("event_image_url", *upd.ImageURL)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE events SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
			return err
		}
	}

	if upd.TagIDs != nil {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM event_tags WHERE event_id=?", id); err != nil {
			return err
		}
		if err := r.insertLinks(ctx, "event_tags", "tag_id", id, upd.TagIDs); err != nil {
			return err
		}
	}
	if upd.SkillIDs != nil {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM required_events_skills WHERE event_id=?", id); err != nil {
			return err
		}
		if err := r.insertLinks(ctx, "required_events_skills", "skill_id", id, upd.SkillIDs); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an event; junction and application rows cascade.
func (r *EventRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UpdateStatus writes a new lifecycle status. It returns whether a row changed.
func (r *EventRepo) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE events SET status=? WHERE id=?", status, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns one page of events matching the filters plus the total count.
func (r *EventRepo) List(ctx context.Context, f EventFilters) ([]model.Event, int, error) {
	where := []string{}
	args := []any{}

	if f.Status != "" {
		where = append(where, "e.status = ?")
		args = append(args, f.Status)
	}
	if f.Location != "" {
		where = append(where, "LOWER(e.location) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Location)+"%")
	}
	if f.OrganizerID != 0 {
		where = append(where, "e.organizer_id = ?")
		args = append(args, f.OrganizerID)
	}
	if len(f.TagIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.TagIDs)), ",")
		where = append(where,
			"e.id IN (SELECT event_id FROM event_tags WHERE tag_id IN ("+placeholders+"))")
		for _, id := range f.TagIDs {
			args = append(args, id)
		}
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events e WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.PageSize
	offset := (f.Page - 1) * f.PageSize
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+prefixColumns("e", eventColumns)+` FROM events e
		 WHERE `+cond+`
		 ORDER BY e.start_date ASC
		 LIMIT ? OFFSET ?`, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Event, 0, limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// ListByOrganizer returns all events created by one organizer, newest first.
func (r *EventRepo) ListByOrganizer(ctx context.Context, organizerID int64) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE organizer_id=? ORDER BY date_created DESC",
		organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountApprovedVolunteers counts applications in status approved for an event.
func (r *EventRepo) CountApprovedVolunteers(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM applications WHERE event_id=? AND status=?",
		eventID, model.ApplicationStatusApproved).Scan(&n)
	return n, err
}

// CountByStatus counts events in the given lifecycle status.
func (r *EventRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events WHERE status=?", status).Scan(&n)
	return n, err
}

// prefixColumns prepends an alias to each column in a comma-separated list.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
