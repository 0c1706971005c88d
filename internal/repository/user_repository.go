package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// UserStore is the persistence contract for user rows.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, u *model.User) error
	SetActive(ctx context.Context, id int64, active bool) (bool, error)
	TouchLastLogin(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, page, pageSize int) ([]model.User, int, error)
	GetPublicProfile(ctx context.Context, id int64) (model.PublicProfile, error)
}

// UserRepo implements UserStore over MySQL.
type UserRepo struct{ db DBTX }

func NewUserRepo(db DBTX) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id, fullname, email, hashed_password, avatar_url, date_birth, location, is_active, date_created, date_last_login"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.AvatarURL,
		&u.DateBirth, &u.Location, &u.IsActive, &u.DateCreated, &u.DateLastLogin)
	return u, err
}

// Create inserts a user row and populates the generated ID. The password must
// already be hashed. A duplicate email yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (fullname, email, hashed_password, avatar_url, date_birth, location) VALUES (?,?,?,?,?,?)",
		u.FullName, u.Email, u.PasswordHash, u.AvatarURL, u.DateBirth, u.Location)
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
	u.ID = id
	u.IsActive = true
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Exists reports whether a user with the given email is registered.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE email=? LIMIT 1", email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// UpdateProfile writes the editable profile fields of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET fullname=?, avatar_url=?, date_birth=?, location=? WHERE id=?",
		u.FullName, u.AvatarURL, u.DateBirth, u.Location, u.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is 0 both for missing rows and no-op updates in MySQL;
		// confirm existence before reporting not found.
		if _, getErr := r.GetByID(ctx, u.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// SetActive flips the is_active flag. It returns whether a row changed.
func (r *UserRepo) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET is_active=? WHERE id=?", active, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// TouchLastLogin stamps date_last_login with the current time.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET date_last_login=NOW() WHERE id=?", id)
	return err
}

// Count returns the total number of registered users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// List returns one page of users ordered by registration date, plus the total count.
func (r *UserRepo) List(ctx context.Context, page, pageSize int) ([]model.User, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY date_created DESC LIMIT ? OFFSET ?",
		pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.User, 0, pageSize)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// GetPublicProfile returns the sanitized view of a user with their skills.
func (r *UserRepo) GetPublicProfile(ctx context.Context, id int64) (model.PublicProfile, error) {
	var p model.PublicProfile
	err := r.db.QueryRowContext(ctx,
		"SELECT id, fullname, avatar_url, location FROM users WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.FullName, &p.AvatarURL, &p.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PublicProfile{}, ErrNotFound
	}
	if err != nil {
		return model.PublicProfile{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.name FROM skills s
		 JOIN user_skills us ON us.skill_id = s.id
		 WHERE us.user_id = ?
		 ORDER BY s.name`, id)
	if err != nil {
		return model.PublicProfile{}, err
	}
	defer rows.Close()

	p.Skills = make([]model.Skill, 0)
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return model.PublicProfile{}, err
		}
		p.Skills = append(p.Skills, s)
	}
	return p, rows.Err()
}
