package repository

import (
	"context"

	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// RoleStore is the persistence contract for role definitions and assignments.
type RoleStore interface {
	ListAll(ctx context.Context) ([]model.Role, error)
	ListForUser(ctx context.Context, userID int64) ([]model.Role, error)
	Assign(ctx context.Context, userID, roleID int64) error
	Remove(ctx context.Context, userID, roleID int64) error
}

// RoleRepo implements RoleStore over MySQL.
type RoleRepo struct{ db DBTX }

func NewRoleRepo(db DBTX) *RoleRepo { return &RoleRepo{db: db} }

// ListAll returns every role definition.
func (r *RoleRepo) ListAll(ctx context.Context) ([]model.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, role_name, description FROM roles_info ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// ListForUser returns the roles currently assigned to a user.
func (r *RoleRepo) ListForUser(ctx context.Context, userID int64) ([]model.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ri.id, ri.role_name, ri.description
		 FROM roles_info ri
		 JOIN roles r ON r.role_id = ri.id
		 WHERE r.user_id = ?
		 ORDER BY ri.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// Assign links a role to a user. Assigning an already-held role is a no-op.
func (r *RoleRepo) Assign(ctx context.Context, userID, roleID int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO roles (user_id, role_id) VALUES (?,?)", userID, roleID)
	if isDuplicate(err) {
		return nil
	}
	return err
}

// Remove unlinks a role from a user.
func (r *RoleRepo) Remove(ctx context.Context, userID, roleID int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM roles WHERE user_id=? AND role_id=?", userID, roleID)
	return err
}
