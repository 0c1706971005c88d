package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/model"
	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/uow"
)

// UserService owns the personal cabinet: profile data, self-selected roles
// and skills.
type UserService struct {
	uow uow.Factory
}

func NewUserService(factory uow.Factory) *UserService {
	return &UserService{uow: factory}
}

// Cabinet is the signed-in user's own view of their account.
type Cabinet struct {
	User   model.User    `json:"user"`
	Roles  []model.Role  `json:"roles"`
	Skills []model.Skill `json:"skills"`
}

// Me returns the cabinet of the signed-in user.
func (s *UserService) Me(ctx context.Context, userID int64) (Cabinet, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return Cabinet{}, err
	}
	defer func() { _ = scope.Close() }()

	u, err := scope.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Cabinet{}, apperr.NotFound("user not found")
		}
		return Cabinet{}, err
	}
	roles, err := scope.Roles().ListForUser(ctx, userID)
	if err != nil {
		return Cabinet{}, err
	}
	profile, err := scope.Users().GetPublicProfile(ctx, userID)
	if err != nil {
		return Cabinet{}, err
	}
	return Cabinet{User: u, Roles: roles, Skills: profile.Skills}, nil
}

// ProfileUpdate carries the optional profile fields. Nil pointers leave the
// current value untouched; SkillIDs nil keeps the skill set, empty clears it.
// RoleNames nil keeps the role set.
type ProfileUpdate struct {
	FullName  *string
	AvatarURL *string
	DateBirth *time.Time
	Location  *string
	SkillIDs  []int64
	RoleNames []string
}

// UpdateProfile applies a partial update to the user's own profile. Users may
// pick the volunteer and organizer roles for themselves; system roles can only
// be granted by an admin.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (Cabinet, error) {
	for _, name := range upd.RoleNames {
		if name != model.RoleVolunteer && name != model.RoleOrganizer {
			return Cabinet{}, apperr.Validation("role " + name + " cannot be self-assigned")
		}
	}

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return Cabinet{}, err
	}
	defer func() { _ = scope.Close() }()

	u, err := scope.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Cabinet{}, apperr.NotFound("user not found")
		}
		return Cabinet{}, err
	}

	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return Cabinet{}, apperr.Validation("full name cannot be empty")
		}
		u.FullName = name
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = upd.AvatarURL
	}
	if upd.DateBirth != nil {
		u.DateBirth = upd.DateBirth
	}
	if upd.Location != nil {
		u.Location = upd.Location
	}
	if err := scope.Users().UpdateProfile(ctx, &u); err != nil {
		return Cabinet{}, err
	}

	if upd.SkillIDs != nil {
		if err := scope.Skills().ReplaceForUser(ctx, userID, upd.SkillIDs); err != nil {
			return Cabinet{}, err
		}
	}

	if upd.RoleNames != nil {
		if err := s.applySelfRoles(ctx, scope, userID, upd.RoleNames); err != nil {
			return Cabinet{}, err
		}
	}

	roles, err := scope.Roles().ListForUser(ctx, userID)
	if err != nil {
		return Cabinet{}, err
	}
	profile, err := scope.Users().GetPublicProfile(ctx, userID)
	if err != nil {
		return Cabinet{}, err
	}
	if err := scope.Commit(); err != nil {
		return Cabinet{}, err
	}
	return Cabinet{User: u, Roles: roles, Skills: profile.Skills}, nil
}

// applySelfRoles diffs the volunteer/organizer subset of a user's roles
// against the requested names, leaving system roles alone.
func (s *UserService) applySelfRoles(ctx context.Context, scope uow.UnitOfWork, userID int64, names []string) error {
	all, err := scope.Roles().ListAll(ctx)
	if err != nil {
		return err
	}
	desired := make(map[int64]bool, len(names))
	for _, name := range names {
		r, ok := roleByName(all, name)
		if !ok {
			return apperr.Validation("unknown role: " + name)
		}
		desired[r.ID] = true
	}

	current, err := scope.Roles().ListForUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, r := range current {
		if r.Name != model.RoleVolunteer && r.Name != model.RoleOrganizer {
			continue
		}
		if !desired[r.ID] {
			if err := scope.Roles().Remove(ctx, userID, r.ID); err != nil {
				return err
			}
		}
		delete(desired, r.ID)
	}
	for id := range desired {
		if err := scope.Roles().Assign(ctx, userID, id); err != nil {
			return err
		}
	}
	return nil
}

// Roles lists every role definition, for profile forms.
func (s *UserService) Roles(ctx context.Context) ([]model.Role, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Roles().ListAll(ctx)
}
