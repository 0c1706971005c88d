package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/model"
	"github.com/volunteerhub/volunteer-platform/internal/queue"
	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/uow"
)

// AdminService owns moderation and platform administration.
type AdminService struct {
	uow       uow.Factory
	publisher queue.Publisher
}

func NewAdminService(factory uow.Factory, publisher queue.Publisher) *AdminService {
	return &AdminService{uow: factory, publisher: publisher}
}

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers      int `json:"total_users"`
	PendingEvents   int `json:"pending_events"`
	ApprovedEvents  int `json:"approved_events"`
	CanceledEvents  int `json:"canceled_events"`
	CompletedEvents int `json:"completed_events"`
}

// Statistics aggregates platform-wide counters.
func (s *AdminService) Statistics(ctx context.Context) (PlatformStats, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return PlatformStats{}, err
	}
	defer func() { _ = scope.Close() }()

	var stats PlatformStats
	if stats.TotalUsers, err = scope.Users().Count(ctx); err != nil {
		return PlatformStats{}, err
	}
	events := scope.Events()
	if stats.PendingEvents, err = events.CountByStatus(ctx, model.EventStatusPending); err != nil {
		return PlatformStats{}, err
	}
	if stats.ApprovedEvents, err = events.CountByStatus(ctx, model.EventStatusApproved); err != nil {
		return PlatformStats{}, err
	}
	if stats.CanceledEvents, err = events.CountByStatus(ctx, model.EventStatusCanceled); err != nil {
		return PlatformStats{}, err
	}
	if stats.CompletedEvents, err = events.CountByStatus(ctx, model.EventStatusCompleted); err != nil {
		return PlatformStats{}, err
	}
	return stats, nil
}

// ListUsers returns one page of all registered users.
func (s *AdminService) ListUsers(ctx context.Context, page, pageSize int) ([]model.User, int, error) {
	page, pageSize = normalizePage(page, pageSize)

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Users().List(ctx, page, pageSize)
}

// SetUserActive blocks or unblocks an account. Blocked users cannot log in;
// sessions issued before the block keep working until they expire.
func (s *AdminService) SetUserActive(ctx context.Context, userID int64, active bool) error {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = scope.Close() }()

	changed, err := scope.Users().SetActive(ctx, userID, active)
	if err != nil {
		return err
	}
	if !changed {
		return apperr.NotFound("user not found")
	}
	if err := scope.Commit(); err != nil {
		return err
	}

	if active {
		s.notify(ctx, queue.NotificationEvent{
			UserID:  userID,
			Title:   "Account unblocked",
			Message: "Your account has been reactivated.",
			Type:    model.NotificationTypeSystem,
		})
	}
	return nil
}

// PendingEvents lists events awaiting moderation.
func (s *AdminService) PendingEvents(ctx context.Context, page, pageSize int) ([]model.Event, int, error) {
	page, pageSize = normalizePage(page, pageSize)

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Events().List(ctx, repository.EventFilters{
		Status:   model.EventStatusPending,
		Page:     page,
		PageSize: pageSize,
	})
}

// ApproveEvent publishes an event. Approving an already-approved event is a
// no-op rather than an error.
func (s *AdminService) ApproveEvent(ctx context.Context, eventID int64) (model.Event, error) {
	return s.moderate(ctx, eventID, model.EventStatusApproved,
		"Event approved", "Your event %q has been approved and is now visible.")
}

// RejectEvent sends an event back to pending so the organizer can amend and
// resubmit it. There is no terminal rejected state; any event, including one
// already published, can be pulled back this way. Rejecting an event that is
// still pending is a no-op.
func (s *AdminService) RejectEvent(ctx context.Context, eventID int64) (model.Event, error) {
	return s.moderate(ctx, eventID, model.EventStatusPending,
		"Event needs changes", "Your event %q was not approved. Please revise it and resubmit.")
}

func (s *AdminService) moderate(ctx context.Context, eventID int64, status, title, format string) (model.Event, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.Event{}, err
	}
	defer func() { _ = scope.Close() }()

	e, err := scope.Events().GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Event{}, apperr.NotFound("event not found")
		}
		return model.Event{}, err
	}
	if e.Status == status {
		return e, nil
	}

	if _, err := scope.Events().UpdateStatus(ctx, e.ID, status); err != nil {
		return model.Event{}, err
	}
	e.Status = status
	if err := scope.Commit(); err != nil {
		return model.Event{}, err
	}

	s.notify(ctx, queue.NotificationEvent{
		UserID:  e.OrganizerID,
		Title:   title,
		Message: fmt.Sprintf(format, e.Title),
		Type:    model.NotificationTypeEvent,
	})
	return e, nil
}

// ChangeRoles replaces a user's role set with the given names. The diff is
// applied assignment by assignment so unchanged roles keep their rows.
func (s *AdminService) ChangeRoles(ctx context.Context, userID int64, names []string) ([]model.Role, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.Close() }()

	if _, err := scope.Users().GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	all, err := scope.Roles().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	desired := make(map[int64]model.Role, len(names))
	for _, name := range names {
		r, ok := roleByName(all, name)
		if !ok {
			return nil, apperr.Validation("unknown role: " + name)
		}
		desired[r.ID] = r
	}

	current, err := scope.Roles().ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	have := make(map[int64]bool, len(current))
	for _, r := range current {
		have[r.ID] = true
		if _, keep := desired[r.ID]; !keep {
			if err := scope.Roles().Remove(ctx, userID, r.ID); err != nil {
				return nil, err
			}
		}
	}
	for id := range desired {
		if !have[id] {
			if err := scope.Roles().Assign(ctx, userID, id); err != nil {
				return nil, err
			}
		}
	}

	updated, err := scope.Roles().ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := scope.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *AdminService) notify(ctx context.Context, ev queue.NotificationEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("admin: publish notification failed: %v", err)
	}
}
