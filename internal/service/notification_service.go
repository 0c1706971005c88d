package service

import (
	"context"

	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/uow"
)

// NotificationService serves the signed-in user's notification feed. Every
// operation is scoped to the owner; ids belonging to other users are ignored
// by the owner-scoped SQL, not rejected.
type NotificationService struct {
	uow uow.Factory
}

func NewNotificationService(factory uow.Factory) *NotificationService {
	return &NotificationService{uow: factory}
}

// List returns one page of the user's notifications with unread counters.
func (s *NotificationService) List(ctx context.Context, userID int64, f repository.NotificationFilters) (repository.NotificationList, error) {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return repository.NotificationList{}, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Notifications().ListForUser(ctx, userID, f)
}

// MarkRead flags the given notifications as read and returns how many changed.
func (s *NotificationService) MarkRead(ctx context.Context, userID int64, ids []int64) (int, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = scope.Close() }()

	n, err := scope.Notifications().MarkRead(ctx, ids, userID)
	if err != nil {
		return 0, err
	}
	return n, scope.Commit()
}

// MarkAllRead flags every unread notification of the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = scope.Close() }()

	n, err := scope.Notifications().MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	return n, scope.Commit()
}

// Delete removes the given notifications and returns how many were removed.
func (s *NotificationService) Delete(ctx context.Context, userID int64, ids []int64) (int, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = scope.Close() }()

	n, err := scope.Notifications().Delete(ctx, ids, userID)
	if err != nil {
		return 0, err
	}
	return n, scope.Commit()
}
