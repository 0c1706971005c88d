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

// ApplicationService owns volunteer applications and their status decisions.
type ApplicationService struct {
	uow       uow.Factory
	publisher queue.Publisher
}

func NewApplicationService(factory uow.Factory, publisher queue.Publisher) *ApplicationService {
	return &ApplicationService{uow: factory, publisher: publisher}
}

// Apply files an application for an approved event. Organizers cannot apply
// to their own events, and a volunteer may hold at most one application per
// event.
func (s *ApplicationService) Apply(ctx context.Context, volunteerID, eventID int64, message *string) (model.Application, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.Application{}, err
	}
	defer func() { _ = scope.Close() }()

	e, err := scope.Events().GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Application{}, apperr.NotFound("event not found")
		}
		return model.Application{}, err
	}
	if e.Status != model.EventStatusApproved {
		return model.Application{}, apperr.BadRequest("applications are accepted for approved events only")
	}
	if e.OrganizerID == volunteerID {
		return model.Application{}, apperr.BadRequest("organizers cannot apply to their own event")
	}

	a := model.Application{EventID: eventID, VolunteerID: volunteerID, Message: message}
	if err := scope.Applications().Create(ctx, &a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Application{}, apperr.AlreadyExists("you have already applied to this event")
		}
		return model.Application{}, err
	}
	if err := scope.Commit(); err != nil {
		return model.Application{}, err
	}

	s.notify(ctx, queue.NotificationEvent{
		UserID:  e.OrganizerID,
		Title:   "New application",
		Message: fmt.Sprintf("A volunteer applied to your event %q.", e.Title),
		Type:    model.NotificationTypeApplication,
	})
	return a, nil
}

// Decide moves an application to approved or rejected. Only the event's
// organizer or an admin may decide; decided applications stay decided.
func (s *ApplicationService) Decide(ctx context.Context, actorID int64, isAdmin bool, applicationID int64, status string) (model.Application, error) {
	if status != model.ApplicationStatusApproved && status != model.ApplicationStatusRejected {
		return model.Application{}, apperr.Validation("status must be approved or rejected")
	}

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.Application{}, err
	}
	defer func() { _ = scope.Close() }()

	a, e, err := s.load(ctx, scope, applicationID)
	if err != nil {
		return model.Application{}, err
	}
	if e.OrganizerID != actorID && !isAdmin {
		return model.Application{}, apperr.PermissionDenied("you do not manage this event")
	}
	if a.Status != model.ApplicationStatusPending {
		return model.Application{}, apperr.BadRequest("application has already been " + a.Status)
	}

	if _, err := scope.Applications().UpdateStatus(ctx, a.ID, status); err != nil {
		return model.Application{}, err
	}
	a.Status = status
	if err := scope.Commit(); err != nil {
		return model.Application{}, err
	}

	s.notify(ctx, queue.NotificationEvent{
		UserID:  a.VolunteerID,
		Title:   "Application " + status,
		Message: fmt.Sprintf("Your application to %q was %s.", e.Title, status),
		Type:    model.NotificationTypeApplication,
	})
	return a, nil
}

// Cancel withdraws a pending application. Only its owner may cancel it.
func (s *ApplicationService) Cancel(ctx context.Context, volunteerID, applicationID int64) (model.Application, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.Application{}, err
	}
	defer func() { _ = scope.Close() }()

	a, e, err := s.load(ctx, scope, applicationID)
	if err != nil {
		return model.Application{}, err
	}
	if a.VolunteerID != volunteerID {
		return model.Application{}, apperr.PermissionDenied("this application is not yours")
	}
	if a.Status != model.ApplicationStatusPending {
		return model.Application{}, apperr.BadRequest("only pending applications can be canceled")
	}

	if _, err := scope.Applications().UpdateStatus(ctx, a.ID, model.ApplicationStatusCanceled); err != nil {
		return model.Application{}, err
	}
	a.Status = model.ApplicationStatusCanceled
	if err := scope.Commit(); err != nil {
		return model.Application{}, err
	}

	s.notify(ctx, queue.NotificationEvent{
		UserID:  e.OrganizerID,
		Title:   "Application withdrawn",
		Message: fmt.Sprintf("A volunteer withdrew their application to %q.", e.Title),
		Type:    model.NotificationTypeApplication,
	})
	return a, nil
}

// ListMine returns the volunteer's own applications.
func (s *ApplicationService) ListMine(ctx context.Context, volunteerID int64, status string, page, pageSize int) ([]model.Application, int, error) {
	page, pageSize = normalizePage(page, pageSize)

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Applications().List(ctx, repository.ApplicationFilters{
		VolunteerID: volunteerID,
		Status:      status,
		Page:        page,
		PageSize:    pageSize,
	})
}

// ListForEvent returns the applications filed against one event, visible to
// its organizer and admins.
func (s *ApplicationService) ListForEvent(ctx context.Context, actorID int64, isAdmin bool, eventID int64, status string, page, pageSize int) ([]model.Application, int, error) {
	page, pageSize = normalizePage(page, pageSize)

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = scope.Close() }()

	e, err := scope.Events().GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, apperr.NotFound("event not found")
		}
		return nil, 0, err
	}
	if e.OrganizerID != actorID && !isAdmin {
		return nil, 0, apperr.PermissionDenied("you do not manage this event")
	}

	return scope.Applications().List(ctx, repository.ApplicationFilters{
		EventID:  eventID,
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
}

// BulkDecide approves or rejects several applications of one event at once.
// Ids that do not belong to the event, or are no longer pending, are skipped;
// the count of updated applications is returned.
func (s *ApplicationService) BulkDecide(ctx context.Context, actorID int64, isAdmin bool, eventID int64, ids []int64, status string) (int, error) {
	if status != model.ApplicationStatusApproved && status != model.ApplicationStatusRejected {
		return 0, apperr.Validation("status must be approved or rejected")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = scope.Close() }()

	e, err := scope.Events().GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperr.NotFound("event not found")
		}
		return 0, err
	}
	if e.OrganizerID != actorID && !isAdmin {
		return 0, apperr.PermissionDenied("you do not manage this event")
	}

	// Ids from the client are untrusted: keep only pending applications that
	// actually belong to this event.
	eligible := make([]int64, 0, len(ids))
	volunteers := make([]int64, 0, len(ids))
	for _, id := range ids {
		a, err := scope.Applications().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return 0, err
		}
		if a.EventID != eventID || a.Status != model.ApplicationStatusPending {
			continue
		}
		eligible = append(eligible, a.ID)
		volunteers = append(volunteers, a.VolunteerID)
	}

	updated, err := scope.Applications().BulkUpdateStatus(ctx, eligible, status)
	if err != nil {
		return 0, err
	}
	if err := scope.Commit(); err != nil {
		return 0, err
	}

	for _, vid := range volunteers {
		s.notify(ctx, queue.NotificationEvent{
			UserID:  vid,
			Title:   "Application " + status,
			Message: fmt.Sprintf("Your application to %q was %s.", e.Title, status),
			Type:    model.NotificationTypeApplication,
		})
	}
	return updated, nil
}

// load fetches an application together with its event.
func (s *ApplicationService) load(ctx context.Context, scope uow.UnitOfWork, applicationID int64) (model.Application, model.Event, error) {
	a, err := scope.Applications().GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Application{}, model.Event{}, apperr.NotFound("application not found")
		}
		return model.Application{}, model.Event{}, err
	}
	e, err := scope.Events().GetByID(ctx, a.EventID)
	if err != nil {
		return model.Application{}, model.Event{}, err
	}
	return a, e, nil
}

func (s *ApplicationService) notify(ctx context.Context, ev queue.NotificationEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("applications: publish notification failed: %v", err)
	}
}
