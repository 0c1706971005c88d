package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/model"
	"github.com/volunteerhub/volunteer-platform/internal/queue"
	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/uow"
)

// EventService owns the organizer-facing event lifecycle. Moderation
// (approve/reject) lives in AdminService.
type EventService struct {
	uow       uow.Factory
	publisher queue.Publisher
}

func NewEventService(factory uow.Factory, publisher queue.Publisher) *EventService {
	return &EventService{uow: factory, publisher: publisher}
}

// CreateEventInput carries a new event. Tag and skill links are optional.
type CreateEventInput struct {
	Title              string
	Description        string
	Location           string
	RequiredVolunteers int
	StartDate          time.Time
	EndDate            time.Time
	ImageURL           *string
	TagIDs             []int64
	SkillIDs           []int64
}

// Create stores a new event in status pending, awaiting moderation.
func (s *EventService) Create(ctx context.Context, organizerID int64, in CreateEventInput) (model.Event, error) {
	if !in.EndDate.After(in.StartDate) {
		return model.Event{}, apperr.Validation("end date must be after start date")
	}
	if in.RequiredVolunteers < 1 {
		return model.Event{}, apperr.Validation("required volunteers must be at least 1")
	}

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.Event{}, err
	}
	defer func() { _ = scope.Close() }()

	e := model.Event{
		OrganizerID:        organizerID,
		Title:              in.Title,
		Description:        in.Description,
		Location:           in.Location,
		RequiredVolunteers: in.RequiredVolunteers,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		Status:             model.EventStatusPending,
		ImageURL:           in.ImageURL,
	}
	if err := scope.Events().Create(ctx, &e, in.TagIDs, in.SkillIDs); err != nil {
		return model.Event{}, err
	}
	if err := scope.Commit(); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// Get returns the full detail view of one event.
func (s *EventService) Get(ctx context.Context, id int64) (model.EventDetails, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.EventDetails{}, err
	}
	defer func() { _ = scope.Close() }()

	d, err := scope.Events().GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.EventDetails{}, apperr.NotFound("event not found")
		}
		return model.EventDetails{}, err
	}
	return d, nil
}

// Update applies a partial update. Only the owning organizer or an admin may
// change an event.
func (s *EventService) Update(ctx context.Context, actorID int64, isAdmin bool, id int64, upd repository.EventUpdate) (model.Event, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.Event{}, err
	}
	defer func() { _ = scope.Close() }()

	e, err := s.mustOwn(ctx, scope, actorID, isAdmin, id)
	if err != nil {
		return model.Event{}, err
	}
	if err := scope.Events().Update(ctx, e.ID, upd); err != nil {
		return model.Event{}, err
	}
	e, err = scope.Events().GetByID(ctx, e.ID)
	if err != nil {
		return model.Event{}, err
	}
	if err := scope.Commit(); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// Delete removes an event. Only the owning organizer or an admin may do so.
func (s *EventService) Delete(ctx context.Context, actorID int64, isAdmin bool, id int64) error {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = scope.Close() }()

	if _, err := s.mustOwn(ctx, scope, actorID, isAdmin, id); err != nil {
		return err
	}
	if _, err := scope.Events().Delete(ctx, id); err != nil {
		return err
	}
	return scope.Commit()
}

// Cancel withdraws an event. Approved volunteers are notified so they do not
// show up to a canceled event.
func (s *EventService) Cancel(ctx context.Context, actorID int64, isAdmin bool, id int64) (model.Event, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.Event{}, err
	}
	defer func() { _ = scope.Close() }()

	e, err := s.mustOwn(ctx, scope, actorID, isAdmin, id)
	if err != nil {
		return model.Event{}, err
	}
	if e.Status == model.EventStatusCanceled || e.Status == model.EventStatusCompleted {
		return model.Event{}, apperr.BadRequest("event is already " + e.Status)
	}

	volunteers, err := approvedVolunteers(ctx, scope, e.ID)
	if err != nil {
		return model.Event{}, err
	}
	if _, err := scope.Events().UpdateStatus(ctx, e.ID, model.EventStatusCanceled); err != nil {
		return model.Event{}, err
	}
	e.Status = model.EventStatusCanceled
	if err := scope.Commit(); err != nil {
		return model.Event{}, err
	}

	for _, vid := range volunteers {
		s.notify(ctx, queue.NotificationEvent{
			UserID:  vid,
			Title:   "Event canceled",
			Message: fmt.Sprintf("The event %q has been canceled.", e.Title),
			Type:    model.NotificationTypeEvent,
		})
	}
	return e, nil
}

// Complete marks an approved event as held. Reviews open only after this.
func (s *EventService) Complete(ctx context.Context, actorID int64, isAdmin bool, id int64) (model.Event, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.Event{}, err
	}
	defer func() { _ = scope.Close() }()

	e, err := s.mustOwn(ctx, scope, actorID, isAdmin, id)
	if err != nil {
		return model.Event{}, err
	}
	if e.Status != model.EventStatusApproved {
		return model.Event{}, apperr.BadRequest("only approved events can be completed")
	}
	if _, err := scope.Events().UpdateStatus(ctx, e.ID, model.EventStatusCompleted); err != nil {
		return model.Event{}, err
	}
	e.Status = model.EventStatusCompleted
	if err := scope.Commit(); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// ListMine returns every event owned by the organizer, newest first.
func (s *EventService) ListMine(ctx context.Context, organizerID int64) ([]model.Event, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Events().ListByOrganizer(ctx, organizerID)
}

// mustOwn loads the event and checks the actor may manage it.
func (s *EventService) mustOwn(ctx context.Context, scope uow.UnitOfWork, actorID int64, isAdmin bool, id int64) (model.Event, error) {
	e, err := scope.Events().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Event{}, apperr.NotFound("event not found")
		}
		return model.Event{}, err
	}
	if e.OrganizerID != actorID && !isAdmin {
		return model.Event{}, apperr.PermissionDenied("you do not manage this event")
	}
	return e, nil
}

// approvedVolunteers collects the volunteer ids of all approved applications
// for an event.
func approvedVolunteers(ctx context.Context, scope uow.UnitOfWork, eventID int64) ([]int64, error) {
	apps, _, err := scope.Applications().List(ctx, repository.ApplicationFilters{
		EventID:  eventID,
		Status:   model.ApplicationStatusApproved,
		Page:     1,
		PageSize: maxPageSize,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.VolunteerID)
	}
	return ids, nil
}

// notify publishes a notification event. Delivery is best-effort: the state
// change has already committed, so a broker outage only costs the in-app note.
func (s *EventService) notify(ctx context.Context, ev queue.NotificationEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("events: publish notification failed: %v", err)
	}
}
