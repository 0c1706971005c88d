package service

import (
	"context"
	"errors"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/model"
	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/uow"
)

// PublicService serves the guest-facing read surface: approved events, public
// profiles and the tag/skill catalogues.
type PublicService struct {
	uow uow.Factory
}

func NewPublicService(factory uow.Factory) *PublicService {
	return &PublicService{uow: factory}
}

// BrowseEvents lists approved events. Status in the filters is overridden:
// guests never see pending or canceled events regardless of what they ask for.
func (s *PublicService) BrowseEvents(ctx context.Context, f repository.EventFilters) ([]model.Event, int, error) {
	f.Status = model.EventStatusApproved
	f.OrganizerID = 0
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Events().List(ctx, f)
}

// EventDetails returns the detail view of an approved or completed event.
// Unmoderated and canceled events are invisible to guests.
func (s *PublicService) EventDetails(ctx context.Context, id int64) (model.EventDetails, error) {
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
	if d.Status != model.EventStatusApproved && d.Status != model.EventStatusCompleted {
		return model.EventDetails{}, apperr.NotFound("event not found")
	}
	return d, nil
}

// Profile returns the sanitized public view of a user with their review stats.
func (s *PublicService) Profile(ctx context.Context, userID int64) (model.PublicProfile, model.ReviewStats, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.PublicProfile{}, model.ReviewStats{}, err
	}
	defer func() { _ = scope.Close() }()

	p, err := scope.Users().GetPublicProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicProfile{}, model.ReviewStats{}, apperr.NotFound("user not found")
		}
		return model.PublicProfile{}, model.ReviewStats{}, err
	}
	stats, err := scope.Reviews().Stats(ctx, userID)
	if err != nil {
		return model.PublicProfile{}, model.ReviewStats{}, err
	}
	return p, stats, nil
}

// Tags lists the tag catalogue.
func (s *PublicService) Tags(ctx context.Context) ([]model.Tag, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Tags().ListAll(ctx)
}

// Skills lists the skill catalogue.
func (s *PublicService) Skills(ctx context.Context) ([]model.Skill, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Skills().ListAll(ctx)
}
