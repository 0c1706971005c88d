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

// ReviewService owns post-event reviews between participants.
type ReviewService struct {
	uow       uow.Factory
	publisher queue.Publisher
}

func NewReviewService(factory uow.Factory, publisher queue.Publisher) *ReviewService {
	return &ReviewService{uow: factory, publisher: publisher}
}

// ReviewInput carries a new review.
type ReviewInput struct {
	EventID  int64
	ToUserID int64
	Rating   int
	Comment  *string
}

// Create stores a review. Both author and subject must have taken part in the
// event (as its organizer or as an approved volunteer), and the event must be
// over.
func (s *ReviewService) Create(ctx context.Context, fromUserID int64, in ReviewInput) (model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, apperr.Validation("rating must be between 1 and 5")
	}
	if in.ToUserID == fromUserID {
		return model.Review{}, apperr.BadRequest("you cannot review yourself")
	}

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.Review{}, err
	}
	defer func() { _ = scope.Close() }()

	e, err := scope.Events().GetByID(ctx, in.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Review{}, apperr.NotFound("event not found")
		}
		return model.Review{}, err
	}
	if e.Status != model.EventStatusCompleted {
		return model.Review{}, apperr.BadRequest("reviews open once the event is completed")
	}

	for _, userID := range []int64{fromUserID, in.ToUserID} {
		ok, err := participated(ctx, scope, e, userID)
		if err != nil {
			return model.Review{}, err
		}
		if !ok {
			return model.Review{}, apperr.PermissionDenied("reviews are between event participants only")
		}
	}

	rev := model.Review{
		EventID:    in.EventID,
		FromUserID: fromUserID,
		ToUserID:   in.ToUserID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	if err := scope.Reviews().Create(ctx, &rev); err != nil {
		return model.Review{}, err
	}
	if err := scope.Commit(); err != nil {
		return model.Review{}, err
	}

	if err := s.publisher.Publish(ctx, queue.NotificationEvent{
		UserID:  in.ToUserID,
		Title:   "New review",
		Message: fmt.Sprintf("You received a %d-star review for %q.", in.Rating, e.Title),
		Type:    model.NotificationTypeReview,
	}); err != nil {
		log.Printf("reviews: publish notification failed: %v", err)
	}
	return rev, nil
}

// ListForUser returns one page of reviews received by a user.
func (s *ReviewService) ListForUser(ctx context.Context, userID int64, page, pageSize int) ([]model.Review, int, error) {
	page, pageSize = normalizePage(page, pageSize)

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Reviews().ListForUser(ctx, userID, page, pageSize)
}

// Stats returns the review summary of a user.
func (s *ReviewService) Stats(ctx context.Context, userID int64) (model.ReviewStats, error) {
	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.ReviewStats{}, err
	}
	defer func() { _ = scope.Close() }()

	return scope.Reviews().Stats(ctx, userID)
}

// participated reports whether userID took part in the event, either as its
// organizer or through an approved application.
func participated(ctx context.Context, scope uow.UnitOfWork, e model.Event, userID int64) (bool, error) {
	if e.OrganizerID == userID {
		return true, nil
	}
	return scope.Applications().ExistsApproved(ctx, e.ID, userID)
}
