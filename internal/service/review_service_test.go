package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/model"
)

func seedCompletedEvent(store *memStore) (organizer, volunteer model.User, event model.Event) {
	organizer = store.addUser(model.User{FullName: "Org", IsActive: true})
	volunteer = store.addUser(model.User{FullName: "Vol", IsActive: true})
	event = store.addEvent(model.Event{OrganizerID: organizer.ID, Title: "Cleanup", Status: model.EventStatusCompleted})
	store.addApplication(model.Application{EventID: event.ID, VolunteerID: volunteer.ID, Status: model.ApplicationStatusApproved})
	return organizer, volunteer, event
}

func TestReviewBetweenParticipants(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewReviewService(newMemFactory(store), pub)

	organizer, volunteer, event := seedCompletedEvent(store)

	rev, err := svc.Create(context.Background(), volunteer.ID, ReviewInput{
		EventID:  event.ID,
		ToUserID: organizer.ID,
		Rating:   5,
	})
	require.NoError(t, err)
	assert.NotZero(t, rev.ID)

	sent := pub.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, organizer.ID, sent[0].UserID)
	assert.Equal(t, model.NotificationTypeReview, sent[0].Type)

	stats, err := svc.Stats(context.Background(), organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ReviewCount)
	assert.Equal(t, 5.0, stats.AverageRating)
}

func TestReviewRejectsOutsiders(t *testing.T) {
	store := newMemStore()
	svc := NewReviewService(newMemFactory(store), &capturePublisher{})

	organizer, _, event := seedCompletedEvent(store)
	outsider := store.addUser(model.User{IsActive: true})

	_, err := svc.Create(context.Background(), outsider.ID, ReviewInput{
		EventID:  event.ID,
		ToUserID: organizer.ID,
		Rating:   3,
	})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)
}

func TestReviewRequiresCompletedEvent(t *testing.T) {
	store := newMemStore()
	svc := NewReviewService(newMemFactory(store), &capturePublisher{})

	organizer := store.addUser(model.User{IsActive: true})
	volunteer := store.addUser(model.User{IsActive: true})
	event := store.addEvent(model.Event{OrganizerID: organizer.ID, Status: model.EventStatusApproved})
	store.addApplication(model.Application{EventID: event.ID, VolunteerID: volunteer.ID, Status: model.ApplicationStatusApproved})

	_, err := svc.Create(context.Background(), volunteer.ID, ReviewInput{
		EventID:  event.ID,
		ToUserID: organizer.ID,
		Rating:   4,
	})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestReviewValidation(t *testing.T) {
	store := newMemStore()
	svc := NewReviewService(newMemFactory(store), &capturePublisher{})

	_, volunteer, event := seedCompletedEvent(store)

	_, err := svc.Create(context.Background(), volunteer.ID, ReviewInput{EventID: event.ID, ToUserID: 999, Rating: 6})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 422, appErr.Status)

	_, err = svc.Create(context.Background(), volunteer.ID, ReviewInput{EventID: event.ID, ToUserID: volunteer.ID, Rating: 3})
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}
