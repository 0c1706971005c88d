package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/model"
)

func seedApprovedEvent(store *memStore, organizerID int64) model.Event {
	return store.addEvent(model.Event{
		OrganizerID: organizerID,
		Title:       "River cleanup",
		Status:      model.EventStatusApproved,
	})
}

func TestApplyHappyPath(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewApplicationService(newMemFactory(store), pub)

	organizer := store.addUser(model.User{FullName: "Org", IsActive: true})
	volunteer := store.addUser(model.User{FullName: "Vol", IsActive: true})
	event := seedApprovedEvent(store, organizer.ID)

	a, err := svc.Apply(context.Background(), volunteer.ID, event.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, a.Status)

	sent := pub.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, organizer.ID, sent[0].UserID)
	assert.Equal(t, model.NotificationTypeApplication, sent[0].Type)
}

func TestApplyRejectsUnapprovedEvent(t *testing.T) {
	store := newMemStore()
	svc := NewApplicationService(newMemFactory(store), &capturePublisher{})

	organizer := store.addUser(model.User{IsActive: true})
	volunteer := store.addUser(model.User{IsActive: true})
	event := store.addEvent(model.Event{OrganizerID: organizer.ID, Status: model.EventStatusPending})

	_, err := svc.Apply(context.Background(), volunteer.ID, event.ID, nil)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestApplyRejectsOrganizerSelfApply(t *testing.T) {
	store := newMemStore()
	svc := NewApplicationService(newMemFactory(store), &capturePublisher{})

	organizer := store.addUser(model.User{IsActive: true})
	event := seedApprovedEvent(store, organizer.ID)

	_, err := svc.Apply(context.Background(), organizer.ID, event.ID, nil)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestApplyTwiceConflicts(t *testing.T) {
	store := newMemStore()
	svc := NewApplicationService(newMemFactory(store), &capturePublisher{})

	organizer := store.addUser(model.User{IsActive: true})
	volunteer := store.addUser(model.User{IsActive: true})
	event := seedApprovedEvent(store, organizer.ID)

	_, err := svc.Apply(context.Background(), volunteer.ID, event.ID, nil)
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), volunteer.ID, event.ID, nil)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
}

func TestDecideRequiresEventOwnership(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewApplicationService(newMemFactory(store), pub)

	organizer := store.addUser(model.User{IsActive: true})
	volunteer := store.addUser(model.User{IsActive: true})
	stranger := store.addUser(model.User{IsActive: true})
	event := seedApprovedEvent(store, organizer.ID)
	app := store.addApplication(model.Application{
		EventID: event.ID, VolunteerID: volunteer.ID, Status: model.ApplicationStatusPending,
	})

	_, err := svc.Decide(context.Background(), stranger.ID, false, app.ID, model.ApplicationStatusApproved)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)

	// Admins pass the ownership check.
	decided, err := svc.Decide(context.Background(), stranger.ID, true, app.ID, model.ApplicationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusApproved, decided.Status)

	sent := pub.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, volunteer.ID, sent[0].UserID)
}

func TestDecideIsFinal(t *testing.T) {
	store := newMemStore()
	svc := NewApplicationService(newMemFactory(store), &capturePublisher{})

	organizer := store.addUser(model.User{IsActive: true})
	volunteer := store.addUser(model.User{IsActive: true})
	event := seedApprovedEvent(store, organizer.ID)
	app := store.addApplication(model.Application{
		EventID: event.ID, VolunteerID: volunteer.ID, Status: model.ApplicationStatusRejected,
	})

	_, err := svc.Decide(context.Background(), organizer.ID, false, app.ID, model.ApplicationStatusApproved)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestCancelOnlyByOwner(t *testing.T) {
	store := newMemStore()
	svc := NewApplicationService(newMemFactory(store), &capturePublisher{})

	organizer := store.addUser(model.User{IsActive: true})
	volunteer := store.addUser(model.User{IsActive: true})
	event := seedApprovedEvent(store, organizer.ID)
	app := store.addApplication(model.Application{
		EventID: event.ID, VolunteerID: volunteer.ID, Status: model.ApplicationStatusPending,
	})

	_, err := svc.Cancel(context.Background(), organizer.ID, app.ID)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)

	canceled, err := svc.Cancel(context.Background(), volunteer.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusCanceled, canceled.Status)
}

func TestBulkDecideSkipsForeignApplications(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewApplicationService(newMemFactory(store), pub)

	organizer := store.addUser(model.User{IsActive: true})
	volA := store.addUser(model.User{IsActive: true})
	volB := store.addUser(model.User{IsActive: true})
	event := seedApprovedEvent(store, organizer.ID)
	otherEvent := seedApprovedEvent(store, organizer.ID)

	appA := store.addApplication(model.Application{EventID: event.ID, VolunteerID: volA.ID, Status: model.ApplicationStatusPending})
	appB := store.addApplication(model.Application{EventID: otherEvent.ID, VolunteerID: volB.ID, Status: model.ApplicationStatusPending})

	updated, err := svc.BulkDecide(context.Background(), organizer.ID, false, event.ID,
		[]int64{appA.ID, appB.ID}, model.ApplicationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	assert.Equal(t, model.ApplicationStatusApproved, store.applications[appA.ID].Status)
	assert.Equal(t, model.ApplicationStatusPending, store.applications[appB.ID].Status, "application of another event must be untouched")
	assert.Len(t, pub.sent(), 1)
}
