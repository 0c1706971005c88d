package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/volunteerhub/volunteer-platform/internal/model"
	"github.com/volunteerhub/volunteer-platform/internal/queue"
	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/uow"
)

// memStore is a shared in-memory backing store. A memFactory hands out units
// of work that all read and write the same maps, which is close enough to a
// database for rule-level tests.
type memStore struct {
	mu            sync.Mutex
	users         map[int64]model.User
	roles         []model.Role
	userRoles     map[int64][]int64 // user id -> role ids
	events        map[int64]model.Event
	applications  map[int64]model.Application
	notifications []model.Notification
	reviews       []model.Review
	nextID        int64
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[int64]model.User),
		userRoles:    make(map[int64][]int64),
		events:       make(map[int64]model.Event),
		applications: make(map[int64]model.Application),
		roles: []model.Role{
			{ID: 1, Name: model.RoleAdmin},
			{ID: 2, Name: model.RoleUser},
			{ID: 3, Name: model.RoleVolunteer},
			{ID: 4, Name: model.RoleOrganizer},
		},
		nextID: 100,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addUser(u model.User) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.id()
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addEvent(e model.Event) model.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		e.ID = m.id()
	}
	m.events[e.ID] = e
	return e
}

func (m *memStore) addApplication(a model.Application) model.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = m.id()
	}
	m.applications[a.ID] = a
	return a
}

// memFactory implements uow.Factory over a memStore.
type memFactory struct {
	store *memStore
}

func newMemFactory(store *memStore) *memFactory { return &memFactory{store: store} }

func (f *memFactory) Begin(context.Context) (uow.UnitOfWork, error) {
	return &memUnit{store: f.store}, nil
}

// memUnit implements uow.UnitOfWork. It has no transactional isolation;
// commit and rollback only track the state machine for assertions.
type memUnit struct {
	store     *memStore
	committed bool
	closed    bool
}

func (u *memUnit) Commit() error {
	if u.committed {
		return uow.ErrAlreadyCommitted
	}
	u.committed = true
	return nil
}

func (u *memUnit) Rollback() error {
	u.closed = true
	return nil
}

func (u *memUnit) Close() error {
	u.closed = true
	return nil
}

func (u *memUnit) Users() repository.UserStore                 { return &memUsers{u.store} }
func (u *memUnit) Roles() repository.RoleStore                 { return &memRoles{u.store} }
func (u *memUnit) Events() repository.EventStore               { return &memEvents{u.store} }
func (u *memUnit) Applications() repository.ApplicationStore   { return &memApplications{u.store} }
func (u *memUnit) Tags() repository.TagStore                   { return &memTags{} }
func (u *memUnit) Skills() repository.SkillStore               { return &memSkills{} }
func (u *memUnit) Reviews() repository.ReviewStore             { return &memReviews{u.store} }
func (u *memUnit) Notifications() repository.NotificationStore { return &memNotifications{u.store} }

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, have := range r.s.users {
		if have.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.s.id()
	u.IsActive = true
	r.s.users[u.ID] = *u
	return nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (r *memUsers) GetByID(_ context.Context, id int64) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *memUsers) Exists(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *memUsers) UpdateProfile(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = *u
	return nil
}

func (r *memUsers) SetActive(_ context.Context, id int64, active bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, nil
	}
	u.IsActive = active
	r.s.users[id] = u
	return true, nil
}

func (r *memUsers) TouchLastLogin(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if ok {
		u.DateLastLogin = time.Now()
		r.s.users[id] = u
	}
	return nil
}

func (r *memUsers) Count(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

func (r *memUsers) List(_ context.Context, page, pageSize int) ([]model.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *memUsers) GetPublicProfile(_ context.Context, id int64) (model.PublicProfile, error) {
	u, err := r.GetByID(context.Background(), id)
	if err != nil {
		return model.PublicProfile{}, err
	}
	return model.PublicProfile{ID: u.ID, FullName: u.FullName, Skills: []model.Skill{}}, nil
}

type memRoles struct{ s *memStore }

func (r *memRoles) ListAll(context.Context) ([]model.Role, error) {
	return r.s.roles, nil
}

func (r *memRoles) ListForUser(_ context.Context, userID int64) ([]model.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Role
	for _, id := range r.s.userRoles[userID] {
		for _, role := range r.s.roles {
			if role.ID == id {
				out = append(out, role)
			}
		}
	}
	return out, nil
}

func (r *memRoles) Assign(_ context.Context, userID, roleID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range r.s.userRoles[userID] {
		if id == roleID {
			return nil
		}
	}
	r.s.userRoles[userID] = append(r.s.userRoles[userID], roleID)
	return nil
}

func (r *memRoles) Remove(_ context.Context, userID, roleID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.userRoles[userID][:0]
	for _, id := range r.s.userRoles[userID] {
		if id != roleID {
			kept = append(kept, id)
		}
	}
	r.s.userRoles[userID] = kept
	return nil
}

type memEvents struct{ s *memStore }

func (r *memEvents) Create(_ context.Context, e *model.Event, _, _ []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	r.s.events[e.ID] = *e
	return nil
}

func (r *memEvents) GetByID(_ context.Context, id int64) (model.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return model.Event{}, repository.ErrNotFound
	}
	return e, nil
}

func (r *memEvents) GetDetails(_ context.Context, id int64) (model.EventDetails, error) {
	e, err := r.GetByID(context.Background(), id)
	if err != nil {
		return model.EventDetails{}, err
	}
	return model.EventDetails{Event: e}, nil
}

func (r *memEvents) Update(_ context.Context, id int64, upd repository.EventUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	r.s.events[id] = e
	return nil
}

func (r *memEvents) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.events[id]
	delete(r.s.events, id)
	return ok, nil
}

func (r *memEvents) UpdateStatus(_ context.Context, id int64, status string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return false, nil
	}
	e.Status = status
	r.s.events[id] = e
	return true, nil
}

func (r *memEvents) List(_ context.Context, f repository.EventFilters) ([]model.Event, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Event
	for _, e := range r.s.events {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *memEvents) ListByOrganizer(_ context.Context, organizerID int64) ([]model.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Event
	for _, e := range r.s.events {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memEvents) CountApprovedVolunteers(_ context.Context, eventID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, a := range r.s.applications {
		if a.EventID == eventID && a.Status == model.ApplicationStatusApproved {
			n++
		}
	}
	return n, nil
}

func (r *memEvents) CountByStatus(_ context.Context, status string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, e := range r.s.events {
		if e.Status == status {
			n++
		}
	}
	return n, nil
}

type memApplications struct{ s *memStore }

func (r *memApplications) Create(_ context.Context, a *model.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, have := range r.s.applications {
		if have.EventID == a.EventID && have.VolunteerID == a.VolunteerID {
			return repository.ErrDuplicate
		}
	}
	a.ID = r.s.id()
	a.Status = model.ApplicationStatusPending
	r.s.applications[a.ID] = *a
	return nil
}

func (r *memApplications) GetByID(_ context.Context, id int64) (model.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return model.Application{}, repository.ErrNotFound
	}
	return a, nil
}

func (r *memApplications) UpdateStatus(_ context.Context, id int64, status string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return false, nil
	}
	a.Status = status
	r.s.applications[id] = a
	return true, nil
}

func (r *memApplications) List(_ context.Context, f repository.ApplicationFilters) ([]model.Application, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Application
	for _, a := range r.s.applications {
		if f.EventID != 0 && a.EventID != f.EventID {
			continue
		}
		if f.VolunteerID != 0 && a.VolunteerID != f.VolunteerID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *memApplications) BulkUpdateStatus(_ context.Context, ids []int64, status string) (int, error) {
	n := 0
	for _, id := range ids {
		ok, _ := r.UpdateStatus(context.Background(), id, status)
		if ok {
			n++
		}
	}
	return n, nil
}

func (r *memApplications) ExistsApproved(_ context.Context, eventID, volunteerID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.EventID == eventID && a.VolunteerID == volunteerID && a.Status == model.ApplicationStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

type memTags struct{}

func (memTags) ListAll(context.Context) ([]model.Tag, error) { return nil, nil }

type memSkills struct{}

func (memSkills) ListAll(context.Context) ([]model.Skill, error)       { return nil, nil }
func (memSkills) ReplaceForUser(context.Context, int64, []int64) error { return nil }

type memReviews struct{ s *memStore }

func (r *memReviews) Create(_ context.Context, rev *model.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rev.ID = r.s.id()
	r.s.reviews = append(r.s.reviews, *rev)
	return nil
}

func (r *memReviews) ListForUser(_ context.Context, toUserID int64, _, _ int) ([]model.Review, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Review
	for _, rev := range r.s.reviews {
		if rev.ToUserID == toUserID {
			out = append(out, rev)
		}
	}
	return out, len(out), nil
}

func (r *memReviews) Stats(_ context.Context, toUserID int64) (model.ReviewStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := model.ReviewStats{UserID: toUserID}
	sum := 0
	for _, rev := range r.s.reviews {
		if rev.ToUserID == toUserID {
			stats.ReviewCount++
			sum += rev.Rating
		}
	}
	if stats.ReviewCount > 0 {
		stats.AverageRating = float64(sum) / float64(stats.ReviewCount)
	}
	return stats, nil
}

type memNotifications struct{ s *memStore }

func (r *memNotifications) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.id()
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *memNotifications) BulkCreate(_ context.Context, ns []model.Notification) (int, error) {
	for i := range ns {
		_ = r.Create(context.Background(), &ns[i])
	}
	return len(ns), nil
}

func (r *memNotifications) ListForUser(_ context.Context, userID int64, f repository.NotificationFilters) (repository.NotificationList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := repository.NotificationList{Page: f.Page, PageSize: f.PageSize, Notifications: []model.Notification{}}
	for _, n := range r.s.notifications {
		if n.UserID != userID {
			continue
		}
		if !n.IsRead {
			out.UnreadCount++
		}
		out.Notifications = append(out.Notifications, n)
		out.Total++
	}
	return out, nil
}

func (r *memNotifications) MarkRead(_ context.Context, ids []int64, userID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for i := range r.s.notifications {
		for _, id := range ids {
			if r.s.notifications[i].ID == id && r.s.notifications[i].UserID == userID && !r.s.notifications[i].IsRead {
				r.s.notifications[i].IsRead = true
				n++
			}
		}
	}
	return n, nil
}

func (r *memNotifications) MarkAllRead(_ context.Context, userID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for i := range r.s.notifications {
		if r.s.notifications[i].UserID == userID && !r.s.notifications[i].IsRead {
			r.s.notifications[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *memNotifications) Delete(_ context.Context, ids []int64, userID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.notifications[:0]
	n := 0
	for _, note := range r.s.notifications {
		drop := false
		for _, id := range ids {
			if note.ID == id && note.UserID == userID {
				drop = true
				break
			}
		}
		if drop {
			n++
		} else {
			kept = append(kept, note)
		}
	}
	r.s.notifications = kept
	return n, nil
}

// capturePublisher records published notification events.
type capturePublisher struct {
	mu     sync.Mutex
	events []queue.NotificationEvent
}

func (p *capturePublisher) Publish(_ context.Context, ev queue.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) sent() []queue.NotificationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.NotificationEvent(nil), p.events...)
}
