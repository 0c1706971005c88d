// Package uow provides the request-scoped transactional boundary. A unit of
// work binds one database transaction for the lifetime of a request, exposes
// lazily-constructed repositories that all share that transaction, commits at
// most once, and rolls back on any exit path that did not commit.
package uow

import (
	"context"
	"database/sql"
	"errors"

	"github.com/volunteerhub/volunteer-platform/internal/repository"
)

// ErrAlreadyCommitted is returned when Commit or Rollback is called on a unit
// of work whose transaction has already been committed. A second commit is a
// programming error and fails loudly rather than silently no-op'ing.
var ErrAlreadyCommitted = errors.New("unit of work already committed")

// Tx is the minimal transaction surface the unit of work requires. *sql.Tx
// satisfies it; tests substitute fakes.
type Tx interface {
	repository.DBTX
	Commit() error
	Rollback() error
}

// UnitOfWork bundles the repositories of one request over a single shared
// transaction. Writes performed through any repository are visible to reads
// through the others before commit, and invisible outside the scope if the
// scope rolls back.
type UnitOfWork interface {
	Users() repository.UserStore
	Roles() repository.RoleStore
	Events() repository.EventStore
	Applications() repository.ApplicationStore
	Tags() repository.TagStore
	Skills() repository.SkillStore
	Reviews() repository.ReviewStore
	Notifications() repository.NotificationStore

	// Commit commits the transaction. Calling it a second time returns
	// ErrAlreadyCommitted.
	Commit() error
	// Rollback aborts the transaction. It fails after a successful commit.
	Rollback() error
	// Close releases the scope: if no commit happened, the transaction is
	// rolled back so forgotten commits lose their writes instead of leaking
	// them. Close is idempotent and safe to defer on every path.
	Close() error
}

// Factory opens request-scoped units of work. Services hold a Factory, not a
// database handle, so tests can substitute in-memory implementations.
type Factory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// SQLFactory opens units of work over a *sql.DB connection pool.
type SQLFactory struct {
	db *sql.DB
}

// NewFactory returns a Factory backed by db.
func NewFactory(db *sql.DB) *SQLFactory {
	return &SQLFactory{db: db}
}

// Begin starts a transaction bound to ctx and wraps it in a unit of work.
// If ctx is canceled mid-request the transaction is rolled back by the
// driver, so partial writes are never left committed.
func (f *SQLFactory) Begin(ctx context.Context) (UnitOfWork, error) {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return New(tx), nil
}

// New wraps an open transaction in a unit of work. Exposed so tests can
// drive the commit/rollback state machine with a fake Tx.
func New(tx Tx) UnitOfWork {
	return &unit{tx: tx}
}

type unit struct {
	tx        Tx
	committed bool
	closed    bool

	users         repository.UserStore
	roles         repository.RoleStore
	events        repository.EventStore
	applications  repository.ApplicationStore
	tags          repository.TagStore
	skills        repository.SkillStore
	reviews       repository.ReviewStore
	notifications repository.NotificationStore
}

// Repository accessors construct on first use and cache for the scope's
// lifetime, all over the one shared transaction.

func (u *unit) Users() repository.UserStore {
	if u.users == nil {
		u.users = repository.NewUserRepo(u.tx)
	}
	return u.users
}

func (u *unit) Roles() repository.RoleStore {
	if u.roles == nil {
		u.roles = repository.NewRoleRepo(u.tx)
	}
	return u.roles
}

func (u *unit) Events() repository.EventStore {
	if u.events == nil {
		u.events = repository.NewEventRepo(u.tx)
	}
	return u.events
}

func (u *unit) Applications() repository.ApplicationStore {
	if u.applications == nil {
		u.applications = repository.NewApplicationRepo(u.tx)
	}
	return u.applications
}

func (u *unit) Tags() repository.TagStore {
	if u.tags == nil {
		u.tags = repository.NewTagRepo(u.tx)
	}
	return u.tags
}

func (u *unit) Skills() repository.SkillStore {
	if u.skills == nil {
		u.skills = repository.NewSkillRepo(u.tx)
	}
	return u.skills
}

func (u *unit) Reviews() repository.ReviewStore {
	if u.reviews == nil {
		u.reviews = repository.NewReviewRepo(u.tx)
	}
	return u.reviews
}

func (u *unit) Notifications() repository.NotificationStore {
	if u.notifications == nil {
		u.notifications = repository.NewNotificationRepo(u.tx)
	}
	return u.notifications
}

func (u *unit) Commit() error {
	if u.committed {
		return ErrAlreadyCommitted
	}
	if err := u.tx.Commit(); err != nil {
		return err
	}
	u.committed = true
	return nil
}

func (u *unit) Rollback() error {
	if u.committed {
		return ErrAlreadyCommitted
	}
	u.closed = true
	return u.tx.Rollback()
}

func (u *unit) Close() error {
	if u.committed || u.closed {
		return nil
	}
	u.closed = true
	return u.tx.Rollback()
}
