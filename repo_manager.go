package enroll

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager aggregates the persistence layer so command handlers can
// reach every repository through one dependency and share transactions.
type RepositoryManager interface {
	Users() Users
	Activities() Activities
	Registrations() Registrations

	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error

	Validate() error
	MustValidate()
}

type mngr struct {
	db            *bun.DB
	users         Users
	activities    Activities
	registrations Registrations
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:            db,
		users:         NewUsersRepository(db),
		activities:    NewActivitiesRepository(db),
		registrations: NewRegistrationsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository manager needs a database handle")
	}

	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.activities == nil {
		return errors.New("repository activities should be initialized")
	}

	if m.registrations == nil {
		return errors.New("repository registrations should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Activities() Activities {
	return m.activities
}

func (m mngr) Registrations() Registrations {
	return m.registrations
}
