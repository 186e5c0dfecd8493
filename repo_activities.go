package enroll

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Activities resolves activity records and assembles the roster view used by
// the listing endpoint.
type Activities interface {
	repository.Repository[*Activity]

	GetByName(ctx context.Context, name string) (*Activity, error)
	GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Activity, error)

	// ListAll returns every activity in a stable order (creation time, then
	// name) regardless of how the underlying rows were written.
	ListAll(ctx context.Context) ([]*Activity, error)

	// ListWithParticipants returns each activity plus its participant emails
	// in registration insertion order.
	ListWithParticipants(ctx context.Context) ([]*ActivityRoster, error)
}

type activities struct {
	repository.Repository[*Activity]
	db *bun.DB
}

var (
	_ Activities                       = (*activities)(nil)
	_ repository.Repository[*Activity] = (*activities)(nil)
)

func NewActivitiesRepository(db *bun.DB) Activities {
	repo := repository.NewRepository[*Activity](db, repository.ModelHandlers[*Activity]{
		NewRecord: func() *Activity { return &Activity{} },
		GetID: func(a *Activity) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Activity, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &activities{
		Repository: repo,
		db:         db,
	}
}

func (a *activities) GetByName(ctx context.Context, name string) (*Activity, error) {
	return a.GetByNameTx(ctx, a.db, name)
}

func (a *activities) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Activity, error) {
	record := &Activity{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"name": name,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *activities) ListAll(ctx context.Context) ([]*Activity, error) {
	var records []*Activity
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Order("name ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *activities) ListWithParticipants(ctx context.Context) ([]*ActivityRoster, error) {
	var records []*Activity
	err := a.db.NewSelect().
		Model(&records).
		Relation("Registrations", func(q *bun.SelectQuery) *bun.SelectQuery {
			// registrations and users both carry created_at, keep the
			// column qualified once the User relation joins in
			return q.Order("reg.created_at ASC")
		}).
		Relation("Registrations.User").
		Order("created_at ASC").
		Order("name ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	rosters := make([]*ActivityRoster, 0, len(records))
	for _, act := range records {
		roster := &ActivityRoster{
			Activity:     act,
			Participants: make([]string, 0, len(act.Registrations)),
		}
		for _, reg := range act.Registrations {
			if reg.User != nil {
				roster.Participants = append(roster.Participants, reg.User.Email)
			}
		}
		rosters = append(rosters, roster)
	}

	return rosters, nil
}
