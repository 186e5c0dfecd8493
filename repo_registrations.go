package enroll

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Registrations is the join-table repository. The Tx variants exist because
// every enrollment decision (duplicate check, capacity count, insert,
// delete) must observe one consistent transactional snapshot.
type Registrations interface {
	repository.Repository[*Registration]

	ExistsTx(ctx context.Context, tx bun.IDB, userID, activityID uuid.UUID) (bool, error)
	CountForActivity(ctx context.Context, activityID uuid.UUID) (int, error)
	CountForActivityTx(ctx context.Context, tx bun.IDB, activityID uuid.UUID) (int, error)
	CreateForTx(ctx context.Context, tx bun.IDB, userID, activityID uuid.UUID) (*Registration, error)
	DeleteForTx(ctx context.Context, tx bun.IDB, userID, activityID uuid.UUID) (bool, error)
}

type registrations struct {
	repository.Repository[*Registration]
	db *bun.DB
}

var (
	_ Registrations                        = (*registrations)(nil)
	_ repository.Repository[*Registration] = (*registrations)(nil)
)

func NewRegistrationsRepository(db *bun.DB) Registrations {
	repo := repository.NewRepository[*Registration](db, repository.ModelHandlers[*Registration]{
		NewRecord: func() *Registration { return &Registration{} },
		GetID: func(r *Registration) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Registration, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	return &registrations{
		Repository: repo,
		db:         db,
	}
}

func (a *registrations) ExistsTx(ctx context.Context, tx bun.IDB, userID, activityID uuid.UUID) (bool, error) {
	return tx.NewSelect().
		Model((*Registration)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.activity_id = ?", activityID).
		Exists(ctx)
}

func (a *registrations) CountForActivity(ctx context.Context, activityID uuid.UUID) (int, error) {
	return a.CountForActivityTx(ctx, a.db, activityID)
}

func (a *registrations) CountForActivityTx(ctx context.Context, tx bun.IDB, activityID uuid.UUID) (int, error) {
	return tx.NewSelect().
		Model((*Registration)(nil)).
		Where("?TableAlias.activity_id = ?", activityID).
		Count(ctx)
}

func (a *registrations) CreateForTx(ctx context.Context, tx bun.IDB, userID, activityID uuid.UUID) (*Registration, error) {
	// explicit timestamp: the participant listing sorts on created_at and the
	// database default only has second resolution
	now := time.Now()
	record := &Registration{
		ID:         uuid.New(),
		UserID:     userID,
		ActivityID: activityID,
		CreatedAt:  &now,
	}

	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *registrations) DeleteForTx(ctx context.Context, tx bun.IDB, userID, activityID uuid.UUID) (bool, error) {
	res, err := tx.NewDelete().
		Model((*Registration)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.activity_id = ?", activityID).
		Exec(ctx)

	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
