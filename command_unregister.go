package enroll

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type UnregisterMessage struct {
	Activity string `json:"activity" example:"Chess Club" doc:"Activity name."`
	Email    string `json:"email" example:"pepe.rone@example.com" doc:"Student email."`
}

func (e UnregisterMessage) Type() string { return "enrollment.unregister" }

// UnregisterHandler removes a student's registration. The student record
// itself is kept so their other registrations and credentials survive.
type UnregisterHandler struct {
	repo RepositoryManager
}

func NewUnregisterHandler(repo RepositoryManager) *UnregisterHandler {
	return &UnregisterHandler{repo: repo}
}

func (h *UnregisterHandler) Execute(ctx context.Context, event UnregisterMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during unregister",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UnregisterHandler) execute(ctx context.Context, event UnregisterMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		activity, err := h.repo.Activities().GetByNameTx(ctx, tx, event.Activity)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrActivityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve activity for unregister")
		}

		user, err := h.repo.Users().GetByIdentifierTx(ctx, tx, event.Email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrNotRegistered
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve student for unregister")
		}

		removed, err := h.repo.Registrations().DeleteForTx(ctx, tx, user.ID, activity.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete registration")
		}

		if !removed {
			return ErrNotRegistered
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "unregister transaction failed")
	}

	return nil
}
