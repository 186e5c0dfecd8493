package enroll

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type SignupMessage struct {
	Activity string `json:"activity" example:"Chess Club" doc:"Activity name."`
	Email    string `json:"email" example:"pepe.rone@example.com" doc:"Student email."`
}

func (e SignupMessage) Type() string { return "enrollment.signup" }

// SignupHandler enrolls a student in an activity. The student record is
// created on first signup, and the duplicate plus capacity checks run inside
// the same transaction as the insert so a full activity can never oversell.
type SignupHandler struct {
	repo RepositoryManager
}

func NewSignupHandler(repo RepositoryManager) *SignupHandler {
	return &SignupHandler{repo: repo}
}

func (h *SignupHandler) Execute(ctx context.Context, event SignupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SignupHandler) execute(ctx context.Context, event SignupMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		activity, err := h.repo.Activities().GetByNameTx(ctx, tx, event.Activity)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrActivityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve activity for signup")
		}

		user, _, err := h.repo.Users().GetOrCreateByEmailTx(ctx, tx, event.Email)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve student for signup")
		}

		enrolled, err := h.repo.Registrations().ExistsTx(ctx, tx, user.ID, activity.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check existing registration")
		}

		if enrolled {
			return ErrAlreadyRegistered
		}

		count, err := h.repo.Registrations().CountForActivityTx(ctx, tx, activity.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count registrations")
		}

		if count >= activity.MaxParticipants {
			return ErrActivityFull
		}

		if _, err := h.repo.Registrations().CreateForTx(ctx, tx, user.ID, activity.ID); err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyRegistered
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create registration")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "signup transaction failed")
	}

	return nil
}
