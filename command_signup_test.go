package enroll_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/goliatone/go-enroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("signs up a new student and creates the account lazily", func(t *testing.T) {
		repo := setupRepoManager(t)
		mustCreateActivity(t, repo, "Chess Club", 12)

		handler := enroll.NewSignupHandler(repo)
		err := handler.Execute(ctx, enroll.SignupMessage{
			Activity: "Chess Club",
			Email:    "newcomer@example.com",
		})
		require.NoError(t, err)

		user, err := repo.Users().GetByIdentifier(ctx, "newcomer@example.com")
		require.NoError(t, err)
		assert.Equal(t, enroll.RoleStudent, user.Role)
		assert.False(t, user.CanLogin(), "lazily created accounts have no password")

		rosters, err := repo.Activities().ListWithParticipants(ctx)
		require.NoError(t, err)
		require.Len(t, rosters, 1)
		assert.Equal(t, []string{"newcomer@example.com"}, rosters[0].Participants)
	})

	t.Run("rejects a duplicate signup", func(t *testing.T) {
		repo := setupRepoManager(t)
		mustCreateActivity(t, repo, "Chess Club", 12)

		handler := enroll.NewSignupHandler(repo)
		msg := enroll.SignupMessage{Activity: "Chess Club", Email: "dup@example.com"}

		require.NoError(t, handler.Execute(ctx, msg))

		err := handler.Execute(ctx, msg)
		require.Error(t, err)
		assert.ErrorIs(t, err, enroll.ErrAlreadyRegistered)
	})

	t.Run("rejects an unknown activity", func(t *testing.T) {
		repo := setupRepoManager(t)

		handler := enroll.NewSignupHandler(repo)
		err := handler.Execute(ctx, enroll.SignupMessage{
			Activity: "Underwater Basket Weaving",
			Email:    "anyone@example.com",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, enroll.ErrActivityNotFound)
	})

	t.Run("enforces capacity", func(t *testing.T) {
		repo := setupRepoManager(t)
		mustCreateActivity(t, repo, "Chess Club", 12)

		handler := enroll.NewSignupHandler(repo)
		for i := 0; i < 12; i++ {
			err := handler.Execute(ctx, enroll.SignupMessage{
				Activity: "Chess Club",
				Email:    fmt.Sprintf("player%02d@example.com", i),
			})
			require.NoError(t, err)
		}

		err := handler.Execute(ctx, enroll.SignupMessage{
			Activity: "Chess Club",
			Email:    "latecomer@example.com",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, enroll.ErrActivityFull)

		count, err := repo.Registrations().CountForActivity(ctx, mustGetActivity(t, repo, "Chess Club").ID)
		require.NoError(t, err)
		assert.Equal(t, 12, count)
	})
}

func TestSignupHandlerConcurrent(t *testing.T) {
	repo := setupRepoManager(t)
	mustCreateActivity(t, repo, "Chess Club", 12)

	handler := enroll.NewSignupHandler(repo)
	ctx := context.Background()

	const attempts = 30

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- handler.Execute(ctx, enroll.SignupMessage{
				Activity: "Chess Club",
				Email:    fmt.Sprintf("racer%02d@example.com", i),
			})
		}(i)
	}

	wg.Wait()
	close(results)

	var ok, full int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, enroll.ErrActivityFull):
			full++
		}
	}

	assert.Equal(t, 12, ok, "exactly capacity signups succeed")
	assert.Equal(t, attempts-12, full)

	count, err := repo.Registrations().CountForActivity(ctx, mustGetActivity(t, repo, "Chess Club").ID)
	require.NoError(t, err)
	assert.Equal(t, 12, count, "no overbooking in storage")
}
