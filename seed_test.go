package enroll_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-enroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedActivities(t *testing.T) {
	ctx := context.Background()

	t.Run("populates an empty database", func(t *testing.T) {
		db := setupTestDB(t)

		require.NoError(t, enroll.SeedActivities(ctx, db, nil))

		repo := enroll.NewActivitiesRepository(db)
		records, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)

		capacities := map[string]int{}
		for _, act := range records {
			capacities[act.Name] = act.MaxParticipants
			assert.True(t, act.Published)
			assert.NotEmpty(t, act.Description)
			assert.NotEmpty(t, act.Schedule)
		}

		assert.Equal(t, map[string]int{
			"Chess Club":        12,
			"Programming Class": 20,
			"Gym Class":         30,
		}, capacities)
	})

	t.Run("is idempotent", func(t *testing.T) {
		db := setupTestDB(t)

		require.NoError(t, enroll.SeedActivities(ctx, db, nil))
		require.NoError(t, enroll.SeedActivities(ctx, db, nil))

		repo := enroll.NewActivitiesRepository(db)
		records, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("leaves existing data untouched", func(t *testing.T) {
		db := setupTestDB(t)

		repo := enroll.NewActivitiesRepository(db)
		_, err := repo.Create(ctx, &enroll.Activity{
			Name:            "Debate Team",
			Description:     "weekly debates",
			Schedule:        "Fridays, 4:00 PM",
			MaxParticipants: 16,
			Published:       true,
		})
		require.NoError(t, err)

		require.NoError(t, enroll.SeedActivities(ctx, db, nil))

		records, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Debate Team", records[0].Name)
	})
}
