package enroll_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-enroll"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// setupTestDB opens an in-memory database and applies the embedded schema
// migration so tests run against the exact DDL that ships in the binary.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	ddl, err := enroll.GetMigrationsFS().ReadFile("data/sql/migrations/20250901000000_init_schema.up.sql")
	require.NoError(t, err)

	for _, stmt := range strings.Split(string(ddl), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		_, err = bunDB.Exec(stmt)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	return bunDB
}

func setupRepoManager(t *testing.T) enroll.RepositoryManager {
	t.Helper()

	repo := enroll.NewRepositoryManager(setupTestDB(t))
	require.NoError(t, repo.Validate())

	return repo
}

// mustCreateActivity inserts an activity directly through the repository.
func mustGetActivity(t *testing.T, repo enroll.RepositoryManager, name string) *enroll.Activity {
	t.Helper()

	activity, err := repo.Activities().GetByName(context.Background(), name)
	require.NoError(t, err)

	return activity
}

func mustCreateActivity(t *testing.T, repo enroll.RepositoryManager, name string, capacity int) *enroll.Activity {
	t.Helper()

	now := time.Now()
	created, err := repo.Activities().Create(context.Background(), &enroll.Activity{
		Name:            name,
		Description:     "test activity",
		Schedule:        "Mondays, 3:00 PM",
		MaxParticipants: capacity,
		Published:       true,
		CreatedAt:       &now,
	})
	require.NoError(t, err)

	return created
}
