package enroll

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultActivities are inserted into an empty database so a fresh install
// has something to enroll into.
var DefaultActivities = []Activity{
	{
		Name:            "Chess Club",
		Description:     "Learn strategies and compete in chess tournaments",
		Schedule:        "Fridays, 3:30 PM - 5:00 PM",
		MaxParticipants: 12,
		Published:       true,
	},
	{
		Name:            "Programming Class",
		Description:     "Learn programming fundamentals and build software projects",
		Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
		MaxParticipants: 20,
		Published:       true,
	},
	{
		Name:            "Gym Class",
		Description:     "Physical education and sports activities",
		Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
		MaxParticipants: 30,
		Published:       true,
	},
}

// SeedActivities inserts the default activities when the activities table is
// empty. A non empty table means an operator already curated the catalog, so
// we leave it alone.
func SeedActivities(ctx context.Context, db *bun.DB, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	count, err := db.NewSelect().
		Model((*Activity)(nil)).
		Count(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count activities for seeding")
	}

	if count > 0 {
		logger.Debug("skipping activity seed, table has %d records", count)
		return nil
	}

	records := make([]*Activity, 0, len(DefaultActivities))
	for _, sample := range DefaultActivities {
		record := sample
		if id, err := hashid.NewUUID(record.Name); err == nil {
			record.ID = id
		} else {
			record.ID = uuid.New()
		}
		records = append(records, &record)
	}

	if _, err := db.NewInsert().Model(&records).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed activities")
	}

	logger.Info("seeded %d default activities", len(records))

	return nil
}
