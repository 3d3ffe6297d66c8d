package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/migrations"
	"github.com/pkordes/trip-planner/testutil"
)

// TestMigrations applies every migration, checks the trips table and its
// unique trip id index, then rolls everything back.
//
// The test is skipped automatically when TEST_DATABASE_URL is not set.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Another package's TestMain may already have migrated this shared DB.
	if _, err := provider.DownTo(ctx, 0); err != nil {
		t.Fatalf("TestMigrations: initial reset: %v", err)
	}

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results, "expected at least one migration to be applied")

	assert.True(t, relationExists(t, db, "trips"), "trips table")
	assert.True(t, relationExists(t, db, "trips_trip_id_key"), "unique trip id index")

	_, err = db.ExecContext(ctx, `INSERT INTO trips (doc) VALUES ('{"title":"no id"}')`)
	assert.Error(t, err, "documents without an id must be rejected")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	assert.False(t, relationExists(t, db, "trips"), "trips table after reset")
}

// relationExists reports whether a table or index with the given name exists
// in the public schema.
func relationExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM pg_class c
			JOIN pg_namespace n ON n.oid = c.relnamespace
			WHERE n.nspname = 'public' AND c.relname = $1
		)`
	var exists bool
	err := db.QueryRowContext(context.Background(), q, name).Scan(&exists)
	require.NoError(t, err, "check relation %q", name)
	return exists
}
