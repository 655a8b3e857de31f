// FilePath: internal/migrate/migrate_test.go
package migrate_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/migrate"
)

func openTestDB(t *testing.T) database.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "migrate_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyFullLog(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := migrate.NewRunner(db)

	v, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, runner.Apply(ctx, migrate.Log))

	v, err = runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, migrate.Log[len(migrate.Log)-1].Version, v)

	// Every applied migration left a log row with reversal metadata.
	var names []string
	require.NoError(t, db.GetDB().SelectContext(ctx, &names,
		`SELECT name FROM schema_migrations ORDER BY version ASC`))
	require.Len(t, names, len(migrate.Log))
	assert.Equal(t, "initial", names[0])

	var reversal string
	require.NoError(t, db.GetDB().GetContext(ctx, &reversal,
		`SELECT reversal FROM schema_migrations WHERE version = 4`))
	assert.Contains(t, reversal, "RENAME COLUMN notes TO description")
}

func TestApplyIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := migrate.NewRunner(db)

	require.NoError(t, runner.Apply(ctx, migrate.Log))
	before, err := runner.Version(ctx)
	require.NoError(t, err)

	// A second run sees the cursor current and changes nothing.
	require.NoError(t, runner.Apply(ctx, migrate.Log))
	after, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	var rows int
	require.NoError(t, db.GetDB().GetContext(ctx, &rows,
		`SELECT COUNT(*) FROM schema_migrations`))
	assert.Equal(t, len(migrate.Log), rows)
}

func TestApplyRejectsUnorderedLog(t *testing.T) {
	db := openTestDB(t)
	runner := migrate.NewRunner(db)

	bad := []migrate.Migration{
		{Version: 2, Name: "second"},
		{Version: 1, Name: "first"},
	}
	err := runner.Apply(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, errors.IsMigration(err))
}

func TestAppliedSchemaShape(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, migrate.NewRunner(db).Apply(ctx, migrate.Log))

	// The renamed and added log_files columns are queryable.
	var n int
	require.NoError(t, db.GetDB().GetContext(ctx, &n,
		`SELECT COUNT(*) FROM log_files WHERE notes = '' AND already_parsed`))
	assert.Equal(t, 0, n)

	// Mission survey columns exist with their defaults.
	require.NoError(t, db.GetDB().GetContext(ctx, &n,
		`SELECT COUNT(*) FROM missions WHERE target_type = 'wall' AND max_depth IS NULL`))
	assert.Equal(t, 0, n)
}

func TestApplyStopsOnFailingOperation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := migrate.NewRunner(db)

	broken := []migrate.Migration{
		{
			Version: 1,
			Name:    "valid",
			Ops: []migrate.Operation{{
				Kind: migrate.CreateEntity,
				SQL:  `CREATE TABLE probes (id TEXT PRIMARY KEY)`,
			}},
		},
		{
			Version: 2,
			Name:    "broken",
			Ops: []migrate.Operation{{
				Kind: migrate.AlterField,
				SQL:  `ALTER TABLE does_not_exist ADD COLUMN x TEXT`,
			}},
		},
	}

	err := runner.Apply(ctx, broken)
	require.Error(t, err)
	assert.True(t, errors.IsMigration(err))

	// The first migration stands; the cursor stopped before the failure.
	v, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
