// FilePath: internal/testutil/db.go

// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/migrate"
)

// NewTestDB opens a fresh SQLite database in a temporary directory and
// applies all migrations. The database is closed when the test finishes.
func NewTestDB(t *testing.T) database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rovhub_test.db")
	db, err := database.NewSQLiteDB(path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	runner := migrate.NewRunner(db)
	if err := runner.Apply(context.Background(), migrate.Log); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	return db
}
