// FilePath: internal/migrate/migrate.go

// Package migrate applies ordered, named schema migrations against a
// persisted version cursor. Each migration is all-or-nothing; re-applying
// the log is a no-op once the cursor is current, so the runner is safe to
// re-invoke after a crash. Reversal metadata is recorded per migration for
// manual rollback; nothing is rolled back automatically across migrations.
package migrate

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
)

// OpKind enumerates the supported schema operations.
type OpKind string

const (
	CreateEntity  OpKind = "create_entity"
	AlterField    OpKind = "alter_field"
	AddIndex      OpKind = "add_index"
	AddConstraint OpKind = "add_constraint"
	AddForeignKey OpKind = "add_foreign_key"
	DeleteEntity  OpKind = "delete_entity"
	Rename        OpKind = "rename"
)

// Operation is one reversible schema change. SQL is portable across both
// dialects unless an override is present. Reverse is not executed by the
// runner; it is persisted so an operator can roll the change back by hand.
type Operation struct {
	Kind     OpKind
	Entity   string
	SQL      string
	Override map[database.Dialect]string
	Reverse  string
}

func (op Operation) sqlFor(d database.Dialect) string {
	if s, ok := op.Override[d]; ok {
		return s
	}
	return op.SQL
}

// Migration is a named, ordered batch of operations.
type Migration struct {
	Version int
	Name    string
	Ops     []Operation
}

// advisoryLockKey identifies the hub schema in pg_advisory_lock; only one
// migration run may hold it at a time.
const advisoryLockKey = 0x726f7668 // "rovh"

// Runner applies the migration log to one database.
type Runner struct {
	db database.DB
}

// NewRunner creates a migration runner for db.
func NewRunner(db database.DB) *Runner {
	return &Runner{db: db}
}

// Version returns the persisted schema version, 0 if nothing was applied yet.
func (r *Runner) Version(ctx context.Context) (int, error) {
	if err := r.ensureVersionTables(ctx); err != nil {
		return 0, err
	}
	var v int
	err := r.db.GetDB().GetContext(ctx, &v, `SELECT version FROM schema_version WHERE id = 1`)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to read schema version", err)
	}
	return v, nil
}

// Apply runs every migration in order whose version is above the persisted
// cursor. A failed operation aborts its migration's transaction and stops
// the run; previously committed migrations stand.
func (r *Runner) Apply(ctx context.Context, migrations []Migration) error {
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version <= migrations[i-1].Version {
			return errors.NewMigrationError(migrations[i].Name,
				fmt.Errorf("migration log out of order at version %d", migrations[i].Version))
		}
	}

	if err := r.ensureVersionTables(ctx); err != nil {
		return err
	}

	unlock, err := r.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := r.Version(ctx)
	if err != nil {
		return err
	}

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := r.applyOne(ctx, m, current); err != nil {
			return err
		}
		current = m.Version
		applied++
	}

	if applied == 0 {
		nuts.L.Infof("[Migrate] Schema already at version %d, nothing to apply", current)
	} else {
		nuts.L.Infof("[Migrate] Applied %d migration(s), schema now at version %d", applied, current)
	}
	return nil
}

func (r *Runner) applyOne(ctx context.Context, m Migration, expectedVersion int) error {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin migration transaction", err)
	}
	defer tx.Rollback()

	for _, op := range m.Ops {
		stmt := op.sqlFor(r.db.Dialect())
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.NewMigrationError(m.Name,
				fmt.Errorf("%s on %s: %w", op.Kind, op.Entity, err))
		}
	}

	reversal, err := reversalMetadata(m)
	if err != nil {
		return errors.NewMigrationError(m.Name, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, reversal, applied_at) VALUES ($1, $2, $3, $4)`,
		m.Version, m.Name, reversal, time.Now().UTC())
	if err != nil {
		return errors.NewMigrationError(m.Name, fmt.Errorf("recording migration: %w", err))
	}

	// Compare-and-swap on the single-row cursor; a concurrent runner that
	// slipped past the advisory lock loses here.
	res, err := tx.ExecContext(ctx,
		`UPDATE schema_version SET version = $1 WHERE id = 1 AND version = $2`,
		m.Version, expectedVersion)
	if err != nil {
		return errors.NewMigrationError(m.Name, fmt.Errorf("advancing version cursor: %w", err))
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return errors.NewMigrationError(m.Name,
			fmt.Errorf("version cursor moved concurrently (expected %d)", expectedVersion))
	}

	if err := tx.Commit(); err != nil {
		return errors.NewMigrationError(m.Name, fmt.Errorf("commit: %w", err))
	}
	nuts.L.Infof("[Migrate] Applied %04d_%s (%d ops)", m.Version, m.Name, len(m.Ops))
	return nil
}

func (r *Runner) ensureVersionTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			id INTEGER PRIMARY KEY,
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			reversal TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.GetDB().ExecContext(ctx, stmt); err != nil {
			return errors.NewDatabaseError("failed to create migration tables", err)
		}
	}
	// Seed the cursor row exactly once.
	_, err := r.db.GetDB().ExecContext(ctx,
		`INSERT INTO schema_version (id, version) SELECT 1, 0
		 WHERE NOT EXISTS (SELECT 1 FROM schema_version WHERE id = 1)`)
	if err != nil {
		return errors.NewDatabaseError("failed to seed schema version", err)
	}
	return nil
}

// acquireLock takes the single-writer guarantee for a migration run. On
// PostgreSQL this is a session advisory lock held on a dedicated connection;
// SQLite already serializes writers, so the lock is a no-op there.
func (r *Runner) acquireLock(ctx context.Context) (func(), error) {
	if r.db.Dialect() != database.DialectPostgres {
		return func() {}, nil
	}
	conn, err := r.db.GetDB().DB.Conn(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to open lock connection", err)
	}
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockKey); err != nil {
		conn.Close()
		return nil, errors.NewDatabaseError("failed to acquire migration lock", err)
	}
	return func() {
		if _, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockKey); err != nil && err != sql.ErrConnDone {
			nuts.L.Warnf("[Migrate] Failed to release migration lock: %v", err)
		}
		conn.Close()
	}, nil
}

func reversalMetadata(m Migration) (string, error) {
	type rev struct {
		Kind   OpKind `json:"kind"`
		Entity string `json:"entity"`
		SQL    string `json:"sql,omitempty"`
	}
	out := make([]rev, 0, len(m.Ops))
	// Reversals are recorded in reverse application order.
	for i := len(m.Ops) - 1; i >= 0; i-- {
		op := m.Ops[i]
		out = append(out, rev{Kind: op.Kind, Entity: op.Entity, SQL: op.Reverse})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encoding reversal metadata: %w", err)
	}
	return string(b), nil
}
