// FilePath: internal/repository/sqlstore/store.go

// Package sqlstore implements the repositories on sqlx. All SQL here is
// dialect-neutral: it runs unchanged on PostgreSQL (lib/pq) and embedded
// SQLite (modernc.org/sqlite), which is what the test suite exercises.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
)

type BaseRepo struct {
	db database.DB
}

func (r *BaseRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *BaseRepo) Commit(tx database.Transaction) error {
	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}
	return nil
}

func (r *BaseRepo) Rollback(tx database.Transaction) error {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return errors.NewDatabaseError("failed to rollback transaction", err)
	}
	return nil
}

func (r *BaseRepo) Ping(ctx context.Context) error {
	if err := r.db.GetDB().PingContext(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}

func (r *BaseRepo) Close() error {
	if err := r.db.GetDB().Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err)
	}
	return nil
}

// PolicyStore is the minimal row-level surface the integrity engine needs to
// walk the delete-policy table: existence, counting and deleting by a single
// column. Table and column names come from the schema descriptors, never
// from caller input.
type PolicyStore struct {
	BaseRepo
}

// NewPolicyStore creates the integrity engine's storage backend.
func NewPolicyStore(db database.DB) *PolicyStore {
	return &PolicyStore{BaseRepo: BaseRepo{db: db}}
}

func (s *PolicyStore) Exists(ctx context.Context, table, id string) (bool, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = $1`, table)
	if err := s.db.GetDB().GetContext(ctx, &n, query, id); err != nil {
		return false, errors.NewDatabaseError("failed to check row existence", err)
	}
	return n > 0, nil
}

func (s *PolicyStore) CountBy(ctx context.Context, tx database.Transaction, table, column string, value any) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, table, column)
	if err := tx.GetContext(ctx, &n, query, value); err != nil {
		return 0, errors.NewDatabaseError("failed to count dependent rows", err)
	}
	return n, nil
}

// CountMatching counts rows matching every condition, excluding one id.
// Boolean conditions use "IS TRUE"-free comparison so the query plans onto
// the partial indexes on both dialects.
func (s *PolicyStore) CountMatching(ctx context.Context, tx database.Transaction, table string, conds map[string]any, excludeID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id <> $1`, table)
	args := []any{excludeID}
	i := 2
	for col, val := range conds {
		query += fmt.Sprintf(` AND %s = $%d`, col, i)
		args = append(args, val)
		i++
	}
	var n int
	if err := tx.GetContext(ctx, &n, query, args...); err != nil {
		return 0, errors.NewDatabaseError("failed to count matching rows", err)
	}
	return n, nil
}

func (s *PolicyStore) SelectIDsBy(ctx context.Context, tx database.Transaction, table, column string, value any) ([]string, error) {
	var ids []string
	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1`, table, column)
	if err := tx.SelectContext(ctx, &ids, query, value); err != nil {
		return nil, errors.NewDatabaseError("failed to select dependent ids", err)
	}
	return ids, nil
}

func (s *PolicyStore) DeleteBy(ctx context.Context, tx database.Transaction, table, column string, value any) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, column)
	res, err := tx.ExecContext(ctx, query, value)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete dependent rows", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return n, nil
}

func (s *PolicyStore) DeleteByID(ctx context.Context, tx database.Transaction, table, id string) (int64, error) {
	return s.DeleteBy(ctx, tx, table, "id", id)
}
