// FilePath: internal/repository/sqlstore/hardware.go
package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
)

type HardwareRepo struct {
	BaseRepo
}

func NewHardwareRepository(db database.DB) *HardwareRepo {
	return &HardwareRepo{BaseRepo: BaseRepo{db: db}}
}

// Insert writes a hardware configuration row inside the caller's
// transaction. The partial unique index on (name) WHERE active turns a
// concurrent double-activation into a unique violation here rather than two
// active rows.
func (r *HardwareRepo) Insert(ctx context.Context, tx database.Transaction, hw *models.RoverHardware) error {
	query := `
		INSERT INTO rover_hardware (
			id, name, effective_from, hardware_config, active, created_at
		) VALUES (
			:id, :name, :effective_from, :hardware_config, :active, :created_at
		)`

	_, err := tx.NamedExecContext(ctx, query, hw)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errors.NewUniqueConstraintError("rover_hardware", "name", "active", err)
		}
		return errors.NewDatabaseError("failed to insert hardware configuration", err)
	}
	return nil
}

func (r *HardwareRepo) Get(ctx context.Context, id string) (*models.RoverHardware, error) {
	hw := &models.RoverHardware{}
	query := `SELECT * FROM rover_hardware WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, hw, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("hardware configuration not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get hardware configuration", err)
	}
	return hw, nil
}

func (r *HardwareRepo) GetActive(ctx context.Context, name string) (*models.RoverHardware, error) {
	hw := &models.RoverHardware{}
	query := `SELECT * FROM rover_hardware WHERE name = $1 AND active`

	err := r.db.GetDB().GetContext(ctx, hw, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no active configuration for rover", err)
		}
		return nil, errors.NewDatabaseError("failed to get active configuration", err)
	}
	return hw, nil
}

// DeactivateActive supersedes the currently active row for name, skipping
// excludeID. Runs in the caller's transaction, paired with Insert.
func (r *HardwareRepo) DeactivateActive(ctx context.Context, tx database.Transaction, name, excludeID string) (int64, error) {
	query := `UPDATE rover_hardware SET active = FALSE WHERE name = $1 AND active AND id <> $2`
	res, err := tx.ExecContext(ctx, query, name, excludeID)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to supersede configuration", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return n, nil
}

// Deactivate moves one row from active to superseded; rows affected is zero
// when the row was already superseded.
func (r *HardwareRepo) Deactivate(ctx context.Context, id string) (int64, error) {
	query := `UPDATE rover_hardware SET active = FALSE WHERE id = $1 AND active`
	res, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to deactivate configuration", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return n, nil
}

// ActiveAt answers the time-travel query "what configuration was in effect
// at time at": newest row with effective_from <= at, the next row's
// effective_from acting as its implicit end time.
func (r *HardwareRepo) ActiveAt(ctx context.Context, name string, at time.Time) (*models.RoverHardware, error) {
	hw := &models.RoverHardware{}
	query := `
		SELECT * FROM rover_hardware
		WHERE name = $1 AND effective_from <= $2
		ORDER BY effective_from DESC
		LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, hw, query, name, at.UTC())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no configuration in effect at requested time", err)
		}
		return nil, errors.NewDatabaseError("failed to resolve configuration at time", err)
	}
	return hw, nil
}

func (r *HardwareRepo) History(ctx context.Context, name string) ([]*models.RoverHardware, error) {
	rows := []*models.RoverHardware{}
	query := `SELECT * FROM rover_hardware WHERE name = $1 ORDER BY effective_from DESC`

	if err := r.db.GetDB().SelectContext(ctx, &rows, query, name); err != nil {
		return nil, errors.NewDatabaseError("failed to load configuration history", err)
	}
	return rows, nil
}
