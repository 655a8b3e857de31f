// FilePath: internal/repository/sqlstore/calibrations.go
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
)

type CalibrationRepo struct {
	BaseRepo
}

func NewCalibrationRepository(db database.DB) *CalibrationRepo {
	return &CalibrationRepo{BaseRepo: BaseRepo{db: db}}
}

// Insert writes a calibration row inside the caller's transaction so that
// an activation (deactivate old, insert new) commits atomically.
func (r *CalibrationRepo) Insert(ctx context.Context, tx database.Transaction, cal *models.Calibration) error {
	query := `
		INSERT INTO calibrations (
			id, sensor_id, coefficients, status, active, created_at
		) VALUES (
			:id, :sensor_id, :coefficients, :status, :active, :created_at
		)`

	_, err := tx.NamedExecContext(ctx, query, cal)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errors.NewUniqueConstraintError("calibration", "sensor_id", "active", err)
		}
		return errors.NewDatabaseError("failed to insert calibration", err)
	}
	return nil
}

func (r *CalibrationRepo) Get(ctx context.Context, id string) (*models.Calibration, error) {
	cal := &models.Calibration{}
	query := `SELECT * FROM calibrations WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, cal, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("calibration not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get calibration", err)
	}
	return cal, nil
}

func (r *CalibrationRepo) GetActive(ctx context.Context, sensorID string) (*models.Calibration, error) {
	cal := &models.Calibration{}
	query := `SELECT * FROM calibrations WHERE sensor_id = $1 AND active`

	err := r.db.GetDB().GetContext(ctx, cal, query, sensorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no active calibration for sensor", err)
		}
		return nil, errors.NewDatabaseError("failed to get active calibration", err)
	}
	return cal, nil
}

// DeactivateActive clears the active flag on the sensor's current active
// calibration, skipping excludeID. Returns the number of rows deactivated.
func (r *CalibrationRepo) DeactivateActive(ctx context.Context, tx database.Transaction, sensorID, excludeID string) (int64, error) {
	query := `UPDATE calibrations SET active = FALSE WHERE sensor_id = $1 AND active AND id <> $2`
	res, err := tx.ExecContext(ctx, query, sensorID, excludeID)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to deactivate calibration", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return n, nil
}

func (r *CalibrationRepo) ListBySensor(ctx context.Context, sensorID string) ([]*models.Calibration, error) {
	cals := []*models.Calibration{}
	query := `SELECT * FROM calibrations WHERE sensor_id = $1 ORDER BY created_at DESC`

	if err := r.db.GetDB().SelectContext(ctx, &cals, query, sensorID); err != nil {
		return nil, errors.NewDatabaseError("failed to list calibrations", err)
	}
	return cals, nil
}

func (r *CalibrationRepo) SetStatus(ctx context.Context, id string, status models.CalibrationStatus) error {
	query := `UPDATE calibrations SET status = $1 WHERE id = $2`
	res, err := r.db.GetDB().ExecContext(ctx, query, status, id)
	if err != nil {
		return errors.NewDatabaseError("failed to set calibration status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("calibration not found", nil)
	}
	return nil
}
