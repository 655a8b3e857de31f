// FilePath: internal/repository/sqlstore/deployments.go
package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
)

type DeploymentRepo struct {
	BaseRepo
}

func NewDeploymentRepository(db database.DB) *DeploymentRepo {
	return &DeploymentRepo{BaseRepo: BaseRepo{db: db}}
}

func (r *DeploymentRepo) Insert(ctx context.Context, tx database.Transaction, dep *models.SensorDeployment) error {
	query := `
		INSERT INTO sensor_deployments (
			id, sensor_id, mission_id, hardware_id, calibration_id,
			position, start_time, end_time, created_at
		) VALUES (
			:id, :sensor_id, :mission_id, :hardware_id, :calibration_id,
			:position, :start_time, :end_time, :created_at
		)`

	_, err := tx.NamedExecContext(ctx, query, dep)
	if err != nil {
		return errors.NewDatabaseError("failed to insert deployment", err)
	}
	return nil
}

func (r *DeploymentRepo) Get(ctx context.Context, id string) (*models.SensorDeployment, error) {
	dep := &models.SensorDeployment{}
	query := `SELECT * FROM sensor_deployments WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, dep, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("deployment not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get deployment", err)
	}
	return dep, nil
}

// FindOverlapping returns a deployment for sensorID whose [start_time,
// end_time) window intersects [start, end), or nil if none exists. A nil end
// means the requested window is open-ended. Runs in the caller's transaction
// so the conflict check and the insert see the same state.
func (r *DeploymentRepo) FindOverlapping(ctx context.Context, tx database.Transaction, sensorID string, start time.Time, end *time.Time) (*models.SensorDeployment, error) {
	dep := &models.SensorDeployment{}
	query := `
		SELECT * FROM sensor_deployments
		WHERE sensor_id = $1
		  AND (end_time IS NULL OR end_time > $2)`
	args := []any{sensorID, start.UTC()}

	if end != nil {
		query += ` AND start_time < $3`
		args = append(args, end.UTC())
	}
	query += ` ORDER BY start_time LIMIT 1`

	err := tx.GetContext(ctx, dep, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.NewDatabaseError("failed to check deployment overlap", err)
	}
	return dep, nil
}

// End closes a deployment window. Fails if the deployment is already ended.
func (r *DeploymentRepo) End(ctx context.Context, id string, endTime time.Time) error {
	query := `UPDATE sensor_deployments SET end_time = $1 WHERE id = $2 AND end_time IS NULL`
	res, err := r.db.GetDB().ExecContext(ctx, query, endTime.UTC(), id)
	if err != nil {
		return errors.NewDatabaseError("failed to end deployment", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if n == 0 {
		return errors.NewValidationError("deployment not found or already ended", nil).
			WithEntity("sensor_deployment").WithField("end_time")
	}
	return nil
}

func (r *DeploymentRepo) ListBySensorMission(ctx context.Context, sensorID, missionID string) ([]*models.SensorDeployment, error) {
	deps := []*models.SensorDeployment{}
	query := `
		SELECT * FROM sensor_deployments
		WHERE sensor_id = $1 AND mission_id = $2
		ORDER BY start_time DESC`

	if err := r.db.GetDB().SelectContext(ctx, &deps, query, sensorID, missionID); err != nil {
		return nil, errors.NewDatabaseError("failed to list deployments", err)
	}
	return deps, nil
}

func (r *DeploymentRepo) ListByMission(ctx context.Context, missionID string) ([]*models.SensorDeployment, error) {
	deps := []*models.SensorDeployment{}
	query := `SELECT * FROM sensor_deployments WHERE mission_id = $1 ORDER BY start_time DESC`

	if err := r.db.GetDB().SelectContext(ctx, &deps, query, missionID); err != nil {
		return nil, errors.NewDatabaseError("failed to list deployments", err)
	}
	return deps, nil
}
