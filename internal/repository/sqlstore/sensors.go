// FilePath: internal/repository/sqlstore/sensors.go
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
)

type SensorRepo struct {
	BaseRepo
}

func NewSensorRepository(db database.DB) *SensorRepo {
	return &SensorRepo{BaseRepo: BaseRepo{db: db}}
}

func (r *SensorRepo) Create(ctx context.Context, sensor *models.Sensor) error {
	query := `
		INSERT INTO sensors (
			id, sensor_type, name, specification, created_at, updated_at
		) VALUES (
			:id, :sensor_type, :name, :specification, :created_at, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, sensor)
	if err != nil {
		return errors.NewDatabaseError("failed to create sensor", err)
	}
	return nil
}

func (r *SensorRepo) Get(ctx context.Context, id string) (*models.Sensor, error) {
	sensor := &models.Sensor{}
	query := `SELECT * FROM sensors WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, sensor, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("sensor not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get sensor", err)
	}
	return sensor, nil
}

func (r *SensorRepo) Update(ctx context.Context, sensor *models.Sensor) error {
	query := `
		UPDATE sensors SET
			sensor_type = :sensor_type,
			name = :name,
			specification = :specification,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, sensor)
	if err != nil {
		return errors.NewDatabaseError("failed to update sensor", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	return nil
}

func (r *SensorRepo) List(ctx context.Context, sensorType models.SensorType, offset, limit int) ([]*models.Sensor, error) {
	query := `SELECT * FROM sensors WHERE 1=1`
	args := []any{}
	i := 1
	if sensorType != "" {
		query += fmt.Sprintf(` AND sensor_type = $%d`, i)
		args = append(args, sensorType)
		i++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, limit, offset)

	sensors := []*models.Sensor{}
	if err := r.db.GetDB().SelectContext(ctx, &sensors, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to list sensors", err)
	}
	return sensors, nil
}
