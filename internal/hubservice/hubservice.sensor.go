// FilePath: internal/hubservice/hubservice.sensor.go
package hubservice

import (
	"context"
	"time"

	"github.com/itsatony/struccy"
	nuts "github.com/vaudience/go-nuts"

	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
	"github.com/deepsea-systems/rovhub/internal/schema"
)

// CreateSensor creates a new sensor after integrity validation.
func (s *HubService) CreateSensor(ctx context.Context, sensor *models.Sensor) error {
	if sensor.ID == "" {
		sensor.ID = nuts.NID("sns", 12)
	}
	now := time.Now().UTC()
	if sensor.CreatedAt.IsZero() {
		sensor.CreatedAt = now
	}
	sensor.CreatedAt = sensor.CreatedAt.UTC()
	sensor.UpdatedAt = now

	if err := s.Engine.Validate(ctx, schema.Sensor, sensor); err != nil {
		return err
	}

	nuts.L.Infof("[SensorService] Creating sensor %s (%s)", sensor.ID, sensor.SensorType)
	return s.Sensors.Create(ctx, sensor)
}

// GetSensor retrieves a sensor by id.
func (s *HubService) GetSensor(ctx context.Context, id string) (*models.Sensor, error) {
	return s.Sensors.Get(ctx, id)
}

// UpdateSensor merges incoming fields into the stored sensor and revalidates.
func (s *HubService) UpdateSensor(ctx context.Context, sensor *models.Sensor) error {
	existing, err := s.Sensors.Get(ctx, sensor.ID)
	if err != nil {
		return err
	}

	updatedFields, _, err := struccy.UpdateStructFields(existing, sensor, systemRoles, true, true)
	if err != nil {
		return errors.NewInternalError("failed to merge sensor fields", err)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Engine.Validate(ctx, schema.Sensor, existing); err != nil {
		return err
	}

	nuts.L.Infof("[SensorService] Updating sensor %s, fields changed: %v", sensor.ID, updatedFields)
	return s.Sensors.Update(ctx, existing)
}

// ListSensors retrieves sensors, optionally narrowed to one type.
func (s *HubService) ListSensors(ctx context.Context, sensorType models.SensorType, offset, limit int) ([]*models.Sensor, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Sensors.List(ctx, sensorType, offset, limit)
}

// DeleteSensor removes a sensor and cascades its calibrations. Deployments
// referencing the sensor or one of its calibrations block the delete.
func (s *HubService) DeleteSensor(ctx context.Context, id string) error {
	if _, err := s.Sensors.Get(ctx, id); err != nil {
		return err
	}
	nuts.L.Infof("[SensorService] Deleting sensor %s", id)
	return s.Cleanup.DeleteSensor(ctx, id)
}

// CreateCalibration records a calibration for a sensor. When the new row is
// active, the sensor's previous active calibration is superseded in the same
// transaction, keeping the one-active-per-sensor invariant at every commit
// boundary.
func (s *HubService) CreateCalibration(ctx context.Context, cal *models.Calibration) error {
	if cal.ID == "" {
		cal.ID = nuts.NID("cal", 12)
	}
	if cal.Status == "" {
		cal.Status = models.CalibrationDraft
	}
	if cal.CreatedAt.IsZero() {
		cal.CreatedAt = time.Now().UTC()
	}
	cal.CreatedAt = cal.CreatedAt.UTC()

	if err := s.Engine.Validate(ctx, schema.Calibration, cal); err != nil {
		return err
	}

	tx, err := s.Calibrations.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if cal.Active {
		superseded, err := s.Calibrations.DeactivateActive(ctx, tx, cal.SensorID, cal.ID)
		if err != nil {
			return err
		}
		if superseded > 0 {
			nuts.L.Infof("[SensorService] Superseded %d calibration(s) for sensor %s", superseded, cal.SensorID)
		}
	}
	if err := s.Calibrations.Insert(ctx, tx, cal); err != nil {
		return err
	}
	if err := s.Engine.CheckUnique(ctx, tx, schema.Calibration, cal); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit calibration", err)
	}
	nuts.L.Infof("[SensorService] Created calibration %s for sensor %s (active=%t)", cal.ID, cal.SensorID, cal.Active)
	return nil
}

// ActiveCalibration returns the sensor's currently active calibration.
func (s *HubService) ActiveCalibration(ctx context.Context, sensorID string) (*models.Calibration, error) {
	return s.Calibrations.GetActive(ctx, sensorID)
}

// SensorCalibrations lists a sensor's calibrations, newest first.
func (s *HubService) SensorCalibrations(ctx context.Context, sensorID string) ([]*models.Calibration, error) {
	return s.Calibrations.ListBySensor(ctx, sensorID)
}

// SetCalibrationStatus updates the review status of a calibration.
func (s *HubService) SetCalibrationStatus(ctx context.Context, id string, status models.CalibrationStatus) error {
	switch status {
	case models.CalibrationDraft, models.CalibrationVerified, models.CalibrationRejected:
	default:
		return errors.NewValidationError("unknown calibration status", nil).
			WithEntity(schema.Calibration).WithField("status")
	}
	return s.Calibrations.SetStatus(ctx, id, status)
}
