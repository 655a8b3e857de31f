// FilePath: internal/hubservice/hubservice.sensor_test.go
package hubservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
)

func TestCreateSensorValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.CreateSensor(ctx, &models.Sensor{Name: "no type"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	err = svc.CreateSensor(ctx, &models.Sensor{SensorType: "thermometer", Name: "bad type"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	sensor := &models.Sensor{SensorType: models.Pressure, Name: "keller PA-7LD"}
	require.NoError(t, svc.CreateSensor(ctx, sensor))
	assert.NotEmpty(t, sensor.ID)
}

func TestUpdateSensorMergesFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sensor := createTestSensor(t, svc, models.Camera)

	update := &models.Sensor{ID: sensor.ID, Name: "bow camera"}
	require.NoError(t, svc.UpdateSensor(ctx, update))

	got, err := svc.GetSensor(ctx, sensor.ID)
	require.NoError(t, err)
	assert.Equal(t, "bow camera", got.Name)
	assert.Equal(t, models.Camera, got.SensorType)
	assert.Equal(t, "bluerobotics", got.Specification["vendor"])
}

func TestListSensorsByType(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTestSensor(t, svc, models.Camera)
	createTestSensor(t, svc, models.Compass)
	createTestSensor(t, svc, models.Sonar)

	all, err := svc.ListSensors(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cameras, err := svc.ListSensors(ctx, models.Camera, 0, 10)
	require.NoError(t, err)
	require.Len(t, cameras, 1)
	assert.Equal(t, models.Camera, cameras[0].SensorType)
}

func TestCreateCalibrationSupersedesActive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sensor := createTestSensor(t, svc, models.Compass)

	first := &models.Calibration{
		SensorID:     sensor.ID,
		Coefficients: models.JSON{"offset_x": 0.12},
		Active:       true,
	}
	require.NoError(t, svc.CreateCalibration(ctx, first))
	assert.Equal(t, models.CalibrationDraft, first.Status)

	active, err := svc.ActiveCalibration(ctx, sensor.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	second := &models.Calibration{
		SensorID:     sensor.ID,
		Coefficients: models.JSON{"offset_x": 0.02},
		Active:       true,
	}
	require.NoError(t, svc.CreateCalibration(ctx, second))

	// The new row took over; the old one is retained but inactive.
	active, err = svc.ActiveCalibration(ctx, sensor.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	history, err := svc.SensorCalibrations(ctx, sensor.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	activeCount := 0
	for _, cal := range history {
		if cal.Active {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestCreateCalibrationInactiveLeavesActiveAlone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sensor := createTestSensor(t, svc, models.IMU)

	active := &models.Calibration{SensorID: sensor.ID, Active: true}
	require.NoError(t, svc.CreateCalibration(ctx, active))

	draft := &models.Calibration{SensorID: sensor.ID}
	require.NoError(t, svc.CreateCalibration(ctx, draft))

	got, err := svc.ActiveCalibration(ctx, sensor.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
}

func TestCreateCalibrationRequiresSensor(t *testing.T) {
	svc := newTestService(t)

	err := svc.CreateCalibration(context.Background(), &models.Calibration{SensorID: "sns_missing"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestSetCalibrationStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sensor := createTestSensor(t, svc, models.Pressure)

	cal := &models.Calibration{SensorID: sensor.ID}
	require.NoError(t, svc.CreateCalibration(ctx, cal))

	require.NoError(t, svc.SetCalibrationStatus(ctx, cal.ID, models.CalibrationVerified))

	history, err := svc.SensorCalibrations(ctx, sensor.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.CalibrationVerified, history[0].Status)

	err = svc.SetCalibrationStatus(ctx, cal.ID, "approved")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestDeleteSensorCascadesCalibrations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sensor := createTestSensor(t, svc, models.Sonar)

	cal := &models.Calibration{SensorID: sensor.ID, Active: true}
	require.NoError(t, svc.CreateCalibration(ctx, cal))

	require.NoError(t, svc.DeleteSensor(ctx, sensor.ID))

	_, err := svc.GetSensor(ctx, sensor.ID)
	assert.True(t, errors.IsNotFound(err))

	history, err := svc.SensorCalibrations(ctx, sensor.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDeleteSensorBlockedByDeployment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)
	sensor := createTestSensor(t, svc, models.Camera)

	dep := &models.SensorDeployment{
		SensorID:  sensor.ID,
		MissionID: mission.ID,
		Position:  "stern",
		StartTime: time.Date(2026, 8, 2, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.DeploySensor(ctx, dep))

	err := svc.DeleteSensor(ctx, sensor.ID)
	require.Error(t, err)
	assert.True(t, errors.IsReferentialIntegrity(err))

	_, err = svc.GetSensor(ctx, sensor.ID)
	require.NoError(t, err)
}

func TestDeleteSensorBlockedThroughCalibrationDeployment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)
	sensor := createTestSensor(t, svc, models.Compass)
	other := createTestSensor(t, svc, models.Sonar)

	cal := &models.Calibration{SensorID: sensor.ID, Active: true}
	require.NoError(t, svc.CreateCalibration(ctx, cal))

	// A deployment of a different sensor pins this sensor's calibration:
	// the cascade onto calibrations must stop at the protecting deployment.
	dep := &models.SensorDeployment{
		SensorID:      other.ID,
		MissionID:     mission.ID,
		CalibrationID: &cal.ID,
		StartTime:     time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.DeploySensor(ctx, dep))

	err := svc.DeleteSensor(ctx, sensor.ID)
	require.Error(t, err)
	assert.True(t, errors.IsReferentialIntegrity(err))

	// Nothing was deleted by the aborted cascade.
	history, err := svc.SensorCalibrations(ctx, sensor.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
