// FilePath: internal/hubservice/hubservice.deployment_test.go
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

func TestDeploySensor(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)
	sensor := createTestSensor(t, svc, models.Sonar)

	start := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	dep := &models.SensorDeployment{
		SensorID:  sensor.ID,
		MissionID: mission.ID,
		Position:  "bow",
		StartTime: start,
	}
	require.NoError(t, svc.DeploySensor(ctx, dep))
	assert.NotEmpty(t, dep.ID)

	got, err := svc.GetDeployment(ctx, dep.ID)
	require.NoError(t, err)
	assert.Equal(t, sensor.ID, got.SensorID)
	assert.Equal(t, mission.ID, got.MissionID)
	assert.Nil(t, got.EndTime)
	assert.True(t, got.IsActiveAt(start.Add(time.Hour)))
	assert.False(t, got.IsActiveAt(start.Add(-time.Hour)))
}

func TestDeploySensorValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)
	sensor := createTestSensor(t, svc, models.Camera)

	// Unknown references are rejected before any write.
	err := svc.DeploySensor(ctx, &models.SensorDeployment{
		SensorID:  "sns_missing",
		MissionID: mission.ID,
		StartTime: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	// end_time before start_time is rejected.
	start := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	err = svc.DeploySensor(ctx, &models.SensorDeployment{
		SensorID:  sensor.ID,
		MissionID: mission.ID,
		StartTime: start,
		EndTime:   &end,
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestDeploySensorOverlapRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)
	sensor := createTestSensor(t, svc, models.Compass)

	start := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	first := &models.SensorDeployment{
		SensorID:  sensor.ID,
		MissionID: mission.ID,
		StartTime: start,
		EndTime:   &end,
	}
	require.NoError(t, svc.DeploySensor(ctx, first))

	// A second window for the same sensor crossing into [start, end) fails.
	overlapStart := start.Add(time.Hour)
	err := svc.DeploySensor(ctx, &models.SensorDeployment{
		SensorID:  sensor.ID,
		MissionID: mission.ID,
		StartTime: overlapStart,
	})
	require.Error(t, err)
	assert.True(t, errors.IsDeploymentConflict(err))

	// Windows are half-open: starting exactly at the old end is fine.
	require.NoError(t, svc.DeploySensor(ctx, &models.SensorDeployment{
		SensorID:  sensor.ID,
		MissionID: mission.ID,
		StartTime: end,
	}))

	// A different sensor may share the window freely.
	other := createTestSensor(t, svc, models.Pressure)
	require.NoError(t, svc.DeploySensor(ctx, &models.SensorDeployment{
		SensorID:  other.ID,
		MissionID: mission.ID,
		StartTime: start,
	}))
}

func TestEndDeployment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)
	sensor := createTestSensor(t, svc, models.IMU)

	start := time.Date(2026, 8, 11, 9, 0, 0, 0, time.UTC)
	dep := &models.SensorDeployment{
		SensorID:  sensor.ID,
		MissionID: mission.ID,
		StartTime: start,
	}
	require.NoError(t, svc.DeploySensor(ctx, dep))

	err := svc.EndDeployment(ctx, dep.ID, start.Add(-time.Minute))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, svc.EndDeployment(ctx, dep.ID, start.Add(3*time.Hour)))

	got, err := svc.GetDeployment(ctx, dep.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndTime)
	assert.False(t, got.IsActiveAt(start.Add(4*time.Hour)))

	// The closed window no longer blocks a later deployment.
	require.NoError(t, svc.DeploySensor(ctx, &models.SensorDeployment{
		SensorID:  sensor.ID,
		MissionID: mission.ID,
		StartTime: start.Add(5 * time.Hour),
	}))
}

func TestDeploymentListings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	missionA := createTestMission(t, svc)
	missionB := createTestMission(t, svc)
	sensor := createTestSensor(t, svc, models.Sonar)

	startA := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	endA := startA.Add(time.Hour)
	require.NoError(t, svc.DeploySensor(ctx, &models.SensorDeployment{
		SensorID: sensor.ID, MissionID: missionA.ID, StartTime: startA, EndTime: &endA,
	}))
	require.NoError(t, svc.DeploySensor(ctx, &models.SensorDeployment{
		SensorID: sensor.ID, MissionID: missionB.ID, StartTime: endA,
	}))

	forA, err := svc.SensorMissionDeployments(ctx, sensor.ID, missionA.ID)
	require.NoError(t, err)
	assert.Len(t, forA, 1)

	all, err := svc.MissionDeployments(ctx, missionB.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
