// FilePath: internal/hubservice/hubservice.mission_test.go
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

func TestCreateMissionDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mission := &models.Mission{Description: "quick dive"}
	require.NoError(t, svc.CreateMission(ctx, mission))

	assert.NotEmpty(t, mission.ID)
	assert.Equal(t, models.TargetWall, mission.TargetType)
	assert.False(t, mission.CreatedAt.IsZero())

	got, err := svc.GetMission(ctx, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, mission.ID, got.ID)
	assert.Equal(t, models.TargetWall, got.TargetType)
	assert.Equal(t, "quick dive", got.Description)
}

func TestCreateMissionRejectsBadTargetType(t *testing.T) {
	svc := newTestService(t)

	mission := &models.Mission{TargetType: "reef"}
	err := svc.CreateMission(context.Background(), mission)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestGetMissionNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetMission(context.Background(), "msn_missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateMissionMergesFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)

	depth := 18.5
	update := &models.Mission{
		ID:       mission.ID,
		MaxDepth: &depth,
		Location: "pier 9, hamburg",
	}
	require.NoError(t, svc.UpdateMission(ctx, update))

	got, err := svc.GetMission(ctx, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, "pier 9, hamburg", got.Location)
	require.NotNil(t, got.MaxDepth)
	assert.Equal(t, depth, *got.MaxDepth)
	// Untouched fields survive the merge.
	assert.Equal(t, models.TargetPillar, got.TargetType)
	assert.Equal(t, "inspection dive", got.Description)
}

func TestListMissionsFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	deep := 40.0
	shallow := 8.0
	require.NoError(t, svc.CreateMission(ctx, &models.Mission{
		Location: "kiel", TargetType: models.TargetPillar, MaxDepth: &deep,
	}))
	require.NoError(t, svc.CreateMission(ctx, &models.Mission{
		Location: "kiel", TargetType: models.TargetWall, MaxDepth: &shallow,
	}))
	require.NoError(t, svc.CreateMission(ctx, &models.Mission{
		Location: "rostock", TargetType: models.TargetWall,
	}))

	all, err := svc.ListMissions(ctx, models.MissionFilters{}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	kiel, err := svc.ListMissions(ctx, models.MissionFilters{Location: "kiel"}, 0, 10)
	require.NoError(t, err)
	assert.Len(t, kiel, 2)

	pillars, err := svc.ListMissions(ctx, models.MissionFilters{TargetType: models.TargetPillar}, 0, 10)
	require.NoError(t, err)
	require.Len(t, pillars, 1)
	assert.Equal(t, models.TargetPillar, pillars[0].TargetType)

	cutoff := 20.0
	shallowOnly, err := svc.ListMissions(ctx, models.MissionFilters{MaxDepthBelow: &cutoff}, 0, 10)
	require.NoError(t, err)
	require.Len(t, shallowOnly, 1)
	assert.Equal(t, shallow, *shallowOnly[0].MaxDepth)
}

func TestDeleteMissionCascadesLogsAndSamples(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)

	lf := &models.LogFile{
		MissionID: mission.ID,
		BinPath:   "/data/logs/00000042.BIN",
		TlogPath:  "/data/logs/00000042.tlog",
		Notes:     "starboard pass",
	}
	require.NoError(t, svc.AttachLogFile(ctx, lf))

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.IngestSamples(ctx, mission.ID, []models.NavSample{
		{Timestamp: base, YawDeg: 10},
		{Timestamp: base.Add(time.Second), YawDeg: 12},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMission(ctx, mission.ID))

	_, err = svc.GetMission(ctx, mission.ID)
	assert.True(t, errors.IsNotFound(err))

	logs, err := svc.MissionLogFiles(ctx, mission.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)

	samples, err := svc.RecentSamples(ctx, mission.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestDeleteMissionBlockedByDeployment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)
	sensor := createTestSensor(t, svc, models.Sonar)

	dep := &models.SensorDeployment{
		SensorID:  sensor.ID,
		MissionID: mission.ID,
		Position:  "bow",
		StartTime: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.DeploySensor(ctx, dep))

	err := svc.DeleteMission(ctx, mission.ID)
	require.Error(t, err)
	assert.True(t, errors.IsReferentialIntegrity(err))

	// The mission is untouched after the blocked delete.
	_, err = svc.GetMission(ctx, mission.ID)
	require.NoError(t, err)

	// Removing the blocking deployment unblocks the delete.
	require.NoError(t, svc.RemoveDeployment(ctx, dep.ID))
	require.NoError(t, svc.DeleteMission(ctx, mission.ID))
}

func TestAttachLogFileRequiresMission(t *testing.T) {
	svc := newTestService(t)

	err := svc.AttachLogFile(context.Background(), &models.LogFile{
		MissionID: "msn_missing",
		BinPath:   "/data/logs/00000001.BIN",
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestMarkLogFileParsed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)

	lf := &models.LogFile{MissionID: mission.ID, BinPath: "/data/logs/00000007.BIN"}
	require.NoError(t, svc.AttachLogFile(ctx, lf))
	assert.False(t, lf.AlreadyParsed)

	require.NoError(t, svc.MarkLogFileParsed(ctx, lf.ID))

	logs, err := svc.MissionLogFiles(ctx, mission.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].AlreadyParsed)
}
