// FilePath: internal/hubservice/hubservice_test.go
package hubservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deepsea-systems/rovhub/internal/hubservice"
	"github.com/deepsea-systems/rovhub/internal/integrity"
	"github.com/deepsea-systems/rovhub/internal/models"
	"github.com/deepsea-systems/rovhub/internal/repository/sqlstore"
	"github.com/deepsea-systems/rovhub/internal/testutil"
)

// newTestService builds a HubService on a fresh migrated SQLite database,
// without Redis.
func newTestService(t *testing.T) *hubservice.HubService {
	t.Helper()

	db := testutil.NewTestDB(t)
	svc := hubservice.New(
		sqlstore.NewMissionRepository(db),
		sqlstore.NewSensorRepository(db),
		sqlstore.NewCalibrationRepository(db),
		sqlstore.NewHardwareRepository(db),
		sqlstore.NewDeploymentRepository(db),
		sqlstore.NewNavSampleRepository(db, 200),
		sqlstore.NewLogFileRepository(db),
		integrity.New(sqlstore.NewPolicyStore(db)),
		nil,
		3, 10*time.Millisecond,
	)
	require.NoError(t, svc.Validate())
	return svc
}

func createTestMission(t *testing.T, svc *hubservice.HubService) *models.Mission {
	t.Helper()
	mission := &models.Mission{
		Location:    "pier 7, hamburg",
		TargetType:  models.TargetPillar,
		Description: "inspection dive",
	}
	require.NoError(t, svc.CreateMission(context.Background(), mission))
	return mission
}

func createTestSensor(t *testing.T, svc *hubservice.HubService, st models.SensorType) *models.Sensor {
	t.Helper()
	sensor := &models.Sensor{
		SensorType:    st,
		Name:          "front " + string(st),
		Specification: models.JSON{"vendor": "bluerobotics"},
	}
	require.NoError(t, svc.CreateSensor(context.Background(), sensor))
	return sensor
}

func TestCleanupEmitsDeletionEvents(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mission := createTestMission(t, svc)

	deleted := make(chan string, 1)
	svc.Cleanup.OnCleanup("mission.deleted", func(id string) {
		deleted <- id
	})

	require.NoError(t, svc.DeleteMission(ctx, mission.ID))

	select {
	case id := <-deleted:
		require.Equal(t, mission.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("mission.deleted event not emitted")
	}
}

func TestHubServiceValidate(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Validate())

	empty := &hubservice.HubService{}
	require.Error(t, empty.Validate())
}
