// FilePath: internal/hubservice/hubservice.deployment.go
package hubservice

import (
	"context"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
	"github.com/deepsea-systems/rovhub/internal/schema"
)

// DeploySensor records that a sensor is mounted for a mission. An existing
// deployment for the same sensor whose window overlaps the new one rejects
// the call with a deployment conflict; the prior deployment is never closed
// silently. Conflict check and insert run in one transaction.
func (s *HubService) DeploySensor(ctx context.Context, dep *models.SensorDeployment) error {
	if dep.ID == "" {
		dep.ID = nuts.NID("dep", 12)
	}
	if dep.StartTime.IsZero() {
		dep.StartTime = time.Now().UTC()
	}
	dep.StartTime = dep.StartTime.UTC()
	if dep.EndTime != nil {
		t := dep.EndTime.UTC()
		dep.EndTime = &t
		if !t.After(dep.StartTime) {
			return errors.NewValidationError("end_time must be after start_time", nil).
				WithEntity(schema.SensorDeployment).WithField("end_time")
		}
	}
	if dep.CreatedAt.IsZero() {
		dep.CreatedAt = time.Now().UTC()
	}
	dep.CreatedAt = dep.CreatedAt.UTC()

	if err := s.Engine.Validate(ctx, schema.SensorDeployment, dep); err != nil {
		return err
	}

	tx, err := s.Deployments.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	conflict, err := s.Deployments.FindOverlapping(ctx, tx, dep.SensorID, dep.StartTime, dep.EndTime)
	if err != nil {
		return err
	}
	if conflict != nil {
		return errors.NewDeploymentConflictError(dep.SensorID, conflict.ID)
	}
	if err := s.Deployments.Insert(ctx, tx, dep); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit deployment", err)
	}
	nuts.L.Infof("[DeploymentService] Deployed sensor %s on mission %s (%s)", dep.SensorID, dep.MissionID, dep.ID)
	return nil
}

// EndDeployment closes a deployment window at endTime.
func (s *HubService) EndDeployment(ctx context.Context, id string, endTime time.Time) error {
	dep, err := s.Deployments.Get(ctx, id)
	if err != nil {
		return err
	}
	if endTime.UTC().Before(dep.StartTime) {
		return errors.NewValidationError("end_time must be after start_time", nil).
			WithEntity(schema.SensorDeployment).WithField("end_time")
	}
	if err := s.Deployments.End(ctx, id, endTime); err != nil {
		return err
	}
	nuts.L.Infof("[DeploymentService] Ended deployment %s at %s", id, endTime.UTC().Format(time.RFC3339))
	return nil
}

// GetDeployment retrieves a deployment by id.
func (s *HubService) GetDeployment(ctx context.Context, id string) (*models.SensorDeployment, error) {
	return s.Deployments.Get(ctx, id)
}

// SensorMissionDeployments answers "what deployments exist for this
// sensor/mission pair", served off the (sensor_id, mission_id) index.
func (s *HubService) SensorMissionDeployments(ctx context.Context, sensorID, missionID string) ([]*models.SensorDeployment, error) {
	return s.Deployments.ListBySensorMission(ctx, sensorID, missionID)
}

// MissionDeployments lists every deployment for a mission.
func (s *HubService) MissionDeployments(ctx context.Context, missionID string) ([]*models.SensorDeployment, error) {
	return s.Deployments.ListByMission(ctx, missionID)
}

// RemoveDeployment deletes a deployment record outright. Ending the window
// is the normal path; removal exists for operator mistakes.
func (s *HubService) RemoveDeployment(ctx context.Context, id string) error {
	if _, err := s.Deployments.Get(ctx, id); err != nil {
		return err
	}
	return s.Cleanup.DeleteDeployment(ctx, id)
}
