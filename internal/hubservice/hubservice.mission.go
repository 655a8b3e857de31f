// FilePath: internal/hubservice/hubservice.mission.go
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

// systemRoles is the access scope used for service-side struct merges.
// Role-based filtering per caller belongs to the API layer, not this core.
var systemRoles = []string{"system"}

// CreateMission creates a new mission after integrity validation.
func (s *HubService) CreateMission(ctx context.Context, mission *models.Mission) error {
	if mission.ID == "" {
		mission.ID = nuts.NID("msn", 12)
	}
	if mission.TargetType == "" {
		mission.TargetType = models.TargetWall
	}
	now := time.Now().UTC()
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = now
	}
	mission.CreatedAt = mission.CreatedAt.UTC()
	mission.UpdatedAt = now

	if err := s.Engine.Validate(ctx, schema.Mission, mission); err != nil {
		return err
	}

	nuts.L.Infof("[MissionService] Creating mission %s (%s)", mission.ID, mission.TargetType)
	return s.Missions.Create(ctx, mission)
}

// GetMission retrieves a mission by id.
func (s *HubService) GetMission(ctx context.Context, id string) (*models.Mission, error) {
	return s.Missions.Get(ctx, id)
}

// UpdateMission merges the incoming fields into the stored mission and
// revalidates before saving.
func (s *HubService) UpdateMission(ctx context.Context, mission *models.Mission) error {
	existing, err := s.Missions.Get(ctx, mission.ID)
	if err != nil {
		return err
	}

	updatedFields, _, err := struccy.UpdateStructFields(existing, mission, systemRoles, true, true)
	if err != nil {
		return errors.NewInternalError("failed to merge mission fields", err)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Engine.Validate(ctx, schema.Mission, existing); err != nil {
		return err
	}

	nuts.L.Infof("[MissionService] Updating mission %s, fields changed: %v", mission.ID, updatedFields)
	return s.Missions.Update(ctx, existing)
}

// ListMissions retrieves a filtered, paginated mission list, newest first.
func (s *HubService) ListMissions(ctx context.Context, filters models.MissionFilters, offset, limit int) ([]*models.Mission, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Missions.List(ctx, filters, offset, limit)
}

// DeleteMission removes a mission with its log files and navigation samples
// in one transaction. Deployments referencing the mission block the delete
// with a referential integrity error.
func (s *HubService) DeleteMission(ctx context.Context, id string) error {
	if _, err := s.Missions.Get(ctx, id); err != nil {
		return err
	}
	nuts.L.Infof("[MissionService] Deleting mission %s", id)
	return s.Cleanup.DeleteMission(ctx, id)
}

// AttachLogFile records a raw log file pair for a mission.
func (s *HubService) AttachLogFile(ctx context.Context, lf *models.LogFile) error {
	if lf.ID == "" {
		lf.ID = nuts.NID("log", 12)
	}
	if lf.CreatedAt.IsZero() {
		lf.CreatedAt = time.Now().UTC()
	}
	lf.CreatedAt = lf.CreatedAt.UTC()

	if err := s.Engine.Validate(ctx, schema.LogFile, lf); err != nil {
		return err
	}
	return s.LogFiles.Create(ctx, lf)
}

// MissionLogFiles returns the most recent log files for a mission.
func (s *HubService) MissionLogFiles(ctx context.Context, missionID string, limit int) ([]*models.LogFile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.LogFiles.ListByMission(ctx, missionID, limit)
}

// MarkLogFileParsed flags a log file after its samples were ingested.
func (s *HubService) MarkLogFileParsed(ctx context.Context, id string) error {
	return s.LogFiles.MarkParsed(ctx, id)
}
