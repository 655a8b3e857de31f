// FilePath: internal/hubservice/hubservice.go
package hubservice

import (
	"time"

	"github.com/deepsea-systems/rovhub/internal/cache"
	"github.com/deepsea-systems/rovhub/internal/cleanup"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/integrity"
	"github.com/deepsea-systems/rovhub/internal/repository"
)

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Missions     repository.MissionRepository
	Sensors      repository.SensorRepository
	Calibrations repository.CalibrationRepository
	Hardware     repository.HardwareRepository
	Deployments  repository.DeploymentRepository
	NavSamples   repository.NavSampleRepository
	LogFiles     repository.LogFileRepository
	Engine       *integrity.Engine
	Cleanup      *cleanup.CleanupService
	Cache        *cache.Cache
}

// New creates a new HubService instance
func New(
	missions repository.MissionRepository,
	sensors repository.SensorRepository,
	calibrations repository.CalibrationRepository,
	hardware repository.HardwareRepository,
	deployments repository.DeploymentRepository,
	navSamples repository.NavSampleRepository,
	logFiles repository.LogFileRepository,
	engine *integrity.Engine,
	c *cache.Cache,
	lockRetries int,
	lockBackoff time.Duration,
) *HubService {
	svc := &HubService{
		Missions:     missions,
		Sensors:      sensors,
		Calibrations: calibrations,
		Hardware:     hardware,
		Deployments:  deployments,
		NavSamples:   navSamples,
		LogFiles:     logFiles,
		Engine:       engine,
		Cache:        c,
	}
	svc.Cleanup = cleanup.New(engine, lockRetries, lockBackoff)
	return svc
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Missions == nil {
		return ErrMissingRepository("missions")
	}
	if s.Sensors == nil {
		return ErrMissingRepository("sensors")
	}
	if s.Calibrations == nil {
		return ErrMissingRepository("calibrations")
	}
	if s.Hardware == nil {
		return ErrMissingRepository("hardware")
	}
	if s.Deployments == nil {
		return ErrMissingRepository("deployments")
	}
	if s.NavSamples == nil {
		return ErrMissingRepository("navSamples")
	}
	if s.LogFiles == nil {
		return ErrMissingRepository("logFiles")
	}
	if s.Engine == nil {
		return errors.NewInternalError("missing integrity engine", nil)
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
