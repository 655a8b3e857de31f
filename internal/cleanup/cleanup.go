// FilePath: internal/cleanup/cleanup.go

// Package cleanup executes policy-checked deletions. It is a thin shell
// around the integrity engine: the engine walks the delete-policy table
// inside one transaction, cleanup adds the lock-wait retry and emits events
// once a deletion has committed.
package cleanup

import (
	"context"
	"strings"
	"time"

	"github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"

	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/integrity"
	"github.com/deepsea-systems/rovhub/internal/schema"
)

// CleanupService coordinates deletion of hierarchical data
type CleanupService struct {
	engine  *integrity.Engine
	events  *nuts.EventEmitter
	retries int
	backoff time.Duration
}

// New creates a new CleanupService
func New(engine *integrity.Engine, retries int, backoff time.Duration) *CleanupService {
	if retries <= 0 {
		retries = 3
	}
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	return &CleanupService{
		engine:  engine,
		events:  nuts.NewEventEmitter(),
		retries: retries,
		backoff: backoff,
	}
}

// DeleteMission deletes a mission with its log files and navigation samples.
// Deployments referencing the mission block the delete.
func (s *CleanupService) DeleteMission(ctx context.Context, id string) error {
	return s.delete(ctx, schema.Mission, id, "mission.deleted")
}

// DeleteSensor deletes a sensor and cascades its calibrations; deployments
// referencing the sensor (or one of its calibrations) block the delete.
func (s *CleanupService) DeleteSensor(ctx context.Context, id string) error {
	return s.delete(ctx, schema.Sensor, id, "sensor.deleted")
}

// DeleteCalibration deletes a single calibration unless a deployment pins it.
func (s *CleanupService) DeleteCalibration(ctx context.Context, id string) error {
	return s.delete(ctx, schema.Calibration, id, "calibration.deleted")
}

// DeleteLogFile deletes a single log file record.
func (s *CleanupService) DeleteLogFile(ctx context.Context, id string) error {
	return s.delete(ctx, schema.LogFile, id, "logfile.deleted")
}

// DeleteDeployment deletes a deployment record.
func (s *CleanupService) DeleteDeployment(ctx context.Context, id string) error {
	return s.delete(ctx, schema.SensorDeployment, id, "deployment.deleted")
}

func (s *CleanupService) delete(ctx context.Context, entity, id, event string) error {
	var err error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			nuts.L.Warnf("[Cleanup] Retrying %s delete %s after lock wait (attempt %d)", entity, id, attempt)
			select {
			case <-time.After(s.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return errors.NewDatabaseError("delete cancelled", ctx.Err())
			}
		}
		err = s.engine.Delete(ctx, entity, id)
		if err == nil {
			s.events.Emit(event, id)
			return nil
		}
		if !isLockWait(err) {
			return err
		}
	}
	return err
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id string)) {
	s.events.On(event, "cleanup_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}

// isLockWait reports whether err is a transient lock/busy condition worth
// retrying rather than surfacing.
func isLockWait(err error) bool {
	if err == nil {
		return false
	}
	var hubErr *errors.HubError
	if e, ok := err.(*errors.HubError); ok {
		hubErr = e
	}
	inner := err
	if hubErr != nil && hubErr.Unwrap() != nil {
		inner = hubErr.Unwrap()
	}
	if pqErr, ok := inner.(*pq.Error); ok {
		// lock_not_available, deadlock_detected
		return pqErr.Code == "55P03" || pqErr.Code == "40P01"
	}
	msg := inner.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
