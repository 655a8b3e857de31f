// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// MissionRepository defines the interface for mission records. Deletion is
// deliberately absent: every delete goes through the integrity engine so the
// per-relation policy is applied.
type MissionRepository interface {
	database.Repository
	Create(ctx context.Context, mission *models.Mission) error
	Get(ctx context.Context, id string) (*models.Mission, error)
	Update(ctx context.Context, mission *models.Mission) error
	List(ctx context.Context, filters models.MissionFilters, offset, limit int) ([]*models.Mission, error)
}

// SensorRepository defines the interface for sensor records.
type SensorRepository interface {
	database.Repository
	Create(ctx context.Context, sensor *models.Sensor) error
	Get(ctx context.Context, id string) (*models.Sensor, error)
	Update(ctx context.Context, sensor *models.Sensor) error
	List(ctx context.Context, sensorType models.SensorType, offset, limit int) ([]*models.Sensor, error)
}

// CalibrationRepository defines the interface for calibration records and
// their activation transitions. Insert and DeactivateActive run inside the
// caller's transaction so a supersede is atomic.
type CalibrationRepository interface {
	database.Repository
	Insert(ctx context.Context, tx database.Transaction, cal *models.Calibration) error
	Get(ctx context.Context, id string) (*models.Calibration, error)
	GetActive(ctx context.Context, sensorID string) (*models.Calibration, error)
	DeactivateActive(ctx context.Context, tx database.Transaction, sensorID, excludeID string) (int64, error)
	ListBySensor(ctx context.Context, sensorID string) ([]*models.Calibration, error)
	SetStatus(ctx context.Context, id string, status models.CalibrationStatus) error
}

// HardwareRepository defines the interface for versioned rover hardware
// configurations.
type HardwareRepository interface {
	database.Repository
	Insert(ctx context.Context, tx database.Transaction, hw *models.RoverHardware) error
	Get(ctx context.Context, id string) (*models.RoverHardware, error)
	GetActive(ctx context.Context, name string) (*models.RoverHardware, error)
	DeactivateActive(ctx context.Context, tx database.Transaction, name, excludeID string) (int64, error)
	Deactivate(ctx context.Context, id string) (int64, error)
	ActiveAt(ctx context.Context, name string, at time.Time) (*models.RoverHardware, error)
	History(ctx context.Context, name string) ([]*models.RoverHardware, error)
}

// DeploymentRepository defines the interface for sensor deployments.
type DeploymentRepository interface {
	database.Repository
	Insert(ctx context.Context, tx database.Transaction, dep *models.SensorDeployment) error
	Get(ctx context.Context, id string) (*models.SensorDeployment, error)
	FindOverlapping(ctx context.Context, tx database.Transaction, sensorID string, start time.Time, end *time.Time) (*models.SensorDeployment, error)
	End(ctx context.Context, id string, endTime time.Time) error
	ListBySensorMission(ctx context.Context, sensorID, missionID string) ([]*models.SensorDeployment, error)
	ListByMission(ctx context.Context, missionID string) ([]*models.SensorDeployment, error)
}

// NavSampleRepository defines the interface for navigation telemetry.
// Samples are insert-only; the query side serves the range and correlation
// lookups behind media filtering.
type NavSampleRepository interface {
	database.Repository
	InsertBatch(ctx context.Context, samples []models.NavSample) error
	Range(ctx context.Context, q models.SampleRange) ([]models.NavSample, error)
	TimeRange(ctx context.Context, missionID string, start, end time.Time) ([]models.NavSample, error)
	Recent(ctx context.Context, missionID string, n int) ([]models.NavSample, error)
	Nearest(ctx context.Context, missionID string, at time.Time) (*models.NavSample, error)
	CountByMission(ctx context.Context, missionID string) (int, error)
}

// LogFileRepository defines the interface for raw log file records.
type LogFileRepository interface {
	database.Repository
	Create(ctx context.Context, lf *models.LogFile) error
	Get(ctx context.Context, id string) (*models.LogFile, error)
	ListByMission(ctx context.Context, missionID string, limit int) ([]*models.LogFile, error)
	MarkParsed(ctx context.Context, id string) error
}
