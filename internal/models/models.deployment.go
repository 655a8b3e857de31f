// FilePath: internal/models/models.deployment.go
package models

import "time"

// SensorDeployment records that a sensor was mounted for a mission during
// [start_time, end_time). All of its references are protect-on-delete: a
// deployment can never be orphaned silently.
type SensorDeployment struct {
	ID            string     `json:"id" db:"id"`
	SensorID      string     `json:"sensor_id" db:"sensor_id"`
	MissionID     string     `json:"mission_id" db:"mission_id"`
	HardwareID    *string    `json:"hardware_id,omitempty" db:"hardware_id"`
	CalibrationID *string    `json:"calibration_id,omitempty" db:"calibration_id"`
	Position      string     `json:"position" db:"position"`
	StartTime     time.Time  `json:"start_time" db:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty" db:"end_time"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// IsActiveAt reports whether the deployment window covers t.
func (d *SensorDeployment) IsActiveAt(t time.Time) bool {
	if t.Before(d.StartTime) {
		return false
	}
	return d.EndTime == nil || t.Before(*d.EndTime)
}

// IsActive reports whether the deployment is currently open: end_time unset
// or still in the future.
func (d *SensorDeployment) IsActive() bool {
	return d.EndTime == nil || time.Now().Before(*d.EndTime)
}

// Overlaps reports whether two half-open windows [start, end) intersect.
// A nil end means the window is unbounded.
func (d *SensorDeployment) Overlaps(start time.Time, end *time.Time) bool {
	if d.EndTime != nil && !d.EndTime.After(start) {
		return false
	}
	if end != nil && !end.After(d.StartTime) {
		return false
	}
	return true
}
