// FilePath: internal/models/models.hardware.go
package models

import "time"

// HardwareState is the lifecycle state of a RoverHardware row. A row that has
// not been committed yet is a draft; exactly one committed row per name may
// be active, and a replaced row becomes superseded but is never deleted.
type HardwareState string

const (
	HardwareDraft      HardwareState = "draft"
	HardwareActive     HardwareState = "active"
	HardwareSuperseded HardwareState = "superseded"
)

// RoverHardware is one versioned hardware configuration (firmware and sensor
// wiring) for a rover name. History is retained for time-travel queries: the
// configuration active at time T is the newest row with effective_from <= T.
type RoverHardware struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	EffectiveFrom  time.Time `json:"effective_from" db:"effective_from"`
	HardwareConfig JSON      `json:"hardware_config" db:"hardware_config"`
	Active         bool      `json:"active" db:"active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// State reports the lifecycle state of a committed row.
func (h *RoverHardware) State() HardwareState {
	if h.ID == "" {
		return HardwareDraft
	}
	if h.Active {
		return HardwareActive
	}
	return HardwareSuperseded
}
