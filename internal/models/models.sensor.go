// FilePath: internal/models/models.sensor.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSON is a wrapper around map[string]interface{} for database storage
type JSON map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return nil
	}
}

type SensorType string

const (
	Camera   SensorType = "camera"
	Compass  SensorType = "compass"
	IMU      SensorType = "imu"
	Pressure SensorType = "pressure"
	Sonar    SensorType = "sonar"
)

// SensorTypes lists the accepted sensor_type values.
var SensorTypes = []SensorType{Camera, Compass, IMU, Pressure, Sonar}

// Sensor represents a physical instrument that can be deployed on a rover.
type Sensor struct {
	ID            string     `json:"id" db:"id" readxs:"*" writexs:"system"`
	SensorType    SensorType `json:"sensor_type" db:"sensor_type" readxs:"*" writexs:"system,pilot"`
	Name          string     `json:"name" db:"name" readxs:"*" writexs:"system,pilot"`
	Specification JSON       `json:"specification" db:"specification" readxs:"*" writexs:"system,pilot"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at" readxs:"*" writexs:"system"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at" readxs:"*" writexs:"system"`
}

type CalibrationStatus string

const (
	CalibrationDraft    CalibrationStatus = "draft"
	CalibrationVerified CalibrationStatus = "verified"
	CalibrationRejected CalibrationStatus = "rejected"
)

// Calibration holds one set of correction coefficients for a sensor. At most
// one calibration per sensor may be active at a time; activating a new one
// supersedes the previous active row atomically.
type Calibration struct {
	ID           string            `json:"id" db:"id"`
	SensorID     string            `json:"sensor_id" db:"sensor_id"`
	Coefficients JSON              `json:"coefficients" db:"coefficients"`
	Status       CalibrationStatus `json:"status" db:"status"`
	Active       bool              `json:"active" db:"active"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}
