// FilePath: internal/models/models.telemetry.go
package models

import "time"

// NavSample is a single instantaneous pose/telemetry reading for a mission.
// Samples are written once by log ingestion and never mutated.
type NavSample struct {
	ID        string    `json:"id" db:"id"`
	MissionID string    `json:"mission_id" db:"mission_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	DepthM    *float64  `json:"depth_m,omitempty" db:"depth_m"`
	RollDeg   float64   `json:"roll_deg" db:"roll_deg"`
	PitchDeg  float64   `json:"pitch_deg" db:"pitch_deg"`
	YawDeg    float64   `json:"yaw_deg" db:"yaw_deg"`
}

// LogFile is a raw ardupilot log pair (bin/tlog) attached to a mission.
type LogFile struct {
	ID            string    `json:"id" db:"id"`
	MissionID     string    `json:"mission_id" db:"mission_id"`
	BinPath       string    `json:"bin_path" db:"bin_path"`
	TlogPath      string    `json:"tlog_path" db:"tlog_path"`
	Notes         string    `json:"notes" db:"notes"`
	AlreadyParsed bool      `json:"already_parsed" db:"already_parsed"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// MediaAsset is owned by the media pipeline, not by this core; the core only
// annotates it with the pose of the nearest navigation sample.
type MediaAsset struct {
	FilePath  string    `json:"file_path"`
	MissionID string    `json:"mission_id"`
	Timestamp time.Time `json:"timestamp"`
}

// AnnotatedMedia pairs a media asset with the navigation sample closest to
// its capture time.
type AnnotatedMedia struct {
	Asset  MediaAsset `json:"asset"`
	Sample *NavSample `json:"sample,omitempty"`
}
