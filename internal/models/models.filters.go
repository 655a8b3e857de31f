// FilePath: internal/models/models.filters.go
package models

import "time"

// MissionFilters defines the available filter options for mission listings
type MissionFilters struct {
	TargetType    TargetType `json:"target_type"`
	Location      string     `json:"location"`
	MaxDepthBelow *float64   `json:"max_depth_below"`
	CreatedAt     *TimeRange `json:"created_at"`
}

// TimeRange represents a time range filter
type TimeRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// SampleRange describes a range query over an indexed NavSample field, with
// an optional mission scope. Low/High are inclusive bounds.
type SampleRange struct {
	Field     string  `json:"field"`
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	MissionID string  `json:"mission_id,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}
