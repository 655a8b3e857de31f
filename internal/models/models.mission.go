// FilePath: internal/models/models.mission.go
package models

import "time"

// TargetType classifies the structure a mission inspects.
type TargetType string

const (
	TargetPillar TargetType = "pillar"
	TargetWall   TargetType = "wall"
)

// Mission is the root record for a single rover dive. LogFile and NavSample
// rows die with their mission; deployments protect it from deletion.
type Mission struct {
	ID          string     `json:"id" db:"id" readxs:"*" writexs:"system"`
	BinPath     string     `json:"bin_path,omitempty" db:"bin_path" readxs:"*" writexs:"system,pilot"`
	TlogPath    string     `json:"tlog_path,omitempty" db:"tlog_path" readxs:"*" writexs:"system,pilot"`
	Location    string     `json:"location,omitempty" db:"location" readxs:"*" writexs:"system,pilot"`
	TargetType  TargetType `json:"target_type" db:"target_type" readxs:"*" writexs:"system,pilot"`
	MaxDepth    *float64   `json:"max_depth,omitempty" db:"max_depth" readxs:"*" writexs:"system,pilot"`
	Description string     `json:"description" db:"description" readxs:"*" writexs:"system,pilot"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at" readxs:"*" writexs:"system"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at" readxs:"*" writexs:"system"`
}
