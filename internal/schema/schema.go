// FilePath: internal/schema/schema.go

// Package schema is the canonical description of every entity the hub
// persists: field types, nullability, length limits, enumerated values,
// default ordering, relations with their delete policy, and index layout.
// The integrity engine and the migration runner both consume it; it carries
// no behavior beyond this metadata.
package schema

import "github.com/deepsea-systems/rovhub/internal/models"

// FieldType is the logical type of a persisted field.
type FieldType string

const (
	Text      FieldType = "text"
	Timestamp FieldType = "timestamp"
	Float     FieldType = "float"
	Bool      FieldType = "bool"
	Document  FieldType = "document"
)

// Field describes one column: its type and the constraints the integrity
// engine checks on every write.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Nullable bool
	MaxLen   int      // 0 = unbounded
	Enum     []string // non-empty = value must be a member
}

// Entity describes one persisted table.
type Entity struct {
	Name         string
	Table        string
	Fields       []Field
	DefaultOrder string // listing order; every timestamped entity is newest-first
}

// Entity names used across the integrity engine and repositories.
const (
	Mission          = "mission"
	Sensor           = "sensor"
	Calibration      = "calibration"
	SensorDeployment = "sensor_deployment"
	RoverHardware    = "rover_hardware"
	NavSample        = "nav_sample"
	LogFile          = "log_file"
)

func enumOfSensorTypes() []string {
	out := make([]string, 0, len(models.SensorTypes))
	for _, t := range models.SensorTypes {
		out = append(out, string(t))
	}
	return out
}

var entities = []Entity{
	{
		Name:         Mission,
		Table:        "missions",
		DefaultOrder: "created_at DESC",
		Fields: []Field{
			{Name: "id", Type: Text, Required: true},
			{Name: "bin_path", Type: Text, MaxLen: 500},
			{Name: "tlog_path", Type: Text, MaxLen: 500},
			{Name: "location", Type: Text, MaxLen: 255},
			{Name: "target_type", Type: Text, Enum: []string{string(models.TargetPillar), string(models.TargetWall)}},
			{Name: "max_depth", Type: Float, Nullable: true},
			{Name: "description", Type: Text},
			{Name: "created_at", Type: Timestamp, Required: true},
		},
	},
	{
		Name:         Sensor,
		Table:        "sensors",
		DefaultOrder: "created_at DESC",
		Fields: []Field{
			{Name: "id", Type: Text, Required: true},
			{Name: "sensor_type", Type: Text, Required: true, Enum: enumOfSensorTypes()},
			{Name: "name", Type: Text, Required: true, MaxLen: 100},
			{Name: "specification", Type: Document},
			{Name: "created_at", Type: Timestamp, Required: true},
		},
	},
	{
		Name:         Calibration,
		Table:        "calibrations",
		DefaultOrder: "created_at DESC",
		Fields: []Field{
			{Name: "id", Type: Text, Required: true},
			{Name: "sensor_id", Type: Text, Required: true},
			{Name: "coefficients", Type: Document},
			{Name: "status", Type: Text, Enum: []string{
				string(models.CalibrationDraft),
				string(models.CalibrationVerified),
				string(models.CalibrationRejected),
			}},
			{Name: "active", Type: Bool},
			{Name: "created_at", Type: Timestamp, Required: true},
		},
	},
	{
		Name:         SensorDeployment,
		Table:        "sensor_deployments",
		DefaultOrder: "start_time DESC",
		Fields: []Field{
			{Name: "id", Type: Text, Required: true},
			{Name: "sensor_id", Type: Text, Required: true},
			{Name: "mission_id", Type: Text, Required: true},
			{Name: "hardware_id", Type: Text, Nullable: true},
			{Name: "calibration_id", Type: Text, Nullable: true},
			{Name: "position", Type: Text, MaxLen: 50},
			{Name: "start_time", Type: Timestamp, Required: true},
			{Name: "end_time", Type: Timestamp, Nullable: true},
		},
	},
	{
		Name:         RoverHardware,
		Table:        "rover_hardware",
		DefaultOrder: "effective_from DESC",
		Fields: []Field{
			{Name: "id", Type: Text, Required: true},
			{Name: "name", Type: Text, Required: true, MaxLen: 100},
			{Name: "effective_from", Type: Timestamp, Required: true},
			{Name: "hardware_config", Type: Document},
			{Name: "active", Type: Bool},
			{Name: "created_at", Type: Timestamp, Required: true},
		},
	},
	{
		Name:         NavSample,
		Table:        "nav_samples",
		DefaultOrder: "timestamp ASC",
		Fields: []Field{
			{Name: "id", Type: Text, Required: true},
			{Name: "mission_id", Type: Text, Required: true},
			{Name: "timestamp", Type: Timestamp, Required: true},
			{Name: "depth_m", Type: Float, Nullable: true},
			{Name: "roll_deg", Type: Float},
			{Name: "pitch_deg", Type: Float},
			{Name: "yaw_deg", Type: Float},
		},
	},
	{
		Name:         LogFile,
		Table:        "log_files",
		DefaultOrder: "created_at DESC",
		Fields: []Field{
			{Name: "id", Type: Text, Required: true},
			{Name: "mission_id", Type: Text, Required: true},
			{Name: "bin_path", Type: Text, MaxLen: 500},
			{Name: "tlog_path", Type: Text, MaxLen: 500},
			{Name: "notes", Type: Text},
			{Name: "already_parsed", Type: Bool},
			{Name: "created_at", Type: Timestamp, Required: true},
		},
	},
}

// Entities returns the descriptors for every persisted entity.
func Entities() []Entity {
	return entities
}

// EntityByName looks up a descriptor; ok is false for unknown names.
func EntityByName(name string) (Entity, bool) {
	for _, e := range entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// FieldByName looks up a field descriptor on an entity.
func (e Entity) FieldByName(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
