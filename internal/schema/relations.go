// FilePath: internal/schema/relations.go
package schema

// DeletePolicy is the per-relation foreign-key deletion behavior. Cascade
// relations delete dependents with the parent inside one transaction;
// protect relations refuse the delete while dependents exist.
type DeletePolicy string

const (
	Cascade DeletePolicy = "cascade"
	Protect DeletePolicy = "protect"
)

// Relation is one foreign key from Child.FK to Parent.id.
type Relation struct {
	Parent   string
	Child    string
	FK       string
	OnDelete DeletePolicy
}

// relations is the authoritative delete-policy table. The integrity engine
// walks it instead of relying on database-level referential actions, so the
// policy is testable data rather than DDL.
var relations = []Relation{
	{Parent: Mission, Child: LogFile, FK: "mission_id", OnDelete: Cascade},
	{Parent: Mission, Child: NavSample, FK: "mission_id", OnDelete: Cascade},
	{Parent: Sensor, Child: Calibration, FK: "sensor_id", OnDelete: Cascade},
	{Parent: Sensor, Child: SensorDeployment, FK: "sensor_id", OnDelete: Protect},
	{Parent: Mission, Child: SensorDeployment, FK: "mission_id", OnDelete: Protect},
	{Parent: RoverHardware, Child: SensorDeployment, FK: "hardware_id", OnDelete: Protect},
	{Parent: Calibration, Child: SensorDeployment, FK: "calibration_id", OnDelete: Protect},
}

// Relations returns the full delete-policy table.
func Relations() []Relation {
	return relations
}

// ChildRelations returns the relations in which parent is referenced.
// Protect relations come first so a blocked delete is detected before any
// cascade work starts.
func ChildRelations(parent string) []Relation {
	out := make([]Relation, 0, len(relations))
	for _, r := range relations {
		if r.Parent == parent && r.OnDelete == Protect {
			out = append(out, r)
		}
	}
	for _, r := range relations {
		if r.Parent == parent && r.OnDelete == Cascade {
			out = append(out, r)
		}
	}
	return out
}

// ParentRelations returns the relations in which child holds a foreign key.
func ParentRelations(child string) []Relation {
	var out []Relation
	for _, r := range relations {
		if r.Child == child {
			out = append(out, r)
		}
	}
	return out
}

// Unique is a uniqueness constraint, optionally scoped by a predicate on a
// boolean column (partial uniqueness).
type Unique struct {
	Name   string
	Entity string
	Fields []string
	Where  string // empty = plain unique; otherwise a predicate like "active"
}

var uniques = []Unique{
	{Name: "one_active_config_per_rover", Entity: RoverHardware, Fields: []string{"name"}, Where: "active"},
	{Name: "one_active_calibration_per_sensor", Entity: Calibration, Fields: []string{"sensor_id"}, Where: "active"},
}

// Uniques returns the uniqueness constraints declared for entity.
func Uniques(entity string) []Unique {
	var out []Unique
	for _, u := range uniques {
		if u.Entity == entity {
			out = append(out, u)
		}
	}
	return out
}

// Index is a secondary lookup structure maintained for range and point
// queries.
type Index struct {
	Name    string
	Entity  string
	Columns []string
	Unique  bool
	Where   string
}

var indexes = []Index{
	{Name: "idx_log_files_mission_created", Entity: LogFile, Columns: []string{"mission_id", "created_at"}},
	{Name: "idx_nav_samples_mission_ts", Entity: NavSample, Columns: []string{"mission_id", "timestamp"}},
	{Name: "idx_nav_samples_yaw", Entity: NavSample, Columns: []string{"yaw_deg"}},
	{Name: "idx_nav_samples_depth", Entity: NavSample, Columns: []string{"depth_m"}},
	{Name: "idx_nav_samples_mission_yaw", Entity: NavSample, Columns: []string{"mission_id", "yaw_deg"}},
	{Name: "idx_deployments_sensor_mission", Entity: SensorDeployment, Columns: []string{"sensor_id", "mission_id"}},
	{Name: "idx_missions_created", Entity: Mission, Columns: []string{"created_at"}},
	{Name: "idx_hardware_name_effective", Entity: RoverHardware, Columns: []string{"name", "effective_from"}},
}

// Indexes returns the index definitions for entity.
func Indexes(entity string) []Index {
	var out []Index
	for _, ix := range indexes {
		if ix.Entity == entity {
			out = append(out, ix)
		}
	}
	return out
}

// AllIndexes returns every declared index.
func AllIndexes() []Index {
	return indexes
}
