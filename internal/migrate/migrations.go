// FilePath: internal/migrate/migrations.go
package migrate

// Log is the append-only migration history for the hub schema. Entries are
// only ever added at the end; editing an applied migration would desync the
// version cursor from the actual schema.
//
// Foreign keys are declared ON DELETE RESTRICT across the board: the
// integrity engine owns cascade semantics (it deletes dependents explicitly
// inside the same transaction), and RESTRICT keeps the database as a
// backstop against orphaned rows if a code path ever bypasses the engine.
var Log = []Migration{
	{
		Version: 1,
		Name:    "initial",
		Ops: []Operation{
			{
				Kind:   CreateEntity,
				Entity: "mission",
				SQL: `CREATE TABLE missions (
					id TEXT PRIMARY KEY,
					bin_path TEXT NOT NULL DEFAULT '',
					tlog_path TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL
				)`,
				Reverse: `DROP TABLE missions`,
			},
			{
				Kind:   CreateEntity,
				Entity: "sensor",
				SQL: `CREATE TABLE sensors (
					id TEXT PRIMARY KEY,
					sensor_type TEXT NOT NULL,
					name TEXT NOT NULL,
					specification JSONB,
					created_at TIMESTAMPTZ NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL
				)`,
				Reverse: `DROP TABLE sensors`,
			},
			{
				Kind:   CreateEntity,
				Entity: "calibration",
				SQL: `CREATE TABLE calibrations (
					id TEXT PRIMARY KEY,
					sensor_id TEXT NOT NULL REFERENCES sensors(id) ON DELETE RESTRICT,
					coefficients JSONB,
					status TEXT NOT NULL DEFAULT 'draft',
					active BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL
				)`,
				Reverse: `DROP TABLE calibrations`,
			},
			{
				Kind:   CreateEntity,
				Entity: "rover_hardware",
				SQL: `CREATE TABLE rover_hardware (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					effective_from TIMESTAMPTZ NOT NULL,
					hardware_config JSONB,
					active BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL
				)`,
				Reverse: `DROP TABLE rover_hardware`,
			},
			{
				Kind:   CreateEntity,
				Entity: "sensor_deployment",
				SQL: `CREATE TABLE sensor_deployments (
					id TEXT PRIMARY KEY,
					sensor_id TEXT NOT NULL REFERENCES sensors(id) ON DELETE RESTRICT,
					mission_id TEXT NOT NULL REFERENCES missions(id) ON DELETE RESTRICT,
					hardware_id TEXT REFERENCES rover_hardware(id) ON DELETE RESTRICT,
					calibration_id TEXT REFERENCES calibrations(id) ON DELETE RESTRICT,
					position TEXT NOT NULL DEFAULT '',
					start_time TIMESTAMPTZ NOT NULL,
					end_time TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL
				)`,
				Reverse: `DROP TABLE sensor_deployments`,
			},
			{
				Kind:   CreateEntity,
				Entity: "nav_sample",
				SQL: `CREATE TABLE nav_samples (
					id TEXT PRIMARY KEY,
					mission_id TEXT NOT NULL REFERENCES missions(id) ON DELETE RESTRICT,
					timestamp TIMESTAMPTZ NOT NULL,
					depth_m DOUBLE PRECISION,
					roll_deg DOUBLE PRECISION NOT NULL DEFAULT 0,
					pitch_deg DOUBLE PRECISION NOT NULL DEFAULT 0,
					yaw_deg DOUBLE PRECISION NOT NULL DEFAULT 0
				)`,
				Reverse: `DROP TABLE nav_samples`,
			},
			{
				Kind:   CreateEntity,
				Entity: "log_file",
				SQL: `CREATE TABLE log_files (
					id TEXT PRIMARY KEY,
					mission_id TEXT NOT NULL REFERENCES missions(id) ON DELETE RESTRICT,
					bin_path TEXT NOT NULL DEFAULT '',
					tlog_path TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL
				)`,
				Reverse: `DROP TABLE log_files`,
			},
			{
				Kind:    AddIndex,
				Entity:  "mission",
				SQL:     `CREATE INDEX idx_missions_created ON missions (created_at)`,
				Reverse: `DROP INDEX idx_missions_created`,
			},
			{
				Kind:    AddIndex,
				Entity:  "log_file",
				SQL:     `CREATE INDEX idx_log_files_mission_created ON log_files (mission_id, created_at)`,
				Reverse: `DROP INDEX idx_log_files_mission_created`,
			},
			{
				Kind:    AddIndex,
				Entity:  "nav_sample",
				SQL:     `CREATE INDEX idx_nav_samples_mission_ts ON nav_samples (mission_id, timestamp)`,
				Reverse: `DROP INDEX idx_nav_samples_mission_ts`,
			},
			{
				Kind:    AddIndex,
				Entity:  "sensor_deployment",
				SQL:     `CREATE INDEX idx_deployments_sensor_mission ON sensor_deployments (sensor_id, mission_id)`,
				Reverse: `DROP INDEX idx_deployments_sensor_mission`,
			},
			{
				Kind:    AddIndex,
				Entity:  "rover_hardware",
				SQL:     `CREATE INDEX idx_hardware_name_effective ON rover_hardware (name, effective_from)`,
				Reverse: `DROP INDEX idx_hardware_name_effective`,
			},
		},
	},
	{
		Version: 2,
		Name:    "activation_constraints",
		Ops: []Operation{
			{
				Kind:    AddConstraint,
				Entity:  "rover_hardware",
				SQL:     `CREATE UNIQUE INDEX uq_one_active_config_per_rover ON rover_hardware (name) WHERE active`,
				Reverse: `DROP INDEX uq_one_active_config_per_rover`,
			},
			{
				Kind:    AddConstraint,
				Entity:  "calibration",
				SQL:     `CREATE UNIQUE INDEX uq_one_active_calibration_per_sensor ON calibrations (sensor_id) WHERE active`,
				Reverse: `DROP INDEX uq_one_active_calibration_per_sensor`,
			},
		},
	},
	{
		Version: 3,
		Name:    "mission_survey_fields",
		Ops: []Operation{
			{
				Kind:    AlterField,
				Entity:  "mission",
				SQL:     `ALTER TABLE missions ADD COLUMN location TEXT NOT NULL DEFAULT ''`,
				Reverse: `ALTER TABLE missions DROP COLUMN location`,
			},
			{
				Kind:    AlterField,
				Entity:  "mission",
				SQL:     `ALTER TABLE missions ADD COLUMN target_type TEXT NOT NULL DEFAULT 'wall'`,
				Reverse: `ALTER TABLE missions DROP COLUMN target_type`,
			},
			{
				Kind:    AlterField,
				Entity:  "mission",
				SQL:     `ALTER TABLE missions ADD COLUMN max_depth DOUBLE PRECISION`,
				Reverse: `ALTER TABLE missions DROP COLUMN max_depth`,
			},
		},
	},
	{
		Version: 4,
		Name:    "logfile_notes_and_parse_marker",
		Ops: []Operation{
			{
				Kind:    Rename,
				Entity:  "log_file",
				SQL:     `ALTER TABLE log_files RENAME COLUMN description TO notes`,
				Reverse: `ALTER TABLE log_files RENAME COLUMN notes TO description`,
			},
			{
				Kind:    AlterField,
				Entity:  "log_file",
				SQL:     `ALTER TABLE log_files ADD COLUMN already_parsed BOOLEAN NOT NULL DEFAULT FALSE`,
				Reverse: `ALTER TABLE log_files DROP COLUMN already_parsed`,
			},
		},
	},
	{
		Version: 5,
		Name:    "nav_attribute_indexes",
		Ops: []Operation{
			{
				Kind:    AddIndex,
				Entity:  "nav_sample",
				SQL:     `CREATE INDEX idx_nav_samples_yaw ON nav_samples (yaw_deg)`,
				Reverse: `DROP INDEX idx_nav_samples_yaw`,
			},
			{
				Kind:    AddIndex,
				Entity:  "nav_sample",
				SQL:     `CREATE INDEX idx_nav_samples_depth ON nav_samples (depth_m)`,
				Reverse: `DROP INDEX idx_nav_samples_depth`,
			},
			{
				Kind:    AddIndex,
				Entity:  "nav_sample",
				SQL:     `CREATE INDEX idx_nav_samples_mission_yaw ON nav_samples (mission_id, yaw_deg)`,
				Reverse: `DROP INDEX idx_nav_samples_mission_yaw`,
			},
		},
	},
}
