// FilePath: internal/repository/sqlstore/navsamples.go
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
)

// rangeFields whitelists the NavSample columns a range query may filter on;
// each is backed by an index.
var rangeFields = map[string]bool{
	"yaw_deg":   true,
	"depth_m":   true,
	"roll_deg":  true,
	"pitch_deg": true,
}

type NavSampleRepo struct {
	BaseRepo
	batchSize int
}

func NewNavSampleRepository(db database.DB, batchSize int) *NavSampleRepo {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &NavSampleRepo{BaseRepo: BaseRepo{db: db}, batchSize: batchSize}
}

// InsertBatch writes one ingestion batch. The whole batch commits or none of
// it does, so a crash mid-ingest never leaves a partial batch behind.
func (r *NavSampleRepo) InsertBatch(ctx context.Context, samples []models.NavSample) error {
	if len(samples) == 0 {
		return nil
	}
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin batch transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO nav_samples (
			id, mission_id, timestamp, depth_m, roll_deg, pitch_deg, yaw_deg
		) VALUES (
			:id, :mission_id, :timestamp, :depth_m, :roll_deg, :pitch_deg, :yaw_deg
		)`

	for start := 0; start < len(samples); start += r.batchSize {
		end := start + r.batchSize
		if end > len(samples) {
			end = len(samples)
		}
		if _, err := tx.NamedExecContext(ctx, query, samples[start:end]); err != nil {
			return errors.NewDatabaseError("failed to insert sample batch", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit sample batch", err)
	}
	return nil
}

// Range runs an attribute range query over one indexed field, inclusive on
// both bounds, ascending. The result reflects a consistent read at execution
// time; re-running the query re-executes it.
func (r *NavSampleRepo) Range(ctx context.Context, q models.SampleRange) ([]models.NavSample, error) {
	if !rangeFields[q.Field] {
		return nil, errors.NewValidationError(
			fmt.Sprintf("field %q is not range-queryable", q.Field), nil).
			WithEntity("nav_sample").WithField(q.Field)
	}

	query := fmt.Sprintf(`SELECT * FROM nav_samples WHERE %s >= $1 AND %s <= $2`, q.Field, q.Field)
	args := []any{q.Low, q.High}
	i := 3
	if q.MissionID != "" {
		query += fmt.Sprintf(` AND mission_id = $%d`, i)
		args = append(args, q.MissionID)
		i++
	}
	query += fmt.Sprintf(` ORDER BY %s ASC`, q.Field)
	if q.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, i)
		args = append(args, q.Limit)
	}

	samples := []models.NavSample{}
	if err := r.db.GetDB().SelectContext(ctx, &samples, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to run range query", err)
	}
	return samples, nil
}

func (r *NavSampleRepo) TimeRange(ctx context.Context, missionID string, start, end time.Time) ([]models.NavSample, error) {
	samples := []models.NavSample{}
	query := `
		SELECT * FROM nav_samples
		WHERE mission_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC`

	if err := r.db.GetDB().SelectContext(ctx, &samples, query, missionID, start.UTC(), end.UTC()); err != nil {
		return nil, errors.NewDatabaseError("failed to run time-range query", err)
	}
	return samples, nil
}

func (r *NavSampleRepo) Recent(ctx context.Context, missionID string, n int) ([]models.NavSample, error) {
	samples := []models.NavSample{}
	query := `
		SELECT * FROM nav_samples
		WHERE mission_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	if err := r.db.GetDB().SelectContext(ctx, &samples, query, missionID, n); err != nil {
		return nil, errors.NewDatabaseError("failed to load recent samples", err)
	}
	return samples, nil
}

// Nearest returns the sample closest in time to at for a mission. One probe
// on each side of the target keeps the query on the (mission_id, timestamp)
// index regardless of dialect.
func (r *NavSampleRepo) Nearest(ctx context.Context, missionID string, at time.Time) (*models.NavSample, error) {
	at = at.UTC()

	before := &models.NavSample{}
	err := r.db.GetDB().GetContext(ctx, before, `
		SELECT * FROM nav_samples
		WHERE mission_id = $1 AND timestamp <= $2
		ORDER BY timestamp DESC LIMIT 1`, missionID, at)
	if err == sql.ErrNoRows {
		before = nil
	} else if err != nil {
		return nil, errors.NewDatabaseError("failed to look up nearest sample", err)
	}

	after := &models.NavSample{}
	err = r.db.GetDB().GetContext(ctx, after, `
		SELECT * FROM nav_samples
		WHERE mission_id = $1 AND timestamp > $2
		ORDER BY timestamp ASC LIMIT 1`, missionID, at)
	if err == sql.ErrNoRows {
		after = nil
	} else if err != nil {
		return nil, errors.NewDatabaseError("failed to look up nearest sample", err)
	}

	switch {
	case before == nil && after == nil:
		return nil, errors.NewNotFoundError("mission has no navigation samples", nil)
	case before == nil:
		return after, nil
	case after == nil:
		return before, nil
	}
	if at.Sub(before.Timestamp) <= after.Timestamp.Sub(at) {
		return before, nil
	}
	return after, nil
}

func (r *NavSampleRepo) CountByMission(ctx context.Context, missionID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM nav_samples WHERE mission_id = $1`
	if err := r.db.GetDB().GetContext(ctx, &n, query, missionID); err != nil {
		return 0, errors.NewDatabaseError("failed to count samples", err)
	}
	return n, nil
}
