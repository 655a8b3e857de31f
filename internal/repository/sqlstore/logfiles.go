// FilePath: internal/repository/sqlstore/logfiles.go
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
)

type LogFileRepo struct {
	BaseRepo
}

func NewLogFileRepository(db database.DB) *LogFileRepo {
	return &LogFileRepo{BaseRepo: BaseRepo{db: db}}
}

func (r *LogFileRepo) Create(ctx context.Context, lf *models.LogFile) error {
	query := `
		INSERT INTO log_files (
			id, mission_id, bin_path, tlog_path, notes, already_parsed, created_at
		) VALUES (
			:id, :mission_id, :bin_path, :tlog_path, :notes, :already_parsed, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, lf)
	if err != nil {
		return errors.NewDatabaseError("failed to create log file record", err)
	}
	return nil
}

func (r *LogFileRepo) Get(ctx context.Context, id string) (*models.LogFile, error) {
	lf := &models.LogFile{}
	query := `SELECT * FROM log_files WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, lf, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("log file not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get log file", err)
	}
	return lf, nil
}

// ListByMission returns the most recent log files for a mission, newest
// first, served off the (mission_id, created_at) index.
func (r *LogFileRepo) ListByMission(ctx context.Context, missionID string, limit int) ([]*models.LogFile, error) {
	files := []*models.LogFile{}
	query := `
		SELECT * FROM log_files
		WHERE mission_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.GetDB().SelectContext(ctx, &files, query, missionID, limit); err != nil {
		return nil, errors.NewDatabaseError("failed to list log files", err)
	}
	return files, nil
}

func (r *LogFileRepo) MarkParsed(ctx context.Context, id string) error {
	query := `UPDATE log_files SET already_parsed = TRUE WHERE id = $1`
	res, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to mark log file parsed", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("log file not found", nil)
	}
	return nil
}
