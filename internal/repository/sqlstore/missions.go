// FilePath: internal/repository/sqlstore/missions.go
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/models"
)

type MissionRepo struct {
	BaseRepo
}

func NewMissionRepository(db database.DB) *MissionRepo {
	return &MissionRepo{BaseRepo: BaseRepo{db: db}}
}

func (r *MissionRepo) Create(ctx context.Context, mission *models.Mission) error {
	query := `
		INSERT INTO missions (
			id, bin_path, tlog_path, location, target_type, max_depth,
			description, created_at, updated_at
		) VALUES (
			:id, :bin_path, :tlog_path, :location, :target_type, :max_depth,
			:description, :created_at, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, mission)
	if err != nil {
		return errors.NewDatabaseError("failed to create mission", err)
	}
	return nil
}

func (r *MissionRepo) Get(ctx context.Context, id string) (*models.Mission, error) {
	mission := &models.Mission{}
	query := `SELECT * FROM missions WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, mission, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("mission not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get mission", err)
	}
	return mission, nil
}

func (r *MissionRepo) Update(ctx context.Context, mission *models.Mission) error {
	query := `
		UPDATE missions SET
			bin_path = :bin_path,
			tlog_path = :tlog_path,
			location = :location,
			target_type = :target_type,
			max_depth = :max_depth,
			description = :description,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, mission)
	if err != nil {
		return errors.NewDatabaseError("failed to update mission", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("mission not found", nil)
	}
	return nil
}

// List returns missions newest-first, narrowed by the optional filters the
// mission browser exposes.
func (r *MissionRepo) List(ctx context.Context, filters models.MissionFilters, offset, limit int) ([]*models.Mission, error) {
	query := `SELECT * FROM missions WHERE 1=1`
	args := []any{}
	i := 1

	if filters.TargetType != "" {
		query += fmt.Sprintf(` AND target_type = $%d`, i)
		args = append(args, filters.TargetType)
		i++
	}
	if filters.Location != "" {
		query += fmt.Sprintf(` AND location = $%d`, i)
		args = append(args, filters.Location)
		i++
	}
	if filters.MaxDepthBelow != nil {
		query += fmt.Sprintf(` AND max_depth < $%d`, i)
		args = append(args, *filters.MaxDepthBelow)
		i++
	}
	if filters.CreatedAt != nil {
		if filters.CreatedAt.Start != nil {
			query += fmt.Sprintf(` AND created_at >= $%d`, i)
			args = append(args, filters.CreatedAt.Start.UTC())
			i++
		}
		if filters.CreatedAt.End != nil {
			query += fmt.Sprintf(` AND created_at <= $%d`, i)
			args = append(args, filters.CreatedAt.End.UTC())
			i++
		}
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, limit, offset)

	missions := []*models.Mission{}
	if err := r.db.GetDB().SelectContext(ctx, &missions, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to list missions", err)
	}
	return missions, nil
}
