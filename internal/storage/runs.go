package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/model"
)

// RecordETLRun appends run to the ETL history.
func (s *SQLiteStorage) RecordETLRun(ctx context.Context, run *model.ETLRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if err := validateString(run.ID, "run.ID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO etl_runs (
			id, messages_path, categories_path, table_name, categories,
			joined_rows, duplicate_rows, stored_rows, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.MessagesPath, run.CategoriesPath, run.Table,
		strings.Join(run.Categories, ","),
		run.JoinedRows, run.DuplicateRows, run.StoredRows,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to record etl run: %v", common.ErrWrite, err)
	}
	return nil
}

// LatestETLRun returns the most recently finished ETL run for table.
func (s *SQLiteStorage) LatestETLRun(ctx context.Context, table string) (*model.ETLRun, error) {
	var row struct {
		StartedAt      time.Time `db:"started_at"`
		FinishedAt     time.Time `db:"finished_at"`
		ID             string    `db:"id"`
		MessagesPath   string    `db:"messages_path"`
		CategoriesPath string    `db:"categories_path"`
		Table          string    `db:"table_name"`
		Categories     string    `db:"categories"`
		JoinedRows     int       `db:"joined_rows"`
		DuplicateRows  int       `db:"duplicate_rows"`
		StoredRows     int       `db:"stored_rows"`
	}

	err := s.db.GetContext(ctx, &row, `
		SELECT id, messages_path, categories_path, table_name, categories,
			joined_rows, duplicate_rows, stored_rows, started_at, finished_at
		FROM etl_runs
		WHERE table_name = ?
		ORDER BY finished_at DESC
		LIMIT 1`, table)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no etl run for table %s", common.ErrNotFound, table)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read etl runs: %v", common.ErrDataAccess, err)
	}

	run := &model.ETLRun{
		ID:             row.ID,
		StartedAt:      row.StartedAt,
		FinishedAt:     row.FinishedAt,
		MessagesPath:   row.MessagesPath,
		CategoriesPath: row.CategoriesPath,
		Table:          row.Table,
		JoinedRows:     row.JoinedRows,
		DuplicateRows:  row.DuplicateRows,
		StoredRows:     row.StoredRows,
	}
	if row.Categories != "" {
		run.Categories = strings.Split(row.Categories, ",")
	}
	return run, nil
}

// RecordTrainingRun appends run to the training history.
func (s *SQLiteStorage) RecordTrainingRun(ctx context.Context, run *model.TrainingRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if err := validateString(run.ID, "run.ID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_runs (
			id, table_name, model_path, best_params, best_score, subset_score,
			train_rows, test_rows, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Table, run.ModelPath, run.BestParams, run.BestScore, run.SubsetScore,
		run.TrainRows, run.TestRows, run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to record training run: %v", common.ErrWrite, err)
	}
	return nil
}
