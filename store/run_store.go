package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"panelstats/api/models"
)

var ErrRunNotFound = errors.New("processing run not found")

// RunStore records processing runs in PostgreSQL.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// CreateRun inserts run and fills in its CreatedAt.
func (s *RunStore) CreateRun(ctx context.Context, run *models.Run) error {
	query := `
		INSERT INTO processing_runs (
			id, window_from, window_to, event_count, session_count, visit_count, action_count,
			record_content_open, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at;
	`
	var createdBy sql.NullInt64
	if run.CreatedBy != nil {
		createdBy = sql.NullInt64{Int64: int64(*run.CreatedBy), Valid: true}
	}

	err := s.db.QueryRowContext(ctx, query,
		run.ID,
		run.From,
		run.To,
		run.EventCount,
		run.SessionCount,
		run.VisitCount,
		run.ActionCount,
		run.RecordContentOpen,
		createdBy,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create processing run: %w", err)
	}

	log.Printf("Processing run recorded: ID=%s, sessions=%d, visits=%d, actions=%d",
		run.ID, run.SessionCount, run.VisitCount, run.ActionCount)
	return nil
}

const runColumns = `id, window_from, window_to, event_count, session_count, visit_count, action_count,
			record_content_open, created_by, created_at`

func scanRun(row scanner) (models.Run, error) {
	var (
		run       models.Run
		createdBy sql.NullInt64
	)
	err := row.Scan(
		&run.ID,
		&run.From,
		&run.To,
		&run.EventCount,
		&run.SessionCount,
		&run.VisitCount,
		&run.ActionCount,
		&run.RecordContentOpen,
		&createdBy,
		&run.CreatedAt,
	)
	if err != nil {
		return run, err
	}
	if createdBy.Valid {
		id := int(createdBy.Int64)
		run.CreatedBy = &id
	}
	return run, nil
}

func (s *RunStore) GetRun(ctx context.Context, id string) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM processing_runs WHERE id = $1;`
	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get processing run: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + runColumns + ` FROM processing_runs ORDER BY created_at DESC LIMIT $1;`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing runs: %w", err)
	}
	defer rows.Close()

	runs := []models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan processing run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating processing runs: %w", err)
	}
	return runs, nil
}
