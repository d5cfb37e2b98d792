package handlers

import (
	"context"
	"time"

	"panelstats/api/models"
)

// The handlers depend on these narrow views of the stores so tests can
// substitute in-memory fakes.

type EventStore interface {
	InsertInteractionEvents(ctx context.Context, events []models.InteractionEvent) error
	ListInteractionEvents(ctx context.Context, start, end time.Time) ([]models.InteractionEvent, error)
	InsertLogMetrics(ctx context.Context, metrics models.LogMetrics) error
	ListLogMetrics(ctx context.Context, start, end time.Time) ([]models.LogMetrics, error)
	GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, actionPrefix string) ([]models.EventCountByTime, error)
}

type TableStore interface {
	InsertTables(ctx context.Context, runID string, visits []models.VisitRow, actions []models.ActionRow) error
	DeleteTables(ctx context.Context, runID string) error
	GetVisitRows(ctx context.Context, runID string) ([]models.VisitRow, error)
	GetActionRows(ctx context.Context, runID string) ([]models.ActionRow, error)
	GetItemStats(ctx context.Context, runID string) ([]models.ItemStat, error)
	GetSessionStats(ctx context.Context, runID string) ([]models.SessionStat, error)
}

type RunStore interface {
	CreateRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]models.Run, error)
}

type OperatorStore interface {
	CreateOperator(ctx context.Context, email string, hashedPassword []byte) (*models.Operator, error)
	GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)
}
