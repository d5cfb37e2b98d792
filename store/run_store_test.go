package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelstats/api/models"
)

var runRowColumns = []string{
	"id", "window_from", "window_to", "event_count", "session_count", "visit_count", "action_count",
	"record_content_open", "created_by", "created_at",
}

func TestRunStore_CreateRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewRunStore(db)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	operatorID := 3

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO processing_runs")).
		WithArgs("run-1", sqlmock.AnyArg(), sqlmock.AnyArg(), 12, 1, 2, 3, false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	run := &models.Run{
		ID:           "run-1",
		From:         created.Add(-time.Hour),
		To:           created,
		EventCount:   12,
		SessionCount: 1,
		VisitCount:   2,
		ActionCount:  3,
		CreatedBy:    &operatorID,
	}
	require.NoError(t, store.CreateRun(context.Background(), run))
	assert.Equal(t, created, run.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_GetRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewRunStore(db)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM processing_runs WHERE id = $1")).
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows(runRowColumns).
			AddRow("run-1", now.Add(-time.Hour), now, 10, 2, 3, 4, true, nil, now))

	run, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 2, run.SessionCount)
	assert.True(t, run.RecordContentOpen)
	assert.Nil(t, run.CreatedBy)

	mock.ExpectQuery(regexp.QuoteMeta("FROM processing_runs WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStore_ListRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewRunStore(db)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $1")).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows(runRowColumns).
			AddRow("run-2", now, now, 1, 1, 1, 1, false, 7, now).
			AddRow("run-1", now, now, 0, 0, 0, 0, false, nil, now.Add(-time.Hour)))

	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	require.NotNil(t, runs[0].CreatedBy)
	assert.Equal(t, 7, *runs[0].CreatedBy)
	assert.Nil(t, runs[1].CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
