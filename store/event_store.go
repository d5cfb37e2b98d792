// api/store/event_store.go
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"panelstats/api/database"
	"panelstats/api/models"
	"panelstats/api/utils"
)

// EventStore keeps the raw interaction log in ClickHouse.
type EventStore struct {
	DB *database.ClickHouseClient
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{
		DB: chClient,
	}
}

func (s *EventStore) InsertInteractionEvents(ctx context.Context, events []models.InteractionEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO interaction_events (
			event_id, log_file, seq, action, timestamp, position_x, position_y, received_at
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.LogFile,
			event.Seq,
			event.Action,
			event.Timestamp,
			event.PositionX,
			event.PositionY,
			event.ReceivedAt,
		)
		if err != nil {
			_ = batch.Abort()
			return fmt.Errorf("failed to append event %s: %w", event.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Successfully inserted %d interaction events.", len(events))
	return nil
}

// ListInteractionEvents returns the events received in [start, end] in stream
// order: upload time, then log file, then position within the log.
func (s *EventStore) ListInteractionEvents(ctx context.Context, start, end time.Time) ([]models.InteractionEvent, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT event_id, log_file, seq, action, timestamp, position_x, position_y, received_at
		FROM interaction_events
		WHERE received_at >= ? AND received_at <= ?
		ORDER BY received_at ASC, log_file ASC, seq ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query interaction events: %w", err)
	}
	defer rows.Close()

	events := []models.InteractionEvent{}
	for rows.Next() {
		var event models.InteractionEvent
		if err := rows.Scan(
			&event.EventID,
			&event.LogFile,
			&event.Seq,
			&event.Action,
			&event.Timestamp,
			&event.PositionX,
			&event.PositionY,
			&event.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan interaction event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during interaction event query: %w", err)
	}

	return events, nil
}

// InsertLogMetrics records the summary of one uploaded log.
func (s *EventStore) InsertLogMetrics(ctx context.Context, metrics models.LogMetrics) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO log_metrics (filename, num_actions, is_complete, is_new, duration, received_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare log metrics insert: %w", err)
	}

	if err := batch.Append(
		metrics.Filename,
		uint32(metrics.NumActions),
		metrics.IsComplete,
		metrics.IsNew,
		metrics.Duration,
		metrics.ReceivedAt,
	); err != nil {
		_ = batch.Abort()
		return fmt.Errorf("failed to append log metrics for %s: %w", metrics.Filename, err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send log metrics: %w", err)
	}
	return nil
}

// ListLogMetrics returns the metrics of the logs received in [start, end],
// oldest first.
func (s *EventStore) ListLogMetrics(ctx context.Context, start, end time.Time) ([]models.LogMetrics, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT filename, num_actions, is_complete, is_new, duration, received_at
		FROM log_metrics
		WHERE received_at >= ? AND received_at <= ?
		ORDER BY received_at ASC, filename ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query log metrics: %w", err)
	}
	defer rows.Close()

	results := []models.LogMetrics{}
	for rows.Next() {
		var (
			m          models.LogMetrics
			numActions uint32
		)
		if err := rows.Scan(&m.Filename, &numActions, &m.IsComplete, &m.IsNew, &m.Duration, &m.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log metrics: %w", err)
		}
		m.NumActions = int(numActions)
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during log metrics query: %w", err)
	}
	return results, nil
}

// GetEventCountsOverTime buckets received events by interval, optionally
// keeping only actions that start with actionPrefix.
func (s *EventStore) GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, actionPrefix string) ([]models.EventCountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	args := []interface{}{start, end}
	whereClause := "WHERE received_at >= ? AND received_at <= ?"
	if actionPrefix != "" {
		whereClause += " AND startsWith(action, ?)"
		args = append(args, actionPrefix)
	}

	query := fmt.Sprintf(`
		SELECT toStartOf%s(received_at) AS time_bucket, count() AS total_events
		FROM interaction_events
		%s
		GROUP BY time_bucket
		ORDER BY time_bucket ASC
	`, interval, whereClause)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event counts over time: %w", err)
	}
	defer rows.Close()

	results := []models.EventCountByTime{}
	for rows.Next() {
		var (
			timeBucket time.Time
			count      uint64
		)
		if err := rows.Scan(&timeBucket, &count); err != nil {
			log.Printf("Error scanning row for event counts over time: %v", err)
			continue
		}
		results = append(results, models.EventCountByTime{Time: timeBucket, Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event counts over time query: %w", err)
	}

	return results, nil
}
