package store

import (
	"context"
	"fmt"
	"log"

	"panelstats/api/database"
	"panelstats/api/models"
)

// TableStore persists the visit and action tables of each processing run.
type TableStore struct {
	DB *database.ClickHouseClient
}

func NewTableStore(chClient *database.ClickHouseClient) *TableStore {
	return &TableStore{DB: chClient}
}

const visitColumns = `session_id, session_start, session_end, session_duration, exhibit, exhibit_id,
			event_start, event_end, event_duration, actions_count`

func visitValues(row models.VisitRow) []interface{} {
	return []interface{}{
		uint32(row.SessionID),
		row.SessionStart,
		row.SessionEnd,
		row.SessionDuration,
		row.Exhibit,
		row.ExhibitID,
		row.EventStart,
		row.EventEnd,
		row.EventDuration,
		uint32(row.ActionsCount),
	}
}

func (s *TableStore) InsertTables(ctx context.Context, runID string, visits []models.VisitRow, actions []models.ActionRow) error {
	if len(visits) > 0 {
		batch, err := s.DB.Conn.PrepareBatch(ctx, `INSERT INTO visit_rows (run_id, row_index, `+visitColumns+`)`)
		if err != nil {
			return fmt.Errorf("failed to prepare visit batch: %w", err)
		}
		for i, row := range visits {
			args := append([]interface{}{runID, uint32(i)}, visitValues(row)...)
			if err := batch.Append(args...); err != nil {
				_ = batch.Abort()
				return fmt.Errorf("failed to append visit row %d: %w", i, err)
			}
		}
		if err := batch.Send(); err != nil {
			return fmt.Errorf("failed to send visit batch: %w", err)
		}
	}

	if len(actions) > 0 {
		batch, err := s.DB.Conn.PrepareBatch(ctx, `INSERT INTO action_rows (run_id, row_index, `+visitColumns+`,
			action, item_id, action_timestamp, action_duration)`)
		if err != nil {
			return fmt.Errorf("failed to prepare action batch: %w", err)
		}
		for i, row := range actions {
			args := append([]interface{}{runID, uint32(i)}, visitValues(row.VisitRow)...)
			args = append(args, row.Action, row.ItemID, row.ActionTimestamp, row.ActionDuration)
			if err := batch.Append(args...); err != nil {
				_ = batch.Abort()
				return fmt.Errorf("failed to append action row %d: %w", i, err)
			}
		}
		if err := batch.Send(); err != nil {
			return fmt.Errorf("failed to send action batch: %w", err)
		}
	}

	log.Printf("Stored run %s: %d visit rows, %d action rows.", runID, len(visits), len(actions))
	return nil
}

// DeleteTables removes every row stored under runID. It undoes a run whose
// tables were written but which could not be recorded.
func (s *TableStore) DeleteTables(ctx context.Context, runID string) error {
	for _, table := range []string{"visit_rows", "action_rows"} {
		if err := s.DB.Conn.Exec(ctx, fmt.Sprintf("ALTER TABLE %s DELETE WHERE run_id = ?", table), runID); err != nil {
			return fmt.Errorf("failed to delete %s of run %s: %w", table, runID, err)
		}
	}
	log.Printf("Deleted tables of run %s.", runID)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVisit(rows scanner, extra ...any) (models.VisitRow, error) {
	var (
		row          models.VisitRow
		sessionID    uint32
		actionsCount uint32
	)
	dest := []any{
		&sessionID,
		&row.SessionStart,
		&row.SessionEnd,
		&row.SessionDuration,
		&row.Exhibit,
		&row.ExhibitID,
		&row.EventStart,
		&row.EventEnd,
		&row.EventDuration,
		&actionsCount,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return row, err
	}
	row.SessionID = int(sessionID)
	row.ActionsCount = int(actionsCount)
	return row, nil
}

func (s *TableStore) GetVisitRows(ctx context.Context, runID string) ([]models.VisitRow, error) {
	rows, err := s.DB.Conn.Query(ctx, `SELECT `+visitColumns+` FROM visit_rows WHERE run_id = ? ORDER BY row_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit rows: %w", err)
	}
	defer rows.Close()

	results := []models.VisitRow{}
	for rows.Next() {
		row, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visit rows: %w", err)
	}
	return results, nil
}

func (s *TableStore) GetActionRows(ctx context.Context, runID string) ([]models.ActionRow, error) {
	rows, err := s.DB.Conn.Query(ctx, `SELECT `+visitColumns+`, action, item_id, action_timestamp, action_duration
		FROM action_rows WHERE run_id = ? ORDER BY row_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query action rows: %w", err)
	}
	defer rows.Close()

	results := []models.ActionRow{}
	for rows.Next() {
		var row models.ActionRow
		visit, err := scanVisit(rows, &row.Action, &row.ItemID, &row.ActionTimestamp, &row.ActionDuration)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action row: %w", err)
		}
		row.VisitRow = visit
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action rows: %w", err)
	}
	return results, nil
}

// GetItemStats sums action durations and counts interactions per item id.
func (s *TableStore) GetItemStats(ctx context.Context, runID string) ([]models.ItemStat, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT assumeNotNull(item_id) AS item, ifNull(sum(action_duration), 0) AS total_time, count() AS interactions
		FROM action_rows
		WHERE run_id = ? AND item_id IS NOT NULL
		GROUP BY item
		ORDER BY item ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query item stats: %w", err)
	}
	defer rows.Close()

	results := []models.ItemStat{}
	for rows.Next() {
		var stat models.ItemStat
		if err := rows.Scan(&stat.ItemID, &stat.TotalTime, &stat.Interactions); err != nil {
			log.Printf("Error scanning row for item stats: %v", err)
			continue
		}
		results = append(results, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for item stats: %w", err)
	}
	return results, nil
}

// GetSessionStats returns one duration per session that has at least one
// visit.
func (s *TableStore) GetSessionStats(ctx context.Context, runID string) ([]models.SessionStat, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT session_id, any(session_duration) AS duration
		FROM visit_rows
		WHERE run_id = ?
		GROUP BY session_id
		ORDER BY session_id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session stats: %w", err)
	}
	defer rows.Close()

	results := []models.SessionStat{}
	for rows.Next() {
		var (
			sessionID uint32
			duration  *float64
		)
		if err := rows.Scan(&sessionID, &duration); err != nil {
			log.Printf("Error scanning row for session stats: %v", err)
			continue
		}
		results = append(results, models.SessionStat{SessionID: int(sessionID), Duration: duration})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for session stats: %w", err)
	}
	return results, nil
}
