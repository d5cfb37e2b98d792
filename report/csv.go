package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"panelstats/api/models"
)

// WriteVisits writes the visit table as CSV with a header row.
func WriteVisits(w io.Writer, rows []models.VisitRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.VisitColumns); err != nil {
		return fmt.Errorf("failed to write visit header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(visitRecord(row)); err != nil {
			return fmt.Errorf("failed to write visit row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteActions writes the action table as CSV with a header row.
func WriteActions(w io.Writer, rows []models.ActionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.ActionColumns); err != nil {
		return fmt.Errorf("failed to write action header: %w", err)
	}
	for _, row := range rows {
		record := append(visitRecord(row.VisitRow),
			row.Action,
			formatInt(row.ItemID),
			formatFloat(row.ActionTimestamp),
			formatOptFloat(row.ActionDuration),
		)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write action row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func visitRecord(row models.VisitRow) []string {
	return []string{
		strconv.Itoa(row.SessionID),
		formatFloat(row.SessionStart),
		formatOptFloat(row.SessionEnd),
		formatOptFloat(row.SessionDuration),
		row.Exhibit,
		formatInt(row.ExhibitID),
		formatFloat(row.EventStart),
		formatOptFloat(row.EventEnd),
		formatOptFloat(row.EventDuration),
		strconv.Itoa(row.ActionsCount),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Unset values are written as empty cells.
func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// WriteLogMetrics writes one row per uploaded log.
func WriteLogMetrics(w io.Writer, rows []models.LogMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.LogMetricsColumns); err != nil {
		return fmt.Errorf("failed to write log metrics header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Filename,
			strconv.Itoa(row.NumActions),
			strconv.FormatBool(row.IsComplete),
			strconv.FormatBool(row.IsNew),
			formatFloat(row.Duration),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write log metrics row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
