package processor

import (
	"strings"

	"panelstats/api/models"
)

// Metrics summarises one interaction log. A log is complete when it holds
// both session markers and new when the panel build that wrote it already
// had the pano page close button.
func Metrics(filename string, events []models.InteractionEvent) models.LogMetrics {
	metrics := models.LogMetrics{
		Filename:   filename,
		NumActions: len(events),
	}
	if len(events) == 0 {
		return metrics
	}

	var sawStart, sawEnd bool
	for _, ev := range events {
		switch {
		case strings.HasPrefix(ev.Action, StartSessionLabel):
			sawStart = true
		case strings.HasPrefix(ev.Action, EndSessionLabel):
			sawEnd = true
		case strings.HasPrefix(ev.Action, ClosePanoPageLabel):
			metrics.IsNew = true
		}
	}
	metrics.IsComplete = sawStart && sawEnd
	metrics.Duration = events[len(events)-1].Timestamp - events[0].Timestamp
	return metrics
}

// SummarizeLogs counts logs by completeness and newness and averages their
// durations. An empty set averages to zero.
func SummarizeLogs(logs []models.LogMetrics) models.LogSummary {
	summary := models.LogSummary{Total: len(logs)}
	if len(logs) == 0 {
		return summary
	}

	var total float64
	for _, m := range logs {
		if m.IsComplete {
			summary.Complete++
		}
		if m.IsNew {
			summary.New++
		}
		if m.IsComplete && m.IsNew {
			summary.NewAndComplete++
		}
		total += m.Duration
	}
	summary.Incomplete = summary.Total - summary.Complete
	summary.AverageDuration = total / float64(len(logs))
	return summary
}
