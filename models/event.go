// api/models/event.go
package models

import (
	"time"
)

// InteractionEvent is a single touch-panel UI event as stored in the raw
// interaction log.
type InteractionEvent struct {
	EventID    string    `json:"eventId"`
	LogFile    string    `json:"logFile"`
	Seq        uint32    `json:"seq"`
	Action     string    `json:"action"`
	Timestamp  float64   `json:"timestamp"` // seconds since the panel started logging
	PositionX  float64   `json:"positionX"`
	PositionY  float64   `json:"positionY"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// LogEntry mirrors one entry of the exhibit's JSON interaction log.
// PositionScreen is the "(x, y)" string the panel writes.
type LogEntry struct {
	Action         string  `json:"action"`
	Time           float64 `json:"time"`
	PositionScreen string  `json:"positionScreen"`
}

// TrackRequest is one uploaded interaction log.
type TrackRequest struct {
	LogFile string     `json:"logFile" binding:"required"`
	Events  []LogEntry `json:"events" binding:"dive"`
}

// SegmentEvent is the minimal (label, timestamp) pair the processor consumes.
type SegmentEvent struct {
	Action    string  `json:"action"`
	Timestamp float64 `json:"timestamp"`
}

// LogMetrics summarises a single uploaded log.
type LogMetrics struct {
	Filename   string    `json:"filename"`
	NumActions int       `json:"numActions"`
	IsComplete bool      `json:"isComplete"`
	IsNew      bool      `json:"isNew"`
	Duration   float64   `json:"duration"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Column names of the per-log metrics export.
var LogMetricsColumns = []string{"filename", "num_actions", "is_complete", "is_new", "duration"}

// LogSummary counts uploaded logs by completeness and age of the panel build.
type LogSummary struct {
	Total           int     `json:"total"`
	Complete        int     `json:"complete"`
	Incomplete      int     `json:"incomplete"`
	New             int     `json:"new"`
	NewAndComplete  int     `json:"newAndComplete"`
	AverageDuration float64 `json:"averageDuration"`
}

type EventCountByTime struct {
	Time  time.Time `json:"time"`
	Count uint64    `json:"count"`
}
