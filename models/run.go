package models

import "time"

// Run records one pass of the segmentation machine over a window of stored
// interaction events.
type Run struct {
	ID                string    `json:"id"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	EventCount        int       `json:"eventCount"`
	SessionCount      int       `json:"sessionCount"`
	VisitCount        int       `json:"visitCount"`
	ActionCount       int       `json:"actionCount"`
	RecordContentOpen bool      `json:"recordContentOpen"`
	CreatedBy         *int      `json:"createdBy,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type RunRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}
