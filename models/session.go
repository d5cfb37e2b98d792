package models

// Action is one recorded interaction inside a visit.
type Action struct {
	Type      string  `json:"type"`
	Timestamp float64 `json:"timestamp"`
	ItemID    *int64  `json:"itemId,omitempty"`
}

// Visit is one continuous inspection of a single exhibit.
type Visit struct {
	ExhibitLabel string   `json:"exhibitLabel"`
	ExhibitID    *int64   `json:"exhibitId,omitempty"`
	StartTime    float64  `json:"startTime"`
	EndTime      *float64 `json:"endTime,omitempty"`
	Actions      []Action `json:"actions"`
}

// Duration returns EndTime-StartTime, or nil while the end is unknown.
func (v Visit) Duration() *float64 {
	return span(v.StartTime, v.EndTime)
}

// Session is one visitor's interaction episode on the panel.
type Session struct {
	StartTime float64  `json:"startTime"`
	EndTime   *float64 `json:"endTime,omitempty"`
	Visits    []Visit  `json:"visits"`
}

func (s Session) Duration() *float64 {
	return span(s.StartTime, s.EndTime)
}

func span(start float64, end *float64) *float64 {
	if end == nil {
		return nil
	}
	d := *end - start
	return &d
}
