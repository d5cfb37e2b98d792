package models

// Column names of the visit table. Downstream reports group by these.
var VisitColumns = []string{
	"SESSION_ID",
	"SESSION_START",
	"SESSION_END",
	"SESSION_DURATION",
	"EXHIBIT",
	"EXHIBIT_ID",
	"EVENT_START",
	"EVENT_END",
	"EVENT_DURATION",
	"ACTIONS_COUNT",
}

// ActionColumns extends VisitColumns with the per-action fields.
var ActionColumns = append(append([]string{}, VisitColumns...),
	"ACTION",
	"ITEM_ID",
	"ACTION_TIMESTAMP",
	"ACTION_DURATION",
)

// VisitRow is one row of the visit table.
type VisitRow struct {
	SessionID       int      `json:"sessionId"`
	SessionStart    float64  `json:"sessionStart"`
	SessionEnd      *float64 `json:"sessionEnd"`
	SessionDuration *float64 `json:"sessionDuration"`
	Exhibit         string   `json:"exhibit"`
	ExhibitID       *int64   `json:"exhibitId"`
	EventStart      float64  `json:"eventStart"`
	EventEnd        *float64 `json:"eventEnd"`
	EventDuration   *float64 `json:"eventDuration"`
	ActionsCount    int      `json:"actionsCount"`
}

// ActionRow is one row of the action table; it repeats its visit's columns.
type ActionRow struct {
	VisitRow
	Action          string   `json:"action"`
	ItemID          *int64   `json:"itemId"`
	ActionTimestamp float64  `json:"actionTimestamp"`
	ActionDuration  *float64 `json:"actionDuration"`
}

// ItemStat is the total time and interaction count per item id.
type ItemStat struct {
	ItemID       int64   `json:"itemId"`
	TotalTime    float64 `json:"totalTime"`
	Interactions uint64  `json:"interactions"`
}

type SessionStat struct {
	SessionID int      `json:"sessionId"`
	Duration  *float64 `json:"duration"`
}
