package processor

import (
	"panelstats/api/models"
)

// Flatten turns closed sessions into the visit table and the action table.
// Rows are grouped by session, then visit, then action, in input order.
// SESSION_ID is the session's position in sessions.
func Flatten(sessions []models.Session) ([]models.VisitRow, []models.ActionRow) {
	visitRows := []models.VisitRow{}
	actionRows := []models.ActionRow{}

	for sessionID, session := range sessions {
		sessionDuration := session.Duration()

		for _, visit := range session.Visits {
			row := models.VisitRow{
				SessionID:       sessionID,
				SessionStart:    session.StartTime,
				SessionEnd:      session.EndTime,
				SessionDuration: sessionDuration,
				Exhibit:         visit.ExhibitLabel,
				ExhibitID:       visit.ExhibitID,
				EventStart:      visit.StartTime,
				EventEnd:        visit.EndTime,
				EventDuration:   visit.Duration(),
				ActionsCount:    len(visit.Actions),
			}
			visitRows = append(visitRows, row)

			durations := ActionDurations(visit)
			for i, action := range visit.Actions {
				actionRows = append(actionRows, models.ActionRow{
					VisitRow:        row,
					Action:          action.Type,
					ItemID:          action.ItemID,
					ActionTimestamp: action.Timestamp,
					ActionDuration:  durations[i],
				})
			}
		}
	}

	return visitRows, actionRows
}

// ActionDurations returns, for each action of visit, the time until the next
// action, or until the visit's end for the last one. The last entry is nil
// when the visit has no end time.
func ActionDurations(visit models.Visit) []*float64 {
	durations := make([]*float64, len(visit.Actions))
	for i, action := range visit.Actions {
		var next *float64
		if i+1 < len(visit.Actions) {
			ts := visit.Actions[i+1].Timestamp
			next = &ts
		} else {
			next = visit.EndTime
		}
		if next == nil {
			continue
		}
		d := *next - action.Timestamp
		durations[i] = &d
	}
	return durations
}
