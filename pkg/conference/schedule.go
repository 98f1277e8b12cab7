package conference

// ScheduleDay is one day of the program: parallel tracks crossed with
// timeslots. Document IDs in the schedule collection are the day dates.
type ScheduleDay struct {
	ID           string     `json:"id,omitempty"`
	Date         string     `json:"date"`
	DateReadable string     `json:"dateReadable,omitempty"`
	Tracks       []Track    `json:"tracks"`
	Timeslots    []Timeslot `json:"timeslots"`
}

// Track is a named room or stage.
type Track struct {
	Title string `json:"title"`
}

// Timeslot is one row of the schedule grid: a start and end time with one
// sessions entry per track.
type Timeslot struct {
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Sessions  []SlotSessions `json:"sessions"`
}

// SlotSessions is the cell at (timeslot, track). Items holds zero or one
// session ID; a slot may be empty. Extend is the number of rows the cell
// spans.
type SlotSessions struct {
	Items  []string `json:"items"`
	Extend int      `json:"extend,omitempty"`
}

// ScheduledSessionIDs walks the timeslot/track structure of the given
// days and returns the set of all referenced session IDs, the scheduled
// session set every reconciler operates on.
func ScheduledSessionIDs(days []ScheduleDay) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, day := range days {
		for _, slot := range day.Timeslots {
			for _, cell := range slot.Sessions {
				for _, id := range cell.Items {
					ids[id] = struct{}{}
				}
			}
		}
	}
	return ids
}
