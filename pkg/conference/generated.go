package conference

// GeneratedSession is a session as it appears in the generatedSessions
// view: the source fields plus its ID, a computed main tag, speaker
// references expanded to embedded records, and placement metadata when
// the schedule join ran. Embedded speaker records carry a null sessions
// field to break embedding recursion.
type GeneratedSession struct {
	Session

	// Speakers shadows the source ID list with embedded records.
	Speakers []GeneratedSpeaker `json:"speakers"`

	MainTag string `json:"mainTag,omitempty"`

	// Placement, attached by the schedule join. Empty for unplaced sessions.
	Day          string `json:"day,omitempty"`
	DateReadable string `json:"dateReadable,omitempty"`
	Track        string `json:"track,omitempty"`
	StartTime    string `json:"startTime,omitempty"`
	EndTime      string `json:"endTime,omitempty"`
}

// GeneratedSpeaker is a speaker as it appears in the generatedSpeakers
// view. Sessions is the speaker's resolved session list, or null when the
// record is embedded inside a session (and for speakers carried over
// outside the active join).
type GeneratedSpeaker struct {
	Speaker

	Sessions []GeneratedSession `json:"sessions"`
}

// GeneratedDay is one schedule day in the generatedSchedule view, with
// slot items expanded from session IDs to full generated session records.
type GeneratedDay struct {
	Date         string              `json:"date"`
	DateReadable string              `json:"dateReadable,omitempty"`
	Tracks       []Track             `json:"tracks"`
	Timeslots    []GeneratedTimeslot `json:"timeslots"`
}

// GeneratedTimeslot mirrors Timeslot with expanded sessions.
type GeneratedTimeslot struct {
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Sessions  []GeneratedSlot `json:"sessions"`
}

// GeneratedSlot mirrors SlotSessions with expanded sessions.
type GeneratedSlot struct {
	Items  []GeneratedSession `json:"items"`
	Extend int                `json:"extend,omitempty"`
}

// Embedded returns the speaker in embedded form: all fields plus ID, with
// the sessions field nulled.
func (s Speaker) Embedded(id string) GeneratedSpeaker {
	s.ID = id
	return GeneratedSpeaker{Speaker: s}
}

// SpeakerStub returns an ID-only embedded record for a dangling speaker
// reference.
func SpeakerStub(id string) GeneratedSpeaker {
	return GeneratedSpeaker{Speaker: Speaker{ID: id}}
}
