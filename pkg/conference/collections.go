// Package conference defines the typed document shapes stored in the
// document store: the three source collections (sessions, speakers,
// schedule), the feature-flag document, and the generated read views
// derived from them. A Client wraps a docstore.Store with typed access.
package conference

// Source collection names. These are the editable source of truth.
const (
	CollectionSessions = "sessions"
	CollectionSpeakers = "speakers"
	CollectionSchedule = "schedule"
	CollectionConfig   = "config"
)

// Generated collection names. Derived, disposable, always recomputed
// wholesale; never hand-edited.
const (
	CollectionGeneratedSessions = "generatedSessions"
	CollectionGeneratedSpeakers = "generatedSpeakers"
	CollectionGeneratedSchedule = "generatedSchedule"
)

// ScheduleConfigID is the document ID of the schedule feature flag inside
// the config collection.
const ScheduleConfigID = "schedule"

// SourceCollections lists the collections whose writes trigger the
// denormalization engine.
var SourceCollections = []string{
	CollectionSessions,
	CollectionSpeakers,
	CollectionSchedule,
}
