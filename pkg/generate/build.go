package generate

import (
	"sort"

	"github.com/openconf/stagehand/pkg/conference"
)

// Output holds the three computed view maps, keyed by document ID.
type Output struct {
	Sessions map[string]conference.GeneratedSession
	Speakers map[string]conference.GeneratedSpeaker
	Schedule map[string]conference.GeneratedDay
}

// Build computes the generated views from a snapshot. It is pure: equal
// inputs produce equal outputs.
//
// changed carries a speaker write that triggered the recompute but may
// not have produced any session assignment yet; it is injected into the
// output verbatim so a newly created or updated speaker is visible before
// any session references them.
func Build(snap Snapshot, changed *conference.Speaker) Output {
	out := Output{
		Sessions: make(map[string]conference.GeneratedSession),
		Speakers: make(map[string]conference.GeneratedSpeaker),
		Schedule: make(map[string]conference.GeneratedDay),
	}

	var placed map[string]placement
	switch {
	case len(snap.Sessions) == 0:
		// Bootstrap state: no talks yet, pass speakers through unchanged.
		for id, sp := range snap.Speakers {
			sp.ID = id
			out.Speakers[id] = conference.GeneratedSpeaker{Speaker: sp}
		}
	case !snap.ScheduleEnabled || len(snap.Schedule) == 0:
		joinSessionsSpeakers(snap, nil, &out)
	default:
		placed = placements(snap.Schedule)
		joinSessionsSpeakersSchedule(snap, placed, &out)
	}

	// A speaker write that resolved no session is still made visible.
	if changed != nil && changed.ID != "" {
		if _, ok := out.Speakers[changed.ID]; !ok {
			out.Speakers[changed.ID] = conference.GeneratedSpeaker{Speaker: *changed}
		}
	}

	// Inactive and past speakers stay addressable by direct link.
	for id, sp := range snap.Speakers {
		if _, ok := out.Speakers[id]; !ok {
			sp.ID = id
			out.Speakers[id] = conference.GeneratedSpeaker{Speaker: sp}
		}
	}

	// Sessions excluded by the join stay addressable too, keeping any
	// placement they have.
	for id, s := range snap.Sessions {
		if _, ok := out.Sessions[id]; !ok {
			out.Sessions[id] = expandSession(id, s, snap.Speakers, placed)
		}
	}

	return out
}

// sortedIDs returns map keys in ascending order for deterministic
// iteration.
func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
