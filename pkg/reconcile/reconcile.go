// Package reconcile implements the offline maintenance jobs that keep
// speaker identity and historical records consistent: the case-variant
// identity merge, per-year archival and cleanup of speaker history, the
// session-ID backfill matcher, and speaker activation.
//
// Every job is an idempotent, single-operator batch run over the same
// document store the denormalization engine reads. All jobs support a
// dry-run preview; committed writes go through bounded-size chunks, so a
// failure mid-run leaves a partial but safely re-runnable state. Running
// two jobs concurrently against the same collections is unsupported.
package reconcile

import (
	"regexp"
	"sort"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/errors"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ValidateYear checks that a year argument is a four-digit string.
func ValidateYear(year string) error {
	if !yearPattern.MatchString(year) {
		return errors.NewValidationError("year", year, "must be a four-digit year")
	}
	return nil
}

// scheduledTalks resolves the scheduled session set against the sessions
// collection and accumulates each speaker's talk list. Dangling schedule
// references are skipped. Sessions are visited in sorted-ID order so talk
// lists are deterministic across runs.
func scheduledTalks(sessions map[string]conference.Session, days []conference.ScheduleDay) map[string][]conference.Talk {
	scheduled := conference.ScheduledSessionIDs(days)

	ids := make([]string, 0, len(scheduled))
	for id := range scheduled {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	talks := make(map[string][]conference.Talk)
	for _, sid := range ids {
		s, ok := sessions[sid]
		if !ok {
			continue
		}
		for _, spid := range s.Speakers {
			talks[spid] = append(talks[spid], s.Talk())
		}
	}
	return talks
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
