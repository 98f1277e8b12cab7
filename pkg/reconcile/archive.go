package reconcile

import (
	"context"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/logging"
)

// Archive snapshots every active speaker into history[year] and
// deactivates them. The schedule collection at call time represents the
// year being archived; each active speaker's talk list comes from the
// scheduled session set (empty when they had no scheduled session).
//
// With clear set, the sessions and schedule collections are deleted after
// archiving. Clearing is destructive and requires the explicit flag.
//
// Archiving the same year twice against identical source state writes an
// identical history entry both times.
func Archive(ctx context.Context, client *conference.Client, year string, dryRun, clear bool) (*ArchiveReport, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	report := &ArchiveReport{Year: year, DryRun: dryRun, Clear: clear}

	speakers, err := client.Speakers(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := client.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	days, err := client.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	talks := scheduledTalks(sessions, days)
	log.Info().
		Int("speakers", len(speakers)).
		Int("scheduled_speakers", len(talks)).
		Msg("Fetched archival snapshot")

	var writes []docstore.Write
	for _, id := range sortedIDs(speakers) {
		sp := speakers[id]
		if !sp.Active {
			continue
		}

		speakerTalks := talks[id]
		if speakerTalks == nil {
			speakerTalks = []conference.Talk{}
		}

		if sp.History == nil {
			sp.History = make(map[string]conference.YearSnapshot)
		}
		sp.History[year] = conference.YearSnapshot{
			Bio:     sp.Bio,
			Company: sp.Company,
			Title:   sp.Title,
			Talks:   speakerTalks,
		}
		sp.Active = false
		sp.Featured = false

		log.Info().
			Str("speaker", id).
			Str("name", sp.Name).
			Int("talks", len(speakerTalks)).
			Msg("Archiving speaker")

		doc, err := conference.MarshalDoc(sp)
		if err != nil {
			return nil, err
		}
		writes = append(writes, docstore.Write{
			Op: docstore.OpSet, Collection: conference.CollectionSpeakers, ID: id, Doc: doc,
		})
		report.Entries = append(report.Entries, ArchiveEntry{
			SpeakerID: id,
			Name:      sp.Name,
			Talks:     len(speakerTalks),
		})
		report.Archived++
	}

	if report.Archived == 0 {
		log.Info().Msg("No active speakers to archive")
		return report, nil
	}

	if !dryRun {
		if err := docstore.CommitChunked(ctx, client.Store(), writes); err != nil {
			return report, err
		}
		log.Info().Int("speakers", report.Archived).Msg("Speakers archived")
	} else {
		log.Info().Int("speakers", report.Archived).Msg("Dry run; no writes committed")
	}

	if clear {
		if dryRun {
			report.SessionsDeleted = len(sessions)
			report.ScheduleDeleted = len(days)
			log.Info().
				Int("sessions", len(sessions)).
				Int("schedule_days", len(days)).
				Msg("Dry run; would clear sessions and schedule")
			return report, nil
		}

		deleted, err := docstore.DeleteAll(ctx, client.Store(), conference.CollectionSessions)
		report.SessionsDeleted = deleted
		if err != nil {
			return report, err
		}
		deleted, err = docstore.DeleteAll(ctx, client.Store(), conference.CollectionSchedule)
		report.ScheduleDeleted = deleted
		if err != nil {
			return report, err
		}
		log.Info().
			Int("sessions", report.SessionsDeleted).
			Int("schedule_days", report.ScheduleDeleted).
			Msg("Cleared sessions and schedule")
	}

	return report, nil
}
