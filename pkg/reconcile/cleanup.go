package reconcile

import (
	"context"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/logging"
)

// CleanupHistory repairs drift between history[year] and the live
// schedule for that year. Speakers holding a history entry without being
// on the schedule lose the entry; speakers on the schedule get their talk
// list rebuilt from schedule data when the title signature differs.
// Identical signatures are left untouched, so a second pass is a no-op.
func CleanupHistory(ctx context.Context, client *conference.Client, year string, dryRun bool) (*CleanupReport, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	report := &CleanupReport{Year: year, DryRun: dryRun}

	sessions, err := client.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	days, err := client.Schedule(ctx)
	if err != nil {
		return nil, err
	}
	speakers, err := client.Speakers(ctx)
	if err != nil {
		return nil, err
	}

	talks := scheduledTalks(sessions, days)
	log.Info().
		Int("speakers", len(speakers)).
		Int("scheduled_speakers", len(talks)).
		Msg("Fetched cleanup snapshot")

	var writes []docstore.Write
	for _, id := range sortedIDs(speakers) {
		sp := speakers[id]
		current, ok := sp.History[year]
		if !ok {
			continue
		}

		scheduled, onSchedule := talks[id]
		if !onSchedule {
			// Stale entry from a speaker later removed from the program.
			delete(sp.History, year)
			if len(sp.History) == 0 {
				sp.History = nil
			}
			log.Info().
				Str("speaker", id).
				Str("name", sp.Name).
				Msgf("Not on the schedule; removing history.%s", year)

			doc, err := conference.MarshalDoc(sp)
			if err != nil {
				return nil, err
			}
			writes = append(writes, docstore.Write{
				Op: docstore.OpSet, Collection: conference.CollectionSpeakers, ID: id, Doc: doc,
			})
			report.Removed++
			report.RemovedSpeakers = append(report.RemovedSpeakers, id)
			continue
		}

		if conference.TalkSignature(current.Talks) == conference.TalkSignature(scheduled) {
			report.Unchanged++
			continue
		}

		log.Info().
			Str("speaker", id).
			Str("name", sp.Name).
			Int("from", len(current.Talks)).
			Int("to", len(scheduled)).
			Msg("Rebuilding history talks from schedule")

		current.Talks = scheduled
		sp.History[year] = current

		doc, err := conference.MarshalDoc(sp)
		if err != nil {
			return nil, err
		}
		writes = append(writes, docstore.Write{
			Op: docstore.OpSet, Collection: conference.CollectionSpeakers, ID: id, Doc: doc,
		})
		report.Rebuilt++
		report.RebuiltSpeakers = append(report.RebuiltSpeakers, id)
	}

	log.Info().
		Int("removed", report.Removed).
		Int("rebuilt", report.Rebuilt).
		Int("unchanged", report.Unchanged).
		Msg("Cleanup computed")

	if dryRun || len(writes) == 0 {
		if dryRun {
			log.Info().Int("speakers", len(writes)).Msg("Dry run; no writes committed")
		}
		return report, nil
	}

	if err := docstore.CommitChunked(ctx, client.Store(), writes); err != nil {
		return report, err
	}
	log.Info().Int("speakers", len(writes)).Msg("Cleanup committed")
	return report, nil
}
