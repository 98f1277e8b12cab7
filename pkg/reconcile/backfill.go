package reconcile

import (
	"context"
	"strings"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/logging"
)

// talkKey builds the case-insensitive (speaker, title) lookup key used by
// the backfill index.
func talkKey(speakerID, title string) string {
	return strings.ToLower(speakerID) + "::" + strings.ToLower(title)
}

// BackfillSessionIDs fills the missing sessionId of historical talk
// records by matching (speaker ID, talk title) case-insensitively against
// the sessions collection. Talks that already carry a sessionId are never
// recomputed; unmatched talks are reported, not modified.
func BackfillSessionIDs(ctx context.Context, client *conference.Client, dryRun bool) (*BackfillReport, error) {
	log := logging.FromContext(ctx)
	report := &BackfillReport{DryRun: dryRun}

	sessions, err := client.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	// Index (speaker, title) -> session ID. Sorted iteration keeps the
	// winner deterministic when two sessions share a speaker and title.
	index := make(map[string]string)
	for _, sid := range sortedIDs(sessions) {
		s := sessions[sid]
		for _, spid := range s.Speakers {
			index[talkKey(spid, s.Title)] = sid
		}
	}
	log.Info().
		Int("sessions", len(sessions)).
		Int("index_entries", len(index)).
		Msg("Built talk index")

	speakers, err := client.Speakers(ctx)
	if err != nil {
		return nil, err
	}

	var writes []docstore.Write
	for _, id := range sortedIDs(speakers) {
		sp := speakers[id]
		if len(sp.History) == 0 {
			continue
		}

		changed := false
		for _, year := range sp.HistoryYears() {
			snapshot := sp.History[year]
			for i := range snapshot.Talks {
				talk := &snapshot.Talks[i]
				if talk.SessionID != "" {
					continue
				}

				sid, ok := index[talkKey(id, talk.Title)]
				if !ok {
					report.Unmatched++
					report.UnmatchedTalks = append(report.UnmatchedTalks, UnmatchedTalk{
						SpeakerID: id,
						Year:      year,
						Title:     talk.Title,
					})
					log.Info().
						Str("speaker", id).
						Str("year", year).
						Str("title", talk.Title).
						Msg("No matching session")
					continue
				}

				talk.SessionID = sid
				changed = true
				report.Matched++
				log.Info().
					Str("speaker", id).
					Str("year", year).
					Str("title", talk.Title).
					Str("session", sid).
					Msg("Backfilled session ID")
			}
			sp.History[year] = snapshot
		}

		if changed {
			doc, err := conference.MarshalDoc(sp)
			if err != nil {
				return nil, err
			}
			writes = append(writes, docstore.Write{
				Op: docstore.OpSet, Collection: conference.CollectionSpeakers, ID: id, Doc: doc,
			})
			report.SpeakersUpdated++
		}
	}

	log.Info().
		Int("matched", report.Matched).
		Int("unmatched", report.Unmatched).
		Int("speakers", report.SpeakersUpdated).
		Msg("Backfill computed")

	if dryRun || len(writes) == 0 {
		if dryRun {
			log.Info().Msg("Dry run; no writes committed")
		}
		return report, nil
	}

	if err := docstore.CommitChunked(ctx, client.Store(), writes); err != nil {
		return report, err
	}
	log.Info().Int("speakers", report.SpeakersUpdated).Msg("Backfill committed")
	return report, nil
}
