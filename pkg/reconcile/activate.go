package reconcile

import (
	"context"
	"sort"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/logging"
)

// ActivateSpeakers marks every speaker referenced by any session as
// active. Referenced IDs are normalized to lowercase before lookup;
// references without a matching speaker document are reported and
// skipped, as are speakers already active.
func ActivateSpeakers(ctx context.Context, client *conference.Client, dryRun bool) (*ActivateReport, error) {
	log := logging.FromContext(ctx)
	report := &ActivateReport{DryRun: dryRun}

	sessions, err := client.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]struct{})
	for _, s := range sessions {
		for _, spid := range s.Speakers {
			referenced[conference.Slug(spid)] = struct{}{}
		}
	}
	log.Info().
		Int("sessions", len(sessions)).
		Int("speakers", len(referenced)).
		Msg("Collected referenced speaker IDs")

	if len(referenced) == 0 {
		log.Info().Msg("No speakers assigned to sessions")
		return report, nil
	}

	speakers, err := client.Speakers(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(referenced))
	for id := range referenced {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var writes []docstore.Write
	for _, id := range ids {
		sp, ok := speakers[id]
		if !ok {
			report.Missing++
			log.Info().Str("speaker", id).Msg("Not found in speakers collection; skipping")
			continue
		}
		if sp.Active {
			report.AlreadyActive++
			continue
		}

		sp.Active = true
		log.Info().Str("speaker", id).Str("name", sp.Name).Msg("Activating speaker")

		doc, err := conference.MarshalDoc(sp)
		if err != nil {
			return nil, err
		}
		writes = append(writes, docstore.Write{
			Op: docstore.OpSet, Collection: conference.CollectionSpeakers, ID: id, Doc: doc,
		})
		report.Activated++
	}

	if dryRun || len(writes) == 0 {
		if dryRun {
			log.Info().Int("speakers", report.Activated).Msg("Dry run; no writes committed")
		}
		return report, nil
	}

	if err := docstore.CommitChunked(ctx, client.Store(), writes); err != nil {
		return report, err
	}
	log.Info().Int("speakers", report.Activated).Msg("Activation committed")
	return report, nil
}
