package reconcile

import (
	"context"
	"encoding/json"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/logging"
)

// MergeSpeakers merges duplicate speaker documents that differ only by ID
// case (e.g. Amit_Jotwani + amit_jotwani). For each duplicate group the
// lowercase ID survives as canonical, histories are unioned, top-level
// fields are picked from the best duplicate, session references are
// rewritten to the canonical ID, and alias documents are deleted.
//
// The job is idempotent: a second run finds no duplicate groups. All
// staged writes commit through bounded chunks.
func MergeSpeakers(ctx context.Context, client *conference.Client, dryRun bool) (*MergeReport, error) {
	log := logging.FromContext(ctx)
	report := &MergeReport{DryRun: dryRun}

	speakers, err := client.Speakers(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int("count", len(speakers)).Msg("Fetched speakers")

	groups := duplicateGroups(speakers)
	if len(groups) == 0 {
		log.Info().Msg("No duplicate speakers found")
		return report, nil
	}
	log.Info().Int("groups", len(groups)).Msg("Found duplicate speaker groups")

	sessions, err := client.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	var writes []docstore.Write
	for _, canonical := range sortedIDs(groups) {
		duplicates := groups[canonical]
		merged := mergeGroup(canonical, duplicates)

		group := MergeGroup{
			Canonical: canonical,
			Active:    merged.Active,
			Featured:  merged.Featured,
			Years:     merged.HistoryYears(),
		}
		aliases := make(map[string]struct{}, len(duplicates))
		for _, d := range duplicates {
			if d.ID != canonical {
				group.Aliases = append(group.Aliases, d.ID)
				aliases[d.ID] = struct{}{}
			}
		}
		log.Info().
			Str("canonical", canonical).
			Strs("aliases", group.Aliases).
			Strs("years", group.Years).
			Msg("Merging speaker group")

		doc, err := conference.MarshalDoc(merged)
		if err != nil {
			return nil, err
		}
		writes = append(writes, docstore.Write{
			Op: docstore.OpSet, Collection: conference.CollectionSpeakers, ID: canonical, Doc: doc,
		})
		for _, alias := range group.Aliases {
			writes = append(writes, docstore.Write{
				Op: docstore.OpDelete, Collection: conference.CollectionSpeakers, ID: alias,
			})
		}

		// Rewrite session references from aliases to the canonical ID.
		for _, sid := range sortedIDs(sessions) {
			s := sessions[sid]
			updated, changed := rewriteSpeakerRefs(s.Speakers, aliases, canonical)
			if !changed {
				continue
			}
			s.Speakers = updated
			sessions[sid] = s

			doc, err := conference.MarshalDoc(s)
			if err != nil {
				return nil, err
			}
			writes = append(writes, docstore.Write{
				Op: docstore.OpSet, Collection: conference.CollectionSessions, ID: sid, Doc: doc,
			})
			group.Sessions = append(group.Sessions, sid)
			log.Info().Str("session", sid).Str("canonical", canonical).Msg("Rewrote session speakers")
		}

		report.Groups = append(report.Groups, group)
		report.SpeakersMerged++
		report.AliasesDeleted += len(group.Aliases)
		report.SessionsUpdated += len(group.Sessions)
	}

	if dryRun {
		log.Info().Int("operations", len(writes)).Msg("Dry run; no writes committed")
		return report, nil
	}
	if err := docstore.CommitChunked(ctx, client.Store(), writes); err != nil {
		return report, err
	}
	log.Info().Int("operations", len(writes)).Msg("Merge committed")
	return report, nil
}

// duplicateGroups groups speakers by lowercase slug and keeps only groups
// with more than one member. Members are ordered by ID ascending so the
// "last seen wins" tie-breaks are deterministic.
func duplicateGroups(speakers map[string]conference.Speaker) map[string][]conference.Speaker {
	bySlug := make(map[string][]conference.Speaker)
	for _, id := range sortedIDs(speakers) {
		slug := conference.Slug(id)
		bySlug[slug] = append(bySlug[slug], speakers[id])
	}
	for slug, group := range bySlug {
		if len(group) < 2 {
			delete(bySlug, slug)
		}
	}
	return bySlug
}

// mergeGroup builds the canonical document for one duplicate group.
func mergeGroup(canonical string, docs []conference.Speaker) conference.Speaker {
	merged := conference.Speaker{
		ID:             canonical,
		Name:           pickString(docs, func(s *conference.Speaker) string { return s.Name }),
		Bio:            pickString(docs, func(s *conference.Speaker) string { return s.Bio }),
		ShortBio:       pickString(docs, func(s *conference.Speaker) string { return s.ShortBio }),
		Company:        pickString(docs, func(s *conference.Speaker) string { return s.Company }),
		Title:          pickString(docs, func(s *conference.Speaker) string { return s.Title }),
		Country:        pickString(docs, func(s *conference.Speaker) string { return s.Country }),
		Pronouns:       pickString(docs, func(s *conference.Speaker) string { return s.Pronouns }),
		Photo:          pickString(docs, func(s *conference.Speaker) string { return s.Photo }),
		PhotoURL:       pickString(docs, func(s *conference.Speaker) string { return s.PhotoURL }),
		CompanyLogo:    pickString(docs, func(s *conference.Speaker) string { return s.CompanyLogo }),
		CompanyLogoURL: pickString(docs, func(s *conference.Speaker) string { return s.CompanyLogoURL }),
		Order:          pickOrder(docs),
		Socials:        pickSlice(docs, func(s *conference.Speaker) []conference.Social { return s.Socials }),
		Badges:         pickSlice(docs, func(s *conference.Speaker) []conference.Badge { return s.Badges }),
		History:        mergeHistory(docs),
	}
	for _, d := range docs {
		merged.Active = merged.Active || d.Active
		merged.Featured = merged.Featured || d.Featured
	}
	return merged
}

// mergeHistory unions the per-year snapshots of all duplicates. On a year
// collision the variant with more talks wins; ties go to the later-seen
// duplicate. The policy is arbitrary but deterministic given the sorted
// group order.
func mergeHistory(docs []conference.Speaker) map[string]conference.YearSnapshot {
	merged := make(map[string]conference.YearSnapshot)
	for _, d := range docs {
		for _, year := range d.HistoryYears() {
			incoming := d.History[year]
			existing, ok := merged[year]
			if !ok || len(incoming.Talks) >= len(existing.Talks) {
				merged[year] = incoming
			}
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// pickString prefers the first active duplicate's non-empty value, then
// the longest non-empty value.
func pickString(docs []conference.Speaker, get func(*conference.Speaker) string) string {
	for i := range docs {
		if docs[i].Active && get(&docs[i]) != "" {
			return get(&docs[i])
		}
	}
	best := ""
	for i := range docs {
		if v := get(&docs[i]); len(v) > len(best) {
			best = v
		}
	}
	return best
}

// pickSlice prefers the first active duplicate's non-empty value, then
// the longest serialized non-empty value.
func pickSlice[T any](docs []conference.Speaker, get func(*conference.Speaker) []T) []T {
	for i := range docs {
		if docs[i].Active && len(get(&docs[i])) > 0 {
			return get(&docs[i])
		}
	}
	var best []T
	bestLen := 0
	for i := range docs {
		v := get(&docs[i])
		if len(v) == 0 {
			continue
		}
		serialized, err := json.Marshal(v)
		if err != nil {
			continue
		}
		if len(serialized) > bestLen {
			best = v
			bestLen = len(serialized)
		}
	}
	return best
}

// pickOrder prefers the first active duplicate's non-zero order, then the
// first non-zero order in group order.
func pickOrder(docs []conference.Speaker) int {
	for i := range docs {
		if docs[i].Active && docs[i].Order != 0 {
			return docs[i].Order
		}
	}
	for i := range docs {
		if docs[i].Order != 0 {
			return docs[i].Order
		}
	}
	return 0
}

// rewriteSpeakerRefs replaces alias IDs with the canonical ID, preserving
// order and dropping duplicates that result from the rewrite.
func rewriteSpeakerRefs(refs []string, aliases map[string]struct{}, canonical string) ([]string, bool) {
	changed := false
	for _, id := range refs {
		if _, isAlias := aliases[id]; isAlias {
			changed = true
			break
		}
	}
	if !changed {
		return refs, false
	}

	seen := make(map[string]struct{}, len(refs))
	updated := make([]string, 0, len(refs))
	for _, id := range refs {
		if _, isAlias := aliases[id]; isAlias {
			id = canonical
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		updated = append(updated, id)
	}
	return updated, true
}
