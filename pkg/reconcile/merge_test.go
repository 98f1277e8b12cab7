package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/docstore/memory"
	"github.com/openconf/stagehand/pkg/errors"
)

func seededClient(t *testing.T, data map[string]map[string]docstore.Document) *conference.Client {
	t.Helper()
	store := memory.New(memory.WithSeed(data))
	t.Cleanup(func() { _ = store.Close() })
	return conference.NewClient(store)
}

func TestMergeSpeakersCaseVariants(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, map[string]map[string]docstore.Document{
		conference.CollectionSpeakers: {
			"Amit_Jotwani": docstore.Document(`{
				"name": "Amit Jotwani",
				"bio": "Short bio",
				"active": false,
				"history": {"2023": {"bio": "b", "company": "c", "title": "t", "talks": [{"title": "Old Talk", "tags": []}]}}
			}`),
			"amit_jotwani": docstore.Document(`{
				"name": "Amit Jotwani",
				"bio": "A much longer biography that the inactive doc carries",
				"company": "Example Inc",
				"active": true,
				"history": {"2024": {"bio": "b", "company": "c", "title": "t", "talks": []}}
			}`),
		},
		conference.CollectionSessions: {
			"100": docstore.Document(`{"title":"Voice Interfaces","speakers":["Amit_Jotwani"]}`),
			"101": docstore.Document(`{"title":"Panel","speakers":["Amit_Jotwani","amit_jotwani"]}`),
		},
	})

	report, err := MergeSpeakers(ctx, client, false)
	require.NoError(t, err)

	require.Len(t, report.Groups, 1)
	group := report.Groups[0]
	assert.Equal(t, "amit_jotwani", group.Canonical)
	assert.Equal(t, []string{"Amit_Jotwani"}, group.Aliases)
	assert.Equal(t, []string{"2023", "2024"}, group.Years)
	assert.ElementsMatch(t, []string{"100", "101"}, group.Sessions)

	// The alias document is gone; the canonical one carries the union.
	_, err = client.Speaker(ctx, "Amit_Jotwani")
	assert.True(t, errors.IsNotFound(err))

	merged, err := client.Speaker(ctx, "amit_jotwani")
	require.NoError(t, err)
	assert.True(t, merged.Active)
	// The active doc's non-empty bio wins over the longer inactive one.
	assert.Equal(t, "A much longer biography that the inactive doc carries", merged.Bio)
	assert.Equal(t, "Example Inc", merged.Company)
	assert.Len(t, merged.History, 2)
	assert.Len(t, merged.History["2023"].Talks, 1)

	// Session references rewritten, duplicates collapsed.
	sessions, err := client.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"amit_jotwani"}, sessions["100"].Speakers)
	assert.Equal(t, []string{"amit_jotwani"}, sessions["101"].Speakers)
}

func TestMergeSpeakersFieldPreference(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, map[string]map[string]docstore.Document{
		conference.CollectionSpeakers: {
			"Jane_Doe": docstore.Document(`{"name":"Jane","bio":"very long inactive bio text","active":false,"order":7}`),
			"jane_doe": docstore.Document(`{"name":"Jane Doe","active":true}`),
		},
	})

	report, err := MergeSpeakers(ctx, client, false)
	require.NoError(t, err)
	require.Len(t, report.Groups, 1)

	merged, err := client.Speaker(ctx, "jane_doe")
	require.NoError(t, err)
	// The active doc has no bio, so the longest non-empty value wins.
	assert.Equal(t, "very long inactive bio text", merged.Bio)
	assert.Equal(t, "Jane Doe", merged.Name)
	assert.Equal(t, 7, merged.Order)
	assert.True(t, merged.Active)
}

func TestMergeSpeakersHistoryCollision(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, map[string]map[string]docstore.Document{
		conference.CollectionSpeakers: {
			"Bob": docstore.Document(`{"name":"Bob","history":{"2024":{"bio":"","company":"","title":"","talks":[{"title":"One","tags":[]},{"title":"Two","tags":[]}]}}}`),
			"bob": docstore.Document(`{"name":"Bob","history":{"2024":{"bio":"","company":"","title":"","talks":[{"title":"Solo","tags":[]}]}}}`),
		},
	})

	_, err := MergeSpeakers(ctx, client, false)
	require.NoError(t, err)

	merged, err := client.Speaker(ctx, "bob")
	require.NoError(t, err)
	// The variant with more talks wins the year collision.
	require.Len(t, merged.History["2024"].Talks, 2)
	assert.Equal(t, "One", merged.History["2024"].Talks[0].Title)
}

func TestMergeSpeakersHistoryTieGoesToLastSeen(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, map[string]map[string]docstore.Document{
		conference.CollectionSpeakers: {
			"Eve": docstore.Document(`{"name":"Eve","history":{"2024":{"bio":"first","company":"","title":"","talks":[]}}}`),
			"eve": docstore.Document(`{"name":"Eve","history":{"2024":{"bio":"second","company":"","title":"","talks":[]}}}`),
		},
	})

	_, err := MergeSpeakers(ctx, client, false)
	require.NoError(t, err)

	merged, err := client.Speaker(ctx, "eve")
	require.NoError(t, err)
	// Group members sort by ID ("Eve" < "eve"), so the later-seen
	// lowercase doc wins the equal-talk-count tie.
	assert.Equal(t, "second", merged.History["2024"].Bio)
}

func TestMergeSpeakersNoDuplicates(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, map[string]map[string]docstore.Document{
		conference.CollectionSpeakers: {
			"alice": docstore.Document(`{"name":"Alice"}`),
			"bob":   docstore.Document(`{"name":"Bob"}`),
		},
	})

	report, err := MergeSpeakers(ctx, client, false)
	require.NoError(t, err)
	assert.Empty(t, report.Groups)
	assert.Contains(t, report.Summary(), "No duplicate speakers")
}

func TestMergeSpeakersDryRun(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, map[string]map[string]docstore.Document{
		conference.CollectionSpeakers: {
			"Bob": docstore.Document(`{"name":"Bob"}`),
			"bob": docstore.Document(`{"name":"Bob","active":true}`),
		},
	})

	report, err := MergeSpeakers(ctx, client, true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.SpeakersMerged)

	// Nothing was written.
	_, err = client.Speaker(ctx, "Bob")
	assert.NoError(t, err)
	assert.Contains(t, report.Summary(), "[dry-run]")
}

func TestMergeSpeakersIdempotent(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, map[string]map[string]docstore.Document{
		conference.CollectionSpeakers: {
			"Bob": docstore.Document(`{"name":"Bob"}`),
			"bob": docstore.Document(`{"name":"Bob","active":true}`),
		},
	})

	first, err := MergeSpeakers(ctx, client, false)
	require.NoError(t, err)
	assert.Equal(t, 1, first.SpeakersMerged)

	second, err := MergeSpeakers(ctx, client, false)
	require.NoError(t, err)
	assert.Zero(t, second.SpeakersMerged)
}

func TestRewriteSpeakerRefs(t *testing.T) {
	aliases := map[string]struct{}{"Bob": {}}

	updated, changed := rewriteSpeakerRefs([]string{"alice", "Bob"}, aliases, "bob")
	assert.True(t, changed)
	assert.Equal(t, []string{"alice", "bob"}, updated)

	// Rewriting can introduce a duplicate; it is dropped.
	updated, changed = rewriteSpeakerRefs([]string{"bob", "Bob"}, aliases, "bob")
	assert.True(t, changed)
	assert.Equal(t, []string{"bob"}, updated)

	_, changed = rewriteSpeakerRefs([]string{"alice"}, aliases, "bob")
	assert.False(t, changed)
}
