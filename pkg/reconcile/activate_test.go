package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
)

func activateFixture() map[string]map[string]docstore.Document {
	return map[string]map[string]docstore.Document{
		conference.CollectionSessions: {
			"100": docstore.Document(`{"title":"A","speakers":["alice"]}`),
			"101": docstore.Document(`{"title":"B","speakers":["Bob","ghost"]}`),
		},
		conference.CollectionSpeakers: {
			"alice": docstore.Document(`{"name":"Alice","active":true}`),
			"bob":   docstore.Document(`{"name":"Bob","active":false}`),
			"carol": docstore.Document(`{"name":"Carol","active":false}`),
		},
	}
}

func TestActivateSpeakers(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, activateFixture())

	report, err := ActivateSpeakers(ctx, client, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Activated)
	assert.Equal(t, 1, report.AlreadyActive)
	assert.Equal(t, 1, report.Missing)

	// The "Bob" reference is normalized to lowercase before lookup.
	bob, err := client.Speaker(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, bob.Active)

	// Unreferenced speakers stay as they are.
	carol, err := client.Speaker(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, carol.Active)
}

func TestActivateSpeakersDryRun(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, activateFixture())

	report, err := ActivateSpeakers(ctx, client, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Activated)

	bob, err := client.Speaker(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, bob.Active)
}

func TestActivateSpeakersNoSessions(t *testing.T) {
	client := seededClient(t, map[string]map[string]docstore.Document{
		conference.CollectionSpeakers: {
			"alice": docstore.Document(`{"name":"Alice"}`),
		},
	})

	report, err := ActivateSpeakers(context.Background(), client, false)
	require.NoError(t, err)
	assert.Zero(t, report.Activated)
}

func TestValidateYear(t *testing.T) {
	assert.NoError(t, ValidateYear("2026"))
	assert.Error(t, ValidateYear(""))
	assert.Error(t, ValidateYear("26"))
	assert.Error(t, ValidateYear("20266"))
	assert.Error(t, ValidateYear("year"))
}

func TestScheduledTalks(t *testing.T) {
	sessions := map[string]conference.Session{
		"100": {Title: "Keynote", Speakers: []string{"alice"}, Tags: []string{"keynote"}},
		"101": {Title: "Panel", Speakers: []string{"alice", "bob"}},
	}
	days := []conference.ScheduleDay{
		{
			Date: "2026-06-20",
			Timeslots: []conference.Timeslot{
				{Sessions: []conference.SlotSessions{{Items: []string{"100", "101", "dangling"}}}},
			},
		},
	}

	talks := scheduledTalks(sessions, days)
	require.Len(t, talks["alice"], 2)
	assert.Equal(t, "Keynote", talks["alice"][0].Title)
	assert.Equal(t, "Panel", talks["alice"][1].Title)
	require.Len(t, talks["bob"], 1)
	assert.NotContains(t, talks, "dangling")
}
