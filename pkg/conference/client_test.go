package conference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/docstore/memory"
)

func seededClient(t *testing.T, data map[string]map[string]docstore.Document) *Client {
	t.Helper()
	store := memory.New(memory.WithSeed(data))
	t.Cleanup(func() { _ = store.Close() })
	return NewClient(store)
}

func TestSessionsCarryIDs(t *testing.T) {
	client := seededClient(t, map[string]map[string]docstore.Document{
		CollectionSessions: {
			"100": docstore.Document(`{"title":"Opening","speakers":["alice"]}`),
		},
	})

	sessions, err := client.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "100", sessions["100"].ID)
	assert.Equal(t, "Opening", sessions["100"].Title)
}

func TestScheduleSortedDateDescending(t *testing.T) {
	client := seededClient(t, map[string]map[string]docstore.Document{
		CollectionSchedule: {
			"2026-06-19": docstore.Document(`{"date":"2026-06-19","tracks":[],"timeslots":[]}`),
			"2026-06-20": docstore.Document(`{"date":"2026-06-20","tracks":[],"timeslots":[]}`),
			"2026-06-18": docstore.Document(`{"tracks":[],"timeslots":[]}`),
		},
	})

	days, err := client.Schedule(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-06-20", days[0].Date)
	assert.Equal(t, "2026-06-19", days[1].Date)
	// A day without a date field falls back to its document ID.
	assert.Equal(t, "2026-06-18", days[2].Date)
}

func TestScheduleEnabled(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"boolean true", `{"enabled":true}`, true},
		{"boolean false", `{"enabled":false}`, false},
		{"string true", `{"enabled":"true"}`, true},
		{"string false", `{"enabled":"false"}`, false},
		{"other type", `{"enabled":1}`, false},
		{"missing field", `{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := seededClient(t, map[string]map[string]docstore.Document{
				CollectionConfig: {
					ScheduleConfigID: docstore.Document(tt.doc),
				},
			})
			assert.Equal(t, tt.want, client.ScheduleEnabled(context.Background()))
		})
	}

	t.Run("missing document", func(t *testing.T) {
		client := seededClient(t, nil)
		assert.False(t, client.ScheduleEnabled(context.Background()))
	})
}

func TestPutSpeakerRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := seededClient(t, nil)

	require.NoError(t, client.PutSpeaker(ctx, Speaker{
		ID:     "alice",
		Name:   "Alice",
		Active: true,
	}))

	sp, err := client.Speaker(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", sp.ID)
	assert.Equal(t, "Alice", sp.Name)
	assert.True(t, sp.Active)
}

func TestScheduledSessionIDs(t *testing.T) {
	days := []ScheduleDay{
		{
			Date: "2026-06-20",
			Timeslots: []Timeslot{
				{Sessions: []SlotSessions{{Items: []string{"100"}}, {Items: []string{"101"}}}},
				{Sessions: []SlotSessions{{Items: []string{}}, {Items: []string{"100"}}}},
			},
		},
		{
			Date: "2026-06-21",
			Timeslots: []Timeslot{
				{Sessions: []SlotSessions{{Items: []string{"102"}}}},
			},
		},
	}

	ids := ScheduledSessionIDs(days)
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, "100")
	assert.Contains(t, ids, "101")
	assert.Contains(t, ids, "102")
}
