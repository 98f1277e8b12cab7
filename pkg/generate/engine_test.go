package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/docstore/memory"
)

func seededEngine(t *testing.T, data map[string]map[string]docstore.Document) (*Engine, docstore.Store) {
	t.Helper()
	store := memory.New(memory.WithSeed(data))
	t.Cleanup(func() { _ = store.Close() })
	return New(conference.NewClient(store)), store
}

func sourceFixture() map[string]map[string]docstore.Document {
	return map[string]map[string]docstore.Document{
		conference.CollectionSessions: {
			"100": docstore.Document(`{"title":"Opening Keynote","speakers":["alice"],"tags":["keynote"]}`),
		},
		conference.CollectionSpeakers: {
			"alice": docstore.Document(`{"name":"Alice","active":true}`),
		},
		conference.CollectionConfig: {
			conference.ScheduleConfigID: docstore.Document(`{"enabled":false}`),
		},
	}
}

func TestRecomputeWritesGeneratedViews(t *testing.T) {
	ctx := context.Background()
	engine, store := seededEngine(t, sourceFixture())

	require.NoError(t, engine.Recompute(ctx, nil))

	sessions, err := store.List(ctx, conference.CollectionGeneratedSessions)
	require.NoError(t, err)
	require.Contains(t, sessions, "100")

	var gen conference.GeneratedSession
	require.NoError(t, json.Unmarshal(sessions["100"], &gen))
	assert.Equal(t, "keynote", gen.MainTag)
	require.Len(t, gen.Speakers, 1)
	assert.Equal(t, "Alice", gen.Speakers[0].Name)

	speakers, err := store.List(ctx, conference.CollectionGeneratedSpeakers)
	require.NoError(t, err)
	assert.Contains(t, speakers, "alice")
}

func TestRecomputeIdempotent(t *testing.T) {
	ctx := context.Background()
	engine, store := seededEngine(t, sourceFixture())

	require.NoError(t, engine.Recompute(ctx, nil))
	first, err := store.List(ctx, conference.CollectionGeneratedSpeakers)
	require.NoError(t, err)

	require.NoError(t, engine.Recompute(ctx, nil))
	second, err := store.List(ctx, conference.CollectionGeneratedSpeakers)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for id, doc := range first {
		assert.True(t, bytes.Equal(doc, second[id]), "document %s changed between identical runs", id)
	}
}

func TestRecomputeEmptyResultGuard(t *testing.T) {
	ctx := context.Background()
	engine, store := seededEngine(t, map[string]map[string]docstore.Document{
		conference.CollectionGeneratedSpeakers: {
			"alice": docstore.Document(`{"name":"Alice"}`),
		},
	})

	// Empty sources compute empty views; the existing generated data
	// must survive instead of being wiped.
	require.NoError(t, engine.Recompute(ctx, nil))

	speakers, err := store.List(ctx, conference.CollectionGeneratedSpeakers)
	require.NoError(t, err)
	assert.Contains(t, speakers, "alice")
}

func TestRecomputeInjectsChangedSpeaker(t *testing.T) {
	ctx := context.Background()
	engine, store := seededEngine(t, sourceFixture())

	changed := &conference.Speaker{ID: "dora", Name: "Dora", Active: true}
	require.NoError(t, engine.Recompute(ctx, changed))

	speakers, err := store.List(ctx, conference.CollectionGeneratedSpeakers)
	require.NoError(t, err)
	assert.Contains(t, speakers, "dora")
}
