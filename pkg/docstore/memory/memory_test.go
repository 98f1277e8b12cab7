package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/errors"
)

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Get(ctx, "speakers", "alice")
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, store.Set(ctx, "speakers", "alice", docstore.Document(`{"name":"Alice"}`)))

	doc, err := store.Get(ctx, "speakers", "alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice"}`, string(doc))

	require.NoError(t, store.Delete(ctx, "speakers", "alice"))
	_, err = store.Get(ctx, "speakers", "alice")
	assert.True(t, errors.IsNotFound(err))

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(ctx, "speakers", "alice"))
}

func TestListEmptyCollection(t *testing.T) {
	store := New()

	docs, err := store.List(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestSeed(t *testing.T) {
	store := New(WithSeed(map[string]map[string]docstore.Document{
		"sessions": {
			"100": docstore.Document(`{"title":"Opening"}`),
			"101": docstore.Document(`{"title":"Closing"}`),
		},
	}))

	docs, err := store.List(context.Background(), "sessions")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestCommitAtomicBatch(t *testing.T) {
	ctx := context.Background()
	store := New()

	batch := docstore.NewBatch().
		Set("speakers", "alice", docstore.Document(`{}`)).
		Set("speakers", "bob", docstore.Document(`{}`)).
		Delete("speakers", "alice")
	require.NoError(t, store.Commit(ctx, batch))

	docs, err := store.List(ctx, "speakers")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Contains(t, docs, "bob")
}

func TestCommitOverLimit(t *testing.T) {
	store := New()

	batch := docstore.NewBatch()
	for i := 0; i <= docstore.MaxBatchSize; i++ {
		batch.Set("sessions", fmt.Sprintf("%d", i), docstore.Document(`{}`))
	}

	err := store.Commit(context.Background(), batch)
	require.Error(t, err)
	assert.True(t, errors.IsBatchLimit(err))

	// Nothing from the rejected batch lands.
	docs, err := store.List(context.Background(), "sessions")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentsAreCopied(t *testing.T) {
	ctx := context.Background()
	store := New()

	original := docstore.Document(`{"name":"Alice"}`)
	require.NoError(t, store.Set(ctx, "speakers", "alice", original))
	original[2] = 'X'

	doc, err := store.Get(ctx, "speakers", "alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice"}`, string(doc))
}

func TestWatchDeliversCommittedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := New()

	events := store.Watch(ctx)

	batch := docstore.NewBatch().
		Set("speakers", "alice", docstore.Document(`{}`)).
		Delete("sessions", "100")
	require.NoError(t, store.Commit(ctx, batch))

	ev := waitEvent(t, events)
	assert.Equal(t, docstore.Event{Collection: "speakers", ID: "alice", Op: docstore.OpSet}, ev)

	ev = waitEvent(t, events)
	assert.Equal(t, docstore.Event{Collection: "sessions", ID: "100", Op: docstore.OpDelete}, ev)
}

func TestWatchFilteredByCollection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := New()

	events := store.Watch(ctx, "speakers", "sessions")

	// Writes to other collections never reach the subscriber buffer.
	require.NoError(t, store.Set(ctx, "generatedSpeakers", "alice", docstore.Document(`{}`)))
	require.NoError(t, store.Set(ctx, "speakers", "alice", docstore.Document(`{}`)))

	ev := waitEvent(t, events)
	assert.Equal(t, "speakers", ev.Collection)

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for collection %s", ev.Collection)
	default:
	}
}

func TestWatchCancelWhileCommitting(t *testing.T) {
	store := New()
	defer store.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_ = store.Set(context.Background(), "speakers", "alice", docstore.Document(`{}`))
		}
	}()

	// Subscribing and cancelling while commits are in flight must not
	// panic with a send on the closed channel.
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		events := store.Watch(ctx)
		cancel()
		for range events {
		}
	}
	<-done
}

func TestWatchClosedOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := New()

	events := store.Watch(ctx)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}

func TestCloseClosesWatchersAndRejectsWrites(t *testing.T) {
	ctx := context.Background()
	store := New()

	events := store.Watch(ctx)
	require.NoError(t, store.Close())

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed after store close")
	}

	err := store.Set(ctx, "speakers", "alice", docstore.Document(`{}`))
	assert.ErrorIs(t, err, errors.ErrStoreClosed)

	// Closing twice is fine.
	assert.NoError(t, store.Close())
}

func waitEvent(t *testing.T, events <-chan docstore.Event) docstore.Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "watch channel closed unexpectedly")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return docstore.Event{}
	}
}
