// Package memory provides an in-memory document store. It backs tests and
// ephemeral runs, and mirrors the durable SQLite backend's semantics:
// atomic bounded batches and post-commit write notifications.
package memory

import (
	"context"
	"sync"

	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/errors"
)

// watchBuffer is the per-subscriber event buffer size. Events beyond a
// full buffer are dropped rather than blocking the writer.
const watchBuffer = 256

// Option configures a memory store.
type Option func(*Store)

// WithSeed preloads the store with collections of documents.
func WithSeed(data map[string]map[string]docstore.Document) Option {
	return func(s *Store) {
		for collection, docs := range data {
			target := make(map[string]docstore.Document, len(docs))
			for id, doc := range docs {
				target[id] = append(docstore.Document(nil), doc...)
			}
			s.collections[collection] = target
		}
	}
}

// Store is an in-memory docstore.Store implementation.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]docstore.Document

	// watchers maps each subscriber channel to its collection filter;
	// a nil filter means all collections. Channels are sent to and
	// closed only while mu is held.
	watchers map[chan docstore.Event]map[string]struct{}

	closed bool
}

// New creates an in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]map[string]docstore.Document),
		watchers:    make(map[chan docstore.Event]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the document with the given ID.
func (s *Store) Get(_ context.Context, collection, id string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.ErrStoreClosed
	}

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, errors.NewNotFoundError(collection, id)
	}
	return append(docstore.Document(nil), doc...), nil
}

// List returns all documents in a collection, keyed by ID.
func (s *Store) List(_ context.Context, collection string) (map[string]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.ErrStoreClosed
	}

	out := make(map[string]docstore.Document, len(s.collections[collection]))
	for id, doc := range s.collections[collection] {
		out[id] = append(docstore.Document(nil), doc...)
	}
	return out, nil
}

// Set writes a single document.
func (s *Store) Set(ctx context.Context, collection, id string, doc docstore.Document) error {
	return s.Commit(ctx, docstore.NewBatch().Set(collection, id, doc))
}

// Delete removes a single document. Deleting a missing document is a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return s.Commit(ctx, docstore.NewBatch().Delete(collection, id))
}

// Commit applies a batch atomically and notifies watchers.
func (s *Store) Commit(_ context.Context, batch *docstore.Batch) error {
	if err := docstore.ValidateBatch(batch); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrStoreClosed
	}

	events := make([]docstore.Event, 0, batch.Len())
	for _, w := range batch.Writes() {
		switch w.Op {
		case docstore.OpSet:
			target := s.collections[w.Collection]
			if target == nil {
				target = make(map[string]docstore.Document)
				s.collections[w.Collection] = target
			}
			target[w.ID] = append(docstore.Document(nil), w.Doc...)
		case docstore.OpDelete:
			delete(s.collections[w.Collection], w.ID)
		}
		events = append(events, docstore.Event{Collection: w.Collection, ID: w.ID, Op: w.Op})
	}

	// Deliver while still holding the lock: a channel can only be
	// closed under the same lock, so no send can race a close. The
	// sends never block; events to a full buffer are dropped.
	for ch, filter := range s.watchers {
		for _, ev := range events {
			if filter != nil {
				if _, ok := filter[ev.Collection]; !ok {
					continue
				}
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
	return nil
}

// Watch returns a channel of committed write events, limited to the
// given collections (all collections when none are given).
func (s *Store) Watch(ctx context.Context, collections ...string) <-chan docstore.Event {
	ch := make(chan docstore.Event, watchBuffer)

	var filter map[string]struct{}
	if len(collections) > 0 {
		filter = make(map[string]struct{}, len(collections))
		for _, c := range collections {
			filter[c] = struct{}{}
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	s.watchers[ch] = filter
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}()

	return ch
}

// Close releases the store and closes all watch channels.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for ch := range s.watchers {
		close(ch)
	}
	s.watchers = make(map[chan docstore.Event]map[string]struct{})
	return nil
}
