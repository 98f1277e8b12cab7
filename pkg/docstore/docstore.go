// Package docstore defines the document store contract used by the
// stagehand system: named collections of JSON documents keyed by string
// IDs, with atomic bounded-size batch commits and write notifications.
//
// Two backends implement the contract: an in-memory store (tests and
// ephemeral runs) and a SQLite-backed store (durable operation). Both
// deliver write events to watchers after a commit succeeds, which is what
// drives the denormalization engine.
package docstore

import (
	"context"
	"encoding/json"

	"github.com/openconf/stagehand/pkg/errors"
)

// MaxBatchSize is the maximum number of operations a single batch commit
// may carry. Commits above this limit are rejected with a BatchLimitError;
// callers writing larger sets go through WriteAll or CommitChunked.
const MaxBatchSize = 500

// Document is a raw JSON document body.
type Document = json.RawMessage

// Op identifies the kind of a write operation.
type Op string

// Write operation kinds.
const (
	OpSet    Op = "set"
	OpDelete Op = "delete"
)

// Event describes a committed write, delivered to watchers.
type Event struct {
	Collection string
	ID         string
	Op         Op
}

// Write is a single staged operation inside a batch.
type Write struct {
	Op         Op
	Collection string
	ID         string
	Doc        Document
}

// Batch accumulates writes for a single atomic commit.
// A batch is not safe for concurrent use.
type Batch struct {
	writes []Write
}

// NewBatch creates an empty write batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Set stages a full-document write.
func (b *Batch) Set(collection, id string, doc Document) *Batch {
	b.writes = append(b.writes, Write{Op: OpSet, Collection: collection, ID: id, Doc: doc})
	return b
}

// Delete stages a document deletion.
func (b *Batch) Delete(collection, id string) *Batch {
	b.writes = append(b.writes, Write{Op: OpDelete, Collection: collection, ID: id})
	return b
}

// Len returns the number of staged operations.
func (b *Batch) Len() int {
	return len(b.writes)
}

// Writes returns the staged operations in order.
func (b *Batch) Writes() []Write {
	return b.writes
}

// Store is the document store contract.
//
// Get returns ErrNotFound (via errors.Is) for missing documents. List
// returns an empty map, not an error, for an empty or missing collection.
// Commit applies all staged operations atomically and rejects batches
// larger than MaxBatchSize.
type Store interface {
	// Get returns the document with the given ID.
	Get(ctx context.Context, collection, id string) (Document, error)

	// List returns all documents in a collection, keyed by ID.
	List(ctx context.Context, collection string) (map[string]Document, error)

	// Set writes a single document.
	Set(ctx context.Context, collection, id string, doc Document) error

	// Delete removes a single document. Deleting a missing document is a no-op.
	Delete(ctx context.Context, collection, id string) error

	// Commit applies a batch atomically.
	Commit(ctx context.Context, batch *Batch) error

	// Watch returns a channel of committed write events, limited to the
	// given collections; with no collections every write is delivered.
	// The channel is closed when ctx is cancelled or the store is
	// closed. Delivery is best-effort: events to a full subscriber
	// buffer are dropped.
	Watch(ctx context.Context, collections ...string) <-chan Event

	// Close releases the store's resources and closes all watch channels.
	Close() error
}

// ValidateBatch checks a batch against the per-commit operation limit.
func ValidateBatch(b *Batch) error {
	if b.Len() > MaxBatchSize {
		return errors.NewBatchLimitError(b.Len(), MaxBatchSize)
	}
	return nil
}
