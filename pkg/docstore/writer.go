package docstore

import (
	"context"
	"sort"

	"github.com/openconf/stagehand/pkg/errors"
	"github.com/openconf/stagehand/pkg/logging"
)

// WriteAll persists a document set to a collection in bounded-size chunks,
// one atomic commit per chunk, sequentially. Document IDs are committed in
// sorted order so repeated runs produce identical commit sequences.
//
// A failure mid-sequence leaves earlier chunks committed and later chunks
// unwritten. Callers rely on the whole computation being idempotent and
// safely re-triggerable rather than on transactional all-or-nothing writes.
func WriteAll(ctx context.Context, s Store, collection string, docs map[string]Document) error {
	if len(docs) == 0 {
		return errors.NewEmptyWriteError(collection)
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	log := logging.FromContext(ctx)
	for start := 0; start < len(ids); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		batch := NewBatch()
		for _, id := range ids[start:end] {
			batch.Set(collection, id, docs[id])
		}
		if err := s.Commit(ctx, batch); err != nil {
			return errors.WrapStore("commit", collection, "", err)
		}
		log.Debug().
			Str("collection", collection).
			Int("written", end).
			Int("total", len(ids)).
			Msg("Committed chunk")
	}
	return nil
}

// DeleteAll removes every document in a collection in bounded-size chunks.
// It returns the number of documents deleted.
func DeleteAll(ctx context.Context, s Store, collection string) (int, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return 0, errors.WrapStore("list", collection, "", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	deleted := 0
	for start := 0; start < len(ids); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		batch := NewBatch()
		for _, id := range ids[start:end] {
			batch.Delete(collection, id)
		}
		if err := s.Commit(ctx, batch); err != nil {
			return deleted, errors.WrapStore("commit", collection, "", err)
		}
		deleted += end - start
	}
	return deleted, nil
}

// CommitChunked applies an arbitrary sequence of staged writes in
// bounded-size chunks, preserving order. Operations belonging to one
// logical group may span a chunk boundary; callers must be idempotent
// under partial failure, the same as with WriteAll.
func CommitChunked(ctx context.Context, s Store, writes []Write) error {
	for start := 0; start < len(writes); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(writes) {
			end = len(writes)
		}

		batch := NewBatch()
		batch.writes = append(batch.writes, writes[start:end]...)
		if err := s.Commit(ctx, batch); err != nil {
			return errors.WrapStore("commit", "", "", err)
		}
	}
	return nil
}
