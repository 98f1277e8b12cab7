// Package sqlite provides a SQLite-backed document store using the pure-Go
// modernc.org/sqlite driver. Documents live in a single table keyed by
// (collection, id); a batch commit maps to one SQL transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/errors"
)

const watchBuffer = 256

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);
`

// Store is a SQLite-backed docstore.Store implementation.
//
// Write notifications are in-process only: watchers see writes made
// through this Store, not writes from other processes sharing the file.
type Store struct {
	db *sql.DB

	mu sync.Mutex

	// watchers maps each subscriber channel to its collection filter;
	// a nil filter means all collections. Channels are sent to and
	// closed only while mu is held.
	watchers map[chan docstore.Event]map[string]struct{}

	closed bool
}

// Open opens (creating if needed) a SQLite-backed store at the given path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{
		db:       db,
		watchers: make(map[chan docstore.Event]map[string]struct{}),
	}, nil
}

// Get returns the document with the given ID.
func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(collection, id)
	}
	if err != nil {
		return nil, errors.WrapStore("get", collection, id, err)
	}
	return docstore.Document(body), nil
}

// List returns all documents in a collection, keyed by ID.
func (s *Store) List(ctx context.Context, collection string) (map[string]docstore.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = ? ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, errors.WrapStore("list", collection, "", err)
	}
	defer rows.Close()

	docs := make(map[string]docstore.Document)
	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return nil, errors.WrapStore("list", collection, "", err)
		}
		docs[id] = docstore.Document(body)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStore("list", collection, "", err)
	}
	return docs, nil
}

// Set writes a single document.
func (s *Store) Set(ctx context.Context, collection, id string, doc docstore.Document) error {
	return s.Commit(ctx, docstore.NewBatch().Set(collection, id, doc))
}

// Delete removes a single document. Deleting a missing document is a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return s.Commit(ctx, docstore.NewBatch().Delete(collection, id))
}

// Commit applies a batch as a single transaction and notifies watchers.
func (s *Store) Commit(ctx context.Context, batch *docstore.Batch) error {
	if err := docstore.ValidateBatch(batch); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapStore("commit", "", "", err)
	}
	defer tx.Rollback()

	for _, w := range batch.Writes() {
		switch w.Op {
		case docstore.OpSet:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)
				 ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body`,
				w.Collection, w.ID, []byte(w.Doc),
			)
		case docstore.OpDelete:
			_, err = tx.ExecContext(ctx,
				`DELETE FROM documents WHERE collection = ? AND id = ?`,
				w.Collection, w.ID,
			)
		}
		if err != nil {
			return errors.WrapStore(string(w.Op), w.Collection, w.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapStore("commit", "", "", err)
	}

	s.notify(batch)
	return nil
}

// notify delivers post-commit events to watchers, dropping on full
// buffers. Delivery happens under the lock: a channel can only be closed
// under the same lock, so no send can race a close.
func (s *Store) notify(batch *docstore.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch, filter := range s.watchers {
		for _, w := range batch.Writes() {
			if filter != nil {
				if _, ok := filter[w.Collection]; !ok {
					continue
				}
			}
			select {
			case ch <- docstore.Event{Collection: w.Collection, ID: w.ID, Op: w.Op}:
			default:
			}
		}
	}
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

// Close closes the database and all watch channels.
func (s *Store) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		for ch := range s.watchers {
			close(ch)
		}
		s.watchers = make(map[chan docstore.Event]map[string]struct{})
	}
	s.mu.Unlock()
	return s.db.Close()
}
