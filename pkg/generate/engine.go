package generate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/logging"
)

// Engine recomputes the generated views from the source collections and
// persists them through the batched writer. It has no dry-run: a
// recompute always commits.
//
// Concurrent recomputes are safe but race: each run is an independent
// full read then full write, so the slower run's chunks win per
// collection. The Watcher serializes trigger-driven runs to avoid this.
type Engine struct {
	client *conference.Client
	logger *zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine over a typed store client.
func New(client *conference.Client, opts ...Option) *Engine {
	e := &Engine{
		client: client,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recompute snapshots the source collections, runs the join, and
// overwrites the three generated collections.
//
// An empty computed map for any collection is treated as a probable
// transient read failure: its write is skipped and logged as an error
// rather than wiping a live collection. Skipped writes do not fail the
// run.
func (e *Engine) Recompute(ctx context.Context, changed *conference.Speaker) error {
	ctx = logging.WithLogger(ctx, e.logger)

	snap, err := Load(ctx, e.client)
	if err != nil {
		return err
	}

	out := Build(*snap, changed)
	e.logger.Debug().
		Int("sessions", len(out.Sessions)).
		Int("speakers", len(out.Speakers)).
		Int("schedule_days", len(out.Schedule)).
		Bool("schedule_enabled", snap.ScheduleEnabled).
		Msg("Computed generated views")

	if err := save(ctx, e, conference.CollectionGeneratedSessions, out.Sessions); err != nil {
		return err
	}
	if err := save(ctx, e, conference.CollectionGeneratedSpeakers, out.Speakers); err != nil {
		return err
	}
	return save(ctx, e, conference.CollectionGeneratedSchedule, out.Schedule)
}

// save marshals and writes one computed map, applying the empty-result
// guard.
func save[T any](ctx context.Context, e *Engine, collection string, computed map[string]T) error {
	if len(computed) == 0 {
		e.logger.Error().
			Str("collection", collection).
			Msg("Attempting to write empty data to generated collection; skipping")
		return nil
	}

	docs := make(map[string]docstore.Document, len(computed))
	for id, v := range computed {
		doc, err := conference.MarshalDoc(v)
		if err != nil {
			return err
		}
		docs[id] = doc
	}
	return docstore.WriteAll(ctx, e.client.Store(), collection, docs)
}
