package generate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/errors"
	"github.com/openconf/stagehand/pkg/logging"
)

// Watcher consumes store write events for the source collections and
// runs recomputes through a single consumer loop, so near-simultaneous
// writes serialize into sequential runs instead of racing full
// read-then-write cycles. The subscription is limited to the source
// collections, so the engine's own output neither re-triggers it nor
// takes up subscriber buffer space during a recompute.
type Watcher struct {
	engine *Engine
	client *conference.Client
	logger *zerolog.Logger
}

// NewWatcher creates a Watcher for the given engine.
func NewWatcher(engine *Engine, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		engine: engine,
		client: engine.client,
		logger: engine.logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(logger *zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Run consumes events until ctx is cancelled or the store closes. Bursts
// of pending events coalesce into a single recompute; recompute failures
// are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	events := w.client.Store().Watch(ctx, conference.SourceCollections...)
	w.logger.Info().Msg("Watching source collections")

	for ev := range events {
		if !isSourceEvent(ev) {
			continue
		}

		batch := []docstore.Event{ev}
	drain:
		for {
			select {
			case next, ok := <-events:
				if !ok {
					break drain
				}
				if isSourceEvent(next) {
					batch = append(batch, next)
				}
			default:
				break drain
			}
		}

		w.process(ctx, batch)
	}

	w.logger.Info().Msg("Watch channel closed")
	return nil
}

// process runs one recompute for a coalesced burst of source writes.
func (w *Watcher) process(ctx context.Context, batch []docstore.Event) {
	ctx = logging.WithLogger(ctx, w.logger)

	// A burst of schedule-only writes honors the feature flag, matching
	// the per-collection trigger bindings: schedule edits with the flag
	// off do not churn the generated views.
	if allSchedule(batch) && !w.client.ScheduleEnabled(ctx) {
		w.logger.Debug().Msg("Schedule write ignored; schedule is disabled")
		return
	}

	changed := w.changedSpeaker(ctx, batch)

	if err := w.engine.Recompute(ctx, changed); err != nil {
		w.logger.Error().Err(err).Msg("Recompute failed")
	}
}

// changedSpeaker reloads the most recent speaker write in the burst, so
// the engine can inject a speaker that has no session assignment yet.
// Deleted speakers yield nil.
func (w *Watcher) changedSpeaker(ctx context.Context, batch []docstore.Event) *conference.Speaker {
	for i := len(batch) - 1; i >= 0; i-- {
		ev := batch[i]
		if ev.Collection != conference.CollectionSpeakers || ev.Op != docstore.OpSet {
			continue
		}
		sp, err := w.client.Speaker(ctx, ev.ID)
		if err != nil {
			if !errors.IsNotFound(err) {
				w.logger.Warn().Err(err).Str("speaker", ev.ID).Msg("Failed to load changed speaker")
			}
			return nil
		}
		return sp
	}
	return nil
}

func isSourceEvent(ev docstore.Event) bool {
	for _, c := range conference.SourceCollections {
		if ev.Collection == c {
			return true
		}
	}
	return false
}

func allSchedule(batch []docstore.Event) bool {
	for _, ev := range batch {
		if ev.Collection != conference.CollectionSchedule {
			return false
		}
	}
	return true
}
