// Package generate implements the denormalization engine: it derives the
// three generated read views (sessions, speakers, schedule) from full
// snapshots of the source collections and persists them in bounded
// batches. The join itself is a pure function over an immutable Snapshot,
// so it is testable without a live store; the Engine adds the store I/O
// around it, and the Watcher turns store write events into serialized
// recomputes.
package generate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/openconf/stagehand/pkg/conference"
)

// Snapshot is an immutable read of the three source collections plus the
// schedule feature flag, taken at the start of a recompute.
type Snapshot struct {
	Sessions map[string]conference.Session
	Speakers map[string]conference.Speaker

	// Schedule is ordered by date descending. The order does not affect
	// join correctness but fixes iteration determinism.
	Schedule []conference.ScheduleDay

	ScheduleEnabled bool
}

// Load reads a snapshot. The three collection reads run concurrently; the
// flag read is sequential since it may log an operator-visible error.
func Load(ctx context.Context, client *conference.Client) (*Snapshot, error) {
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Sessions, err = client.Sessions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Speakers, err = client.Speakers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Schedule, err = client.Schedule(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.ScheduleEnabled = client.ScheduleEnabled(ctx)
	return &snap, nil
}
