package conference

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/errors"
	"github.com/openconf/stagehand/pkg/logging"
)

// Client provides typed access to the conference collections over a
// docstore.Store.
type Client struct {
	store docstore.Store
}

// NewClient creates a typed client over a document store.
func NewClient(store docstore.Store) *Client {
	return &Client{store: store}
}

// Store returns the underlying document store.
func (c *Client) Store() docstore.Store {
	return c.store
}

// Sessions loads the sessions collection, keyed by document ID. Each
// record carries its ID.
func (c *Client) Sessions(ctx context.Context) (map[string]Session, error) {
	docs, err := c.store.List(ctx, CollectionSessions)
	if err != nil {
		return nil, err
	}

	sessions := make(map[string]Session, len(docs))
	for id, doc := range docs {
		var s Session
		if err := json.Unmarshal(doc, &s); err != nil {
			return nil, errors.WrapStore("decode", CollectionSessions, id, err)
		}
		s.ID = id
		sessions[id] = s
	}
	return sessions, nil
}

// Speakers loads the speakers collection, keyed by document ID. Each
// record carries its ID.
func (c *Client) Speakers(ctx context.Context) (map[string]Speaker, error) {
	docs, err := c.store.List(ctx, CollectionSpeakers)
	if err != nil {
		return nil, err
	}

	speakers := make(map[string]Speaker, len(docs))
	for id, doc := range docs {
		var s Speaker
		if err := json.Unmarshal(doc, &s); err != nil {
			return nil, errors.WrapStore("decode", CollectionSpeakers, id, err)
		}
		s.ID = id
		speakers[id] = s
	}
	return speakers, nil
}

// Speaker loads a single speaker document.
func (c *Client) Speaker(ctx context.Context, id string) (*Speaker, error) {
	doc, err := c.store.Get(ctx, CollectionSpeakers, id)
	if err != nil {
		return nil, err
	}

	var s Speaker
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, errors.WrapStore("decode", CollectionSpeakers, id, err)
	}
	s.ID = id
	return &s, nil
}

// Schedule loads the schedule collection as a slice of days ordered by
// date descending. The order is irrelevant to join correctness but pins
// iteration determinism.
func (c *Client) Schedule(ctx context.Context) ([]ScheduleDay, error) {
	docs, err := c.store.List(ctx, CollectionSchedule)
	if err != nil {
		return nil, err
	}

	days := make([]ScheduleDay, 0, len(docs))
	for id, doc := range docs {
		var d ScheduleDay
		if err := json.Unmarshal(doc, &d); err != nil {
			return nil, errors.WrapStore("decode", CollectionSchedule, id, err)
		}
		d.ID = id
		if d.Date == "" {
			d.Date = id
		}
		days = append(days, d)
	}

	sort.Slice(days, func(i, j int) bool {
		if days[i].Date != days[j].Date {
			return days[i].Date > days[j].Date
		}
		return days[i].ID > days[j].ID
	})
	return days, nil
}

// scheduleConfig is the shape of the config/schedule flag document. The
// enabled value is a boolean or the string "true".
type scheduleConfig struct {
	Enabled any `json:"enabled"`
}

// ScheduleEnabled reads the schedule feature flag. A missing flag
// document means disabled, logged as an operator-visible error since the
// flag is expected to be set explicitly.
func (c *Client) ScheduleEnabled(ctx context.Context) bool {
	doc, err := c.store.Get(ctx, CollectionConfig, ScheduleConfigID)
	if err != nil {
		if errors.IsNotFound(err) {
			logging.FromContext(ctx).Error().
				Msg("Schedule config is not set. Set the config/schedule.enabled=true document.")
		} else {
			logging.FromContext(ctx).Error().Err(err).Msg("Failed to read schedule config")
		}
		return false
	}

	var cfg scheduleConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("Malformed schedule config document")
		return false
	}

	switch v := cfg.Enabled.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// PutSpeaker writes a speaker document.
func (c *Client) PutSpeaker(ctx context.Context, s Speaker) error {
	doc, err := MarshalDoc(s)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, CollectionSpeakers, s.ID, doc)
}

// PutSession writes a session document.
func (c *Client) PutSession(ctx context.Context, s Session) error {
	doc, err := MarshalDoc(s)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, CollectionSessions, s.ID, doc)
}

// MarshalDoc serializes a typed record into a store document.
func MarshalDoc(v any) (docstore.Document, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WrapStore("encode", "", "", err)
	}
	return doc, nil
}
