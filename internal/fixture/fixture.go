// Package fixture moves conference data between YAML files on disk and a
// document store. One file per collection, each holding a map of document
// ID to document body. It backs the seed and export commands and is
// handy for loading production dumps into a local store before running
// maintenance jobs.
package fixture

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/errors"
	"github.com/openconf/stagehand/pkg/logging"
)

// collections are the fixture-managed collections, in load order.
var collections = []string{
	conference.CollectionSessions,
	conference.CollectionSpeakers,
	conference.CollectionSchedule,
	conference.CollectionConfig,
}

// Seed loads per-collection YAML files from dir into the store. Missing
// files are skipped. Returns the number of documents written.
func Seed(ctx context.Context, store docstore.Store, dir string) (int, error) {
	log := logging.FromContext(ctx)

	total := 0
	for _, collection := range collections {
		path := filepath.Join(dir, collection+".yaml")
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return total, errors.WrapStore("read", collection, "", err)
		}

		jsonData, err := yaml.YAMLToJSON(data)
		if err != nil {
			return total, errors.NewConfigError("fixture", "invalid YAML in "+path, err)
		}

		var docs map[string]json.RawMessage
		if err := json.Unmarshal(jsonData, &docs); err != nil {
			return total, errors.NewConfigError("fixture", "expected a mapping of id to document in "+path, err)
		}
		if len(docs) == 0 {
			continue
		}

		payload := make(map[string]docstore.Document, len(docs))
		for id, doc := range docs {
			payload[id] = docstore.Document(doc)
		}
		if err := docstore.WriteAll(ctx, store, collection, payload); err != nil {
			return total, err
		}

		log.Info().
			Str("collection", collection).
			Int("documents", len(docs)).
			Msg("Seeded collection")
		total += len(docs)
	}
	return total, nil
}

// Export writes every fixture-managed collection in the store to YAML
// files in dir, creating it if needed. Empty collections produce no file.
// Returns the number of documents exported.
func Export(ctx context.Context, store docstore.Store, dir string) (int, error) {
	log := logging.FromContext(ctx)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.WrapStore("create", dir, "", err)
	}

	total := 0
	for _, collection := range collections {
		docs, err := store.List(ctx, collection)
		if err != nil {
			return total, err
		}
		if len(docs) == 0 {
			continue
		}

		raw := make(map[string]json.RawMessage, len(docs))
		for id, doc := range docs {
			raw[id] = json.RawMessage(doc)
		}
		jsonData, err := json.Marshal(raw)
		if err != nil {
			return total, errors.WrapStore("encode", collection, "", err)
		}
		yamlData, err := yaml.JSONToYAML(jsonData)
		if err != nil {
			return total, errors.WrapStore("encode", collection, "", err)
		}

		path := filepath.Join(dir, collection+".yaml")
		if err := os.WriteFile(path, yamlData, 0o644); err != nil {
			return total, errors.WrapStore("write", collection, "", err)
		}

		log.Info().
			Str("collection", collection).
			Int("documents", len(docs)).
			Str("path", path).
			Msg("Exported collection")
		total += len(docs)
	}
	return total, nil
}
