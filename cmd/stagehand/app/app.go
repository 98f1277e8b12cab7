// Package app provides the application context and dependency management
// for the stagehand CLI: configuration, logging, and lazy store access
// shared by every command.
package app

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/docstore/memory"
	"github.com/openconf/stagehand/pkg/docstore/sqlite"
	"github.com/openconf/stagehand/pkg/errors"
)

// App holds the stagehand application's dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger

	// Store handle (lazy-opened, singleton)
	mu     sync.Mutex
	store  docstore.Store
	client *conference.Client
}

// New creates a new App with the given version information.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}

	logger := NewLogger(config)
	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
		logger:  &logger,
	}, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// ReloadLogger rebuilds the logger after flag parsing updated the config.
func (a *App) ReloadLogger() {
	logger := NewLogger(a.config)
	a.logger = &logger
}

// Store returns the document store, opening it on first use. The
// configured path ":memory:" yields an ephemeral in-memory store;
// anything else opens a SQLite store at that path.
func (a *App) Store() (docstore.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store, nil
	}

	if a.config.StorePath == ":memory:" {
		a.store = memory.New()
	} else {
		store, err := sqlite.Open(a.config.StorePath)
		if err != nil {
			return nil, err
		}
		a.store = store
	}
	a.client = conference.NewClient(a.store)
	a.logger.Debug().Str("store", a.config.StorePath).Msg("Opened document store")
	return a.store, nil
}

// Client returns the typed conference client, opening the store on first
// use.
func (a *App) Client() (*conference.Client, error) {
	if _, err := a.Store(); err != nil {
		return nil, err
	}
	return a.client, nil
}

// Close releases the store if it was opened.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	a.client = nil
	return err
}

// ExitOnError prints an error to stderr and exits with status 1.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
