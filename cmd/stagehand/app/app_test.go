package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) *App {
	t.Helper()
	a, err := New("test", "none", "now")
	require.NoError(t, err)
	a.config.StorePath = ":memory:"
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAppMemoryStore(t *testing.T) {
	a := testApp(t)

	store, err := a.Store()
	require.NoError(t, err)
	assert.NotNil(t, store)

	// Singleton: second call returns the same handle.
	again, err := a.Store()
	require.NoError(t, err)
	assert.Same(t, store, again)

	client, err := a.Client()
	require.NoError(t, err)
	assert.Same(t, store, client.Store())
}

func TestAppSQLiteStore(t *testing.T) {
	a, err := New("test", "none", "now")
	require.NoError(t, err)
	a.config.StorePath = t.TempDir() + "/app.db"
	defer a.Close()

	store, err := a.Store()
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestAppCloseWithoutStore(t *testing.T) {
	a, err := New("test", "none", "now")
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}

func TestExecuteUnknownCommand(t *testing.T) {
	a := testApp(t)
	err := a.Execute(context.Background(), []string{"no-such-command"})
	assert.Error(t, err)
}

func TestExecuteSeedGenerateFlow(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	require.NoError(t, a.Execute(ctx, []string{"--store", ":memory:", "activate", "--dry-run"}))
}

func TestCommandRegistration(t *testing.T) {
	a := testApp(t)
	root := a.createRootCommand()

	want := []string{
		"generate", "regenerate", "watch",
		"merge-speakers", "archive", "cleanup", "backfill", "activate",
		"seed", "export", "version",
	}
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "command %q not registered", name)
	}
}
