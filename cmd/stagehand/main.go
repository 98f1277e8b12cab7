// Package main provides the entry point for the stagehand CLI tool.
package main

import (
	"context"
	"os"

	"github.com/openconf/stagehand/cmd/stagehand/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}
	defer func() { _ = application.Close() }()

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
