package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the stagehand CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "stagehand",
		Short:   "Conference data reconciliation CLI",
		Version: a.version,
		Long: `Stagehand maintains a conference's document store: it derives the
denormalized session, speaker, and schedule views that frontends read,
and runs the offline jobs that keep the source collections clean.

The store is a local SQLite file by default; pass --store :memory: for
an ephemeral in-memory store (useful with seed/export).`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "views",
		Title: "View Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "maintenance",
		Title: "Maintenance Commands:",
	})

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.config.StorePath, "store", a.config.StorePath, "document store path (\":memory:\" for ephemeral)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=error)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("stagehand {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	a.config.Verbose = mustGetBool(cmd, "verbose")
	a.config.Quiet = mustGetBool(cmd, "quiet")
	a.config.NoColor = a.config.NoColor || mustGetBool(cmd, "no-color")
	if lvl := mustGetString(cmd, "log-level"); lvl != "" {
		a.config.LogLevel = lvl
	}

	a.ReloadLogger()
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// View commands
	rootCmd.AddCommand(a.NewGenerateCommand())
	rootCmd.AddCommand(a.NewRegenerateCommand())
	rootCmd.AddCommand(a.NewWatchCommand())

	// Maintenance commands
	rootCmd.AddCommand(a.NewMergeSpeakersCommand())
	rootCmd.AddCommand(a.NewArchiveCommand())
	rootCmd.AddCommand(a.NewCleanupCommand())
	rootCmd.AddCommand(a.NewBackfillCommand())
	rootCmd.AddCommand(a.NewActivateCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewSeedCommand())
	rootCmd.AddCommand(a.NewExportCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// mustGetBool retrieves a bool flag that is known to exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not defined: %v", name, err))
	}
	return v
}

// mustGetString retrieves a string flag that is known to exist.
func mustGetString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not defined: %v", name, err))
	}
	return v
}
