package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openconf/stagehand/internal/fixture"
	"github.com/openconf/stagehand/pkg/conference"
	"github.com/openconf/stagehand/pkg/docstore"
	"github.com/openconf/stagehand/pkg/generate"
	"github.com/openconf/stagehand/pkg/reconcile"
)

// NewGenerateCommand creates the generate command.
func (a *App) NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		GroupID: "views",
		Short:   "Recompute the generated read views once",
		Long: `Generate reads the sessions, speakers, and schedule collections and
rewrites the three generated view collections from them. The join
strategy depends on the schedule feature flag: with the flag off (or no
schedule present), views join sessions with speakers; with it on, each
session also carries its schedule placement and a generated schedule
view is produced.`,
		Example: `  stagehand generate
  stagehand generate --store conf.db -v`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			engine := generate.New(client, generate.WithLogger(a.logger))
			return engine.Recompute(cmd.Context(), nil)
		},
	}
}

// NewRegenerateCommand creates the regenerate command.
func (a *App) NewRegenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "regenerate",
		GroupID: "views",
		Short:   "Delete the generated views and rebuild them from scratch",
		Long: `Regenerate clears all three generated view collections before
recomputing them, so documents that no longer correspond to any source
data are removed rather than left behind.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			for _, collection := range []string{
				conference.CollectionGeneratedSessions,
				conference.CollectionGeneratedSpeakers,
				conference.CollectionGeneratedSchedule,
			} {
				n, err := docstore.DeleteAll(ctx, client.Store(), collection)
				if err != nil {
					return err
				}
				a.logger.Info().Str("collection", collection).Int("deleted", n).Msg("Cleared generated collection")
			}
			engine := generate.New(client, generate.WithLogger(a.logger))
			return engine.Recompute(ctx, nil)
		},
	}
}

// NewWatchCommand creates the watch command.
func (a *App) NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		GroupID: "views",
		Short:   "Watch source collections and recompute views on change",
		Long: `Watch subscribes to store write events and recomputes the generated
views whenever a source collection changes. Bursts of writes coalesce
into a single recompute. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			engine := generate.New(client, generate.WithLogger(a.logger))
			watcher := generate.NewWatcher(engine)
			return watcher.Run(cmd.Context())
		},
	}
}

// NewMergeSpeakersCommand creates the merge-speakers command.
func (a *App) NewMergeSpeakersCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "merge-speakers",
		GroupID: "maintenance",
		Short:   "Merge speaker documents whose IDs differ only by case",
		Long: `Merge-speakers groups speaker documents by their lowercased ID, merges
each group into a single canonical document, rewrites session speaker
references to the canonical ID, and deletes the alias documents.

Field conflicts resolve in favor of the active document, then the most
complete one. History years union across the group.`,
		Example: `  stagehand merge-speakers --dry-run
  stagehand merge-speakers`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			report, err := reconcile.MergeSpeakers(cmd.Context(), client, dryRun)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")

	return cmd
}

// NewArchiveCommand creates the archive command.
func (a *App) NewArchiveCommand() *cobra.Command {
	var (
		year   string
		dryRun bool
		clear  bool
	)

	cmd := &cobra.Command{
		Use:     "archive",
		GroupID: "maintenance",
		Short:   "Archive the current edition into speaker history",
		Long: `Archive snapshots every active speaker's bio, company, title, and
scheduled talks into their history under the given year, then marks
them inactive. With --clear it also deletes the sessions and schedule
collections afterwards, leaving the store ready for the next edition.`,
		Example: `  stagehand archive --year 2026 --dry-run
  stagehand archive --year 2026 --clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := reconcile.ValidateYear(year); err != nil {
				return err
			}
			client, err := a.Client()
			if err != nil {
				return err
			}
			report, err := reconcile.Archive(cmd.Context(), client, year, dryRun, clear)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "edition year to archive under (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete sessions and schedule after archiving")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

// NewCleanupCommand creates the cleanup command.
func (a *App) NewCleanupCommand() *cobra.Command {
	var (
		year   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:     "cleanup",
		GroupID: "maintenance",
		Short:   "Reconcile archived history for a year against the schedule",
		Long: `Cleanup compares each speaker's history entry for the given year
against the current schedule. Entries for speakers no longer on the
schedule are removed; entries whose recorded talks drifted from the
scheduled ones are rebuilt.`,
		Example: `  stagehand cleanup --year 2026 --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := reconcile.ValidateYear(year); err != nil {
				return err
			}
			client, err := a.Client()
			if err != nil {
				return err
			}
			report, err := reconcile.CleanupHistory(cmd.Context(), client, year, dryRun)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "edition year to clean up (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

// NewBackfillCommand creates the backfill command.
func (a *App) NewBackfillCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "backfill",
		GroupID: "maintenance",
		Short:   "Fill missing session IDs in speaker history talks",
		Long: `Backfill matches history talks that have no session reference against
current sessions by speaker and title (case-insensitive) and fills in
the session ID. Talks that already carry an ID are left alone.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			report, err := reconcile.BackfillSessionIDs(cmd.Context(), client, dryRun)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")

	return cmd
}

// NewActivateCommand creates the activate command.
func (a *App) NewActivateCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "activate",
		GroupID: "maintenance",
		Short:   "Activate speakers referenced by any session",
		Long: `Activate marks every speaker referenced from a session document as
active, catching documents that were imported or archived with the
flag off.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			report, err := reconcile.ActivateSpeakers(cmd.Context(), client, dryRun)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")

	return cmd
}

// NewSeedCommand creates the seed command.
func (a *App) NewSeedCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load source collections from YAML fixture files",
		Long: `Seed reads <collection>.yaml files from a directory and writes their
documents into the corresponding source collections. Missing files are
skipped.`,
		Example: `  stagehand seed --dir ./fixtures`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.Store()
			if err != nil {
				return err
			}
			n, err := fixture.Seed(cmd.Context(), store, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d documents from %s\n", n, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory containing <collection>.yaml files")

	return cmd
}

// NewExportCommand creates the export command.
func (a *App) NewExportCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump source collections to YAML fixture files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.Store()
			if err != nil {
				return err
			}
			n, err := fixture.Export(cmd.Context(), store, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d documents to %s\n", n, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write <collection>.yaml files into")

	return cmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stagehand %s\n", a.version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", a.commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", a.date)
		},
	}
}
