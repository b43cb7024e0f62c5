package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/englearn/internal/config"
	"github.com/at-ishikawa/englearn/internal/database"
	"github.com/at-ishikawa/englearn/internal/datasync"
	"github.com/at-ishikawa/englearn/internal/dictionary"
	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/schemas"
)

func newSyncCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "sync",
		Short: "Copy progress and dictionary caches between the YAML files and the database",
	}
	command.AddCommand(
		newSyncDirectionCommand("import-db", "Import YAML progress and dictionary files into the database", true),
		newSyncDirectionCommand("export-db", "Export database progress and dictionary entries to YAML files", false),
	)
	return command
}

func openMigratedDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	if err := database.Migrate(ctx, db, schemas.Migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database.Migrate() > %w", err)
	}
	return db, nil
}

func newSyncDirectionCommand(use, short string, toDatabase bool) *cobra.Command {
	var (
		dryRun         bool
		updateExisting bool
		users          []string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := openMigratedDB(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			yamlStore := progress.NewYAMLStore(cfg.Storage.Directory)
			fileCache := dictionary.NewFileCache(cfg.Dictionaries.RapidAPI.CacheDirectory)
			dbStore := progress.NewDBStore(db)
			dbCache := dictionary.NewDBCache(db)

			var importer *datasync.Importer
			if toDatabase {
				importer = datasync.NewImporter(yamlStore, dbStore, fileCache, dbCache, os.Stdout)
			} else {
				importer = datasync.NewImporter(dbStore, yamlStore, dbCache, fileCache, os.Stdout)
			}
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}

			progressResult, err := importer.ImportProgress(ctx, users, opts)
			if err != nil {
				return fmt.Errorf("importer.ImportProgress() > %w", err)
			}
			dictResult, err := importer.ImportDictionary(ctx, opts)
			if err != nil {
				return fmt.Errorf("importer.ImportDictionary() > %w", err)
			}
			printSyncSummary(progressResult, dictResult, opts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without writing anything")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Replace words, newer scores and dictionary entries that already exist")
	cmd.Flags().StringSliceVar(&users, "user", nil, "Only sync these users. Defaults to every user")
	return cmd
}

func printSyncSummary(progressResult, dictResult *datasync.ImportResult, opts datasync.ImportOptions) {
	fmt.Println("\nSync Summary:")
	if opts.DryRun {
		fmt.Println("  (dry-run mode, no changes made)")
	}
	fmt.Printf("  Users:              %d\n", progressResult.Users)
	fmt.Printf("  Words:              %d new, %d skipped, %d updated\n", progressResult.WordsNew, progressResult.WordsSkipped, progressResult.WordsUpdated)
	fmt.Printf("  History entries:    %d new, %d skipped\n", progressResult.HistoryNew, progressResult.HistorySkipped)
	fmt.Printf("  Placement scores:   %d new, %d skipped, %d updated\n", progressResult.ScoresNew, progressResult.ScoresSkipped, progressResult.ScoresUpdated)
	fmt.Printf("  Dictionary entries: %d new, %d skipped, %d updated\n", dictResult.DictionaryNew, dictResult.DictionarySkipped, dictResult.DictionaryUpdated)
}
