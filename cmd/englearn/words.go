package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/englearn/internal/catalog"
	"github.com/at-ishikawa/englearn/internal/dictionary"
)

func newWordsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "words",
		Short: "Maintain the word catalog",
	}
	command.AddCommand(newWordsEnrichCommand())
	return command
}

func newWordsEnrichCommand() *cobra.Command {
	var dryRun bool

	command := &cobra.Command{
		Use:   "enrich",
		Short: "Fill in missing definitions and examples from the dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := newEnvironment(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			files, err := catalog.LoadWordFiles(env.cfg.Catalog.WordsDirectory)
			if err != nil {
				return fmt.Errorf("catalog.LoadWordFiles() > %w", err)
			}

			reader := env.dictionaryReader()
			total := 0
			for _, file := range files {
				words, updated, err := dictionary.Enrich(ctx, reader, file.Words)
				if err != nil {
					return fmt.Errorf("dictionary.Enrich(%s) > %w", file.Path, err)
				}
				if updated == 0 {
					continue
				}
				total += updated
				slog.Info("enriched words", "file", file.Path, "updated", updated)
				if dryRun {
					continue
				}
				if err := catalog.WriteWordFile(catalog.WordFile{Path: file.Path, Words: words}); err != nil {
					return fmt.Errorf("catalog.WriteWordFile() > %w", err)
				}
			}
			fmt.Printf("Updated %d words in %d files.\n", total, len(files))
			return nil
		},
	}
	command.Flags().BoolVar(&dryRun, "dry-run", false, "Look up words without writing the catalog")
	return command
}
