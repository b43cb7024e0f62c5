package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/englearn/internal/catalog"
)

func newCatalogCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "catalog",
		Short: "Word and lesson catalog commands",
	}
	command.AddCommand(newCatalogValidateCommand())
	return command
}

func newCatalogValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the word bank and lessons for consistency and correctness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cat, err := catalog.Load(cfg.Catalog.WordsDirectory, cfg.Catalog.LessonsFile, time.Now())
			if err != nil {
				return fmt.Errorf("catalog.Load() > %w", err)
			}

			result := cat.Validate()
			displayValidationResults(os.Stdout, result)
			if catalog.HasErrors(result) {
				return fmt.Errorf("validation failed with %d error(s)", countSeverity(result, "error"))
			}
			return nil
		},
	}
}

func countSeverity(result []catalog.ValidationError, severity string) int {
	count := 0
	for _, e := range result {
		if e.Severity == severity {
			count++
		}
	}
	return count
}

const maxDisplayedWarnings = 10

func displayValidationResults(w io.Writer, result []catalog.ValidationError) {
	totalErrors := countSeverity(result, "error")
	totalWarnings := countSeverity(result, "warning")

	fmt.Fprintln(w, "\n=== Validation Results ===")

	if totalErrors > 0 {
		fmt.Fprintf(w, "✗ Errors (%d):\n", totalErrors)
		for _, e := range result {
			if e.Severity == "error" {
				fmt.Fprintf(w, "  - %s: %s\n", e.Location, e.Message)
			}
		}
		fmt.Fprintln(w)
	}

	if totalWarnings > 0 {
		fmt.Fprintf(w, "⚠ Warnings (%d):\n", totalWarnings)
		displayed := 0
		for _, e := range result {
			if e.Severity != "warning" {
				continue
			}
			if displayed == maxDisplayedWarnings {
				fmt.Fprintf(w, "  ... and %d more\n", totalWarnings-maxDisplayedWarnings)
				break
			}
			fmt.Fprintf(w, "  - %s: %s\n", e.Location, e.Message)
			displayed++
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "=== Summary ===")
	if totalErrors == 0 && totalWarnings == 0 {
		fmt.Fprintln(w, "✓ All validations passed!")
	} else {
		if totalErrors > 0 {
			fmt.Fprintf(w, "✗ Total errors: %d\n", totalErrors)
		}
		if totalWarnings > 0 {
			fmt.Fprintf(w, "⚠ Total warnings: %d\n", totalWarnings)
		}
	}
	fmt.Fprintln(w)
}
