package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/englearn/internal/cli"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze learning progress and statistics",
	}
	cmd.AddCommand(newAnalyzeReportCommand())
	return cmd
}

func validateReportPeriod(year, month int) error {
	if month != 0 && year == 0 {
		return fmt.Errorf("--month requires --year to be specified")
	}
	if month < 0 || month > 12 {
		return fmt.Errorf("--month must be between 1 and 12")
	}
	return nil
}

func newAnalyzeReportCommand() *cobra.Command {
	var (
		year, month   int
		markdown, pdf bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show monthly/yearly report of learning statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateReportPeriod(year, month); err != nil {
				return err
			}

			ctx := cmd.Context()
			env, err := newEnvironment(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			now := time.Now()
			cat, err := env.loadCatalog(now)
			if err != nil {
				return err
			}
			words, err := env.words(ctx, cat)
			if err != nil {
				return err
			}

			return cli.RunAnalyzeReport(ctx, env.repository, env.cfg.Study.UserID, words, cli.ReportOptions{
				Year:            year,
				Month:           month,
				Markdown:        markdown,
				PDF:             pdf,
				OutputDirectory: env.cfg.Outputs.ReportDirectory,
				TemplatePath:    env.cfg.Outputs.ReportTemplate,
				Now:             now,
			}, os.Stdout)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Write a markdown report to outputs.report_directory")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "Also convert the markdown report to PDF")

	return cmd
}
