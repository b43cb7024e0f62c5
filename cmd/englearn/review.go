package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/englearn/internal/cli"
	"github.com/at-ishikawa/englearn/internal/srs"
)

func newReviewCommand() *cobra.Command {
	var maxWords int

	command := &cobra.Command{
		Use:   "review",
		Short: "Review the words that are due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := newEnvironment(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			cat, err := env.loadCatalog(time.Now())
			if err != nil {
				return err
			}
			words, err := env.words(ctx, cat)
			if err != nil {
				return err
			}
			scheduler, err := srs.NewScheduler(env.cfg.Study.Scheduler)
			if err != nil {
				return fmt.Errorf("srs.NewScheduler() > %w", err)
			}
			if maxWords <= 0 {
				maxWords = env.cfg.Study.MaxDailyWords
			}

			reviewCLI := cli.NewReviewCLI(
				env.repository,
				env.cfg.Study.UserID,
				words,
				maxWords,
				scheduler,
				env.cfg.Grading.FillInBlankOptions(),
			)
			if reviewCLI.GetCardCount() > 0 {
				fmt.Printf("%d words to review. Type the translation of each word.\n", reviewCLI.GetCardCount())
			}
			return reviewCLI.Run(ctx, reviewCLI)
		},
	}

	command.Flags().IntVar(&maxWords, "max", 0, "Maximum number of words. Defaults to study.max_daily_words")
	return command
}
