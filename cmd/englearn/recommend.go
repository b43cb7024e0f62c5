package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/englearn/internal/cli"
	"github.com/at-ishikawa/englearn/internal/recommend"
)

func newRecommendCommand() *cobra.Command {
	var maxResults int

	command := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend lessons for the current level and weakest skill",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			return cli.RunRecommend(ctx, env.repository, env.cfg.Study.UserID, cat.Lessons, maxResults, now, os.Stdout)
		},
	}

	command.Flags().IntVar(&maxResults, "max", recommend.DefaultMaxResults, "Maximum number of recommendations")
	return command
}
