package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/englearn/internal/cli"
	"github.com/at-ishikawa/englearn/internal/skill"
)

func newPlacementCommand() *cobra.Command {
	scores := make(map[skill.SkillType]*int, len(skill.SkillTypes))

	command := &cobra.Command{
		Use:   "placement",
		Short: "Record placement test scores and show the resulting level",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := newEnvironment(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			values := make(map[skill.SkillType]int, len(scores))
			for skillType, score := range scores {
				values[skillType] = *score
			}
			_, err = cli.RunPlacement(ctx, env.repository, env.cfg.Study.UserID, values, time.Now(), os.Stdout)
			return err
		},
	}

	for _, skillType := range skill.SkillTypes {
		scores[skillType] = command.Flags().Int(string(skillType), 0, "Score of the "+string(skillType)+" test (0-100)")
	}
	return command
}
