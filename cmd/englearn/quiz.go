package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/englearn/internal/cli"
	"github.com/at-ishikawa/englearn/internal/quiz"
	"github.com/at-ishikawa/englearn/internal/srs"
)

func newQuizCommand() *cobra.Command {
	var (
		reverse           bool
		topic             string
		level             string
		numberOfQuestions int
	)

	command := &cobra.Command{
		Use:   "quiz",
		Short: "Multiple-choice vocabulary quiz from the word catalog",
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

			options := env.cfg.Quiz.Options(topic, level)
			if numberOfQuestions > 0 {
				options.NumberOfQuestions = numberOfQuestions
			}
			direction := quiz.DirectionForward
			if reverse {
				direction = quiz.DirectionReverse
			}

			quizCLI, err := cli.NewQuizCLI(
				env.repository,
				env.cfg.Study.UserID,
				words,
				quiz.NewGenerator(),
				options,
				direction,
				scheduler,
			)
			if err != nil {
				return err
			}

			fmt.Printf("Starting a quiz with %d questions.\n", quizCLI.GetQuestionCount())
			fmt.Println("Answer with the number of an option. Press Ctrl+C to stop.")
			return quizCLI.Run(ctx, quizCLI)
		},
	}

	command.Flags().BoolVar(&reverse, "reverse", false, "Show translations and ask for the English word")
	command.Flags().StringVar(&topic, "topic", "", "Only quiz words of this topic")
	command.Flags().StringVar(&level, "level", "", "Only quiz words of this level (A1, A2, B1, B2, C1)")
	command.Flags().IntVarP(&numberOfQuestions, "questions", "n", 0, "Number of questions. Defaults to quiz.number_of_questions")
	return command
}
