package cli

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/englearn/internal/grading"
	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/srs"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

// ReviewCLI runs the daily spaced-repetition session. The learner types the
// translation of each word and the scheduler moves it accordingly.
type ReviewCLI struct {
	*InteractiveQuizCLI
	scheduler    srs.Scheduler
	gradeOptions grading.FillInBlankOptions
	cards        []vocabulary.Word
	reviewed     int
	correct      int
}

// NewReviewCLI picks at most maxWords of today's words.
func NewReviewCLI(
	repository *progress.Repository,
	userID string,
	words []vocabulary.Word,
	maxWords int,
	scheduler srs.Scheduler,
	gradeOptions grading.FillInBlankOptions,
	opts ...Option,
) *ReviewCLI {
	base := newInteractiveQuizCLI(repository, userID, opts...)
	return &ReviewCLI{
		InteractiveQuizCLI: base,
		scheduler:          scheduler,
		gradeOptions:       gradeOptions,
		cards:              srs.GetDailyStudyWords(words, maxWords, base.now()),
	}
}

// GetCardCount returns the number of remaining cards
func (r *ReviewCLI) GetCardCount() int {
	return len(r.cards)
}

func (r *ReviewCLI) Session(ctx context.Context) error {
	if len(r.cards) == 0 {
		if r.reviewed == 0 {
			fmt.Fprintln(r.stdoutWriter, "No words to review today!")
		} else {
			fmt.Fprintf(r.stdoutWriter, "Reviewed %d words, %d correct.\n", r.reviewed, r.correct)
		}
		return errEnd
	}

	word := r.cards[0]
	fmt.Fprintf(r.stdoutWriter, "\n[%s] ", word.Status)
	_, _ = r.bold.Fprintf(r.stdoutWriter, "%s: ", word.Word)

	answer, err := r.readLine()
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	result := grading.GradeFillInBlank(word.Translation, answer, r.gradeOptions)
	if result.IsCorrect {
		r.printCorrect("%s", result.Feedback)
	} else {
		r.printWrong("%s", result.Feedback)
	}
	if word.Example != "" {
		_, _ = r.italic.Fprintf(r.stdoutWriter, "   %s\n", word.Example)
	}

	now := r.now()
	outcome := srs.Outcome{
		Correct: result.IsCorrect,
		Quality: reviewQuality(result),
	}
	reviewed, err := r.progress.ReviewWords(ctx, r.userID, []vocabulary.Word{word}, progress.Review{
		WordID: word.ID,
		Apply: func(w vocabulary.Word) vocabulary.Word {
			return srs.ApplyReview(r.scheduler, w, outcome, now)
		},
	})
	if err != nil {
		return fmt.Errorf("progress.ReviewWords(%s) > %w", word.ID, err)
	}
	updated := reviewed[0]
	fmt.Fprintf(r.stdoutWriter, "   Next review: %s (%d days)\n", updated.NextReviewDate.Format("2006-01-02"), updated.Interval)

	r.cards = r.cards[1:]
	r.reviewed++
	if result.IsCorrect {
		r.correct++
	}
	return nil
}

// reviewQuality maps a typed answer onto the SM-2 quality scale. Wrong answers
// are left to the scheduler's default.
func reviewQuality(result grading.Result) int {
	switch {
	case !result.IsCorrect:
		return 0
	case result.Score >= 1:
		return 5
	default:
		return 4
	}
}
