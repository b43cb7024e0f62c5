package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/englearn/internal/grading"
	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/quiz"
	"github.com/at-ishikawa/englearn/internal/skill"
	"github.com/at-ishikawa/englearn/internal/srs"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

// QuizLessonID is recorded in history for quizzes run from the terminal.
const QuizLessonID = "vocabulary-quiz"

// QuizCLI runs a multiple-choice vocabulary quiz, one question per session.
type QuizCLI struct {
	*InteractiveQuizCLI
	scheduler srs.Scheduler
	words     []vocabulary.Word
	questions []quiz.Question
	answers   []int
	startedAt time.Time
	result    *grading.QuizResult
}

// NewQuizCLI generates the questions up front from words.
func NewQuizCLI(
	repository *progress.Repository,
	userID string,
	words []vocabulary.Word,
	generator *quiz.Generator,
	quizOptions quiz.Options,
	direction quiz.Direction,
	scheduler srs.Scheduler,
	opts ...Option,
) (*QuizCLI, error) {
	questions, err := generator.Generate(words, quizOptions, direction)
	if err != nil {
		return nil, fmt.Errorf("generator.Generate() > %w", err)
	}
	base := newInteractiveQuizCLI(repository, userID, opts...)
	return &QuizCLI{
		InteractiveQuizCLI: base,
		scheduler:          scheduler,
		words:              words,
		questions:          questions,
		startedAt:          base.now(),
	}, nil
}

// GetQuestionCount returns the number of generated questions
func (q *QuizCLI) GetQuestionCount() int {
	return len(q.questions)
}

// Result returns the graded quiz once every question was answered.
func (q *QuizCLI) Result() *grading.QuizResult {
	return q.result
}

func (q *QuizCLI) Session(ctx context.Context) error {
	if len(q.answers) == len(q.questions) {
		if err := q.finish(ctx); err != nil {
			return err
		}
		return errEnd
	}

	question := q.questions[len(q.answers)]
	fmt.Fprintf(q.stdoutWriter, "\nQuestion %d/%d: ", len(q.answers)+1, len(q.questions))
	_, _ = q.bold.Fprintln(q.stdoutWriter, question.Question)
	for i, option := range question.Options {
		fmt.Fprintf(q.stdoutWriter, "  %d) %s\n", i+1, option)
	}
	fmt.Fprintf(q.stdoutWriter, "Your answer (1-%d): ", len(question.Options))

	line, err := q.readLine()
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || choice < 1 || choice > len(question.Options) {
		fmt.Fprintf(q.stdoutWriter, "Please enter a number between 1 and %d.\n", len(question.Options))
		return nil
	}

	result := grading.GradeMultipleChoice(question, choice-1)
	if result.IsCorrect {
		q.printCorrect("%s", result.Feedback)
	} else {
		q.printWrong("%s", result.Feedback)
	}
	if question.Explanation != "" {
		_, _ = q.italic.Fprintf(q.stdoutWriter, "   %s\n", question.Explanation)
	}
	q.answers = append(q.answers, choice-1)
	return nil
}

// finish grades the quiz, reschedules every quizzed word and records the attempt.
func (q *QuizCLI) finish(ctx context.Context) error {
	result, err := grading.GradeQuiz(q.questions, q.answers)
	if err != nil {
		return fmt.Errorf("grading.GradeQuiz() > %w", err)
	}
	q.result = &result

	now := q.now()
	reviews := make([]progress.Review, 0, len(q.questions))
	for i, question := range q.questions {
		outcome := srs.Outcome{Correct: result.Results[i].IsCorrect}
		reviews = append(reviews, progress.Review{
			WordID: question.WordID,
			Apply: func(w vocabulary.Word) vocabulary.Word {
				return srs.ApplyReview(q.scheduler, w, outcome, now)
			},
		})
	}
	if _, err := q.progress.ReviewWords(ctx, q.userID, q.words, reviews...); err != nil {
		return fmt.Errorf("progress.ReviewWords() > %w", err)
	}
	if err := q.progress.AppendHistory(ctx, q.userID, skill.HistoryEntry{
		SkillType:        skill.SkillVocabulary,
		LessonID:         QuizLessonID,
		CompletedAt:      now,
		Score:            int(math.Round(result.Percentage)),
		TimeSpentSeconds: int(now.Sub(q.startedAt).Seconds()),
		Mistakes:         result.Total - result.Correct,
	}); err != nil {
		return fmt.Errorf("progress.AppendHistory() > %w", err)
	}

	fmt.Fprintln(q.stdoutWriter)
	_, _ = q.bold.Fprintf(q.stdoutWriter, "Score: %d/%d (%.1f%%)\n", result.Correct, result.Total, result.Percentage)
	if result.Passed {
		q.printCorrect("Passed")
	} else {
		q.printWrong("Not passed yet. %.0f%% is needed.", grading.PassingPercentage)
	}
	fmt.Fprintln(q.stdoutWriter, grading.GenerateDetailedFeedback(result.Percentage, nil))
	return nil
}
