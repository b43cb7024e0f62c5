// Package grading scores learner answers: multiple choice, fill-in-blank,
// speaking transcripts, reading comprehension and whole quizzes.
package grading

import (
	"errors"
	"fmt"

	"github.com/at-ishikawa/englearn/internal/quiz"
)

// PassingPercentage is the quiz pass mark.
const PassingPercentage = 70.0

// ErrAnswerCountMismatch is returned when a quiz is graded with a different
// number of answers than questions.
var ErrAnswerCountMismatch = errors.New("number of answers does not match number of questions")

// Result is the grade of a single answer. Score is in [0, 1].
type Result struct {
	QuestionID    string  `json:"question_id,omitempty"`
	IsCorrect     bool    `json:"is_correct"`
	UserAnswer    string  `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	Score         float64 `json:"score"`
	Feedback      string  `json:"feedback"`
}

// QuizResult aggregates the results of a quiz.
type QuizResult struct {
	Results    []Result `json:"results"`
	Correct    int      `json:"correct"`
	Total      int      `json:"total"`
	Score      float64  `json:"score"`
	Percentage float64  `json:"percentage"`
	Passed     bool     `json:"passed"`
}

// GradeMultipleChoice compares userIndex against the question's answer index.
// An index outside the options is graded as incorrect.
func GradeMultipleChoice(question quiz.Question, userIndex int) Result {
	result := Result{
		QuestionID:    question.ID,
		CorrectAnswer: question.CorrectAnswer(),
	}
	if userIndex >= 0 && userIndex < len(question.Options) {
		result.UserAnswer = question.Options[userIndex]
	}

	if userIndex == question.AnswerIndex {
		result.IsCorrect = true
		result.Score = 1
		result.Feedback = "Correct!"
		return result
	}
	result.Feedback = fmt.Sprintf("Incorrect. The correct answer is %q.", result.CorrectAnswer)
	return result
}

// GradeQuiz grades answers[i] against questions[i].
func GradeQuiz(questions []quiz.Question, answers []int) (QuizResult, error) {
	if len(questions) != len(answers) {
		return QuizResult{}, fmt.Errorf("%w: %d questions, %d answers", ErrAnswerCountMismatch, len(questions), len(answers))
	}

	result := QuizResult{
		Results: make([]Result, 0, len(questions)),
		Total:   len(questions),
	}
	for i, q := range questions {
		r := GradeMultipleChoice(q, answers[i])
		result.Results = append(result.Results, r)
		result.Score += r.Score
		if r.IsCorrect {
			result.Correct++
		}
	}
	result.Percentage = percentage(result.Score, result.Total)
	result.Passed = result.Percentage >= PassingPercentage
	return result, nil
}

func percentage(score float64, total int) float64 {
	if total == 0 {
		return 0
	}
	return score / float64(total) * 100
}
