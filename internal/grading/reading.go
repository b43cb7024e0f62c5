package grading

import (
	"fmt"
	"strings"
)

// ItemType is the kind of a reading comprehension item.
type ItemType string

const (
	ItemMultipleChoice ItemType = "multiple_choice"
	ItemFillInBlank    ItemType = "fill_in_blank"
	ItemTrueFalse      ItemType = "true_false"
	ItemShortAnswer    ItemType = "short_answer"
)

type ReadingItem struct {
	QuestionID    string   `json:"question_id"`
	Type          ItemType `json:"type"`
	CorrectAnswer string   `json:"correct_answer"`
	UserAnswer    string   `json:"user_answer"`
}

type ReadingResult struct {
	Results    []Result `json:"results"`
	Correct    int      `json:"correct"`
	Total      int      `json:"total"`
	Score      float64  `json:"score"`
	Percentage float64  `json:"percentage"`
}

// GradeReadingComprehension grades fill-in-blank items with typo tolerance and
// every other item by case-insensitive equality.
func GradeReadingComprehension(items []ReadingItem) ReadingResult {
	result := ReadingResult{
		Results: make([]Result, 0, len(items)),
		Total:   len(items),
	}
	for _, item := range items {
		var r Result
		if item.Type == ItemFillInBlank {
			r = GradeFillInBlank(item.CorrectAnswer, item.UserAnswer, DefaultFillInBlankOptions())
		} else {
			r = gradeExact(item.CorrectAnswer, item.UserAnswer)
		}
		r.QuestionID = item.QuestionID

		result.Results = append(result.Results, r)
		result.Score += r.Score
		if r.IsCorrect {
			result.Correct++
		}
	}
	result.Percentage = percentage(result.Score, result.Total)
	return result
}

func gradeExact(correct, user string) Result {
	result := Result{
		UserAnswer:    user,
		CorrectAnswer: correct,
		Feedback:      fmt.Sprintf("Incorrect. The correct answer is %q.", correct),
	}
	if strings.EqualFold(strings.TrimSpace(correct), strings.TrimSpace(user)) {
		result.IsCorrect = true
		result.Score = 1
		result.Feedback = "Correct!"
	}
	return result
}
