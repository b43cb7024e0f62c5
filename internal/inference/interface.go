package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for AI inference operations
type Client interface {
	CheckGrammar(ctx context.Context, params CheckGrammarRequest) (CheckGrammarResponse, error)
}

// CheckGrammarRequest is a piece of writing practice to correct.
type CheckGrammarRequest struct {
	// Prompt is the writing task the learner answered, if any
	Prompt string `json:"prompt,omitempty"`
	Text   string `json:"text"`
	// Level is the learner's CEFR level, used to calibrate the feedback
	Level string `json:"level,omitempty"`
}

type CheckGrammarResponse struct {
	CorrectedText string  `json:"corrected_text"`
	Score         int     `json:"score"` // 0-100
	Issues        []Issue `json:"issues"`
}

// Issue is a single correction in the learner's text.
type Issue struct {
	Original    string        `json:"original"`
	Correction  string        `json:"correction"`
	Explanation string        `json:"explanation"`
	Category    IssueCategory `json:"category"`
}

type IssueCategory string

const (
	IssueGrammar     IssueCategory = "grammar"
	IssueVocabulary  IssueCategory = "vocabulary"
	IssueSpelling    IssueCategory = "spelling"
	IssuePunctuation IssueCategory = "punctuation"
	IssueStyle       IssueCategory = "style"
)

// WeakAreas returns the distinct issue categories in first-seen order.
func (r CheckGrammarResponse) WeakAreas() []string {
	seen := make(map[IssueCategory]bool)
	var areas []string
	for _, issue := range r.Issues {
		if issue.Category == "" || seen[issue.Category] {
			continue
		}
		seen[issue.Category] = true
		areas = append(areas, string(issue.Category))
	}
	return areas
}

const (
	DefaultMaxRetryAttempts = 3
)
