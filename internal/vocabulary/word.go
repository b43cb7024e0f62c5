// Package vocabulary defines the word record shared by the quiz generator and
// the spaced-repetition scheduler.
package vocabulary

import (
	"time"

	"github.com/at-ishikawa/englearn/internal/skill"
)

// Status is the learning stage of a word.
type Status string

const (
	StatusNew       Status = "new"
	StatusLearning  Status = "learning"
	StatusReviewing Status = "reviewing"
	StatusMastered  Status = "mastered"
)

// DefaultEaseFactor is the SM-2 starting ease.
const DefaultEaseFactor = 2.5

// Word is a vocabulary entry with its review state. It is created by NewWord and
// only changed through a review outcome.
type Word struct {
	ID          string      `json:"id" yaml:"id"`
	Word        string      `json:"word" yaml:"word"`
	Translation string      `json:"translation" yaml:"translation"`
	Definition  string      `json:"definition,omitempty" yaml:"definition,omitempty"`
	Example     string      `json:"example,omitempty" yaml:"example,omitempty"`
	Topic       string      `json:"topic,omitempty" yaml:"topic,omitempty"`
	Level       skill.Level `json:"level,omitempty" yaml:"level,omitempty"`

	Status             Status    `json:"status" yaml:"status"`
	ReviewCount        int       `json:"review_count" yaml:"review_count"`
	NextReviewDate     time.Time `json:"next_review_date" yaml:"next_review_date"`
	Interval           int       `json:"interval" yaml:"interval"`
	EaseFactor         float64   `json:"ease_factor" yaml:"ease_factor"`
	ConsecutiveCorrect int       `json:"consecutive_correct" yaml:"consecutive_correct"`
	LastReviewDate     time.Time `json:"last_review_date,omitempty" yaml:"last_review_date,omitempty"`
}

// NewWord returns a word that is eligible for review immediately.
func NewWord(id, word, translation string, now time.Time) Word {
	return Word{
		ID:             id,
		Word:           word,
		Translation:    translation,
		Status:         StatusNew,
		NextReviewDate: now,
		EaseFactor:     DefaultEaseFactor,
	}
}

// Initialize fills in review state for words loaded from a catalog that never
// went through NewWord. Words that already have a status are returned as is.
func (w Word) Initialize(now time.Time) Word {
	if w.Status != "" {
		return w
	}
	w.Status = StatusNew
	w.NextReviewDate = now
	w.Interval = 0
	if w.EaseFactor == 0 {
		w.EaseFactor = DefaultEaseFactor
	}
	return w
}

// FindByID returns the index of the word with id, or -1.
func FindByID(words []Word, id string) int {
	for i, w := range words {
		if w.ID == id {
			return i
		}
	}
	return -1
}
