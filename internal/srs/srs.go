// Package srs schedules vocabulary reviews with spaced repetition.
//
// Two models are provided behind the Scheduler interface: a fixed interval
// ladder, which the product flows use, and SM-2.
package srs

import (
	"fmt"
	"time"

	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

const (
	// MasteredStreak is the consecutive correct count that marks a word mastered.
	MasteredStreak = 5
	// ReviewingCount is the total review count that promotes a word to reviewing.
	ReviewingCount = 3
	// MinIntervalDays is the interval after a failed review.
	MinIntervalDays = 1
	// MaxIntervalDays caps interval growth past the top of the ladder.
	MaxIntervalDays = 365
)

// Review is the state a word moves to after one review.
type Review struct {
	Status             vocabulary.Status
	Interval           int
	NextReviewDate     time.Time
	EaseFactor         float64
	ConsecutiveCorrect int
	ReviewCount        int
}

// Outcome is the learner's result for one review. Quality is only read by SM-2;
// when it is zero SM-2 derives it from Correct.
type Outcome struct {
	Correct bool
	Quality int
}

// Scheduler computes the next review state for a word.
type Scheduler interface {
	Name() string
	Schedule(word vocabulary.Word, outcome Outcome, now time.Time) Review
}

const (
	SchedulerLadder = "ladder"
	SchedulerSM2    = "sm2"
)

// NewScheduler returns the scheduler registered under name.
func NewScheduler(name string) (Scheduler, error) {
	switch name {
	case "", SchedulerLadder:
		return LadderScheduler{}, nil
	case SchedulerSM2:
		return SM2Scheduler{}, nil
	}
	return nil, fmt.Errorf("unknown scheduler %q", name)
}

// ApplyReview runs scheduler and returns the updated word stamped with now.
func ApplyReview(scheduler Scheduler, word vocabulary.Word, outcome Outcome, now time.Time) vocabulary.Word {
	review := scheduler.Schedule(word, outcome, now)
	word.Status = review.Status
	word.Interval = review.Interval
	word.NextReviewDate = review.NextReviewDate
	word.EaseFactor = review.EaseFactor
	word.ConsecutiveCorrect = review.ConsecutiveCorrect
	word.ReviewCount = review.ReviewCount
	word.LastReviewDate = now
	return word
}

// UpdateWordAfterReview applies the ladder model, the default product path.
func UpdateWordAfterReview(word vocabulary.Word, correct bool, now time.Time) vocabulary.Word {
	return ApplyReview(LadderScheduler{}, word, Outcome{Correct: correct}, now)
}

func nextReviewDate(now time.Time, intervalDays int) time.Time {
	return now.AddDate(0, 0, intervalDays)
}

// promote picks the status after a correct answer.
func promote(consecutiveCorrect, reviewCount int) vocabulary.Status {
	switch {
	case consecutiveCorrect >= MasteredStreak:
		return vocabulary.StatusMastered
	case reviewCount >= ReviewingCount:
		return vocabulary.StatusReviewing
	default:
		return vocabulary.StatusLearning
	}
}

// demote picks the status after an incorrect answer.
func demote(status vocabulary.Status) vocabulary.Status {
	switch status {
	case vocabulary.StatusMastered:
		return vocabulary.StatusReviewing
	case vocabulary.StatusNew, "":
		return vocabulary.StatusLearning
	}
	return status
}
