package srs

import (
	"time"

	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

// LadderIntervals are the fixed review gaps in days.
var LadderIntervals = []int{1, 3, 7, 14, 30, 60, 120}

// NextLadderInterval returns the first ladder step above current, or doubles
// current (capped at MaxIntervalDays) once past the top of the ladder.
func NextLadderInterval(current int) int {
	for _, step := range LadderIntervals {
		if step > current {
			return step
		}
	}
	next := current * 2
	if next > MaxIntervalDays {
		next = MaxIntervalDays
	}
	return next
}

// LadderScheduler is the fixed interval model.
type LadderScheduler struct{}

func (LadderScheduler) Name() string {
	return SchedulerLadder
}

func (LadderScheduler) Schedule(word vocabulary.Word, outcome Outcome, now time.Time) Review {
	return CalculateNextReview(word, outcome.Correct, now)
}

// CalculateNextReview moves a word one step on the ladder.
func CalculateNextReview(word vocabulary.Word, correct bool, now time.Time) Review {
	review := Review{
		EaseFactor:  word.EaseFactor,
		ReviewCount: word.ReviewCount + 1,
	}
	if review.EaseFactor == 0 {
		review.EaseFactor = vocabulary.DefaultEaseFactor
	}

	if correct {
		review.Interval = NextLadderInterval(word.Interval)
		review.ConsecutiveCorrect = word.ConsecutiveCorrect + 1
		review.Status = promote(review.ConsecutiveCorrect, review.ReviewCount)
	} else {
		review.Interval = MinIntervalDays
		review.ConsecutiveCorrect = 0
		review.Status = demote(word.Status)
	}

	review.NextReviewDate = nextReviewDate(now, review.Interval)
	return review
}
