package srs

import (
	"math"
	"time"

	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

const (
	MinEaseFactor = 1.3

	// PassingQuality is the lowest SM-2 grade counted as recalled.
	PassingQuality = 3
	MaxQuality     = 5
)

// SM2Scheduler is the ease-factor model. No product flow selects it unless
// configured with SchedulerSM2.
type SM2Scheduler struct{}

func (SM2Scheduler) Name() string {
	return SchedulerSM2
}

func (SM2Scheduler) Schedule(word vocabulary.Word, outcome Outcome, now time.Time) Review {
	quality := outcome.Quality
	if quality == 0 && outcome.Correct {
		quality = 4
	}
	return CalculateSM2NextReview(word, quality, now)
}

// UpdateEaseFactor applies EF' = EF + 0.1 - (5-q)(0.08 + (5-q)*0.02), floored at MinEaseFactor.
func UpdateEaseFactor(ef float64, quality int) float64 {
	if ef == 0 {
		ef = vocabulary.DefaultEaseFactor
	}
	q := float64(clampQuality(quality))
	newEF := ef + 0.1 - (5-q)*(0.08+(5-q)*0.02)
	return math.Max(newEF, MinEaseFactor)
}

// CalculateSM2NextReview grades a review with quality in [0, 5]. Out of range
// values are clamped. The interval is 1 on a failed review, otherwise 1, 6 and
// round(previous * EF') for the first, second and later reviews.
func CalculateSM2NextReview(word vocabulary.Word, quality int, now time.Time) Review {
	quality = clampQuality(quality)
	review := Review{
		EaseFactor:  UpdateEaseFactor(word.EaseFactor, quality),
		ReviewCount: word.ReviewCount + 1,
	}

	if quality < PassingQuality {
		review.Interval = MinIntervalDays
		review.ConsecutiveCorrect = 0
		review.Status = demote(word.Status)
	} else {
		switch review.ReviewCount {
		case 1:
			review.Interval = 1
		case 2:
			review.Interval = 6
		default:
			previous := word.Interval
			if previous < MinIntervalDays {
				previous = MinIntervalDays
			}
			review.Interval = int(math.Round(float64(previous) * review.EaseFactor))
		}
		review.ConsecutiveCorrect = word.ConsecutiveCorrect + 1
		review.Status = promote(review.ConsecutiveCorrect, review.ReviewCount)
	}

	review.NextReviewDate = nextReviewDate(now, review.Interval)
	return review
}

func clampQuality(quality int) int {
	if quality < 0 {
		return 0
	}
	if quality > MaxQuality {
		return MaxQuality
	}
	return quality
}
