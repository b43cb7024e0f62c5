package srs

import (
	"time"

	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

// Statistics summarizes a word collection.
type Statistics struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Learning  int `json:"learning"`
	Reviewing int `json:"reviewing"`
	Mastered  int `json:"mastered"`
	DueToday  int `json:"due_today"`
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDue compares calendar days in now's location, so a word scheduled for
// later today is already due.
func IsDue(word vocabulary.Word, now time.Time) bool {
	return !startOfDay(word.NextReviewDate.In(now.Location())).After(startOfDay(now))
}

func filter(words []vocabulary.Word, keep func(vocabulary.Word) bool) []vocabulary.Word {
	var result []vocabulary.Word
	for _, w := range words {
		if keep(w) {
			result = append(result, w)
		}
	}
	return result
}

func byStatus(status vocabulary.Status) func(vocabulary.Word) bool {
	return func(w vocabulary.Word) bool {
		return w.Status == status
	}
}

// GetWordsToReview returns words due today or earlier, new words included.
func GetWordsToReview(words []vocabulary.Word, now time.Time) []vocabulary.Word {
	return filter(words, func(w vocabulary.Word) bool {
		return IsDue(w, now)
	})
}

func GetNewWords(words []vocabulary.Word) []vocabulary.Word {
	return filter(words, byStatus(vocabulary.StatusNew))
}

func GetLearningWords(words []vocabulary.Word) []vocabulary.Word {
	return filter(words, byStatus(vocabulary.StatusLearning))
}

func GetReviewingWords(words []vocabulary.Word) []vocabulary.Word {
	return filter(words, byStatus(vocabulary.StatusReviewing))
}

func GetMasteredWords(words []vocabulary.Word) []vocabulary.Word {
	return filter(words, byStatus(vocabulary.StatusMastered))
}

// GetDailyStudyWords lists due words that were already studied, then new words,
// with at most maxWords in total.
func GetDailyStudyWords(words []vocabulary.Word, maxWords int, now time.Time) []vocabulary.Word {
	if maxWords <= 0 {
		return nil
	}

	due := filter(words, func(w vocabulary.Word) bool {
		return w.Status != vocabulary.StatusNew && IsDue(w, now)
	})
	study := append(due, GetNewWords(words)...)
	if len(study) > maxWords {
		study = study[:maxWords]
	}
	return study
}

// GetStudyStatistics counts words per status and those due today.
func GetStudyStatistics(words []vocabulary.Word, now time.Time) Statistics {
	stats := Statistics{Total: len(words)}
	for _, w := range words {
		switch w.Status {
		case vocabulary.StatusNew:
			stats.New++
		case vocabulary.StatusLearning:
			stats.Learning++
		case vocabulary.StatusReviewing:
			stats.Reviewing++
		case vocabulary.StatusMastered:
			stats.Mastered++
		}
		if IsDue(w, now) {
			stats.DueToday++
		}
	}
	return stats
}

// CalculateRetentionRate is the percentage of reviewed words that are currently
// reviewing or mastered. It is 0 when nothing was reviewed.
func CalculateRetentionRate(words []vocabulary.Word) float64 {
	reviewed, retained := 0, 0
	for _, w := range words {
		if w.ReviewCount == 0 {
			continue
		}
		reviewed++
		if w.Status == vocabulary.StatusReviewing || w.Status == vocabulary.StatusMastered {
			retained++
		}
	}
	if reviewed == 0 {
		return 0
	}
	return float64(retained) / float64(reviewed) * 100
}
