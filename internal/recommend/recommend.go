// Package recommend ranks catalog lessons for a learner from their placement
// scores and completion history.
package recommend

import (
	"fmt"
	"time"

	"github.com/at-ishikawa/englearn/internal/skill"
)

// DefaultMaxResults is used when a caller passes a non-positive limit.
const DefaultMaxResults = 5

// Lesson is a read-only catalog entry.
type Lesson struct {
	ID              string          `json:"id" yaml:"id"`
	Title           string          `json:"title" yaml:"title"`
	SkillType       skill.SkillType `json:"skill_type" yaml:"skill_type"`
	Level           skill.Level     `json:"level" yaml:"level"`
	DurationMinutes int             `json:"duration_minutes" yaml:"duration_minutes"`
}

// Priority tags which bucket a recommendation came from.
type Priority string

const (
	PriorityWeak   Priority = "weak"
	PriorityLearn  Priority = "learn"
	PriorityReview Priority = "review"
)

// Recommendation is computed on every call and never persisted.
type Recommendation struct {
	Lesson   Lesson   `json:"lesson"`
	Priority Priority `json:"priority"`
	Reason   string   `json:"reason"`
}

// GenerateLessonRecommendations builds the weak, learn and review buckets in
// that order and truncates the concatenation to maxResults.
//
// Buckets are not deduplicated against each other. weak and learn only hold
// lessons absent from history while review only holds completed lessons, so
// a lesson can only repeat when the catalog itself lists it twice.
func GenerateLessonRecommendations(
	score skill.ScoreRecord,
	history []skill.HistoryEntry,
	catalog []Lesson,
	maxResults int,
	now time.Time,
) []Recommendation {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	level := skill.DetermineLevel(score.Total)
	weakest := skill.FindWeakestSkill(score)

	var weak, learn, review []Recommendation
	for _, lesson := range catalog {
		completed := skill.IsCompleted(lesson.ID, history)
		if completed || lesson.Level != level {
			continue
		}
		if lesson.SkillType == weakest {
			weak = append(weak, Recommendation{
				Lesson:   lesson,
				Priority: PriorityWeak,
				Reason:   fmt.Sprintf("Strengthen your weakest skill: %s", lesson.SkillType),
			})
			continue
		}
		learn = append(learn, Recommendation{
			Lesson:   lesson,
			Priority: PriorityLearn,
			Reason:   fmt.Sprintf("New %s lesson at your level (%s)", lesson.SkillType, level),
		})
	}

	for _, lesson := range catalog {
		if !skill.NeedsReview(lesson.ID, history, now) {
			continue
		}
		review = append(review, Recommendation{
			Lesson:   lesson,
			Priority: PriorityReview,
			Reason:   "Completed over a week ago, time for a review",
		})
	}

	recommendations := make([]Recommendation, 0, len(weak)+len(learn)+len(review))
	recommendations = append(recommendations, weak...)
	recommendations = append(recommendations, learn...)
	recommendations = append(recommendations, review...)
	if len(recommendations) > maxResults {
		recommendations = recommendations[:maxResults]
	}
	return recommendations
}

// GetNextLesson returns the single highest priority recommendation, or nil.
func GetNextLesson(
	score skill.ScoreRecord,
	history []skill.HistoryEntry,
	catalog []Lesson,
	now time.Time,
) *Recommendation {
	recommendations := GenerateLessonRecommendations(score, history, catalog, 1, now)
	if len(recommendations) == 0 {
		return nil
	}
	return &recommendations[0]
}
