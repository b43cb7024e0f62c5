package skill

import "time"

const (
	// ProficiencyWindow is how many recent attempts CalculateProficiency averages.
	ProficiencyWindow = 5
	// ReviewAfter is the minimum age of a completion before the lesson is due again.
	ReviewAfter = 7 * 24 * time.Hour
)

// HistoryEntry is one completed lesson attempt. The history log is append-only.
type HistoryEntry struct {
	SkillType        SkillType `json:"skill_type" yaml:"skill_type"`
	LessonID         string    `json:"lesson_id" yaml:"lesson_id"`
	CompletedAt      time.Time `json:"completed_at" yaml:"completed_at"`
	Score            int       `json:"score" yaml:"score"`
	TimeSpentSeconds int       `json:"time_spent_seconds" yaml:"time_spent_seconds"`
	Mistakes         int       `json:"mistakes" yaml:"mistakes"`
}

// CalculateProficiency averages the scores of the last ProficiencyWindow entries
// for skillType, in log order. It returns 0 when there is no data.
func CalculateProficiency(skillType SkillType, history []HistoryEntry) float64 {
	var scores []int
	for _, entry := range history {
		if entry.SkillType == skillType {
			scores = append(scores, entry.Score)
		}
	}
	if len(scores) == 0 {
		return 0
	}
	if len(scores) > ProficiencyWindow {
		scores = scores[len(scores)-ProficiencyWindow:]
	}

	sum := 0
	for _, score := range scores {
		sum += score
	}
	return float64(sum) / float64(len(scores))
}

// LastCompletion returns the most recent completion time of a lesson.
func LastCompletion(lessonID string, history []HistoryEntry) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, entry := range history {
		if entry.LessonID != lessonID {
			continue
		}
		if !found || entry.CompletedAt.After(latest) {
			latest = entry.CompletedAt
			found = true
		}
	}
	return latest, found
}

// IsCompleted reports whether the lesson appears anywhere in history.
func IsCompleted(lessonID string, history []HistoryEntry) bool {
	_, ok := LastCompletion(lessonID, history)
	return ok
}

// NeedsReview is true when the lesson was completed and at least ReviewAfter
// has elapsed since its latest completion.
func NeedsReview(lessonID string, history []HistoryEntry, now time.Time) bool {
	completedAt, ok := LastCompletion(lessonID, history)
	if !ok {
		return false
	}
	return now.Sub(completedAt) >= ReviewAfter
}
