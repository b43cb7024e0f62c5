package skill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateProficiency(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := func(skillType SkillType, score int) HistoryEntry {
		base = base.Add(time.Hour)
		return HistoryEntry{SkillType: skillType, LessonID: "l", CompletedAt: base, Score: score}
	}

	tests := []struct {
		name      string
		skillType SkillType
		history   []HistoryEntry
		want      float64
	}{
		{
			name:      "no entries returns zero",
			skillType: SkillReading,
			want:      0,
		},
		{
			name:      "only other skills returns zero",
			skillType: SkillReading,
			history:   []HistoryEntry{entry(SkillWriting, 90)},
			want:      0,
		},
		{
			name:      "averages fewer than five entries",
			skillType: SkillReading,
			history: []HistoryEntry{
				entry(SkillReading, 60),
				entry(SkillWriting, 10),
				entry(SkillReading, 80),
			},
			want: 70,
		},
		{
			name:      "uses only the last five entries",
			skillType: SkillReading,
			history: []HistoryEntry{
				entry(SkillReading, 0),
				entry(SkillReading, 0),
				entry(SkillReading, 50),
				entry(SkillReading, 60),
				entry(SkillReading, 70),
				entry(SkillReading, 80),
				entry(SkillReading, 90),
			},
			want: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateProficiency(tt.skillType, tt.history), 1e-9)
		})
	}
}

func TestNeedsReview(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		lessonID string
		history  []HistoryEntry
		want     bool
	}{
		{
			name:     "never completed",
			lessonID: "lesson-1",
			history:  []HistoryEntry{{LessonID: "lesson-2", CompletedAt: now.AddDate(0, 0, -30)}},
			want:     false,
		},
		{
			name:     "completed six days ago",
			lessonID: "lesson-1",
			history:  []HistoryEntry{{LessonID: "lesson-1", CompletedAt: now.AddDate(0, 0, -6)}},
			want:     false,
		},
		{
			name:     "completed exactly seven days ago",
			lessonID: "lesson-1",
			history:  []HistoryEntry{{LessonID: "lesson-1", CompletedAt: now.AddDate(0, 0, -7)}},
			want:     true,
		},
		{
			name:     "completed long ago",
			lessonID: "lesson-1",
			history:  []HistoryEntry{{LessonID: "lesson-1", CompletedAt: now.AddDate(0, -2, 0)}},
			want:     true,
		},
		{
			name:     "recent retake resets the clock",
			lessonID: "lesson-1",
			history: []HistoryEntry{
				{LessonID: "lesson-1", CompletedAt: now.AddDate(0, 0, -20)},
				{LessonID: "lesson-1", CompletedAt: now.AddDate(0, 0, -2)},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsReview(tt.lessonID, tt.history, now))
		})
	}
}

func TestIsCompleted(t *testing.T) {
	history := []HistoryEntry{{LessonID: "lesson-1"}}
	assert.True(t, IsCompleted("lesson-1", history))
	assert.False(t, IsCompleted("lesson-2", history))
	assert.False(t, IsCompleted("lesson-1", nil))
}
