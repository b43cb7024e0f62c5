// Package statistics aggregates a learner's lesson history by month and skill.
package statistics

import (
	"fmt"
	"sort"

	"github.com/at-ishikawa/englearn/internal/skill"
)

// SkillStatistics holds the totals of one skill within a period
type SkillStatistics struct {
	SkillType        skill.SkillType
	Lessons          int // Total completions
	NewLessons       int // Completions of lessons never completed before
	Reviews          int // Repeated completions
	AverageScore     float64
	TimeSpentSeconds int
	Mistakes         int
}

// LearningStatistics holds statistics for a period
type LearningStatistics struct {
	Period           string // "2025-01"; empty for the aggregate
	Lessons          int
	AverageScore     float64
	TimeSpentSeconds int
	Mistakes         int
	Skills           []SkillStatistics // in skill.SkillTypes order, skills without data omitted
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []LearningStatistics
	Aggregate LearningStatistics
}

type skillData struct {
	lessons, newLessons, reviews int
	scoreSum                     int
	timeSpent, mistakes          int
}

type periodData map[skill.SkillType]*skillData

// CalculateStatistics aggregates history entries per month and skill.
// It accepts optional year and month filters (0 means no filter).
// A completion counts as new when its lesson was never completed before,
// including before the filtered range.
func CalculateStatistics(history []skill.HistoryEntry, year, month int) StatisticsResult {
	entries := make([]skill.HistoryEntry, 0, len(history))
	for _, entry := range history {
		if entry.CompletedAt.IsZero() {
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompletedAt.Before(entries[j].CompletedAt)
	})

	stats := make(map[string]periodData)
	total := make(periodData)
	completed := make(map[string]struct{})

	for _, entry := range entries {
		_, seen := completed[entry.LessonID]
		completed[entry.LessonID] = struct{}{}

		entryYear := entry.CompletedAt.Year()
		entryMonth := int(entry.CompletedAt.Month())
		if !matchesFilter(entryYear, entryMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", entryYear, entryMonth)
		if stats[period] == nil {
			stats[period] = make(periodData)
		}
		stats[period].add(entry, !seen)
		total.add(entry, !seen)
	}

	periods := make([]LearningStatistics, 0, len(stats))
	for period, data := range stats {
		periods = append(periods, data.build(period))
	}
	// Newest first
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods:   periods,
		Aggregate: total.build(""),
	}
}

func (p periodData) add(entry skill.HistoryEntry, isNew bool) {
	data := p[entry.SkillType]
	if data == nil {
		data = &skillData{}
		p[entry.SkillType] = data
	}
	data.lessons++
	if isNew {
		data.newLessons++
	} else {
		data.reviews++
	}
	data.scoreSum += entry.Score
	data.timeSpent += entry.TimeSpentSeconds
	data.mistakes += entry.Mistakes
}

func (p periodData) build(period string) LearningStatistics {
	result := LearningStatistics{Period: period}
	scoreSum := 0
	for _, skillType := range skillOrder(p) {
		data := p[skillType]
		result.Skills = append(result.Skills, SkillStatistics{
			SkillType:        skillType,
			Lessons:          data.lessons,
			NewLessons:       data.newLessons,
			Reviews:          data.reviews,
			AverageScore:     average(data.scoreSum, data.lessons),
			TimeSpentSeconds: data.timeSpent,
			Mistakes:         data.mistakes,
		})
		result.Lessons += data.lessons
		result.TimeSpentSeconds += data.timeSpent
		result.Mistakes += data.mistakes
		scoreSum += data.scoreSum
	}
	result.AverageScore = average(scoreSum, result.Lessons)
	return result
}

// skillOrder lists the known skills first and then unknown ones alphabetically.
func skillOrder(p periodData) []skill.SkillType {
	var order []skill.SkillType
	known := make(map[skill.SkillType]bool, len(skill.SkillTypes))
	for _, skillType := range skill.SkillTypes {
		known[skillType] = true
		if _, ok := p[skillType]; ok {
			order = append(order, skillType)
		}
	}
	var unknown []skill.SkillType
	for skillType := range p {
		if !known[skillType] {
			unknown = append(unknown, skillType)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return append(order, unknown...)
}

func average(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

func matchesFilter(entryYear, entryMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if entryYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return entryMonth == filterMonth
}
