// Package skill classifies placement-test scores into proficiency levels and skill gaps.
package skill

import (
	"math"
	"time"
)

// Level is a CEFR-style proficiency band.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

// Levels lists every level from lowest to highest.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1}

// SkillType identifies one of the six assessed skills.
type SkillType string

const (
	SkillReading    SkillType = "reading"
	SkillWriting    SkillType = "writing"
	SkillListening  SkillType = "listening"
	SkillSpeaking   SkillType = "speaking"
	SkillVocabulary SkillType = "vocabulary"
	SkillGrammar    SkillType = "grammar"
)

// SkillTypes is the fixed iteration order, also used to break ties.
var SkillTypes = []SkillType{
	SkillReading,
	SkillWriting,
	SkillListening,
	SkillSpeaking,
	SkillVocabulary,
	SkillGrammar,
}

// ScoreRecord is the result of one placement test attempt.
// A new attempt produces a new record.
type ScoreRecord struct {
	Reading    int       `json:"reading" yaml:"reading"`
	Writing    int       `json:"writing" yaml:"writing"`
	Listening  int       `json:"listening" yaml:"listening"`
	Speaking   int       `json:"speaking" yaml:"speaking"`
	Vocabulary int       `json:"vocabulary" yaml:"vocabulary"`
	Grammar    int       `json:"grammar" yaml:"grammar"`
	Total      int       `json:"total" yaml:"total"`
	Level      Level     `json:"level" yaml:"level"`
	TestedAt   time.Time `json:"tested_at" yaml:"tested_at"`
}

// NewScoreRecord derives the total and level from per-skill scores.
// Skills missing from scores count as 0.
func NewScoreRecord(scores map[SkillType]int, testedAt time.Time) ScoreRecord {
	record := ScoreRecord{
		Reading:    scores[SkillReading],
		Writing:    scores[SkillWriting],
		Listening:  scores[SkillListening],
		Speaking:   scores[SkillSpeaking],
		Vocabulary: scores[SkillVocabulary],
		Grammar:    scores[SkillGrammar],
		TestedAt:   testedAt,
	}

	sum := 0
	for _, skillType := range SkillTypes {
		sum += record.Score(skillType)
	}
	record.Total = int(math.Round(float64(sum) / float64(len(SkillTypes))))
	record.Level = DetermineLevel(record.Total)
	return record
}

// Score returns the score for a skill, or 0 for an unknown skill type.
func (r ScoreRecord) Score(skillType SkillType) int {
	switch skillType {
	case SkillReading:
		return r.Reading
	case SkillWriting:
		return r.Writing
	case SkillListening:
		return r.Listening
	case SkillSpeaking:
		return r.Speaking
	case SkillVocabulary:
		return r.Vocabulary
	case SkillGrammar:
		return r.Grammar
	}
	return 0
}

// DetermineLevel maps a total score onto a level band.
// The input is not clamped: negative totals are A1 and totals above 100 are C1.
func DetermineLevel(totalScore int) Level {
	switch {
	case totalScore <= 40:
		return LevelA1
	case totalScore <= 60:
		return LevelA2
	case totalScore <= 75:
		return LevelB1
	case totalScore <= 85:
		return LevelB2
	default:
		return LevelC1
	}
}

// FindWeakestSkill returns the skill with the lowest score.
// Among equal minima the first one in SkillTypes order wins.
func FindWeakestSkill(record ScoreRecord) SkillType {
	weakest := SkillTypes[0]
	lowest := record.Score(weakest)
	for _, skillType := range SkillTypes[1:] {
		if score := record.Score(skillType); score < lowest {
			weakest = skillType
			lowest = score
		}
	}
	return weakest
}
