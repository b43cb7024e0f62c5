package grading

import (
	"strings"
)

// SpeakingOptions controls how a speech transcript is graded.
type SpeakingOptions struct {
	// MinSimilarity is the percentage at which the attempt counts as correct.
	MinSimilarity float64
	// StrictMode makes the score binary.
	StrictMode bool
}

func DefaultSpeakingOptions() SpeakingOptions {
	return SpeakingOptions{MinSimilarity: 70}
}

type SpeakingResult struct {
	Result
	Similarity float64 `json:"similarity"`
}

// GradeSpeaking compares a transcript with the target sentence, ignoring case
// and whitespace differences.
func GradeSpeaking(target, transcript string, opts SpeakingOptions) SpeakingResult {
	similarity := CalculateStringSimilarity(normalize(target, false), normalize(transcript, false))

	result := SpeakingResult{
		Result: Result{
			IsCorrect:     similarity >= opts.MinSimilarity,
			UserAnswer:    transcript,
			CorrectAnswer: target,
			Feedback:      speakingFeedback(similarity),
		},
		Similarity: similarity,
	}
	switch {
	case !opts.StrictMode:
		result.Score = similarity / 100
	case result.IsCorrect:
		result.Score = 1
	}
	return result
}

func speakingFeedback(similarity float64) string {
	switch {
	case similarity >= 95:
		return "Excellent pronunciation!"
	case similarity >= 85:
		return "Great job! Your pronunciation is very clear."
	case similarity >= 70:
		return "Good effort. A few words need practice."
	case similarity >= 50:
		return "Keep practicing. Try speaking more slowly and clearly."
	default:
		return "Let's try again. Listen to the example and repeat it."
	}
}

// CalculateWordMatchPercentage compares the words of target and transcript
// position by position.
func CalculateWordMatchPercentage(target, transcript string) float64 {
	targetWords := strings.Fields(strings.ToLower(target))
	spokenWords := strings.Fields(strings.ToLower(transcript))
	if len(targetWords) == 0 {
		if len(spokenWords) == 0 {
			return 100
		}
		return 0
	}

	matched := 0
	for i, w := range targetWords {
		if i < len(spokenWords) && spokenWords[i] == w {
			matched++
		}
	}
	return float64(matched) / float64(len(targetWords)) * 100
}
