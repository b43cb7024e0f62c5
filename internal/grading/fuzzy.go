package grading

import (
	"fmt"
	"strings"
)

// LevenshteinDistance counts single-rune insertions, deletions and
// substitutions needed to turn a into b.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	dp := make([][]int, len(ra)+1)
	for i := range dp {
		dp[i] = make([]int, len(rb)+1)
		dp[i][0] = i
	}
	for j := range dp[0] {
		dp[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[i][j] = min(
				dp[i-1][j]+1,
				dp[i][j-1]+1,
				dp[i-1][j-1]+cost,
			)
		}
	}
	return dp[len(ra)][len(rb)]
}

// CalculateStringSimilarity returns 100 * (1 - distance / longer length).
func CalculateStringSimilarity(a, b string) float64 {
	longer := max(len([]rune(a)), len([]rune(b)))
	if longer == 0 {
		return 100
	}
	return (1 - float64(LevenshteinDistance(a, b))/float64(longer)) * 100
}

// FillInBlankOptions controls how strictly a typed answer is compared.
type FillInBlankOptions struct {
	CaseSensitive   bool
	AllowTypos      bool
	MaxTypoDistance int
}

// DefaultFillInBlankOptions ignores case and accepts up to two typos.
func DefaultFillInBlankOptions() FillInBlankOptions {
	return FillInBlankOptions{
		AllowTypos:      true,
		MaxTypoDistance: 2,
	}
}

// GradeFillInBlank scores 1 for an exact match, max(0.5, 1 - 0.1*distance) for
// an accepted typo and 0 otherwise. A typo keeps at least one character of the
// answer, so the allowed distance is capped below the answer's length.
func GradeFillInBlank(correct, user string, opts FillInBlankOptions) Result {
	expected := normalize(correct, opts.CaseSensitive)
	actual := normalize(user, opts.CaseSensitive)
	result := Result{
		UserAnswer:    user,
		CorrectAnswer: correct,
	}

	if expected == actual {
		result.IsCorrect = true
		result.Score = 1
		result.Feedback = "Correct!"
		return result
	}

	if opts.AllowTypos {
		distance := LevenshteinDistance(expected, actual)
		if distance <= min(opts.MaxTypoDistance, len([]rune(expected))-1) {
			result.IsCorrect = true
			result.Score = max(0.5, 1-0.1*float64(distance))
			result.Feedback = fmt.Sprintf("Almost! Check your spelling: %q.", correct)
			return result
		}
	}

	result.Feedback = fmt.Sprintf("Incorrect. The correct answer is %q.", correct)
	return result
}

// normalize trims the answer and collapses inner whitespace.
func normalize(s string, caseSensitive bool) string {
	s = strings.Join(strings.Fields(s), " ")
	if !caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}
