package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "kitten", b: "sitting", want: 3},
		{a: "", b: "", want: 0},
		{a: "", b: "abc", want: 3},
		{a: "abc", b: "", want: 3},
		{a: "apple", b: "aple", want: 1},
		{a: "flaw", b: "lawn", want: 2},
		{a: "café", b: "cafe", want: 1},
		{a: "same", b: "same", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b))
			assert.Equal(t, tt.want, LevenshteinDistance(tt.b, tt.a))
		})
	}
}

func TestCalculateStringSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "both empty", want: 100},
		{name: "identical", a: "hello", b: "hello", want: 100},
		{name: "one empty", a: "hello", want: 0},
		{name: "one substitution", a: "hello", b: "hallo", want: 80},
		{name: "kitten", a: "kitten", b: "sitting", want: (1 - 3.0/7.0) * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateStringSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestGradeFillInBlank(t *testing.T) {
	tests := []struct {
		name        string
		correct     string
		user        string
		opts        FillInBlankOptions
		wantCorrect bool
		wantScore   float64
	}{
		{name: "exact", correct: "apple", user: "apple", opts: DefaultFillInBlankOptions(), wantCorrect: true, wantScore: 1},
		{name: "case and spaces are ignored", correct: "ice cream", user: "  Ice   Cream ", opts: DefaultFillInBlankOptions(), wantCorrect: true, wantScore: 1},
		{name: "one typo", correct: "apple", user: "aple", opts: DefaultFillInBlankOptions(), wantCorrect: true, wantScore: 0.9},
		{name: "two typos", correct: "apple", user: "aplle1", opts: DefaultFillInBlankOptions(), wantCorrect: true, wantScore: 0.8},
		{name: "unrelated word", correct: "apple", user: "banana", opts: DefaultFillInBlankOptions(), wantCorrect: false, wantScore: 0},
		{name: "typos not allowed", correct: "apple", user: "aple", opts: FillInBlankOptions{}, wantCorrect: false, wantScore: 0},
		{name: "case sensitive", correct: "Paris", user: "paris", opts: FillInBlankOptions{CaseSensitive: true}, wantCorrect: false, wantScore: 0},
		{name: "empty answer to a short word", correct: "an", user: "", opts: DefaultFillInBlankOptions(), wantCorrect: false, wantScore: 0},
		{name: "different short word", correct: "an", user: "to", opts: DefaultFillInBlankOptions(), wantCorrect: false, wantScore: 0},
		{name: "one typo in a short word", correct: "an", user: "a", opts: DefaultFillInBlankOptions(), wantCorrect: true, wantScore: 0.9},
		{name: "single letter answer cannot be a typo", correct: "a", user: "e", opts: DefaultFillInBlankOptions(), wantCorrect: false, wantScore: 0},
		{
			name:        "score never drops below half",
			correct:     "internationalization",
			user:        "internationalisatoin",
			opts:        FillInBlankOptions{AllowTypos: true, MaxTypoDistance: 8},
			wantCorrect: true,
			wantScore:   0.7,
		},
		{
			name:        "floor at half for large distances",
			correct:     "abcdefghij",
			user:        "abcdeffffffff",
			opts:        FillInBlankOptions{AllowTypos: true, MaxTypoDistance: 10},
			wantCorrect: true,
			wantScore:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradeFillInBlank(tt.correct, tt.user, tt.opts)
			assert.Equal(t, tt.wantCorrect, got.IsCorrect)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.user, got.UserAnswer)
			assert.Equal(t, tt.correct, got.CorrectAnswer)
			assert.NotEmpty(t, got.Feedback)
		})
	}
}
