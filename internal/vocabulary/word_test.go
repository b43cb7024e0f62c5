package vocabulary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWord(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC)
	got := NewWord("w1", "apple", "manzana", now)

	assert.Equal(t, Word{
		ID:             "w1",
		Word:           "apple",
		Translation:    "manzana",
		Status:         StatusNew,
		NextReviewDate: now,
		EaseFactor:     DefaultEaseFactor,
	}, got)
}

func TestWord_Initialize(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC)

	t.Run("fills state for catalog words", func(t *testing.T) {
		got := Word{ID: "w1", Word: "dog", Translation: "perro"}.Initialize(now)
		assert.Equal(t, StatusNew, got.Status)
		assert.Equal(t, now, got.NextReviewDate)
		assert.Equal(t, DefaultEaseFactor, got.EaseFactor)
	})

	t.Run("keeps existing state", func(t *testing.T) {
		existing := Word{ID: "w1", Status: StatusMastered, Interval: 30, EaseFactor: 2.1}
		assert.Equal(t, existing, existing.Initialize(now))
	})
}

func TestFindByID(t *testing.T) {
	words := []Word{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, FindByID(words, "b"))
	assert.Equal(t, -1, FindByID(words, "c"))
}
