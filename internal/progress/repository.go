package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/at-ishikawa/englearn/internal/skill"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

const (
	KeyWords   = "words"
	KeyHistory = "history"
	KeyScore   = "score"
)

// Repository reads and writes typed learner data through a Store.
type Repository struct {
	store Store
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// Words returns the learner's vocabulary with its review state. A learner who
// never studied has no words.
func (r *Repository) Words(ctx context.Context, userID string) ([]vocabulary.Word, error) {
	var words []vocabulary.Word
	if err := r.get(ctx, userID, KeyWords, &words); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return words, nil
}

func (r *Repository) SaveWords(ctx context.Context, userID string, words []vocabulary.Word) error {
	return r.put(ctx, userID, KeyWords, words)
}

// UpdateWord replaces the word with the same id, or appends it.
func (r *Repository) UpdateWord(ctx context.Context, userID string, word vocabulary.Word) error {
	return r.updateWords(ctx, userID, func(words []vocabulary.Word) []vocabulary.Word {
		if i := vocabulary.FindByID(words, word.ID); i >= 0 {
			words[i] = word
			return words
		}
		return append(words, word)
	})
}

// Review schedules one outcome for a word.
type Review struct {
	WordID string
	Apply  func(vocabulary.Word) vocabulary.Word
}

// ReviewWords applies reviews to the learner's stored words in one atomic
// update, so every review starts from the latest saved state. A word that was
// never saved starts from its entry in base. Reviews of words found in neither
// are skipped. The reviewed words are returned in review order.
func (r *Repository) ReviewWords(
	ctx context.Context,
	userID string,
	base []vocabulary.Word,
	reviews ...Review,
) ([]vocabulary.Word, error) {
	var reviewed []vocabulary.Word
	err := r.updateWords(ctx, userID, func(words []vocabulary.Word) []vocabulary.Word {
		reviewed = reviewed[:0]
		for _, review := range reviews {
			i := vocabulary.FindByID(words, review.WordID)
			if i < 0 {
				j := vocabulary.FindByID(base, review.WordID)
				if j < 0 {
					continue
				}
				words = append(words, base[j])
				i = len(words) - 1
			}
			words[i] = review.Apply(words[i])
			reviewed = append(reviewed, words[i])
		}
		return words
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

func (r *Repository) updateWords(ctx context.Context, userID string, fn func([]vocabulary.Word) []vocabulary.Word) error {
	return r.store.Update(ctx, userID, KeyWords, func(current []byte) ([]byte, error) {
		var words []vocabulary.Word
		if current != nil {
			if err := json.Unmarshal(current, &words); err != nil {
				return nil, fmt.Errorf("json.Unmarshal(%s) > %w", KeyWords, err)
			}
		}
		return json.Marshal(fn(words))
	})
}

// History returns the skill history in completion order.
func (r *Repository) History(ctx context.Context, userID string) ([]skill.HistoryEntry, error) {
	var history []skill.HistoryEntry
	if err := r.get(ctx, userID, KeyHistory, &history); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return history, nil
}

// SaveHistory replaces the whole history.
func (r *Repository) SaveHistory(ctx context.Context, userID string, history []skill.HistoryEntry) error {
	return r.put(ctx, userID, KeyHistory, history)
}

func (r *Repository) AppendHistory(ctx context.Context, userID string, entries ...skill.HistoryEntry) error {
	return r.store.Update(ctx, userID, KeyHistory, func(current []byte) ([]byte, error) {
		var history []skill.HistoryEntry
		if current != nil {
			if err := json.Unmarshal(current, &history); err != nil {
				return nil, fmt.Errorf("json.Unmarshal(%s) > %w", KeyHistory, err)
			}
		}
		return json.Marshal(append(history, entries...))
	})
}

// Score returns the latest placement score, or ErrNotFound before the first test.
func (r *Repository) Score(ctx context.Context, userID string) (skill.ScoreRecord, error) {
	var score skill.ScoreRecord
	if err := r.get(ctx, userID, KeyScore, &score); err != nil {
		return skill.ScoreRecord{}, err
	}
	return score, nil
}

func (r *Repository) SaveScore(ctx context.Context, userID string, score skill.ScoreRecord) error {
	return r.put(ctx, userID, KeyScore, score)
}

func (r *Repository) get(ctx context.Context, userID, key string, v any) error {
	data, err := r.store.Get(ctx, userID, key)
	if err != nil {
		return fmt.Errorf("store.Get(%s) > %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json.Unmarshal(%s) > %w", key, err)
	}
	return nil
}

func (r *Repository) put(ctx context.Context, userID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s) > %w", key, err)
	}
	if err := r.store.Put(ctx, userID, key, data); err != nil {
		return fmt.Errorf("store.Put(%s) > %w", key, err)
	}
	return nil
}
