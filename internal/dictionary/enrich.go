package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/englearn/internal/dictionary/rapidapi"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

type Dictionary interface {
	Lookup(ctx context.Context, word string) (rapidapi.Response, error)
}

// Enrich fills in missing definitions and examples. Words the dictionary does
// not know are left unchanged. It returns the updated words and how many of
// them changed.
func Enrich(ctx context.Context, dict Dictionary, words []vocabulary.Word) ([]vocabulary.Word, int, error) {
	result := make([]vocabulary.Word, len(words))
	copy(result, words)

	updated := 0
	for i, w := range result {
		if w.Definition != "" && w.Example != "" {
			continue
		}

		resp, err := dict.Lookup(ctx, w.Word)
		if errors.Is(err, ErrWordNotFound) {
			slog.Warn("word is not in the dictionary", "word", w.Word)
			continue
		}
		if err != nil {
			return nil, updated, fmt.Errorf("dict.Lookup(%s) > %w", w.Word, err)
		}

		changed := false
		if w.Definition == "" {
			if definition := resp.FirstDefinition(); definition != "" {
				result[i].Definition = definition
				changed = true
			}
		}
		if w.Example == "" {
			if example := resp.FirstExample(); example != "" {
				result[i].Example = example
				changed = true
			}
		}
		if changed {
			updated++
		}
	}
	return result, updated, nil
}
