// Package datasync copies learner progress and cached dictionary responses
// between two storage backends, typically from the YAML files into MySQL.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/at-ishikawa/englearn/internal/dictionary"
	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/skill"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	Users             int
	WordsNew          int
	WordsSkipped      int
	WordsUpdated      int
	HistoryNew        int
	HistorySkipped    int
	ScoresNew         int
	ScoresSkipped     int
	ScoresUpdated     int
	DictionaryNew     int
	DictionarySkipped int
	DictionaryUpdated int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Source is a progress store whose users can be listed.
type Source interface {
	progress.Store
	progress.UserLister
}

// Importer copies data from a source backend into a target backend. History
// entries are merged, words and scores already in the target are only
// replaced with UpdateExisting.
type Importer struct {
	source           Source
	target           *progress.Repository
	sourceDictionary dictionary.ListableCache
	targetDictionary dictionary.Cache
	writer           io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(
	source Source,
	target progress.Store,
	sourceDictionary dictionary.ListableCache,
	targetDictionary dictionary.Cache,
	writer io.Writer,
) *Importer {
	return &Importer{
		source:           source,
		target:           progress.NewRepository(target),
		sourceDictionary: sourceDictionary,
		targetDictionary: targetDictionary,
		writer:           writer,
	}
}

// ImportProgress imports the given users, or every user of the source when
// userIDs is empty.
func (imp *Importer) ImportProgress(ctx context.Context, userIDs []string, opts ImportOptions) (*ImportResult, error) {
	if len(userIDs) == 0 {
		users, err := imp.source.Users(ctx)
		if err != nil {
			return nil, fmt.Errorf("source.Users() > %w", err)
		}
		userIDs = users
	}

	var result ImportResult
	source := progress.NewRepository(imp.source)
	for _, userID := range userIDs {
		fmt.Fprintf(imp.writer, "%s\n", userID)
		if err := imp.importWords(ctx, source, userID, opts, &result); err != nil {
			return nil, fmt.Errorf("importWords(%s) > %w", userID, err)
		}
		if err := imp.importHistory(ctx, source, userID, opts, &result); err != nil {
			return nil, fmt.Errorf("importHistory(%s) > %w", userID, err)
		}
		if err := imp.importScore(ctx, source, userID, opts, &result); err != nil {
			return nil, fmt.Errorf("importScore(%s) > %w", userID, err)
		}
		result.Users++
	}
	return &result, nil
}

func (imp *Importer) importWords(ctx context.Context, source *progress.Repository, userID string, opts ImportOptions, result *ImportResult) error {
	words, err := source.Words(ctx, userID)
	if err != nil {
		return fmt.Errorf("source.Words() > %w", err)
	}
	existing, err := imp.target.Words(ctx, userID)
	if err != nil {
		return fmt.Errorf("target.Words() > %w", err)
	}

	merged := slices.Clone(existing)
	changed := false
	for _, w := range words {
		i := vocabulary.FindByID(merged, w.ID)
		switch {
		case i < 0:
			merged = append(merged, w)
			fmt.Fprintf(imp.writer, "  [NEW]  word %q\n", w.Word)
			result.WordsNew++
			changed = true
		case opts.UpdateExisting:
			merged[i] = w
			fmt.Fprintf(imp.writer, "  [UPDATE]  word %q\n", w.Word)
			result.WordsUpdated++
			changed = true
		default:
			result.WordsSkipped++
		}
	}

	if !changed || opts.DryRun {
		return nil
	}
	if err := imp.target.SaveWords(ctx, userID, merged); err != nil {
		return fmt.Errorf("target.SaveWords() > %w", err)
	}
	return nil
}

func sameEntry(a, b skill.HistoryEntry) bool {
	return a.LessonID == b.LessonID && a.SkillType == b.SkillType && a.CompletedAt.Equal(b.CompletedAt)
}

func (imp *Importer) importHistory(ctx context.Context, source *progress.Repository, userID string, opts ImportOptions, result *ImportResult) error {
	history, err := source.History(ctx, userID)
	if err != nil {
		return fmt.Errorf("source.History() > %w", err)
	}
	existing, err := imp.target.History(ctx, userID)
	if err != nil {
		return fmt.Errorf("target.History() > %w", err)
	}

	merged := slices.Clone(existing)
	added := 0
	for _, entry := range history {
		if slices.ContainsFunc(existing, func(e skill.HistoryEntry) bool { return sameEntry(e, entry) }) {
			result.HistorySkipped++
			continue
		}
		merged = append(merged, entry)
		added++
	}
	result.HistoryNew += added
	if added > 0 {
		fmt.Fprintf(imp.writer, "  [NEW]  %d history entries\n", added)
	}

	if added == 0 || opts.DryRun {
		return nil
	}
	slices.SortStableFunc(merged, func(a, b skill.HistoryEntry) int {
		return a.CompletedAt.Compare(b.CompletedAt)
	})
	if err := imp.target.SaveHistory(ctx, userID, merged); err != nil {
		return fmt.Errorf("target.SaveHistory() > %w", err)
	}
	return nil
}

// importScore keeps the newer placement score when UpdateExisting is set.
func (imp *Importer) importScore(ctx context.Context, source *progress.Repository, userID string, opts ImportOptions, result *ImportResult) error {
	score, err := source.Score(ctx, userID)
	if errors.Is(err, progress.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("source.Score() > %w", err)
	}

	existing, err := imp.target.Score(ctx, userID)
	switch {
	case errors.Is(err, progress.ErrNotFound):
		fmt.Fprintf(imp.writer, "  [NEW]  score %d (%s)\n", score.Total, score.Level)
		result.ScoresNew++
	case err != nil:
		return fmt.Errorf("target.Score() > %w", err)
	case opts.UpdateExisting && score.TestedAt.After(existing.TestedAt):
		fmt.Fprintf(imp.writer, "  [UPDATE]  score %d (%s)\n", score.Total, score.Level)
		result.ScoresUpdated++
	default:
		result.ScoresSkipped++
		return nil
	}

	if opts.DryRun {
		return nil
	}
	if err := imp.target.SaveScore(ctx, userID, score); err != nil {
		return fmt.Errorf("target.SaveScore() > %w", err)
	}
	return nil
}

// ImportDictionary copies cached dictionary API responses.
func (imp *Importer) ImportDictionary(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	words, err := imp.sourceDictionary.Words(ctx)
	if err != nil {
		return nil, fmt.Errorf("sourceDictionary.Words() > %w", err)
	}
	for _, word := range words {
		data, err := imp.sourceDictionary.Get(ctx, word)
		if err != nil {
			return nil, fmt.Errorf("sourceDictionary.Get(%s) > %w", word, err)
		}

		_, err = imp.targetDictionary.Get(ctx, word)
		switch {
		case errors.Is(err, dictionary.ErrCacheMiss):
			result.DictionaryNew++
		case err != nil:
			return nil, fmt.Errorf("targetDictionary.Get(%s) > %w", word, err)
		case opts.UpdateExisting:
			result.DictionaryUpdated++
		default:
			result.DictionarySkipped++
			continue
		}

		if opts.DryRun {
			continue
		}
		if err := imp.targetDictionary.Put(ctx, word, data); err != nil {
			return nil, fmt.Errorf("targetDictionary.Put(%s) > %w", word, err)
		}
	}

	return &result, nil
}
