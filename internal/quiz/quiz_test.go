package quiz

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/englearn/internal/skill"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

func newTestGenerator(seed int64) *Generator {
	counter := 0
	return NewGenerator(
		WithRand(rand.New(rand.NewSource(seed))),
		WithIDFunc(func() string {
			counter++
			return fmt.Sprintf("q-%d", counter)
		}),
	)
}

func word(id, w, translation, topic string, level skill.Level) vocabulary.Word {
	return vocabulary.Word{ID: id, Word: w, Translation: translation, Topic: topic, Level: level}
}

var animalsA1 = []vocabulary.Word{
	word("1", "cat", "gato", "animals", skill.LevelA1),
	word("2", "dog", "perro", "animals", skill.LevelA1),
	word("3", "bird", "pájaro", "animals", skill.LevelA1),
	word("4", "fish", "pez", "animals", skill.LevelA1),
	word("5", "horse", "caballo", "animals", skill.LevelA1),
}

func assertValidQuestion(t *testing.T, q Question, answerOf map[string]string) {
	t.Helper()

	require.Len(t, q.Options, OptionsPerQuestion)
	require.GreaterOrEqual(t, q.AnswerIndex, 0)
	require.Less(t, q.AnswerIndex, len(q.Options))
	assert.Equal(t, answerOf[q.WordID], q.Options[q.AnswerIndex])

	unique := make(map[string]struct{})
	for _, option := range q.Options {
		unique[option] = struct{}{}
	}
	assert.Len(t, unique, OptionsPerQuestion, "options must not repeat: %v", q.Options)
}

func TestGenerator_GenerateVocabularyQuiz(t *testing.T) {
	bank := append([]vocabulary.Word{}, animalsA1...)
	bank = append(bank,
		word("6", "apple", "manzana", "food", skill.LevelA1),
		word("7", "bread", "pan", "food", skill.LevelA1),
		word("8", "lion", "león", "animals", skill.LevelB1),
	)

	answerOf := make(map[string]string)
	for _, w := range bank {
		answerOf[w.ID] = w.Translation
	}

	tests := []struct {
		name    string
		opts    Options
		wantLen int
	}{
		{
			name:    "capped by pool size when filtering by level and topic",
			opts:    Options{Topic: "animals", Level: skill.LevelA1, NumberOfQuestions: 10, NoDuplicateAnswers: true},
			wantLen: 5,
		},
		{
			name:    "requested number smaller than the pool",
			opts:    Options{NumberOfQuestions: 3, NoDuplicateAnswers: true},
			wantLen: 3,
		},
		{
			name:    "non-positive number uses the default of ten",
			opts:    Options{NumberOfQuestions: 0},
			wantLen: len(bank),
		},
		{
			name:    "duplicates allowed across questions",
			opts:    Options{NumberOfQuestions: 8, NoDuplicateAnswers: false},
			wantLen: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				got, err := newTestGenerator(seed).GenerateVocabularyQuiz(bank, tt.opts)
				require.NoError(t, err)
				require.Len(t, got, tt.wantLen)

				subjects := make(map[string]struct{})
				for _, q := range got {
					assertValidQuestion(t, q, answerOf)
					subjects[q.WordID] = struct{}{}
					if tt.opts.Topic != "" {
						assert.Equal(t, tt.opts.Topic, q.Topic)
					}
					if tt.opts.Level != "" {
						assert.Equal(t, tt.opts.Level, q.Level)
					}
				}
				assert.Len(t, subjects, tt.wantLen, "each word is asked at most once")
			}
		})
	}
}

func TestGenerator_GenerateVocabularyQuiz_notEnoughWords(t *testing.T) {
	tests := []struct {
		name  string
		words []vocabulary.Word
		opts  Options
	}{
		{
			name:  "empty bank",
			words: nil,
			opts:  DefaultOptions(),
		},
		{
			name:  "three words",
			words: animalsA1[:3],
			opts:  DefaultOptions(),
		},
		{
			name:  "filter leaves too few words",
			words: animalsA1,
			opts:  Options{Topic: "food", NumberOfQuestions: 5, NoDuplicateAnswers: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestGenerator(1).GenerateVocabularyQuiz(tt.words, tt.opts)
			assert.ErrorIs(t, err, ErrNotEnoughWords)
			assert.Nil(t, got)
		})
	}
}

func TestGenerator_GenerateVocabularyQuiz_scarceDistractorsSkipQuestions(t *testing.T) {
	// Two words share a translation, so only three distinct answers exist and no
	// question can get three distractors that differ from its correct answer.
	words := []vocabulary.Word{
		word("1", "cat", "gato", "animals", skill.LevelA1),
		word("2", "kitty", "gato", "animals", skill.LevelA1),
		word("3", "dog", "perro", "animals", skill.LevelA1),
		word("4", "bird", "pájaro", "animals", skill.LevelA1),
	}

	got, err := newTestGenerator(3).GenerateVocabularyQuiz(words, DefaultOptions())
	require.NoError(t, err)
	assert.Less(t, len(got), DefaultOptions().NumberOfQuestions)
	assert.Empty(t, got)
}

func TestGenerator_GenerateVocabularyQuiz_fallsBackWhenStrictDistractorsRunOut(t *testing.T) {
	// Four words: after the first question every answer has been used, so the
	// remaining questions rely on the relaxed selection.
	answerOf := make(map[string]string)
	for _, w := range animalsA1[:4] {
		answerOf[w.ID] = w.Translation
	}

	got, err := newTestGenerator(7).GenerateVocabularyQuiz(animalsA1[:4], DefaultOptions())
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, q := range got {
		assertValidQuestion(t, q, answerOf)
	}
}

func TestGenerator_GenerateVocabularyQuiz_noDuplicateAnswersSpreadsDistractors(t *testing.T) {
	var bank []vocabulary.Word
	for i := 0; i < 40; i++ {
		bank = append(bank, word(fmt.Sprint(i), fmt.Sprintf("word%d", i), fmt.Sprintf("palabra%d", i), "", ""))
	}

	got, err := newTestGenerator(11).GenerateVocabularyQuiz(bank, Options{NumberOfQuestions: 10, NoDuplicateAnswers: true})
	require.NoError(t, err)
	require.Len(t, got, 10)

	used := make(map[string]struct{})
	for _, q := range got {
		for i, option := range q.Options {
			if i == q.AnswerIndex {
				continue
			}
			_, reused := used[option]
			assert.False(t, reused, "distractor %q was reused although enough words exist", option)
		}
		for _, option := range q.Options {
			used[option] = struct{}{}
		}
	}
}

func TestGenerator_GenerateReverseVocabularyQuiz(t *testing.T) {
	answerOf := make(map[string]string)
	for _, w := range animalsA1 {
		answerOf[w.ID] = w.Word
	}

	got, err := newTestGenerator(5).GenerateReverseVocabularyQuiz(animalsA1, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, got, len(animalsA1))
	for _, q := range got {
		assertValidQuestion(t, q, answerOf)
		assert.Contains(t, q.Question, "Which word means")
	}
}

func TestGenerator_questionIDs(t *testing.T) {
	got, err := NewGenerator().GenerateVocabularyQuiz(animalsA1, DefaultOptions())
	require.NoError(t, err)

	ids := make(map[string]struct{})
	for _, q := range got {
		assert.Regexp(t, `^q-[0-9a-f-]{36}$`, q.ID)
		ids[q.ID] = struct{}{}
	}
	assert.Len(t, ids, len(got))
}

func TestQuestion_CorrectAnswer(t *testing.T) {
	q := Question{Options: []string{"a", "b"}, AnswerIndex: 1}
	assert.Equal(t, "b", q.CorrectAnswer())
	assert.Equal(t, "", Question{AnswerIndex: 3}.CorrectAnswer())
}

func TestFilterWords(t *testing.T) {
	bank := append([]vocabulary.Word{}, animalsA1...)
	bank = append(bank, word("9", "tiger", "tigre", "animals", skill.LevelB2))

	assert.Len(t, FilterWords(bank, "", ""), 6)
	assert.Len(t, FilterWords(bank, "animals", ""), 6)
	assert.Len(t, FilterWords(bank, "animals", skill.LevelB2), 1)
	assert.Empty(t, FilterWords(bank, "food", ""))
}
