// Package quiz generates multiple-choice vocabulary quizzes from a word bank.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/englearn/internal/skill"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

const (
	// OptionsPerQuestion is one correct answer plus three distractors.
	OptionsPerQuestion = 4
	distractorCount    = OptionsPerQuestion - 1

	DefaultNumberOfQuestions = 10
)

// ErrNotEnoughWords is returned when the filtered word bank cannot fill a single question.
var ErrNotEnoughWords = errors.New("not enough words to generate a quiz")

// Question is immutable once generated. Options holds the correct answer exactly
// once and AnswerIndex always points at it.
type Question struct {
	ID          string      `json:"id"`
	WordID      string      `json:"word_id"`
	Question    string      `json:"question"`
	Options     []string    `json:"options"`
	AnswerIndex int         `json:"answer_index"`
	Explanation string      `json:"explanation,omitempty"`
	Topic       string      `json:"topic,omitempty"`
	Level       skill.Level `json:"level,omitempty"`
}

// CorrectAnswer returns the option at AnswerIndex.
func (q Question) CorrectAnswer() string {
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.AnswerIndex]
}

// Options controls word filtering and quiz size. Use DefaultOptions as a base.
type Options struct {
	Topic              string
	Level              skill.Level
	NumberOfQuestions  int
	NoDuplicateAnswers bool
}

// DefaultOptions returns 10 questions with answers unique across the quiz.
func DefaultOptions() Options {
	return Options{
		NumberOfQuestions:  DefaultNumberOfQuestions,
		NoDuplicateAnswers: true,
	}
}

// Direction selects which side of a word is shown and which is answered.
type Direction int

const (
	// DirectionForward shows the word and asks for its translation.
	DirectionForward Direction = iota
	// DirectionReverse shows the translation and asks for the word.
	DirectionReverse
)

func (d Direction) prompt(w vocabulary.Word) string {
	if d == DirectionReverse {
		return w.Translation
	}
	return w.Word
}

func (d Direction) answer(w vocabulary.Word) string {
	if d == DirectionReverse {
		return w.Word
	}
	return w.Translation
}

func (d Direction) questionText(w vocabulary.Word) string {
	if d == DirectionReverse {
		return fmt.Sprintf("Which word means %q?", d.prompt(w))
	}
	return fmt.Sprintf("What does %q mean?", d.prompt(w))
}

// Generator builds quizzes. It is not safe for concurrent use because *rand.Rand is not.
type Generator struct {
	rand  *rand.Rand
	newID func() string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRand injects the random source, typically a seeded one in tests.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(g *Generator) {
		g.rand = r
	}
}

// WithIDFunc overrides how question ids are produced.
func WithIDFunc(f func() string) GeneratorOption {
	return func(g *Generator) {
		g.newID = f
	}
}

// NewGenerator returns a Generator seeded from the clock with uuid question ids.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		newID: func() string {
			return "q-" + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateVocabularyQuiz asks for the translation of each word.
func (g *Generator) GenerateVocabularyQuiz(words []vocabulary.Word, opts Options) ([]Question, error) {
	return g.generate(words, opts, DirectionForward)
}

// GenerateReverseVocabularyQuiz asks for the word given its translation.
func (g *Generator) GenerateReverseVocabularyQuiz(words []vocabulary.Word, opts Options) ([]Question, error) {
	return g.generate(words, opts, DirectionReverse)
}

// Generate dispatches on direction.
func (g *Generator) Generate(words []vocabulary.Word, opts Options, direction Direction) ([]Question, error) {
	return g.generate(words, opts, direction)
}

// generate may return fewer questions than requested: a subject for which no
// three distinct distractors exist is skipped rather than failing the quiz.
func (g *Generator) generate(words []vocabulary.Word, opts Options, direction Direction) ([]Question, error) {
	pool := FilterWords(words, opts.Topic, opts.Level)
	if len(pool) < OptionsPerQuestion {
		return nil, fmt.Errorf("%w: need at least %d, got %d (topic=%q, level=%q)",
			ErrNotEnoughWords, OptionsPerQuestion, len(pool), opts.Topic, opts.Level)
	}

	n := opts.NumberOfQuestions
	if n <= 0 {
		n = DefaultNumberOfQuestions
	}

	Shuffle(g.rand, pool)
	subjects := pool
	if n < len(subjects) {
		subjects = subjects[:n]
	}

	usedAnswers := make(map[string]struct{})
	questions := make([]Question, 0, len(subjects))
	for _, subject := range subjects {
		correct := direction.answer(subject)

		var distractors []string
		if opts.NoDuplicateAnswers {
			distractors = g.pickDistractors(pool, subject, direction, usedAnswers)
		}
		if len(distractors) < distractorCount {
			distractors = g.pickDistractors(pool, subject, direction, nil)
		}
		if len(distractors) < distractorCount {
			continue
		}

		usedAnswers[correct] = struct{}{}
		for _, d := range distractors {
			usedAnswers[d] = struct{}{}
		}

		options := append([]string{correct}, distractors...)
		Shuffle(g.rand, options)
		answerIndex := 0
		for i, option := range options {
			if option == correct {
				answerIndex = i
				break
			}
		}

		questions = append(questions, Question{
			ID:          g.newID(),
			WordID:      subject.ID,
			Question:    direction.questionText(subject),
			Options:     options,
			AnswerIndex: answerIndex,
			Explanation: explanation(subject),
			Topic:       subject.Topic,
			Level:       subject.Level,
		})
	}
	return questions, nil
}

// pickDistractors draws up to three answers at random from pool. Candidates are
// skipped when they are the subject, share the correct answer, repeat an already
// picked distractor, or appear in exclude.
func (g *Generator) pickDistractors(
	pool []vocabulary.Word,
	subject vocabulary.Word,
	direction Direction,
	exclude map[string]struct{},
) []string {
	correct := direction.answer(subject)
	seen := map[string]struct{}{correct: {}}

	var candidates []string
	for _, w := range pool {
		if w.ID == subject.ID && w.Word == subject.Word {
			continue
		}
		answer := direction.answer(w)
		if _, ok := seen[answer]; ok {
			continue
		}
		if _, ok := exclude[answer]; ok {
			continue
		}
		seen[answer] = struct{}{}
		candidates = append(candidates, answer)
	}

	Shuffle(g.rand, candidates)
	if len(candidates) > distractorCount {
		candidates = candidates[:distractorCount]
	}
	return candidates
}

// FilterWords keeps words matching topic and level. Empty filters match everything.
// The result is a new slice so callers can shuffle it freely.
func FilterWords(words []vocabulary.Word, topic string, level skill.Level) []vocabulary.Word {
	filtered := make([]vocabulary.Word, 0, len(words))
	for _, w := range words {
		if topic != "" && w.Topic != topic {
			continue
		}
		if level != "" && w.Level != level {
			continue
		}
		filtered = append(filtered, w)
	}
	return filtered
}

func explanation(w vocabulary.Word) string {
	switch {
	case w.Definition != "" && w.Example != "":
		return fmt.Sprintf("%s: %s (e.g. %s)", w.Word, w.Definition, w.Example)
	case w.Definition != "":
		return fmt.Sprintf("%s: %s", w.Word, w.Definition)
	case w.Example != "":
		return fmt.Sprintf("e.g. %s", w.Example)
	}
	return ""
}
