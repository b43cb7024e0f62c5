// Package catalog loads the static word bank and lesson catalog.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/englearn/internal/recommend"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

type Catalog struct {
	Words   []vocabulary.Word
	Lessons []recommend.Lesson
}

// Load reads every YAML file under wordsDir as a list of words and lessonsFile
// as a list of lessons. Words without review state are initialized as new at now.
func Load(wordsDir, lessonsFile string, now time.Time) (*Catalog, error) {
	words, err := LoadWords(wordsDir, now)
	if err != nil {
		return nil, fmt.Errorf("LoadWords(%s) > %w", wordsDir, err)
	}
	lessons, err := LoadLessons(lessonsFile)
	if err != nil {
		return nil, fmt.Errorf("LoadLessons(%s) > %w", lessonsFile, err)
	}
	return &Catalog{
		Words:   words,
		Lessons: lessons,
	}, nil
}

func LoadWords(dir string, now time.Time) ([]vocabulary.Word, error) {
	files, err := LoadWordFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWordFiles(%s) > %w", dir, err)
	}

	var words []vocabulary.Word
	for _, file := range files {
		for _, w := range file.Words {
			words = append(words, w.Initialize(now))
		}
	}
	return words, nil
}

// WordFile is one YAML file of the word bank, as written by its author.
type WordFile struct {
	Path  string
	Words []vocabulary.Word
}

func LoadWordFiles(dir string) ([]WordFile, error) {
	files, err := loadYamlFiles[[]vocabulary.Word](dir, isYamlFile)
	if err != nil {
		return nil, fmt.Errorf("loadYamlFiles(%s) > %w", dir, err)
	}

	result := make([]WordFile, 0, len(files))
	for _, file := range files {
		result = append(result, WordFile{Path: file.path, Words: file.contents})
	}
	return result, nil
}

// wordEntry is the authored part of a word. Review state never goes back into the catalog.
type wordEntry struct {
	ID          string `yaml:"id"`
	Word        string `yaml:"word"`
	Translation string `yaml:"translation"`
	Definition  string `yaml:"definition,omitempty"`
	Example     string `yaml:"example,omitempty"`
	Topic       string `yaml:"topic,omitempty"`
	Level       string `yaml:"level,omitempty"`
}

// WriteWordFile overwrites file.Path with the authored fields of file.Words.
func WriteWordFile(file WordFile) error {
	entries := make([]wordEntry, 0, len(file.Words))
	for _, w := range file.Words {
		entries = append(entries, wordEntry{
			ID:          w.ID,
			Word:        w.Word,
			Translation: w.Translation,
			Definition:  w.Definition,
			Example:     w.Example,
			Topic:       w.Topic,
			Level:       string(w.Level),
		})
	}
	if err := writeYamlFile(file.Path, entries); err != nil {
		return fmt.Errorf("writeYamlFile(%s) > %w", file.Path, err)
	}
	return nil
}

func LoadLessons(path string) ([]recommend.Lesson, error) {
	lessons, err := readYamlFile[[]recommend.Lesson](path)
	if err != nil {
		return nil, fmt.Errorf("readYamlFile(%s) > %w", path, err)
	}
	return lessons, nil
}

// Topics returns the distinct word topics in sorted order.
func (c *Catalog) Topics() []string {
	seen := make(map[string]bool)
	var topics []string
	for _, w := range c.Words {
		if w.Topic == "" || seen[w.Topic] {
			continue
		}
		seen[w.Topic] = true
		topics = append(topics, w.Topic)
	}
	sort.Strings(topics)
	return topics
}

// MergeProgress overlays a learner's saved words on the catalog words. Saved
// words take precedence and words only known to the learner are kept.
func MergeProgress(catalogWords, saved []vocabulary.Word) []vocabulary.Word {
	merged := make([]vocabulary.Word, 0, len(catalogWords)+len(saved))
	used := make(map[string]bool, len(saved))
	for _, w := range catalogWords {
		if i := vocabulary.FindByID(saved, w.ID); i >= 0 {
			merged = append(merged, saved[i])
			used[w.ID] = true
			continue
		}
		merged = append(merged, w)
	}
	for _, w := range saved {
		if !used[w.ID] {
			merged = append(merged, w)
		}
	}
	return merged
}

func isYamlFile(path string, info os.FileInfo) bool {
	if info.IsDir() {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

func readYamlFile[T any](path string) (T, error) {
	var result T

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&result); err != nil {
		return result, fmt.Errorf("yaml.NewDecoder().Decode() > %w", err)
	}
	return result, nil
}

func writeYamlFile[T any](path string, data T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoder.Close() > %w", err)
	}
	return nil
}

type yamlFile[T any] struct {
	path     string
	contents T
}

// loadYamlFiles walks dir in lexical order.
func loadYamlFiles[T any](dir string, filter func(path string, info os.FileInfo) bool) ([]yamlFile[T], error) {
	var files []yamlFile[T]

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !filter(path, info) {
			return nil
		}

		contents, err := readYamlFile[T](path)
		if err != nil {
			return fmt.Errorf("readYamlFile(%s) > %w", path, err)
		}
		files = append(files, yamlFile[T]{
			path:     path,
			contents: contents,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("filepath.Walk(%s) > %w", dir, err)
	}

	return files, nil
}
