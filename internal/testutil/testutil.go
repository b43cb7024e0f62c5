// Package testutil provides shared test helpers for creating config files and catalog fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WordsYAML is the word bank written by SetupTestConfig. bread already has a
// definition and an example, apple has neither.
const WordsYAML = `- id: apple
  word: apple
  translation: manzana
  topic: food
  level: A1
- id: bread
  word: bread
  translation: pan
  definition: food made of flour
  example: I buy bread every day.
  topic: food
  level: A1
`

// LessonsYAML is the lesson catalog written by SetupTestConfig.
const LessonsYAML = `- id: reading-a2
  title: Short stories
  skill_type: reading
  level: A2
  duration_minutes: 15
- id: writing-a2
  title: Writing emails
  skill_type: writing
  level: A2
  duration_minutes: 20
`

// UserID is the study.user_id of the generated config.
const UserID = "tester"

// SetupTestConfig writes a small catalog and a config file that keeps every
// path under tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	wordsDir := filepath.Join(tmpDir, "catalog", "words")
	require.NoError(t, os.MkdirAll(wordsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(wordsDir, "food.yml"), []byte(WordsYAML), 0644))
	lessonsFile := filepath.Join(tmpDir, "catalog", "lessons.yml")
	require.NoError(t, os.WriteFile(lessonsFile, []byte(LessonsYAML), 0644))

	configContent := fmt.Sprintf(`storage:
  backend: yaml
  directory: %s
catalog:
  words_directory: %s
  lessons_file: %s
dictionaries:
  rapidapi:
    cache_directory: %s
outputs:
  report_directory: %s
study:
  user_id: %s
`,
		filepath.Join(tmpDir, "progress"),
		wordsDir,
		lessonsFile,
		filepath.Join(tmpDir, "dictionaries"),
		filepath.Join(tmpDir, "reports"),
		UserID,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file with a fake OpenAI API key for tests
// that require API key validation to pass.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// SetupBrokenConfig creates a config file with invalid YAML that makes loading fail.
func SetupBrokenConfig(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}
