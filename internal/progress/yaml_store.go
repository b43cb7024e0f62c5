package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// YAMLStore keeps one YAML document per user in a directory. Values are
// stored as YAML so that the files stay readable and editable by hand.
type YAMLStore struct {
	directory string
	mu        sync.Mutex
}

func NewYAMLStore(directory string) *YAMLStore {
	return &YAMLStore{directory: directory}
}

func (s *YAMLStore) Get(_ context.Context, userID, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	document, err := s.read(userID)
	if err != nil {
		return nil, err
	}
	value, ok := document[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, userID, key)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(%s) > %w", key, err)
	}
	return data, nil
}

func (s *YAMLStore) Put(_ context.Context, userID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.put(userID, key, value)
}

func (s *YAMLStore) Update(_ context.Context, userID, key string, fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	document, err := s.read(userID)
	if err != nil {
		return err
	}
	var current []byte
	if value, ok := document[key]; ok {
		if current, err = json.Marshal(value); err != nil {
			return fmt.Errorf("json.Marshal(%s) > %w", key, err)
		}
	}

	updated, err := fn(current)
	if err != nil {
		return err
	}
	return s.put(userID, key, updated)
}

func (s *YAMLStore) put(userID, key string, value []byte) error {
	document, err := s.read(userID)
	if err != nil {
		return err
	}

	var decoded any
	if err := json.Unmarshal(value, &decoded); err != nil {
		return fmt.Errorf("json.Unmarshal(%s) > %w", key, err)
	}
	document[key] = decoded

	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", s.directory, err)
	}
	if err := writeYamlFile(s.path(userID), document); err != nil {
		return fmt.Errorf("writeYamlFile(%s) > %w", userID, err)
	}
	return nil
}

// read returns an empty document for a user without a file.
func (s *YAMLStore) read(userID string) (map[string]any, error) {
	if !userIDPattern.MatchString(userID) {
		return nil, fmt.Errorf("invalid user id %q", userID)
	}

	document, err := readYamlFile[map[string]any](s.path(userID))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("readYamlFile(%s) > %w", userID, err)
	}
	if document == nil {
		document = map[string]any{}
	}
	return document, nil
}

// Users lists the users that have a file in the directory, sorted by id.
func (s *YAMLStore) Users(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.directory)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir(%s) > %w", s.directory, err)
	}

	var users []string
	for _, entry := range entries {
		userID, ok := strings.CutSuffix(entry.Name(), ".yml")
		if entry.IsDir() || !ok || !userIDPattern.MatchString(userID) {
			continue
		}
		users = append(users, userID)
	}
	return users, nil
}

func (s *YAMLStore) path(userID string) string {
	return filepath.Join(s.directory, userID+".yml")
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

	return yaml.NewEncoder(file).Encode(data)
}
