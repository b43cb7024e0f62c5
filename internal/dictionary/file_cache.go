package dictionary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileCache keeps one JSON file per word.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

func (cache *FileCache) filePath(word string) string {
	return filepath.Join(cache.rootDir, cacheKey(word)+".json")
}

func (cache *FileCache) Get(_ context.Context, word string) ([]byte, error) {
	contents, err := os.ReadFile(cache.filePath(word))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile > %w", err)
	}
	return contents, nil
}

// Words lists the cache keys of every stored response.
func (cache *FileCache) Words(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(cache.rootDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir(%s) > %w", cache.rootDir, err)
	}

	var words []string
	for _, entry := range entries {
		if word, ok := strings.CutSuffix(entry.Name(), ".json"); ok && !entry.IsDir() {
			words = append(words, word)
		}
	}
	return words, nil
}

func (cache *FileCache) Put(_ context.Context, word string, response []byte) error {
	if err := os.MkdirAll(cache.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", cache.rootDir, err)
	}
	if err := os.WriteFile(cache.filePath(word), response, 0644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}
	return nil
}
