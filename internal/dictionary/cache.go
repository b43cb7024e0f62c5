package dictionary

import (
	"context"
	"errors"
	"strings"
)

// ErrCacheMiss is returned by a Cache that has no response for a word.
var ErrCacheMiss = errors.New("dictionary cache miss")

// Cache stores raw dictionary API responses keyed by word.
type Cache interface {
	Get(ctx context.Context, word string) ([]byte, error)
	Put(ctx context.Context, word string, response []byte) error
}

// cacheKey lower-cases a word and replaces path separators.
func cacheKey(word string) string {
	key := strings.ToLower(strings.TrimSpace(word))
	return strings.NewReplacer("/", "_", "\\", "_").Replace(key)
}

// ListableCache is a Cache that can enumerate its words.
type ListableCache interface {
	Cache
	Words(ctx context.Context) ([]string, error)
}

var (
	_ ListableCache = (*FileCache)(nil)
	_ ListableCache = (*DBCache)(nil)
)
