package dictionary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const SourceTypeRapidAPI = "rapidapi"

// DictionaryEntry is a cached dictionary API response.
type DictionaryEntry struct {
	Word       string          `db:"word"`
	SourceType string          `db:"source_type"`
	Response   json.RawMessage `db:"response"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// DBCache stores responses in the dictionary_entries table so that every
// server instance shares one cache.
type DBCache struct {
	db         *sqlx.DB
	sourceType string
}

func NewDBCache(db *sqlx.DB) *DBCache {
	return &DBCache{db: db, sourceType: SourceTypeRapidAPI}
}

func (c *DBCache) Get(ctx context.Context, word string) ([]byte, error) {
	var entry DictionaryEntry
	err := c.db.GetContext(ctx, &entry,
		"SELECT * FROM dictionary_entries WHERE word = ? AND source_type = ?",
		cacheKey(word), c.sourceType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(dictionary_entry) > %w", err)
	}
	return entry.Response, nil
}

func (c *DBCache) Put(ctx context.Context, word string, response []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO dictionary_entries (word, source_type, response)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE response = VALUES(response)`,
		cacheKey(word), c.sourceType, response)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert dictionary_entry) > %w", err)
	}
	return nil
}

// Words lists the cached words of this source type.
func (c *DBCache) Words(ctx context.Context) ([]string, error) {
	var words []string
	if err := c.db.SelectContext(ctx, &words,
		"SELECT word FROM dictionary_entries WHERE source_type = ? ORDER BY word",
		c.sourceType); err != nil {
		return nil, fmt.Errorf("db.SelectContext(dictionary_entries) > %w", err)
	}
	return words, nil
}
