// Package storage opens the configured progress store.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/englearn/internal/config"
	"github.com/at-ishikawa/englearn/internal/database"
	"github.com/at-ishikawa/englearn/internal/dictionary"
	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/schemas"
)

// Storage is the opened backend. DB is nil for the yaml backend.
type Storage struct {
	Store progress.Store
	DB    *sqlx.DB
}

// Open connects to MySQL and applies pending migrations, or falls back to
// YAML files under storage.directory.
func Open(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		if err := database.Migrate(ctx, db, schemas.Migrations); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		slog.Debug("using mysql storage", "host", cfg.Database.Host, "database", cfg.Database.Database)
		return &Storage{Store: progress.NewDBStore(db), DB: db}, nil
	default:
		slog.Debug("using yaml storage", "directory", cfg.Storage.Directory)
		return &Storage{Store: progress.NewYAMLStore(cfg.Storage.Directory)}, nil
	}
}

// DictionaryCache keeps dictionary responses next to the progress data.
func (s *Storage) DictionaryCache(cacheDirectory string) dictionary.Cache {
	if s.DB != nil {
		return dictionary.NewDBCache(s.DB)
	}
	return dictionary.NewFileCache(cacheDirectory)
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
