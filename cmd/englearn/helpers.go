package main

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/englearn/internal/catalog"
	"github.com/at-ishikawa/englearn/internal/config"
	"github.com/at-ishikawa/englearn/internal/dictionary"
	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/storage"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// environment is what most commands need: the configuration and the
// learner's progress in the configured storage.
type environment struct {
	cfg        *config.Config
	storage    *storage.Storage
	repository *progress.Repository
}

func newEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	s, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage.Open() > %w", err)
	}
	return &environment{
		cfg:        cfg,
		storage:    s,
		repository: progress.NewRepository(s.Store),
	}, nil
}

func (env *environment) Close() error {
	return env.storage.Close()
}

func (env *environment) dictionaryReader() *dictionary.Reader {
	return dictionary.NewReader(env.storage.DictionaryCache(env.cfg.Dictionaries.RapidAPI.CacheDirectory), dictionary.Config{
		RapidAPIHost: env.cfg.Dictionaries.RapidAPI.Host,
		RapidAPIKey:  env.cfg.Dictionaries.RapidAPI.Key,
	})
}

func (env *environment) loadCatalog(now time.Time) (*catalog.Catalog, error) {
	cat, err := catalog.Load(env.cfg.Catalog.WordsDirectory, env.cfg.Catalog.LessonsFile, now)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load() > %w", err)
	}
	return cat, nil
}

// words returns the catalog words with the learner's review state applied.
func (env *environment) words(ctx context.Context, cat *catalog.Catalog) ([]vocabulary.Word, error) {
	saved, err := env.repository.Words(ctx, env.cfg.Study.UserID)
	if err != nil {
		return nil, fmt.Errorf("repository.Words() > %w", err)
	}
	return catalog.MergeProgress(cat.Words, saved), nil
}
