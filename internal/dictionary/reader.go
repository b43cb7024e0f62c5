package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/englearn/internal/dictionary/rapidapi"
)

// ErrWordNotFound is returned when the dictionary has no entry for a word.
var ErrWordNotFound = errors.New("word not found in dictionary")

type Config struct {
	RapidAPIHost string
	RapidAPIKey  string
	// BaseURL overrides https://<RapidAPIHost>.
	BaseURL string
}

// Reader looks words up in WordsAPI and caches every response.
type Reader struct {
	config Config
	cache  Cache
	client *resty.Client
}

func NewReader(cache Cache, config Config) *Reader {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://" + config.RapidAPIHost
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("x-rapidapi-host", config.RapidAPIHost).
		SetHeader("x-rapidapi-key", config.RapidAPIKey)

	return &Reader{
		config: config,
		cache:  cache,
		client: client,
	}
}

func (r *Reader) lookupAPI(ctx context.Context, word string) ([]byte, error) {
	res, err := r.client.R().
		SetContext(ctx).
		Get("/words/" + url.PathEscape(word))
	if err != nil {
		return nil, fmt.Errorf("client.R().Get() > %w", err)
	}
	switch res.StatusCode() {
	case http.StatusOK:
		return res.Body(), nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrWordNotFound, word)
	}
	return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
}

// Lookup returns the cached response for word, calling the API on a miss.
func (r *Reader) Lookup(ctx context.Context, word string) (rapidapi.Response, error) {
	var resp rapidapi.Response

	contents, err := r.cache.Get(ctx, word)
	if errors.Is(err, ErrCacheMiss) {
		slog.Debug("dictionary cache miss", "word", word)
		if contents, err = r.lookupAPI(ctx, word); err != nil {
			return resp, fmt.Errorf("r.lookupAPI(%s) > %w", word, err)
		}
		if err := r.cache.Put(ctx, word, contents); err != nil {
			return resp, fmt.Errorf("cache.Put(%s) > %w", word, err)
		}
	} else if err != nil {
		return resp, fmt.Errorf("cache.Get(%s) > %w", word, err)
	}

	if err := json.Unmarshal(contents, &resp); err != nil {
		return resp, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return resp, nil
}
