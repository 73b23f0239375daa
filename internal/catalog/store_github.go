// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/kael/gameshelf/internal/platform/constants"
	gh "github.com/kael/gameshelf/internal/github"
)

// ContentsRepo is the slice of the GitHub client the store needs. An
// interface so tests can substitute an in-memory repository.
type ContentsRepo interface {
	GetFile(ctx context.Context, path string) ([]byte, string, error)
	PutFile(ctx context.Context, path, message string, content []byte) error
}

// KeyValue is the slice of the cache client the store needs.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// RedisKeyValue adapts a go-redis client to [KeyValue].
type RedisKeyValue struct {
	Client *redis.Client
}

// NewRedisKeyValue wraps an established redis client.
func NewRedisKeyValue(client *redis.Client) RedisKeyValue {
	return RedisKeyValue{Client: client}
}

func (kv RedisKeyValue) Get(ctx context.Context, key string) (string, error) {
	value, err := kv.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return value, err
}

func (kv RedisKeyValue) Set(ctx context.Context, key, value string) error {
	return kv.Client.Set(ctx, key, value, 0).Err()
}

// ErrCacheMiss marks an absent cache entry, distinguishing it from a cache
// outage.
var ErrCacheMiss = errors.New("catalog: cache miss")

// GitHubStore persists the games document to a git-hosted JSON file with a
// key-value cache in front.
//
// # Write-Through Ordering
//
// Save commits to the repository FIRST and only then updates the cache.
// All-or-nothing: a failed repository write aborts the whole save with no
// cache update, so the cache can never get ahead of the source of truth.
type GitHubStore struct {
	repo   ContentsRepo
	cache  KeyValue
	path   string
	logger *slog.Logger
}

// NewGitHubStore wires the production store.
func NewGitHubStore(repo ContentsRepo, cache KeyValue, path string, logger *slog.Logger) *GitHubStore {
	return &GitHubStore{
		repo:   repo,
		cache:  cache,
		path:   path,
		logger: logger,
	}
}

// Load reads the document, preferring the cache.
//
// Cache miss or cache outage falls through to the repository; a successful
// repository read re-warms the cache best-effort.
func (s *GitHubStore) Load(ctx context.Context) (*Dataset, error) {
	if cached, err := s.cache.Get(ctx, constants.RedisKeyGames); err == nil {
		dataset, parseErr := parseDataset([]byte(cached))
		if parseErr == nil {
			return dataset, nil
		}
		// A corrupt cache entry is a data-shape error: log and fall
		// through to the source of truth.
		s.logger.Warn("games_cache_corrupt", slog.Any("error", parseErr))
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("games_cache_unavailable", slog.Any("error", err))
	}

	raw, _, err := s.repo.GetFile(ctx, s.path)
	if err != nil {
		if errors.Is(err, gh.ErrNotFound) {
			return &Dataset{Games: []RawGame{}}, nil
		}
		return nil, fmt.Errorf("catalog: load games document: %w", err)
	}

	dataset, err := parseDataset(raw)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, constants.RedisKeyGames, string(raw)); err != nil {
		s.logger.Warn("games_cache_warm_failed", slog.Any("error", err))
	}

	return dataset, nil
}

// Save writes through to the repository, then mirrors into the cache.
func (s *GitHubStore) Save(ctx context.Context, dataset *Dataset) error {
	encoded, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: encode games document: %w", err)
	}

	message := "Update games data"
	if dataset.Meta != nil && dataset.Meta.Revision != "" {
		message = "Update games data (" + dataset.Meta.Revision + ")"
	}

	if err := s.repo.PutFile(ctx, s.path, message, encoded); err != nil {
		return fmt.Errorf("catalog: write-through failed: %w", err)
	}

	// The repository write succeeded; a cache failure here only costs the
	// next load a repository round-trip.
	if err := s.cache.Set(ctx, constants.RedisKeyGames, string(encoded)); err != nil {
		s.logger.Warn("games_cache_update_failed", slog.Any("error", err))
	}

	s.logger.Info("games_document_saved", slog.Int("games", len(dataset.Games)))
	return nil
}

// parseDataset decodes and shape-checks the persisted document.
func parseDataset(raw []byte) (*Dataset, error) {
	var dataset Dataset
	if err := json.Unmarshal(raw, &dataset); err != nil {
		return nil, fmt.Errorf("catalog: malformed games document: %w", err)
	}
	if dataset.Games == nil {
		return nil, errors.New("catalog: games document missing games array")
	}
	return &dataset, nil
}
