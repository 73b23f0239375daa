// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// LocalStore is the development filesystem substitute for [GitHubStore],
// backing the /api/games-local endpoints. It is never wired in production
// builds.
type LocalStore struct {
	path   string
	logger *slog.Logger
}

// NewLocalStore creates a store around a JSON file path.
func NewLocalStore(path string, logger *slog.Logger) *LocalStore {
	return &LocalStore{path: path, logger: logger}
}

// Load reads the document from disk. A missing file is an empty catalogue,
// not an error.
func (s *LocalStore) Load(_ context.Context) (*Dataset, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Dataset{Games: []RawGame{}}, nil
		}
		return nil, fmt.Errorf("catalog: read %s: %w", s.path, err)
	}
	return parseDataset(raw)
}

// Save writes the document atomically: temp file in the same directory, then
// rename over the target.
func (s *LocalStore) Save(_ context.Context, dataset *Dataset) error {
	encoded, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: encode games document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("catalog: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "games-*.json")
	if err != nil {
		return fmt.Errorf("catalog: create temp file: %w", err)
	}

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("catalog: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("catalog: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("catalog: replace %s: %w", s.path, err)
	}

	s.logger.Info("games_document_saved_local",
		slog.String("path", s.path),
		slog.Int("games", len(dataset.Games)),
	)
	return nil
}
