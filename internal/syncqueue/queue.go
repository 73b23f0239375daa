// Copyright (c) 2026 GameShelf. All rights reserved.

/*
Package syncqueue holds at most one pending save while the persistence
backend is unreachable.

The slot is a full dataset snapshot, not a diff log: each offline edit
session overwrites the previous slot (last edit session wins). The slot is
persisted to a local file so an unflushed save survives an app restart, and
is flushed when connectivity returns and the session is authenticated. There
is no backoff and no retry limit; a failed flush simply leaves the slot
intact for the next reconnect or the next app load.
*/
package syncqueue

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/kael/gameshelf/internal/catalog"
)

// Saver is the persistence path a flush goes through. Implemented by
// [catalog.Service].
type Saver interface {
	SaveAll(ctx context.Context, dataset *catalog.Dataset) (*catalog.Dataset, error)
}

// Queue is the single-slot offline save queue.
type Queue struct {
	saver  Saver
	path   string
	logger *slog.Logger

	mu            sync.Mutex
	pending       *catalog.Dataset
	online        bool
	authenticated bool

	// onFlushed receives the synced dataset after a successful flush so the
	// host can refresh the catalogue with what the server actually stored.
	onFlushed func(*catalog.Dataset)
}

// New creates a queue persisting its slot at path. The slot file is loaded
// eagerly so a save queued before a restart is not lost.
func New(saver Saver, path string, logger *slog.Logger) *Queue {
	q := &Queue{
		saver:  saver,
		path:   path,
		logger: logger,
		online: true,
	}
	q.restore()
	return q
}

// OnFlushed registers the callback invoked with the synced dataset after a
// successful flush.
func (q *Queue) OnFlushed(fn func(*catalog.Dataset)) {
	q.mu.Lock()
	q.onFlushed = fn
	q.mu.Unlock()
}

// Enqueue stores a dataset in the pending slot, overwriting whatever was
// there, and persists it to disk.
func (q *Queue) Enqueue(dataset *catalog.Dataset) {
	q.mu.Lock()
	q.pending = dataset
	q.mu.Unlock()

	q.persist(dataset)
}

// Pending reports whether an unflushed save is queued.
func (q *Queue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending != nil
}

// SetOnline records connectivity. Regaining connectivity triggers a flush
// attempt.
func (q *Queue) SetOnline(ctx context.Context, online bool) {
	q.mu.Lock()
	wasOnline := q.online
	q.online = online
	q.mu.Unlock()

	if online && !wasOnline {
		q.Flush(ctx)
	}
}

// SetAuthenticated records the session state. Flushes only run while
// authenticated; an unauthenticated flush attempt would be rejected with a
// 401 anyway.
func (q *Queue) SetAuthenticated(ctx context.Context, authenticated bool) {
	q.mu.Lock()
	wasAuthenticated := q.authenticated
	q.authenticated = authenticated
	q.mu.Unlock()

	if authenticated && !wasAuthenticated {
		q.Flush(ctx)
	}
}

// Flush attempts to push the pending slot through the saver.
//
// On success the slot and its file are cleared and the flushed callback runs
// with the synced dataset. On failure the slot stays intact; the error is
// logged, not returned, since the caller (an online event) has nothing to do
// with it.
func (q *Queue) Flush(ctx context.Context) bool {
	q.mu.Lock()
	if q.pending == nil || !q.online || !q.authenticated {
		q.mu.Unlock()
		return false
	}
	dataset := q.pending
	q.mu.Unlock()

	synced, err := q.saver.SaveAll(ctx, dataset)
	if err != nil {
		q.logger.Warn("sync_flush_failed", slog.Any("error", err))
		return false
	}

	q.mu.Lock()
	q.pending = nil
	callback := q.onFlushed
	q.mu.Unlock()

	q.clearFile()
	q.logger.Info("sync_flush_completed", slog.Int("games", len(synced.Games)))

	if callback != nil {
		callback(synced)
	}
	return true
}

// restore loads a persisted slot from disk. A missing file means an empty
// queue; a corrupt file is logged and discarded.
func (q *Queue) restore() {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if !os.IsNotExist(err) {
			q.logger.Warn("sync_slot_unreadable", slog.String("path", q.path), slog.Any("error", err))
		}
		return
	}

	var dataset catalog.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		q.logger.Warn("sync_slot_corrupt", slog.String("path", q.path), slog.Any("error", err))
		q.clearFile()
		return
	}

	q.mu.Lock()
	q.pending = &dataset
	q.mu.Unlock()
	q.logger.Info("sync_slot_restored", slog.Int("games", len(dataset.Games)))
}

func (q *Queue) persist(dataset *catalog.Dataset) {
	data, err := json.Marshal(dataset)
	if err != nil {
		q.logger.Warn("sync_slot_marshal_failed", slog.Any("error", err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(q.path), 0o755); err != nil {
		q.logger.Warn("sync_slot_write_failed", slog.String("path", q.path), slog.Any("error", err))
		return
	}
	if err := os.WriteFile(q.path, data, 0o644); err != nil {
		q.logger.Warn("sync_slot_write_failed", slog.String("path", q.path), slog.Any("error", err))
	}
}

func (q *Queue) clearFile() {
	if err := os.Remove(q.path); err != nil && !os.IsNotExist(err) {
		q.logger.Warn("sync_slot_remove_failed", slog.String("path", q.path), slog.Any("error", err))
	}
}
