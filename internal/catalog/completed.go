// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kael/gameshelf/internal/platform/constants"
)

// CompletedCache is a derived, debounced, version-checked cache of completed
// games sorted by finished date descending.
//
// It avoids an O(n log n) resort on every tab switch when the underlying data
// has not changed. Staleness is detected against the catalogue's monotonic
// revision counter — the authoritative signal — rather than a content hash,
// so collisions cannot cause a stale read. The legacy content fingerprint is
// kept as [Fingerprint] for change detection across process boundaries.
type CompletedCache struct {
	catalogue *Catalogue
	debounce  time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	cached    []Game
	cachedRev uint64
	primed    bool
}

// NewCompletedCache creates the cache and registers its debounced refresh as
// a catalogue mutation hook.
func NewCompletedCache(catalogue *Catalogue) *CompletedCache {
	cache := &CompletedCache{
		catalogue: catalogue,
		debounce:  constants.CompletedCacheDebounce,
	}
	catalogue.OnMutate(cache.ScheduleUpdate)
	return cache
}

// ScheduleUpdate requests a refresh after the debounce window. Bursts of
// mutations (programmatic bulk edits) collapse into a single resort.
func (c *CompletedCache) ScheduleUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		c.refreshLocked()
		c.mu.Unlock()
	})
}

// CompletedGames returns the cached sorted list, recomputing synchronously
// first if the catalogue has mutated since the last refresh (cache-then-serve).
//
// On a hit the same slice is returned by reference, so consumers can skip
// re-rendering when the pointer has not changed.
func (c *CompletedCache) CompletedGames() []Game {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.primed || c.cachedRev != c.catalogue.Revision() {
		c.refreshLocked()
	}
	return c.cached
}

// refreshLocked recomputes the sorted completed list. Caller holds the mutex.
func (c *CompletedCache) refreshLocked() {
	games := c.catalogue.Snapshot()

	completed := make([]Game, 0, len(games))
	for i := range games {
		if games[i].Status == StatusCompleted {
			completed = append(completed, games[i])
		}
	}
	SortByFinishedDesc(completed)

	c.cached = completed
	c.cachedRev = c.catalogue.Revision()
	c.primed = true
}

// SortByFinishedDesc orders games by finished date descending with null or
// unparseable dates at the end.
func SortByFinishedDesc(games []Game) {
	slices.SortStableFunc(games, func(a, b Game) int {
		aTime, aOK := a.FinishedTime()
		bTime, bOK := b.FinishedTime()

		switch {
		case !aOK && !bOK:
			return 0
		case !aOK:
			return 1
		case !bOK:
			return -1
		case aTime.After(bTime):
			return -1
		case bTime.After(aTime):
			return 1
		default:
			return 0
		}
	})
}

// Fingerprint reduces the completion-relevant fields of a games list to a
// cheap hash: per completed game, "id-status-finishedDate" strings are
// sorted, joined, and folded through a polynomial rolling hash.
//
// Collisions are acceptable — this is an optimization heuristic for change
// detection, never a correctness guarantee. In-process invalidation uses
// [Catalogue.Revision] instead.
func Fingerprint(games []Game) uint32 {
	parts := make([]string, 0, len(games))
	for i := range games {
		if games[i].Status != StatusCompleted {
			continue
		}
		finished := ""
		if games[i].FinishedDate != nil {
			finished = *games[i].FinishedDate
		}
		parts = append(parts, games[i].ID+"-"+string(games[i].Status)+"-"+finished)
	}
	sort.Strings(parts)

	var hash uint32
	for _, r := range strings.Join(parts, "|") {
		hash = hash*31 + uint32(r)
	}
	return hash
}
