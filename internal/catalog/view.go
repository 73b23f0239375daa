// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kael/gameshelf/internal/platform/constants"
)

// # Sort Keys

// Recognized explicit sort keys. Unknown keys fall back to alphabetical.
const (
	SortKeyAlphabetical = "alphabetical"
	SortKeyFinishedDate = "finishedDate"
	SortKeyScore        = "score"
	SortKeyYear         = "year"
	SortKeyPresentation = "ratingPresentation"
	SortKeyStory        = "ratingStory"
	SortKeyGameplay     = "ratingGameplay"
)

// Counts are the per-tab totals shown next to the tab labels. They respect
// every active facet filter but not the tab selection itself.
type Counts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Planned   int `json:"planned"`
}

// # Pure Filtering Pipeline

// Apply combines a games snapshot with criteria into the final ordered list.
//
// Pipeline: search filter → facet filters → tab filter → sort. It is a pure
// function: no hidden state, no mutation of the input slice, and an empty
// result is an empty slice, never nil.
func Apply(games []Game, criteria Criteria) []Game {
	filtered, _ := ApplyWithCounts(games, criteria)
	return filtered
}

// ApplyWithCounts is [Apply] plus the sibling tab counts, computed from the
// list with every filter applied except the tab filter.
func ApplyWithCounts(games []Game, criteria Criteria) ([]Game, Counts) {
	beforeTab := make([]Game, 0, len(games))
	for i := range games {
		if matchesSearch(&games[i], criteria.SearchTerm) && matchesFacets(&games[i], criteria) {
			beforeTab = append(beforeTab, games[i])
		}
	}

	counts := Counts{Total: len(beforeTab)}
	for i := range beforeTab {
		switch beforeTab[i].Status {
		case StatusCompleted:
			counts.Completed++
		case StatusPlanned:
			counts.Planned++
		}
	}

	result := make([]Game, 0, len(beforeTab))
	for i := range beforeTab {
		if matchesTab(&beforeTab[i], criteria.ActiveTab) {
			result = append(result, beforeTab[i])
		}
	}

	sortGames(result, criteria.Sort, criteria.ActiveTab)
	return result, counts
}

// matchesSearch is a case-insensitive substring match against title, genre,
// and platform (OR across fields). An empty term matches everything.
func matchesSearch(game *Game, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(game.Title), needle) ||
		strings.Contains(strings.ToLower(game.Genre), needle) ||
		strings.Contains(strings.ToLower(game.Platform), needle)
}

// matchesFacets applies each facet filter whose set is non-empty. Values
// within a facet are OR-matched; facets compose as an intersection, so the
// application order is irrelevant.
func matchesFacets(game *Game, criteria Criteria) bool {
	if len(criteria.Platforms) > 0 && !slices.Contains(criteria.Platforms, game.Platform) {
		return false
	}
	if len(criteria.Genres) > 0 && !slices.Contains(criteria.Genres, game.Genre) {
		return false
	}
	if len(criteria.CoOp) > 0 && !slices.Contains(criteria.CoOp, game.CoOp) {
		return false
	}
	if len(criteria.Tiers) > 0 {
		// The criteria store display labels, so the game's raw letter is
		// mapped before comparing.
		if game.Tier == nil || !slices.Contains(criteria.Tiers, TierLabel(*game.Tier)) {
			return false
		}
	}
	return true
}

func matchesTab(game *Game, tab Tab) bool {
	switch tab {
	case TabCompleted:
		return game.Status == StatusCompleted
	case TabPlanned:
		return game.Status == StatusPlanned
	case TabTierList:
		return game.Tier != nil
	default:
		return true
	}
}

// # Sorting

// sortGames orders the list in place. An explicit option wins; otherwise the
// tab default applies: completed → finished date descending, tier list →
// score descending, everything else → alphabetical ascending.
func sortGames(games []Game, option *SortOption, tab Tab) {
	if option == nil {
		switch tab {
		case TabCompleted:
			option = &SortOption{Key: SortKeyFinishedDate, Direction: SortDesc}
		case TabTierList:
			option = &SortOption{Key: SortKeyScore, Direction: SortDesc}
		default:
			option = &SortOption{Key: SortKeyAlphabetical, Direction: SortAsc}
		}
	}

	collator := collate.New(language.English, collate.Loose)
	descending := option.Direction == SortDesc

	slices.SortStableFunc(games, func(a, b Game) int {
		return compareGames(&a, &b, option.Key, descending, collator)
	})
}

// compareGames compares by the named key with nulls always last regardless of
// direction. Numeric keys compare numerically, the finished date compares as
// a parsed instant, and titles compare with locale-aware collation.
func compareGames(a, b *Game, key string, descending bool, collator *collate.Collator) int {
	aValue, aOK := sortValue(a, key)
	bValue, bOK := sortValue(b, key)

	// Null handling sits outside the direction flip.
	switch {
	case !aOK && !bOK:
		return compareTitles(a, b, collator)
	case !aOK:
		return 1
	case !bOK:
		return -1
	}

	var order int
	switch {
	case aValue < bValue:
		order = -1
	case aValue > bValue:
		order = 1
	default:
		// Stable tie-break on title keeps equal-valued rows deterministic.
		return compareTitles(a, b, collator)
	}

	if descending {
		order = -order
	}
	return order
}

func compareTitles(a, b *Game, collator *collate.Collator) int {
	return collator.CompareString(a.Title, b.Title)
}

// sortValue extracts the numeric ordering value for a game under a sort key.
// The second return value is false when the game has no value for the key.
// Alphabetical (and any unknown key) reports no value for everyone, pushing
// comparison to the title collator.
func sortValue(game *Game, key string) (float64, bool) {
	switch key {
	case SortKeyFinishedDate:
		t, ok := game.FinishedTime()
		if !ok {
			return 0, false
		}
		return float64(t.Unix()), true
	case SortKeyScore:
		if game.Score == nil {
			return 0, false
		}
		return float64(*game.Score), true
	case SortKeyYear:
		if game.Year == 0 {
			return 0, false
		}
		return float64(game.Year), true
	case SortKeyPresentation:
		return ratingValue(game.RatingPresentation)
	case SortKeyStory:
		return ratingValue(game.RatingStory)
	case SortKeyGameplay:
		return ratingValue(game.RatingGameplay)
	default:
		return 0, false
	}
}

func ratingValue(rating *float64) (float64, bool) {
	if rating == nil {
		return 0, false
	}
	return *rating, true
}

// # Memoized Engine

// viewEntry pairs a computed list with its counts for the secondary cache.
type viewEntry struct {
	games  []Game
	counts Counts
}

// Engine wraps the pure pipeline with a single-slot memo plus a small
// auxiliary FIFO cache.
//
// # Memoization
//
// The memo key is the criteria serialization combined with the catalogue
// revision. A hit returns the previous result slice by reference, letting
// consumers skip re-rendering on pointer equality. The single slot is the
// fast path; the bounded secondary map catches rapid A/B toggling between a
// handful of recent criteria.
type Engine struct {
	catalogue *Catalogue
	logger    *slog.Logger

	mu             sync.Mutex
	memoKey        string
	memoGames      []Game
	memoCounts     Counts
	secondary      map[string]viewEntry
	secondaryOrder []string
}

// NewEngine creates an engine bound to a catalogue.
func NewEngine(catalogue *Catalogue, logger *slog.Logger) *Engine {
	return &Engine{
		catalogue: catalogue,
		logger:    logger,
		secondary: make(map[string]viewEntry),
	}
}

// View returns the ordered list and tab counts for the given criteria.
//
// Two consecutive calls with unchanged criteria and an unmutated catalogue
// return the same slice by reference.
func (e *Engine) View(criteria Criteria) ([]Game, Counts) {
	key := criteria.Key() + "#" + revisionTag(e.catalogue.Revision())

	e.mu.Lock()
	if key == e.memoKey {
		games, counts := e.memoGames, e.memoCounts
		e.mu.Unlock()
		return games, counts
	}
	if entry, found := e.secondary[key]; found {
		e.memoKey = key
		e.memoGames = entry.games
		e.memoCounts = entry.counts
		e.mu.Unlock()
		return entry.games, entry.counts
	}
	e.mu.Unlock()

	games, counts := ApplyWithCounts(e.catalogue.Snapshot(), criteria)

	e.mu.Lock()
	e.memoKey = key
	e.memoGames = games
	e.memoCounts = counts
	e.storeSecondaryLocked(key, viewEntry{games: games, counts: counts})
	e.mu.Unlock()

	return games, counts
}

// ViewAsync computes the view on a background goroutine, falling back to the
// synchronous path if it does not finish in time. The offload is purely a
// performance choice; results are identical either way.
func (e *Engine) ViewAsync(ctx context.Context, criteria Criteria) ([]Game, Counts) {
	type result struct {
		games  []Game
		counts Counts
	}

	resultCh := make(chan result, 1)
	go func() {
		games, counts := e.View(criteria)
		resultCh <- result{games: games, counts: counts}
	}()

	select {
	case r := <-resultCh:
		return r.games, r.counts
	case <-time.After(constants.ViewOffloadTimeout):
		e.logger.Warn("view_offload_timeout", slog.String("criteria", criteria.Key()))
	case <-ctx.Done():
	}

	return e.View(criteria)
}

// storeSecondaryLocked inserts into the FIFO cache, evicting the oldest entry
// beyond the size bound. Caller holds the mutex.
func (e *Engine) storeSecondaryLocked(key string, entry viewEntry) {
	if _, exists := e.secondary[key]; exists {
		return
	}
	e.secondary[key] = entry
	e.secondaryOrder = append(e.secondaryOrder, key)

	for len(e.secondaryOrder) > constants.ViewSecondaryCacheSize {
		oldest := e.secondaryOrder[0]
		e.secondaryOrder = e.secondaryOrder[1:]
		delete(e.secondary, oldest)
	}
}

// revisionTag formats a revision for cache-key embedding.
func revisionTag(revision uint64) string {
	return "r" + strconv.FormatUint(revision, 10)
}
