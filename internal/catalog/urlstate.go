// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/kael/gameshelf/internal/platform/constants"
	"github.com/kael/gameshelf/pkg/query"
)

// URL query parameter names for state round-tripping. Absence of a parameter
// means "no filter".
const (
	ParamSearch       = "s"
	ParamSearchLegacy = "searchTerm"
	ParamPlatform     = "platform"
	ParamGenre        = "genre"
	ParamStatus       = "status"
	ParamGame         = "game"
)

// EncodeQuery serializes criteria into URL query values.
//
// The "status" parameter carries the tab selection for the completed and
// planned tabs; the "all" tab is the absence of the parameter.
func EncodeQuery(criteria Criteria) url.Values {
	values := url.Values{}

	if criteria.SearchTerm != "" {
		values.Set(ParamSearch, criteria.SearchTerm)
	}
	for _, platform := range criteria.Platforms {
		values.Add(ParamPlatform, platform)
	}
	for _, genre := range criteria.Genres {
		values.Add(ParamGenre, genre)
	}

	switch criteria.ActiveTab {
	case TabCompleted:
		values.Set(ParamStatus, string(StatusCompleted))
	case TabPlanned:
		values.Set(ParamStatus, string(StatusPlanned))
	}

	return values
}

// DecodeQuery restores criteria from URL query values. Unknown parameters are
// ignored; a missing parameter leaves its facet at the default.
//
// Repeatable parameters accept both repeated keys and comma-separated lists.
func DecodeQuery(values url.Values) Criteria {
	criteria := DefaultCriteria()

	if term := values.Get(ParamSearch); term != "" {
		criteria.SearchTerm = term
	} else if term := values.Get(ParamSearchLegacy); term != "" {
		criteria.SearchTerm = term
	}

	criteria.Platforms = repeatedValues(values, ParamPlatform)
	criteria.Genres = repeatedValues(values, ParamGenre)

	switch Status(values.Get(ParamStatus)) {
	case StatusCompleted:
		criteria.ActiveTab = TabCompleted
	case StatusPlanned:
		criteria.ActiveTab = TabPlanned
	}

	return criteria
}

// repeatedValues flattens repeated keys and comma-separated entries into one
// sorted, de-duplicated set.
func repeatedValues(values url.Values, key string) []string {
	out := query.Merged(values[key])
	sort.Strings(out)
	return out
}

// # Debounced URL Writer

// URLWriter batches criteria changes into query-string writes. It is a
// client-embedding surface: the server never rewrites URLs, an embedding
// client wires apply to its history-replace.
//
// Typing in the search box produces a burst of snapshots; only the last one
// within the debounce window reaches the apply function. This is a
// responsiveness debounce, not a correctness deadline.
type URLWriter struct {
	apply    func(url.Values)
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending Criteria
}

// NewURLWriter creates a writer that forwards encoded criteria to apply.
func NewURLWriter(apply func(url.Values)) *URLWriter {
	return &URLWriter{
		apply:    apply,
		debounce: constants.URLWriteDebounce,
	}
}

// Write schedules a query-string update for the given snapshot, superseding
// any update still waiting in the window.
func (w *URLWriter) Write(criteria Criteria) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = criteria
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		snapshot := w.pending
		w.mu.Unlock()
		w.apply(EncodeQuery(snapshot))
	})
}

// Flush applies any pending write immediately. Used on page hide.
func (w *URLWriter) Flush() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	snapshot := w.pending
	w.mu.Unlock()
	w.apply(EncodeQuery(snapshot))
}
