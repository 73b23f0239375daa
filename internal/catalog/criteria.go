// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"slices"
	"strconv"
	"strings"
	"sync"
)

// # Criteria Value Object

// Tab is the active view tab.
type Tab string

const (
	TabAll       Tab = "all"
	TabCompleted Tab = "completed"
	TabPlanned   Tab = "planned"
	TabTierList  Tab = "tierlist"
)

// SortDirection orders a sort ascending or descending. Null-valued records
// always sort last regardless of direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOption names a sort key and direction. A nil *SortOption means "use the
// tab default".
type SortOption struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// Criteria is the active search/filter/sort/tab selection.
//
// It is an immutable value: every mutation on [CriteriaStore] produces a new
// snapshot. Facet sets are kept as sorted slices so that equality and the
// serialized cache key are deterministic. An empty set means "no filter".
type Criteria struct {
	SearchTerm string
	Platforms  []string
	Genres     []string
	Tiers      []string
	CoOp       []string
	Sort       *SortOption
	ActiveTab  Tab
}

// DefaultCriteria returns the session defaults: no filters, no explicit sort,
// "all" tab.
func DefaultCriteria() Criteria {
	return Criteria{ActiveTab: TabAll}
}

// Equal reports whether two criteria snapshots are observably identical.
func (c Criteria) Equal(other Criteria) bool {
	if c.SearchTerm != other.SearchTerm || c.ActiveTab != other.ActiveTab {
		return false
	}
	if !slices.Equal(c.Platforms, other.Platforms) ||
		!slices.Equal(c.Genres, other.Genres) ||
		!slices.Equal(c.Tiers, other.Tiers) ||
		!slices.Equal(c.CoOp, other.CoOp) {
		return false
	}
	if (c.Sort == nil) != (other.Sort == nil) {
		return false
	}
	if c.Sort != nil && *c.Sort != *other.Sort {
		return false
	}
	return true
}

// IsDefault reports whether the criteria equal the session defaults.
func (c Criteria) IsDefault() bool {
	return c.Equal(DefaultCriteria())
}

// Key serializes everything the view depends on into a deterministic string.
// Two calls with equal keys are guaranteed to produce the same view over the
// same catalogue revision; the engine's memo is keyed on it.
//
// Every component is length-prefixed so that member boundaries survive any
// characters a facet value itself contains: {"a,b"} and {"a","b"} must not
// collide on one key.
func (c Criteria) Key() string {
	var b strings.Builder
	b.WriteString("s=")
	writeKeyPart(&b, c.SearchTerm)
	b.WriteString("|p=")
	writeKeyParts(&b, c.Platforms)
	b.WriteString("|g=")
	writeKeyParts(&b, c.Genres)
	b.WriteString("|t=")
	writeKeyParts(&b, c.Tiers)
	b.WriteString("|c=")
	writeKeyParts(&b, c.CoOp)
	b.WriteString("|tab=")
	b.WriteString(string(c.ActiveTab))
	b.WriteString("|sort=")
	if c.Sort != nil {
		writeKeyPart(&b, c.Sort.Key)
		b.WriteString(string(c.Sort.Direction))
	}
	return b.String()
}

func writeKeyPart(b *strings.Builder, value string) {
	b.WriteString(strconv.Itoa(len(value)))
	b.WriteString(":")
	b.WriteString(value)
}

func writeKeyParts(b *strings.Builder, values []string) {
	for _, value := range values {
		writeKeyPart(b, value)
	}
}

// clone deep-copies the snapshot so mutations never alias a published value.
func (c Criteria) clone() Criteria {
	copied := c
	copied.Platforms = slices.Clone(c.Platforms)
	copied.Genres = slices.Clone(c.Genres)
	copied.Tiers = slices.Clone(c.Tiers)
	copied.CoOp = slices.Clone(c.CoOp)
	if c.Sort != nil {
		sortCopy := *c.Sort
		copied.Sort = &sortCopy
	}
	return copied
}

// toggleValue flips membership in a sorted set: present → removed,
// absent → inserted at its sort position.
func toggleValue(set []string, value string) []string {
	index, found := slices.BinarySearch(set, value)
	if found {
		return slices.Delete(slices.Clone(set), index, index+1)
	}
	return slices.Insert(slices.Clone(set), index, value)
}

// # Criteria Store

// CriteriaStore holds the current criteria snapshot and notifies subscribers
// on change.
//
// # Idempotency
//
// Every mutator compares the candidate snapshot against the current one and
// does nothing — no new snapshot, no notification — when they are equal.
// Downstream recomputation is therefore skippable whenever nothing relevant
// changed.
type CriteriaStore struct {
	mu      sync.Mutex
	current Criteria
	nextSub int
	subs    map[int]func(Criteria)
}

// NewCriteriaStore creates a store seeded with [DefaultCriteria]. One store
// is constructed per session and passed by reference to consumers.
func NewCriteriaStore() *CriteriaStore {
	return &CriteriaStore{
		current: DefaultCriteria(),
		subs:    make(map[int]func(Criteria)),
	}
}

// Current returns the latest snapshot.
func (s *CriteriaStore) Current() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// Subscribe registers an observer called with every new snapshot. The
// returned function unsubscribes. Observers are a client-embedding surface:
// the server reads Current per request, while an embedding client hangs its
// view recomputation and URL writer here.
func (s *CriteriaStore) Subscribe(observer func(Criteria)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = observer
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetSearchTerm replaces the search text.
func (s *CriteriaStore) SetSearchTerm(term string) {
	s.mutate(func(c *Criteria) { c.SearchTerm = term })
}

// TogglePlatform flips a platform's membership in the platform facet.
func (s *CriteriaStore) TogglePlatform(platform string) {
	s.mutate(func(c *Criteria) { c.Platforms = toggleValue(c.Platforms, platform) })
}

// ToggleGenre flips a genre's membership in the genre facet.
func (s *CriteriaStore) ToggleGenre(genre string) {
	s.mutate(func(c *Criteria) { c.Genres = toggleValue(c.Genres, genre) })
}

// ToggleTier flips a tier display label's membership in the tier facet.
func (s *CriteriaStore) ToggleTier(label string) {
	s.mutate(func(c *Criteria) { c.Tiers = toggleValue(c.Tiers, label) })
}

// ToggleCoOp flips a co-op value's membership in the co-op facet.
func (s *CriteriaStore) ToggleCoOp(value string) {
	s.mutate(func(c *Criteria) { c.CoOp = toggleValue(c.CoOp, value) })
}

// SetSort replaces the explicit sort option. Setting nil on an already-nil
// sort is a no-op by the idempotency rule.
func (s *CriteriaStore) SetSort(sort *SortOption) {
	s.mutate(func(c *Criteria) {
		if sort == nil {
			c.Sort = nil
			return
		}
		sortCopy := *sort
		c.Sort = &sortCopy
	})
}

// SetTab switches the active view tab.
func (s *CriteriaStore) SetTab(tab Tab) {
	s.mutate(func(c *Criteria) { c.ActiveTab = tab })
}

// Replace swaps in a whole snapshot at once, used when restoring state from
// the URL query string.
func (s *CriteriaStore) Replace(criteria Criteria) {
	s.mutate(func(c *Criteria) { *c = criteria.clone() })
}

// ResetFilters restores the defaults. A no-op when already at defaults.
func (s *CriteriaStore) ResetFilters() {
	s.mutate(func(c *Criteria) { *c = DefaultCriteria() })
}

// mutate applies fn to a working copy and publishes it only if it differs.
func (s *CriteriaStore) mutate(fn func(*Criteria)) {
	s.mu.Lock()

	candidate := s.current.clone()
	fn(&candidate)

	if candidate.Equal(s.current) {
		s.mu.Unlock()
		return
	}

	s.current = candidate
	observers := make([]func(Criteria), 0, len(s.subs))
	for _, observer := range s.subs {
		observers = append(observers, observer)
	}
	snapshot := candidate.clone()
	s.mu.Unlock()

	// Notify outside the lock so observers may call back into the store.
	for _, observer := range observers {
		observer(snapshot)
	}
}
