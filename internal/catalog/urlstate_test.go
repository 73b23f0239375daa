// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog_test

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kael/gameshelf/internal/catalog"
)

/*
TestEncodeDecodeQuery verifies criteria survive a round trip through URL
query values.
*/
func TestEncodeDecodeQuery(t *testing.T) {
	criteria := catalog.DefaultCriteria()
	criteria.SearchTerm = "hollow"
	criteria.Platforms = []string{"PC", "Switch"}
	criteria.Genres = []string{"Metroidvania"}
	criteria.ActiveTab = catalog.TabCompleted

	decoded := catalog.DecodeQuery(catalog.EncodeQuery(criteria))
	assert.True(t, criteria.Equal(decoded))
}

/*
TestDecodeQuery_Inputs covers the accepted parameter spellings: the legacy
search key, repeated facet keys, and comma-separated lists.
*/
func TestDecodeQuery_Inputs(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, c catalog.Criteria)
	}{
		{
			name:  "legacy_search_term",
			query: "searchTerm=zelda",
			check: func(t *testing.T, c catalog.Criteria) {
				assert.Equal(t, "zelda", c.SearchTerm)
			},
		},
		{
			name:  "short_key_wins_over_legacy",
			query: "s=short&searchTerm=long",
			check: func(t *testing.T, c catalog.Criteria) {
				assert.Equal(t, "short", c.SearchTerm)
			},
		},
		{
			name:  "repeated_and_comma_values",
			query: "platform=PC&platform=Switch,PS5",
			check: func(t *testing.T, c catalog.Criteria) {
				assert.Equal(t, []string{"PC", "PS5", "Switch"}, c.Platforms)
			},
		},
		{
			name:  "status_maps_to_tab",
			query: "status=Planned",
			check: func(t *testing.T, c catalog.Criteria) {
				assert.Equal(t, catalog.TabPlanned, c.ActiveTab)
			},
		},
		{
			name:  "unknown_status_ignored",
			query: "status=Backlog",
			check: func(t *testing.T, c catalog.Criteria) {
				assert.Equal(t, catalog.TabAll, c.ActiveTab)
			},
		},
		{
			name:  "empty_is_default",
			query: "",
			check: func(t *testing.T, c catalog.Criteria) {
				assert.True(t, c.IsDefault())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			tt.check(t, catalog.DecodeQuery(values))
		})
	}
}

/*
TestURLWriter_Debounce verifies a burst of writes collapses into a single
apply carrying the last snapshot.
*/
func TestURLWriter_Debounce(t *testing.T) {
	var mu sync.Mutex
	var applied []url.Values
	writer := catalog.NewURLWriter(func(values url.Values) {
		mu.Lock()
		applied = append(applied, values)
		mu.Unlock()
	})

	for _, term := range []string{"h", "ho", "hol", "hollow"} {
		criteria := catalog.DefaultCriteria()
		criteria.SearchTerm = term
		writer.Write(criteria)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(applied) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "hollow", applied[0].Get("s"), "only the last snapshot in the window is applied")
}

/*
TestURLWriter_Flush verifies a pending write applies immediately on flush.
*/
func TestURLWriter_Flush(t *testing.T) {
	var mu sync.Mutex
	var applied []url.Values
	writer := catalog.NewURLWriter(func(values url.Values) {
		mu.Lock()
		applied = append(applied, values)
		mu.Unlock()
	})

	criteria := catalog.DefaultCriteria()
	criteria.SearchTerm = "celeste"
	writer.Write(criteria)
	writer.Flush()

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, applied)
	assert.Equal(t, "celeste", applied[0].Get("s"))
}
