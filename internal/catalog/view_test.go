// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kael/gameshelf/internal/catalog"
)

// testGames builds the two-game corpus from the filtering scenarios:
// GameA completed on PC, GameB planned on PS5.
func testGames(t *testing.T) []catalog.Game {
	t.Helper()

	a, err := catalog.Normalize(completedRaw("a", "GameA", "PC", "RPG", "2024-01-01", 8, 8, 8))
	require.NoError(t, err)
	b, err := catalog.Normalize(plannedRaw("b", "GameB", "PS5", "Action"))
	require.NoError(t, err)

	return []catalog.Game{a, b}
}

/*
TestApply_FacetAndTab walks the canonical filtering scenario: a platform
facet combined with each tab, then a reset.
*/
func TestApply_FacetAndTab(t *testing.T) {
	games := testGames(t)

	criteria := catalog.DefaultCriteria()
	criteria.Platforms = []string{"PC"}

	result := catalog.Apply(games, criteria)
	require.Len(t, result, 1)
	assert.Equal(t, "GameA", result[0].Title)

	criteria.ActiveTab = catalog.TabCompleted
	result = catalog.Apply(games, criteria)
	require.Len(t, result, 1)
	assert.Equal(t, "GameA", result[0].Title)

	criteria.ActiveTab = catalog.TabPlanned
	result = catalog.Apply(games, criteria)
	assert.Empty(t, result)
	assert.NotNil(t, result, "empty result is an empty slice, never nil")

	// Reset: tab-default alphabetical order.
	result = catalog.Apply(games, catalog.DefaultCriteria())
	require.Len(t, result, 2)
	assert.Equal(t, "GameA", result[0].Title)
	assert.Equal(t, "GameB", result[1].Title)
}

/*
TestApply_Search verifies the case-insensitive substring match across title,
genre, and platform.
*/
func TestApply_Search(t *testing.T) {
	games := testGames(t)

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"title_case_insensitive", "gamea", []string{"GameA"}},
		{"genre", "rpg", []string{"GameA"}},
		{"platform", "ps5", []string{"GameB"}},
		{"no_match", "zelda", nil},
		{"empty_matches_all", "", []string{"GameA", "GameB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria := catalog.DefaultCriteria()
			criteria.SearchTerm = tt.term

			result := catalog.Apply(games, criteria)
			var titles []string
			for _, g := range result {
				titles = append(titles, g.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

/*
TestApply_TierLabelMapping checks that tier filtering compares the stored
display label against the game's raw letter.
*/
func TestApply_TierLabelMapping(t *testing.T) {
	games := testGames(t) // GameA scores 16 → tier A

	criteria := catalog.DefaultCriteria()
	criteria.Tiers = []string{"A - Excellent"}

	result := catalog.Apply(games, criteria)
	require.Len(t, result, 1)
	assert.Equal(t, "GameA", result[0].Title)

	criteria.Tiers = []string{"S - Masterpiece"}
	assert.Empty(t, catalog.Apply(games, criteria))
}

/*
TestApply_FacetCommutativity verifies order-independent intersection
semantics across facet filters.
*/
func TestApply_FacetCommutativity(t *testing.T) {
	games := testGames(t)

	first := catalog.DefaultCriteria()
	first.Platforms = []string{"PC"}
	first.Genres = []string{"RPG"}

	second := catalog.DefaultCriteria()
	second.Genres = []string{"RPG"}
	second.Platforms = []string{"PC"}

	assert.Equal(t, catalog.Apply(games, first), catalog.Apply(games, second))
}

/*
TestApplyWithCounts verifies the sibling counts respect facet filters but not
the tab selection.
*/
func TestApplyWithCounts(t *testing.T) {
	games := testGames(t)

	criteria := catalog.DefaultCriteria()
	criteria.ActiveTab = catalog.TabCompleted

	result, counts := catalog.ApplyWithCounts(games, criteria)
	require.Len(t, result, 1)

	// Counts ignore the tab filter: both games remain visible to them.
	assert.Equal(t, catalog.Counts{Total: 2, Completed: 1, Planned: 1}, counts)

	criteria.Platforms = []string{"PC"}
	_, counts = catalog.ApplyWithCounts(games, criteria)
	assert.Equal(t, catalog.Counts{Total: 1, Completed: 1, Planned: 0}, counts)
}

/*
TestSort_NullsLast verifies that records missing the sort key appear after
all valued records regardless of direction.
*/
func TestSort_NullsLast(t *testing.T) {
	a, err := catalog.Normalize(completedRaw("a", "Alpha", "PC", "RPG", "2023-06-01", 5, 5, 5))
	require.NoError(t, err)
	b, err := catalog.Normalize(completedRaw("b", "Beta", "PC", "RPG", "2024-01-01", 9, 9, 9))
	require.NoError(t, err)
	c, err := catalog.Normalize(plannedRaw("c", "Gamma", "PC", "RPG")) // no score, no date
	require.NoError(t, err)
	games := []catalog.Game{a, b, c}

	for _, direction := range []catalog.SortDirection{catalog.SortAsc, catalog.SortDesc} {
		criteria := catalog.DefaultCriteria()
		criteria.Sort = &catalog.SortOption{Key: catalog.SortKeyScore, Direction: direction}

		result := catalog.Apply(games, criteria)
		require.Len(t, result, 3)
		assert.Equal(t, "Gamma", result[2].Title, "null score sorts last for direction %s", direction)
	}
}

/*
TestSort_TabDefaults verifies the per-tab default orderings when no explicit
sort is set.
*/
func TestSort_TabDefaults(t *testing.T) {
	older, err := catalog.Normalize(completedRaw("old", "Older", "PC", "RPG", "2023-06-01", 5, 5, 5))
	require.NoError(t, err)
	newer, err := catalog.Normalize(completedRaw("new", "Newer", "PC", "RPG", "2024-01-01", 9, 9, 9))
	require.NoError(t, err)
	games := []catalog.Game{older, newer}

	// Completed tab defaults to finished date descending.
	criteria := catalog.DefaultCriteria()
	criteria.ActiveTab = catalog.TabCompleted
	result := catalog.Apply(games, criteria)
	require.Len(t, result, 2)
	assert.Equal(t, "Newer", result[0].Title)

	// Tier list defaults to score descending.
	criteria.ActiveTab = catalog.TabTierList
	result = catalog.Apply(games, criteria)
	require.Len(t, result, 2)
	assert.Equal(t, "Newer", result[0].Title)

	// All tab defaults to alphabetical ascending.
	result = catalog.Apply(games, catalog.DefaultCriteria())
	assert.Equal(t, "Newer", result[0].Title)
	assert.Equal(t, "Older", result[1].Title)
}

/*
TestSort_UnknownKeyFallsBack verifies unknown sort keys degrade to the
alphabetical ordering.
*/
func TestSort_UnknownKeyFallsBack(t *testing.T) {
	games := testGames(t)

	criteria := catalog.DefaultCriteria()
	criteria.Sort = &catalog.SortOption{Key: "bogus", Direction: catalog.SortAsc}

	result := catalog.Apply(games, criteria)
	require.Len(t, result, 2)
	assert.Equal(t, "GameA", result[0].Title)
}

/*
TestEngine_Memoization verifies reference-equal results for unchanged
criteria and invalidation on any facet change or catalogue mutation.
*/
func TestEngine_Memoization(t *testing.T) {
	c := catalog.NewCatalogue(discardLogger())
	require.NoError(t, c.Initialize([]catalog.RawGame{
		completedRaw("a", "GameA", "PC", "RPG", "2024-01-01", 8, 8, 8),
		plannedRaw("b", "GameB", "PS5", "Action"),
	}))
	engine := catalog.NewEngine(c, discardLogger())

	criteria := catalog.DefaultCriteria()
	criteria.Platforms = []string{"PC"}

	first, _ := engine.View(criteria)
	second, _ := engine.View(criteria)
	require.Len(t, first, 1)
	assert.Same(t, &first[0], &second[0], "memo hit returns the same slice by reference")

	// Changing a single facet invalidates the memo.
	criteria.Genres = []string{"RPG"}
	third, _ := engine.View(criteria)
	require.Len(t, third, 1)
	assert.NotSame(t, &first[0], &third[0])

	// A catalogue mutation invalidates even with identical criteria.
	game, err := catalog.Normalize(plannedRaw("c", "GameC", "PC", "RPG"))
	require.NoError(t, err)
	c.Add(game)

	criteria = catalog.DefaultCriteria()
	criteria.Platforms = []string{"PC"}
	fourth, _ := engine.View(criteria)
	assert.Len(t, fourth, 2)
}

/*
TestEngine_SecondaryCache verifies that toggling between two recent criteria
serves both from cache by reference.
*/
func TestEngine_SecondaryCache(t *testing.T) {
	c := catalog.NewCatalogue(discardLogger())
	require.NoError(t, c.Initialize([]catalog.RawGame{
		completedRaw("a", "GameA", "PC", "RPG", "2024-01-01", 8, 8, 8),
		plannedRaw("b", "GameB", "PS5", "Action"),
	}))
	engine := catalog.NewEngine(c, discardLogger())

	pc := catalog.DefaultCriteria()
	pc.Platforms = []string{"PC"}
	ps5 := catalog.DefaultCriteria()
	ps5.Platforms = []string{"PS5"}

	firstPC, _ := engine.View(pc)
	_, _ = engine.View(ps5)

	// Returning to the earlier criteria hits the secondary cache.
	againPC, _ := engine.View(pc)
	require.Len(t, firstPC, 1)
	require.Len(t, againPC, 1)
	assert.Same(t, &firstPC[0], &againPC[0])
}

/*
TestEngine_ViewAsync verifies the offloaded path returns the same result as
the synchronous one.
*/
func TestEngine_ViewAsync(t *testing.T) {
	c := catalog.NewCatalogue(discardLogger())
	require.NoError(t, c.Initialize([]catalog.RawGame{
		completedRaw("a", "GameA", "PC", "RPG", "2024-01-01", 8, 8, 8),
	}))
	engine := catalog.NewEngine(c, discardLogger())

	criteria := catalog.DefaultCriteria()
	syncGames, syncCounts := engine.View(criteria)
	asyncGames, asyncCounts := engine.ViewAsync(context.Background(), criteria)

	assert.Equal(t, syncGames, asyncGames)
	assert.Equal(t, syncCounts, asyncCounts)
}
