// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kael/gameshelf/internal/catalog"
)

/*
TestComputeScore verifies the derivation invariant
score = round(((p + s + g) / 3) * 2) with clamping to [0, 20].
*/
func TestComputeScore(t *testing.T) {
	tests := []struct {
		name                          string
		presentation, story, gameplay float64
		want                          int
	}{
		{"all_max", 10, 10, 10, 20},
		{"all_min", 0, 0, 0, 0},
		{"mixed", 8, 7, 9, 16},
		{"rounds_up", 8, 8, 9, 17},
		{"half_points", 7.5, 7.5, 7.5, 15},
		{"rounds_half_away", 7, 7, 8.5, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.ComputeScore(tt.presentation, tt.story, tt.gameplay))
		})
	}
}

/*
TestTierForScore verifies the step function bucketing scores into letters.
*/
func TestTierForScore(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{20, "S"}, {18, "S"},
		{17, "A"}, {15, "A"},
		{14, "B"}, {12, "B"},
		{11, "C"}, {9, "C"},
		{8, "D"}, {6, "D"},
		{5, "E"}, {0, "E"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, catalog.TierForScore(tt.score), "score %d", tt.score)
	}
}

/*
TestTierLabel checks the letter-to-display-label mapping used by the tier
filter in both directions.
*/
func TestTierLabel(t *testing.T) {
	assert.Equal(t, "S - Masterpiece", catalog.TierLabel("S"))
	assert.Equal(t, "E - Bad", catalog.TierLabel("E"))

	// Unknown letters pass through unchanged.
	assert.Equal(t, "X", catalog.TierLabel("X"))

	labels := catalog.TierLabels()
	require.Len(t, labels, 6)
	assert.Equal(t, "S - Masterpiece", labels[0])
	assert.Equal(t, "E - Bad", labels[5])
}

/*
TestSplitTitle verifies main/subtitle derivation from parenthesized suffixes.
*/
func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		wantMain string
		wantSub  *string
	}{
		{"plain", "Hollow Knight", "Hollow Knight", nil},
		{"with_subtitle", "The Legend of Zelda (Breath of the Wild)", "The Legend of Zelda", strPtr("Breath of the Wild")},
		{"trailing_space", "Outer Wilds  ", "Outer Wilds", nil},
		{"parens_mid_title_kept", "Elden Ring (Shadow of the Erdtree)", "Elden Ring", strPtr("Shadow of the Erdtree")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main, sub := catalog.SplitTitle(tt.title)
			assert.Equal(t, tt.wantMain, main)
			if tt.wantSub == nil {
				assert.Nil(t, sub)
			} else {
				require.NotNil(t, sub)
				assert.Equal(t, *tt.wantSub, *sub)
			}
		})
	}
}

/*
TestTitleHash checks that backfilled ids are deterministic and distinct for
the test corpus.
*/
func TestTitleHash(t *testing.T) {
	a := catalog.TitleHash("Hollow Knight")
	b := catalog.TitleHash("Hollow Knight")
	c := catalog.TitleHash("Outer Wilds")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, byte('g'), a[0])
}

/*
TestFormatPlaytime covers the accepted playtime input shapes.
*/
func TestFormatPlaytime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already_formatted", "12h 30m", "12h 30m"},
		{"hours_only", "12h", "12h 00m"},
		{"colon", "12:30", "12h 30m"},
		{"decimal", "12.5", "12h 30m"},
		{"whole_number", "40", "40h 00m"},
		{"minute_overflow", "1:90", "2h 30m"},
		{"empty", "", ""},
		{"unknown_shape_passthrough", "a while", "a while"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.FormatPlaytime(tt.in))
		})
	}
}

/*
TestNormalizeDate covers the accepted date layouts and the nil result for
unparseable input.
*/
func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"rfc3339", "2024-01-01T10:00:00Z", "2024-01-01T10:00:00Z", true},
		{"date_only", "2024-01-01", "2024-01-01T00:00:00Z", true},
		{"slashes", "2024/01/01", "2024-01-01T00:00:00Z", true},
		{"empty", "", "", false},
		{"garbage", "soon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.NormalizeDate(tt.in)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func strPtr(s string) *string { return &s }
