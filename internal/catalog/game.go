// Copyright (c) 2026 GameShelf. All rights reserved.

/*
Package catalog implements the in-memory game catalogue and the reactive
pipeline that derives a displayed list from it: filter criteria, the filtered
view engine with memoization, and the debounced completed-games cache.

Everything here operates on plain values and is safe to embed in any host
(HTTP handlers, CLI tooling, tests). Persistence lives behind the [Store]
interface.
*/
package catalog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kael/gameshelf/pkg/slug"
)

// # Enumerations

// Status is a game's lifecycle state.
type Status string

const (
	StatusPlanned   Status = "Planned"
	StatusCompleted Status = "Completed"
)

// Co-op values are stored as display strings, matching the persisted document.
const (
	CoOpYes = "Yes"
	CoOpNo  = "No"
)

// Tier letters, best to worst.
var TierLetters = []string{"S", "A", "B", "C", "D", "E"}

// CoverImageRegex is the required shape of a cover image path.
var CoverImageRegex = regexp.MustCompile(`^covers/[a-z0-9-]+\.webp$`)

// # Game Model

// Game is one catalogue entry.
//
// Completion-only fields (HoursPlayed, FinishedDate, ratings, Score, Tier) are
// non-nil iff Status is Completed; TimeToBeat is Planned-only. Score and Tier
// are derived, never authored: see [ComputeScore] and [TierForScore].
type Game struct {
	// ID is stable, unique, and immutable after creation.
	ID    string `json:"id"`
	Title string `json:"title"`

	// MainTitle/Subtitle are derived from Title: a parenthesized suffix
	// becomes the subtitle, otherwise Subtitle is null.
	MainTitle string  `json:"mainTitle"`
	Subtitle  *string `json:"subtitle"`

	Platform string `json:"platform"`
	Genre    string `json:"genre"`
	Year     int    `json:"year"`
	CoOp     string `json:"coOp"`
	Status   Status `json:"status"`

	// HoursPlayed is formatted "XXh YYm".
	HoursPlayed *string `json:"hoursPlayed,omitempty"`
	// FinishedDate is an ISO-8601 instant.
	FinishedDate *string `json:"finishedDate,omitempty"`

	RatingPresentation *float64 `json:"ratingPresentation,omitempty"`
	RatingStory        *float64 `json:"ratingStory,omitempty"`
	RatingGameplay     *float64 `json:"ratingGameplay,omitempty"`

	// Score is 0–20, derived from the three ratings.
	Score *int `json:"score,omitempty"`
	// Tier is a letter grade S–E, a step function of Score.
	Tier *string `json:"tier,omitempty"`

	// TimeToBeat is a formatted duration estimate for planned games.
	TimeToBeat *string `json:"timeToBeat,omitempty"`

	// CoverImage is a relative path "covers/{id}.webp".
	CoverImage string `json:"coverImage,omitempty"`
}

// Slug returns the URL-safe identifier derived from the full title.
func (g *Game) Slug() string {
	return slug.From(g.Title)
}

// MainSlug returns the slug of the main title alone. For titles without a
// subtitle it equals [Game.Slug].
func (g *Game) MainSlug() string {
	return slug.From(g.MainTitle)
}

// HasAllRatings reports whether all three rating components are present.
func (g *Game) HasAllRatings() bool {
	return g.RatingPresentation != nil && g.RatingStory != nil && g.RatingGameplay != nil
}

// FinishedTime parses the finished date. The second return value is false for
// null or unparseable dates; such games sort after all dated ones.
func (g *Game) FinishedTime() (time.Time, bool) {
	if g.FinishedDate == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *g.FinishedDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// # Derivations

// ComputeScore derives the 0–20 score from the three 0–10 ratings:
// round(((presentation + story + gameplay) / 3) * 2), clamped to [0, 20].
func ComputeScore(presentation, story, gameplay float64) int {
	score := int(math.Round((presentation + story + gameplay) / 3 * 2))
	if score < 0 {
		return 0
	}
	if score > 20 {
		return 20
	}
	return score
}

// TierForScore buckets a 0–20 score into a letter grade.
func TierForScore(score int) string {
	switch {
	case score >= 18:
		return "S"
	case score >= 15:
		return "A"
	case score >= 12:
		return "B"
	case score >= 9:
		return "C"
	case score >= 6:
		return "D"
	default:
		return "E"
	}
}

// tierDisplayLabels maps raw tier letters to the canonical display labels the
// filter UI presents. Filter criteria store the display label, not the letter,
// so this mapping is applied consistently in both directions.
var tierDisplayLabels = map[string]string{
	"S": "S - Masterpiece",
	"A": "A - Excellent",
	"B": "B - Great",
	"C": "C - Good",
	"D": "D - Mediocre",
	"E": "E - Bad",
}

// TierLabel returns the display label for a raw tier letter. Unknown letters
// are returned unchanged.
func TierLabel(letter string) string {
	if label, ok := tierDisplayLabels[letter]; ok {
		return label
	}
	return letter
}

// TierLabels returns the display labels in tier order, for building the
// filter option list.
func TierLabels() []string {
	labels := make([]string, 0, len(TierLetters))
	for _, letter := range TierLetters {
		labels = append(labels, tierDisplayLabels[letter])
	}
	return labels
}

// # Title Handling

var subtitleRegex = regexp.MustCompile(`^(.*\S)\s*\((.+)\)\s*$`)

// SplitTitle separates a title into its main part and an optional
// parenthesized subtitle.
//
// "The Legend of Zelda (Breath of the Wild)" → "The Legend of Zelda",
// "Breath of the Wild". Titles without a parenthesized suffix return a nil
// subtitle.
func SplitTitle(title string) (string, *string) {
	match := subtitleRegex.FindStringSubmatch(strings.TrimSpace(title))
	if match == nil {
		return strings.TrimSpace(title), nil
	}
	subtitle := match[2]
	return match[1], &subtitle
}

// TitleHash produces a deterministic id from a title, used to backfill
// records persisted before ids existed. Simple polynomial rolling hash;
// stability matters more than distribution here.
func TitleHash(title string) string {
	var hash uint32
	for _, r := range title {
		hash = hash*31 + uint32(r)
	}
	return "g" + strconv.FormatUint(uint64(hash), 36)
}

// # Field Formatting

var (
	playtimeHMRegex      = regexp.MustCompile(`^(\d+)h(?:\s*(\d+)m)?$`)
	playtimeColonRegex   = regexp.MustCompile(`^(\d+):(\d{1,2})$`)
	playtimeDecimalRegex = regexp.MustCompile(`^(\d+)(?:\.(\d+))?$`)
)

// FormatPlaytime normalizes a raw playtime value into "XXh YYm".
//
// Accepted inputs: "12h 30m" and "12h" (already formatted), "12:30"
// (hours:minutes), and "12.5" (decimal hours). Anything else is returned
// trimmed but otherwise untouched.
func FormatPlaytime(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}

	if match := playtimeHMRegex.FindStringSubmatch(value); match != nil {
		hours, _ := strconv.Atoi(match[1])
		minutes := 0
		if match[2] != "" {
			minutes, _ = strconv.Atoi(match[2])
		}
		return formatHoursMinutes(hours, minutes)
	}

	if match := playtimeColonRegex.FindStringSubmatch(value); match != nil {
		hours, _ := strconv.Atoi(match[1])
		minutes, _ := strconv.Atoi(match[2])
		return formatHoursMinutes(hours, minutes)
	}

	if match := playtimeDecimalRegex.FindStringSubmatch(value); match != nil {
		hours, _ := strconv.Atoi(match[1])
		minutes := 0
		if match[2] != "" {
			fraction, _ := strconv.ParseFloat("0."+match[2], 64)
			minutes = int(math.Round(fraction * 60))
		}
		return formatHoursMinutes(hours, minutes)
	}

	return value
}

func formatHoursMinutes(hours, minutes int) string {
	hours += minutes / 60
	minutes %= 60
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

// dateLayouts are the input formats accepted for finished dates, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// NormalizeDate reformats a raw date string into an ISO-8601 instant (UTC).
// It returns nil for empty or unparseable input.
func NormalizeDate(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			formatted := t.UTC().Format(time.RFC3339)
			return &formatted
		}
	}
	return nil
}

// CanonicalCoverPath returns the expected cover image path for a game id.
func CanonicalCoverPath(id string) string {
	return "covers/" + id + ".webp"
}
