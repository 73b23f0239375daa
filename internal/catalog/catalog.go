// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrNoValidGames is reported when initialization produced an empty catalogue.
// It is a reportable error state, not a panic: the caller decides whether to
// fall back to the bundled dataset.
var ErrNoValidGames = errors.New("catalog: no valid games after normalization")

// # Raw Records

// RawGame is a loosely-typed record as read from persisted JSON. Field shapes
// are tolerant: dates arrive in several formats, playtime may be decimal
// hours, ids may be missing entirely on old records.
type RawGame struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Genre    string `json:"genre"`
	Year     int    `json:"year"`
	CoOp     string `json:"coOp"`
	Status   string `json:"status"`

	HoursPlayed string `json:"hoursPlayed"`
	// Playtime is the legacy alias for HoursPlayed.
	Playtime     string `json:"playtime"`
	FinishedDate string `json:"finishedDate"`

	RatingPresentation *float64 `json:"ratingPresentation"`
	RatingStory        *float64 `json:"ratingStory"`
	RatingGameplay     *float64 `json:"ratingGameplay"`

	Score *int    `json:"score"`
	Tier  *string `json:"tier"`

	TimeToBeat string `json:"timeToBeat"`
	CoverImage string `json:"coverImage"`
}

// Normalize converts a raw record into a canonical [Game].
//
// It backfills the id from a title hash, splits the title, reformats the
// playtime and finished date, defaults co-op to "No", and recomputes the
// derived score and tier. A record without a title, or with an unknown
// status, is invalid.
func Normalize(raw RawGame) (Game, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return Game{}, errors.New("catalog: record has no title")
	}

	status := Status(strings.TrimSpace(raw.Status))
	if status == "" {
		status = StatusPlanned
	}
	if status != StatusPlanned && status != StatusCompleted {
		return Game{}, fmt.Errorf("catalog: unknown status %q", raw.Status)
	}

	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = TitleHash(title)
	}

	mainTitle, subtitle := SplitTitle(title)

	coOp := CoOpNo
	if strings.EqualFold(strings.TrimSpace(raw.CoOp), CoOpYes) {
		coOp = CoOpYes
	}

	game := Game{
		ID:        id,
		Title:     title,
		MainTitle: mainTitle,
		Subtitle:  subtitle,
		Platform:  strings.TrimSpace(raw.Platform),
		Genre:     strings.TrimSpace(raw.Genre),
		Year:      raw.Year,
		CoOp:      coOp,
		Status:    status,
	}

	if game.CoverImage = strings.TrimSpace(raw.CoverImage); game.CoverImage == "" {
		game.CoverImage = CanonicalCoverPath(id)
	}

	switch status {
	case StatusCompleted:
		playtime := raw.HoursPlayed
		if strings.TrimSpace(playtime) == "" {
			playtime = raw.Playtime
		}
		if formatted := FormatPlaytime(playtime); formatted != "" {
			game.HoursPlayed = &formatted
		}

		game.FinishedDate = NormalizeDate(raw.FinishedDate)
		game.RatingPresentation = raw.RatingPresentation
		game.RatingStory = raw.RatingStory
		game.RatingGameplay = raw.RatingGameplay

		// Score and tier are always rederived; persisted values are
		// advisory only.
		if game.HasAllRatings() {
			score := ComputeScore(*raw.RatingPresentation, *raw.RatingStory, *raw.RatingGameplay)
			tier := TierForScore(score)
			game.Score = &score
			game.Tier = &tier
		}

	case StatusPlanned:
		if estimate := strings.TrimSpace(raw.TimeToBeat); estimate != "" {
			game.TimeToBeat = &estimate
		}
	}

	return game, nil
}

// # Catalogue

// Catalogue is the authoritative in-memory collection of games.
//
// It supports point mutations (add, merge-update) and bulk replace, maintains
// id and slug indexes, and carries a monotonic revision counter bumped on
// every mutation. Derived caches compare revisions instead of content hashes,
// which eliminates fingerprint-collision risk entirely.
type Catalogue struct {
	mu       sync.RWMutex
	games    []Game
	byID     map[string]int
	bySlug   map[string]string
	revision uint64
	logger   *slog.Logger

	// onMutate hooks run after every successful mutation, outside render
	// paths. The completed-games cache registers its debounced update here.
	onMutate []func()
}

// NewCatalogue creates an empty catalogue.
func NewCatalogue(logger *slog.Logger) *Catalogue {
	return &Catalogue{
		byID:   make(map[string]int),
		bySlug: make(map[string]string),
		logger: logger,
	}
}

// OnMutate registers a hook invoked after every catalogue mutation.
func (c *Catalogue) OnMutate(hook func()) {
	c.mu.Lock()
	c.onMutate = append(c.onMutate, hook)
	c.mu.Unlock()
}

// Initialize normalizes raw records and replaces the whole collection.
//
// It fails softly: invalid entries are logged and skipped instead of aborting
// the load. An empty normalized result returns [ErrNoValidGames] with the
// catalogue left empty.
func (c *Catalogue) Initialize(raw []RawGame) error {
	games := make([]Game, 0, len(raw))
	for i, record := range raw {
		game, err := Normalize(record)
		if err != nil {
			c.logger.Warn("catalog_record_skipped",
				slog.Int("index", i),
				slog.String("title", record.Title),
				slog.Any("error", err),
			)
			continue
		}
		games = append(games, game)
	}

	c.mu.Lock()
	c.games = games
	c.reindexLocked()
	c.revision++
	hooks := append([]func(){}, c.onMutate...)
	c.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}

	if len(games) == 0 {
		return ErrNoValidGames
	}
	return nil
}

// Add appends a game and reindexes.
//
// A slug collision with an existing game is logged and the earlier game keeps
// the slug; slug uniqueness is enforced at write time so that deep-link
// resolution never needs pattern-matching fallbacks.
func (c *Catalogue) Add(game Game) {
	c.mu.Lock()
	c.games = append(c.games, game)
	c.indexGameLocked(len(c.games) - 1)
	c.revision++
	hooks := append([]func(){}, c.onMutate...)
	c.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}

// GamePatch is a partial update. Nil fields are left untouched; non-nil
// fields overwrite, giving shallow-merge semantics.
type GamePatch struct {
	Title              *string
	Platform           *string
	Genre              *string
	Year               *int
	CoOp               *string
	Status             *Status
	HoursPlayed        *string
	FinishedDate       *string
	RatingPresentation *float64
	RatingStory        *float64
	RatingGameplay     *float64
	TimeToBeat         *string
	CoverImage         *string
}

// Update merges a patch into the game with the given id and rederives the
// dependent fields (title split, score, tier). Unknown ids are a no-op.
func (c *Catalogue) Update(id string, patch GamePatch) bool {
	c.mu.Lock()

	index, found := c.byID[id]
	if !found {
		c.mu.Unlock()
		return false
	}

	game := &c.games[index]

	if patch.Title != nil {
		game.Title = *patch.Title
		game.MainTitle, game.Subtitle = SplitTitle(*patch.Title)
	}
	if patch.Platform != nil {
		game.Platform = *patch.Platform
	}
	if patch.Genre != nil {
		game.Genre = *patch.Genre
	}
	if patch.Year != nil {
		game.Year = *patch.Year
	}
	if patch.CoOp != nil {
		game.CoOp = *patch.CoOp
	}
	if patch.Status != nil {
		game.Status = *patch.Status
	}
	if patch.HoursPlayed != nil {
		formatted := FormatPlaytime(*patch.HoursPlayed)
		game.HoursPlayed = &formatted
	}
	if patch.FinishedDate != nil {
		game.FinishedDate = NormalizeDate(*patch.FinishedDate)
	}
	if patch.RatingPresentation != nil {
		game.RatingPresentation = patch.RatingPresentation
	}
	if patch.RatingStory != nil {
		game.RatingStory = patch.RatingStory
	}
	if patch.RatingGameplay != nil {
		game.RatingGameplay = patch.RatingGameplay
	}
	if patch.TimeToBeat != nil {
		game.TimeToBeat = patch.TimeToBeat
	}
	if patch.CoverImage != nil {
		game.CoverImage = *patch.CoverImage
	}

	// Rederive lifecycle-dependent fields and clear the fields the new
	// status cannot carry, mirroring Normalize.
	switch game.Status {
	case StatusCompleted:
		game.TimeToBeat = nil
		if game.HasAllRatings() {
			score := ComputeScore(*game.RatingPresentation, *game.RatingStory, *game.RatingGameplay)
			tier := TierForScore(score)
			game.Score = &score
			game.Tier = &tier
		} else {
			game.Score = nil
			game.Tier = nil
		}
	case StatusPlanned:
		game.Score = nil
		game.Tier = nil
		game.HoursPlayed = nil
		game.FinishedDate = nil
		game.RatingPresentation = nil
		game.RatingStory = nil
		game.RatingGameplay = nil
	}

	c.reindexLocked()
	c.revision++
	hooks := append([]func(){}, c.onMutate...)
	c.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	return true
}

// GetByID returns a copy of the game with the given id.
func (c *Catalogue) GetByID(id string) (Game, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	index, found := c.byID[id]
	if !found {
		return Game{}, false
	}
	return c.games[index], true
}

// GetBySlug returns a copy of the game whose title slug matches.
func (c *Catalogue) GetBySlug(s string) (Game, bool) {
	c.mu.RLock()
	id, found := c.bySlug[s]
	c.mu.RUnlock()

	if !found {
		return Game{}, false
	}
	return c.GetByID(id)
}

// Snapshot returns a copy of the full games slice. Mutating the returned
// slice does not affect the catalogue.
func (c *Catalogue) Snapshot() []Game {
	c.mu.RLock()
	defer c.mu.RUnlock()

	games := make([]Game, len(c.games))
	copy(games, c.games)
	return games
}

// Len returns the number of games.
func (c *Catalogue) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.games)
}

// Revision returns the monotonic mutation counter. Equal revisions guarantee
// identical content; derived caches key off this value.
func (c *Catalogue) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

// reindexLocked rebuilds both indexes. Caller holds the write lock.
func (c *Catalogue) reindexLocked() {
	c.byID = make(map[string]int, len(c.games))
	c.bySlug = make(map[string]string, len(c.games))
	for i := range c.games {
		c.indexGameLocked(i)
	}
}

// indexGameLocked indexes a single game. Caller holds the write lock.
func (c *Catalogue) indexGameLocked(index int) {
	game := &c.games[index]
	c.byID[game.ID] = index

	s := game.Slug()
	if ownerID, taken := c.bySlug[s]; taken && ownerID != game.ID {
		c.logger.Warn("catalog_slug_collision",
			slog.String("slug", s),
			slog.String("kept", ownerID),
			slog.String("dropped", game.ID),
		)
		return
	}
	c.bySlug[s] = game.ID
}
