// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kael/gameshelf/internal/platform/apperr"
	"github.com/kael/gameshelf/internal/platform/validate"
	"github.com/kael/gameshelf/pkg/pointer"
	"github.com/kael/gameshelf/pkg/slice"
	"github.com/kael/gameshelf/pkg/uuidv7"
)

// Service coordinates the catalogue with its persistence store: loading with
// fallback, schema validation, score recomputation, and meta stamping on save.
type Service struct {
	store     Store
	catalogue *Catalogue
	logger    *slog.Logger

	mu       sync.Mutex
	lastMeta *Meta
}

// NewService wires the catalogue service.
func NewService(store Store, catalogue *Catalogue, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		catalogue: catalogue,
		logger:    logger,
	}
}

// Catalogue exposes the underlying catalogue for view consumers.
func (s *Service) Catalogue() *Catalogue {
	return s.catalogue
}

// LoadCatalogue fetches the persisted document and initializes the catalogue.
//
// Data-shape errors and upstream outages are logged and degrade to the
// bundled fallback dataset; they never crash the load. The returned dataset
// reflects what was actually loaded.
func (s *Service) LoadCatalogue(ctx context.Context) (*Dataset, error) {
	dataset, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("games_load_failed_using_fallback", slog.Any("error", err))
		dataset = FallbackDataset()
	}

	if err := s.catalogue.Initialize(dataset.Games); err != nil {
		// "No valid games" from the real store is a reportable error
		// state; retry once with the bundled dataset.
		s.logger.Warn("games_initialize_empty", slog.Any("error", err))
		dataset = FallbackDataset()
		if err := s.catalogue.Initialize(dataset.Games); err != nil {
			return nil, fmt.Errorf("catalog: fallback dataset unusable: %w", err)
		}
	}

	s.mu.Lock()
	s.lastMeta = dataset.Meta
	s.mu.Unlock()

	s.logger.Info("catalogue_loaded", slog.Int("games", s.catalogue.Len()))
	return dataset, nil
}

// CurrentDataset materializes the in-memory catalogue back into the persisted
// document shape, with the meta of the last load/save.
func (s *Service) CurrentDataset() *Dataset {
	raw := slice.Map(s.catalogue.Snapshot(), toRaw)

	s.mu.Lock()
	meta := s.lastMeta
	s.mu.Unlock()

	return &Dataset{Games: raw, Meta: meta}
}

// SaveAll validates and persists a full replacement document, then refreshes
// the in-memory catalogue from it.
//
// The server recomputes the score for any completed game missing it and
// stamps meta.lastUpdated before writing through. Validation failures return
// a 400-mapped error; a failed write-through returns a 500-mapped error with
// no partial state.
func (s *Service) SaveAll(ctx context.Context, dataset *Dataset) (*Dataset, error) {
	if dataset == nil || dataset.Games == nil {
		return nil, apperr.ValidationError("Request must contain a games array")
	}

	if err := validateDataset(dataset); err != nil {
		return nil, err
	}

	for i := range dataset.Games {
		recomputeScore(&dataset.Games[i])
	}

	meta := &Meta{
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Revision:    uuidv7.New(),
	}
	dataset.Meta = meta

	if err := s.store.Save(ctx, dataset); err != nil {
		return nil, apperr.WriteFailed(err)
	}

	if err := s.catalogue.Initialize(dataset.Games); err != nil {
		// The document persisted; an empty in-memory result here can only
		// mean every record was invalid, which validation already rules out.
		s.logger.Error("catalogue_refresh_after_save_failed", slog.Any("error", err))
	}

	s.mu.Lock()
	s.lastMeta = meta
	s.mu.Unlock()

	return dataset, nil
}

// validateDataset shape-checks every record before persistence.
func validateDataset(dataset *Dataset) error {
	v := &validate.Validator{}

	for i := range dataset.Games {
		game := &dataset.Games[i]
		prefix := fmt.Sprintf("games[%d].", i)

		v.Required(prefix+"title", game.Title)
		v.Required(prefix+"platform", game.Platform)
		v.Required(prefix+"genre", game.Genre)

		if game.Status != "" {
			v.OneOf(prefix+"status", game.Status, string(StatusPlanned), string(StatusCompleted))
		}
		if game.Year != 0 {
			v.Range(prefix+"year", game.Year, 1970, 2099)
		}
		if game.CoverImage != "" {
			v.Pattern(prefix+"coverImage", game.CoverImage, CoverImageRegex,
				"Must match covers/{id}.webp")
		}
		if game.RatingPresentation != nil {
			v.RangeF(prefix+"ratingPresentation", *game.RatingPresentation, 0, 10)
		}
		if game.RatingStory != nil {
			v.RangeF(prefix+"ratingStory", *game.RatingStory, 0, 10)
		}
		if game.RatingGameplay != nil {
			v.RangeF(prefix+"ratingGameplay", *game.RatingGameplay, 0, 10)
		}
	}

	return v.Err()
}

// recomputeScore fills in the derived score and tier for completed games that
// arrived without them. Clients normally send these, but the server is the
// invariant's last line of defense.
func recomputeScore(game *RawGame) {
	if Status(game.Status) != StatusCompleted {
		return
	}
	if game.RatingPresentation == nil || game.RatingStory == nil || game.RatingGameplay == nil {
		return
	}
	if game.Score == nil {
		score := ComputeScore(*game.RatingPresentation, *game.RatingStory, *game.RatingGameplay)
		game.Score = &score
	}
	if game.Tier == nil {
		tier := TierForScore(*game.Score)
		game.Tier = &tier
	}
}

// toRaw converts a canonical game back to the persisted record shape.
func toRaw(game Game) RawGame {
	return RawGame{
		ID:                 game.ID,
		Title:              game.Title,
		Platform:           game.Platform,
		Genre:              game.Genre,
		Year:               game.Year,
		CoOp:               game.CoOp,
		Status:             string(game.Status),
		HoursPlayed:        pointer.Val(game.HoursPlayed),
		FinishedDate:       pointer.Val(game.FinishedDate),
		RatingPresentation: game.RatingPresentation,
		RatingStory:        game.RatingStory,
		RatingGameplay:     game.RatingGameplay,
		Score:              game.Score,
		Tier:               game.Tier,
		TimeToBeat:         pointer.Val(game.TimeToBeat),
		CoverImage:         game.CoverImage,
	}
}
