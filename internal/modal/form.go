// Copyright (c) 2026 GameShelf. All rights reserved.

package modal

import (
	"errors"
	"log/slog"

	"github.com/kael/gameshelf/internal/catalog"
	"github.com/kael/gameshelf/internal/platform/apperr"
	"github.com/kael/gameshelf/internal/platform/validate"
)

// Form is the working copy held while editing or adding a game. Field shapes
// mirror the inputs: durations and dates stay raw strings until submit, when
// normalization formats them.
type Form struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Platform string         `json:"platform"`
	Genre    string         `json:"genre"`
	Year     int            `json:"year"`
	CoOp     string         `json:"coOp"`
	Status   catalog.Status `json:"status"`

	TimeToBeat   string `json:"timeToBeat"`
	HoursPlayed  string `json:"hoursPlayed"`
	FinishedDate string `json:"finishedDate"`

	RatingPresentation *float64 `json:"ratingPresentation"`
	RatingStory        *float64 `json:"ratingStory"`
	RatingGameplay     *float64 `json:"ratingGameplay"`

	CoverImage string `json:"coverImage"`
}

// NewAddForm returns the creation defaults.
func NewAddForm() Form {
	return Form{
		Status: catalog.StatusPlanned,
		CoOp:   catalog.CoOpNo,
	}
}

// FormFromGame seeds a working copy from an existing game.
func FormFromGame(game catalog.Game) Form {
	form := Form{
		ID:                 game.ID,
		Title:              game.Title,
		Platform:           game.Platform,
		Genre:              game.Genre,
		Year:               game.Year,
		CoOp:               game.CoOp,
		Status:             game.Status,
		RatingPresentation: game.RatingPresentation,
		RatingStory:        game.RatingStory,
		RatingGameplay:     game.RatingGameplay,
		CoverImage:         game.CoverImage,
	}
	if game.TimeToBeat != nil {
		form.TimeToBeat = *game.TimeToBeat
	}
	if game.HoursPlayed != nil {
		form.HoursPlayed = *game.HoursPlayed
	}
	if game.FinishedDate != nil {
		form.FinishedDate = *game.FinishedDate
	}
	return form
}

// Validate checks the form and returns a field→message map on failure, nil
// when the form is valid. It never mutates anything.
func (f Form) Validate() map[string]string {
	v := &validate.Validator{}

	v.Required("title", f.Title).
		Required("platform", f.Platform).
		Required("genre", f.Genre).
		Required("timeToBeat", f.TimeToBeat).
		Range("year", f.Year, 1970, 2099)

	if f.Status == catalog.StatusCompleted {
		v.Required("hoursPlayed", f.HoursPlayed).
			Required("finishedDate", f.FinishedDate)
		validateRating(v, "ratingPresentation", f.RatingPresentation)
		validateRating(v, "ratingStory", f.RatingStory)
		validateRating(v, "ratingGameplay", f.RatingGameplay)
	}

	return v.FieldMap()
}

func validateRating(v *validate.Validator, field string, value *float64) {
	if value == nil {
		v.Custom(field, true, "This field is required")
		return
	}
	v.RangeF(field, *value, 0, 10)
}

// materialize turns the form into a canonical game. Normalization supplies
// the derived fields: id backfill, title split, playtime and date formatting,
// score and tier.
func (f Form) materialize() (catalog.Game, error) {
	return catalog.Normalize(catalog.RawGame{
		ID:                 f.ID,
		Title:              f.Title,
		Platform:           f.Platform,
		Genre:              f.Genre,
		Year:               f.Year,
		CoOp:               f.CoOp,
		Status:             string(f.Status),
		HoursPlayed:        f.HoursPlayed,
		FinishedDate:       f.FinishedDate,
		RatingPresentation: f.RatingPresentation,
		RatingStory:        f.RatingStory,
		RatingGameplay:     f.RatingGameplay,
		TimeToBeat:         f.TimeToBeat,
		CoverImage:         f.CoverImage,
	})
}

// patch converts the form into a full-overwrite patch for edit submits.
func (f Form) patch() catalog.GamePatch {
	status := f.Status
	patch := catalog.GamePatch{
		Title:              &f.Title,
		Platform:           &f.Platform,
		Genre:              &f.Genre,
		Year:               &f.Year,
		CoOp:               &f.CoOp,
		Status:             &status,
		RatingPresentation: f.RatingPresentation,
		RatingStory:        f.RatingStory,
		RatingGameplay:     f.RatingGameplay,
	}
	if f.TimeToBeat != "" {
		patch.TimeToBeat = &f.TimeToBeat
	}
	if f.HoursPlayed != "" {
		patch.HoursPlayed = &f.HoursPlayed
	}
	if f.FinishedDate != "" {
		patch.FinishedDate = &f.FinishedDate
	}
	if f.CoverImage != "" {
		patch.CoverImage = &f.CoverImage
	}
	return patch
}

// SubmitForm validates and applies the working copy.
//
// Validation failures come back as a field→message map with no catalogue
// mutation and the form left open. Internal failures return a generic error,
// also without closing. On success the mutation is applied and the modal
// closes.
func (c *Controller) SubmitForm() (map[string]string, error) {
	c.mu.Lock()
	if c.form == nil || (c.mode != ModeEdit && c.mode != ModeAdd) {
		c.mu.Unlock()
		return nil, apperr.ValidationError("No form is open")
	}
	form := *c.form
	mode := c.mode
	c.mu.Unlock()

	if fields := form.Validate(); fields != nil {
		return fields, nil
	}

	switch mode {
	case ModeAdd:
		game, err := form.materialize()
		if err != nil {
			c.logger.Error("modal_submit_failed", slog.Any("error", err))
			return nil, apperr.Internal(err)
		}
		c.catalogue.Add(game)

	case ModeEdit:
		if !c.catalogue.Update(form.ID, form.patch()) {
			err := errors.New("modal: edited game no longer exists")
			c.logger.Error("modal_submit_failed", slog.String("game_id", form.ID), slog.Any("error", err))
			return nil, apperr.Internal(err)
		}
	}

	c.Close()
	return nil, nil
}
