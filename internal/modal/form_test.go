// Copyright (c) 2026 GameShelf. All rights reserved.

package modal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kael/gameshelf/internal/catalog"
	"github.com/kael/gameshelf/internal/modal"
)

func ratingPtr(v float64) *float64 { return &v }

func validCompletedForm() modal.Form {
	return modal.Form{
		Title:              "Outer Wilds",
		Platform:           "PC",
		Genre:              "Adventure",
		Year:               2019,
		CoOp:               catalog.CoOpNo,
		Status:             catalog.StatusCompleted,
		TimeToBeat:         "20h",
		HoursPlayed:        "22.5",
		FinishedDate:       "2024-03-10",
		RatingPresentation: ratingPtr(9),
		RatingStory:        ratingPtr(10),
		RatingGameplay:     ratingPtr(8.5),
	}
}

/*
TestForm_Validate verifies the completion-dependent rules: base fields are
always required, the played/finished/rating block only for completed games.
*/
func TestForm_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate    func(*modal.Form)
		wantField string
	}{
		"valid_completed":      {mutate: func(*modal.Form) {}},
		"missing_title":        {mutate: func(f *modal.Form) { f.Title = "" }, wantField: "title"},
		"missing_time_to_beat": {mutate: func(f *modal.Form) { f.TimeToBeat = "" }, wantField: "timeToBeat"},
		"year_out_of_range":    {mutate: func(f *modal.Form) { f.Year = 1950 }, wantField: "year"},
		"missing_rating":       {mutate: func(f *modal.Form) { f.RatingStory = nil }, wantField: "ratingStory"},
		"rating_out_of_range":  {mutate: func(f *modal.Form) { f.RatingGameplay = ratingPtr(10.5) }, wantField: "ratingGameplay"},
		"missing_hours":        {mutate: func(f *modal.Form) { f.HoursPlayed = "" }, wantField: "hoursPlayed"},
		"missing_finished":     {mutate: func(f *modal.Form) { f.FinishedDate = "" }, wantField: "finishedDate"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			form := validCompletedForm()
			tc.mutate(&form)

			fields := form.Validate()
			if tc.wantField == "" {
				assert.Nil(t, fields)
				return
			}
			assert.Contains(t, fields, tc.wantField)
		})
	}
}

/*
TestForm_Validate_PlannedSkipsCompletionBlock verifies planned games do not
require hours, finished date, or ratings.
*/
func TestForm_Validate_PlannedSkipsCompletionBlock(t *testing.T) {
	form := modal.Form{
		Title:      "Silksong",
		Platform:   "Switch",
		Genre:      "Metroidvania",
		Year:       2025,
		Status:     catalog.StatusPlanned,
		TimeToBeat: "40h",
	}

	assert.Nil(t, form.Validate())
}

/*
TestSubmitForm_AddSuccess verifies a valid add submit lands the normalized
game in the catalogue and closes the modal.
*/
func TestSubmitForm_AddSuccess(t *testing.T) {
	controller, catalogue, _, _ := newFixture(t)

	controller.OpenAdd()
	require.True(t, controller.UpdateForm(validCompletedForm()))

	fields, err := controller.SubmitForm()
	require.NoError(t, err)
	assert.Nil(t, fields)
	assert.Equal(t, modal.ModeClosed, controller.Mode())

	game, found := catalogue.GetBySlug("outer-wilds")
	require.True(t, found)
	assert.NotEmpty(t, game.ID, "normalization backfills the id")
	require.NotNil(t, game.Score)
	assert.Equal(t, 18, *game.Score, "score is derived on submit")
}

/*
TestSubmitForm_ValidationKeepsFormOpen verifies a failed submit returns the
field map, mutates nothing, and leaves the form open for correction.
*/
func TestSubmitForm_ValidationKeepsFormOpen(t *testing.T) {
	controller, catalogue, _, _ := newFixture(t)
	before := catalogue.Len()

	form := validCompletedForm()
	form.RatingPresentation = nil

	controller.OpenAdd()
	require.True(t, controller.UpdateForm(form))

	fields, err := controller.SubmitForm()
	require.NoError(t, err)
	assert.Equal(t, "This field is required", fields["ratingPresentation"])

	assert.Equal(t, before, catalogue.Len(), "failed submits never touch the catalogue")
	assert.Equal(t, modal.ModeAdd, controller.Mode())
	_, hasForm := controller.Form()
	assert.True(t, hasForm)
}

/*
TestSubmitForm_EditAppliesPatch verifies an edit submit overwrites the record
and rederives score and tier.
*/
func TestSubmitForm_EditAppliesPatch(t *testing.T) {
	controller, catalogue, _, games := newFixture(t)

	controller.OpenView(games[0], games, catalog.Criteria{})
	controller.OpenEdit(games[0])

	form, hasForm := controller.Form()
	require.True(t, hasForm)
	form.Status = catalog.StatusCompleted
	form.TimeToBeat = "8h"
	form.HoursPlayed = "10h"
	form.FinishedDate = "2024-06-01"
	form.RatingPresentation = ratingPtr(6)
	form.RatingStory = ratingPtr(6)
	form.RatingGameplay = ratingPtr(6)
	require.True(t, controller.UpdateForm(*form))

	fields, err := controller.SubmitForm()
	require.NoError(t, err)
	assert.Nil(t, fields)
	assert.Equal(t, modal.ModeClosed, controller.Mode())

	updated, found := catalogue.GetByID(games[0].ID)
	require.True(t, found)
	assert.Equal(t, catalog.StatusCompleted, updated.Status)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 12, *updated.Score)
	require.NotNil(t, updated.Tier)
	assert.Equal(t, "B", *updated.Tier)
}

/*
TestSubmitForm_NoOpenForm verifies submitting without a form is rejected.
*/
func TestSubmitForm_NoOpenForm(t *testing.T) {
	controller, _, _, _ := newFixture(t)

	_, err := controller.SubmitForm()
	assert.Error(t, err)
}

/*
TestUpdateForm_PinsEditedID verifies edit mode keeps the working copy bound to
the game being edited even if the caller swaps the id.
*/
func TestUpdateForm_PinsEditedID(t *testing.T) {
	controller, _, _, games := newFixture(t)
	controller.OpenEdit(games[0])

	form, _ := controller.Form()
	form.ID = "something-else"
	require.True(t, controller.UpdateForm(*form))

	pinned, _ := controller.Form()
	assert.Equal(t, games[0].ID, pinned.ID)
}
