// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kael/gameshelf/internal/catalog"
	"github.com/kael/gameshelf/internal/platform/apperr"
)

// fakeStore is an in-memory Store with switchable failure modes.
type fakeStore struct {
	dataset *catalog.Dataset
	loadErr error
	saveErr error
	saved   *catalog.Dataset
}

func (f *fakeStore) Load(_ context.Context) (*catalog.Dataset, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.dataset, nil
}

func (f *fakeStore) Save(_ context.Context, dataset *catalog.Dataset) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = dataset
	return nil
}

func newServiceFixture(store *fakeStore) (*catalog.Service, *catalog.Catalogue) {
	catalogue := catalog.NewCatalogue(discardLogger())
	service := catalog.NewService(store, catalogue, discardLogger())
	return service, catalogue
}

/*
TestService_LoadCatalogue verifies the happy path: the store document lands in
the in-memory catalogue.
*/
func TestService_LoadCatalogue(t *testing.T) {
	store := &fakeStore{dataset: &catalog.Dataset{Games: []catalog.RawGame{
		plannedRaw("a", "Alpha", "PC", "RPG"),
		plannedRaw("b", "Beta", "PS5", "Action"),
	}}}
	service, catalogue := newServiceFixture(store)

	dataset, err := service.LoadCatalogue(context.Background())
	require.NoError(t, err)
	assert.Len(t, dataset.Games, 2)
	assert.Equal(t, 2, catalogue.Len())
}

/*
TestService_LoadCatalogue_FallsBackOnStoreError verifies an upstream outage
degrades to the bundled dataset instead of failing startup.
*/
func TestService_LoadCatalogue_FallsBackOnStoreError(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("github unreachable")}
	service, catalogue := newServiceFixture(store)

	_, err := service.LoadCatalogue(context.Background())
	require.NoError(t, err)
	assert.Positive(t, catalogue.Len(), "fallback dataset populates the catalogue")
}

/*
TestService_SaveAll_RequiresGamesArray verifies a nil document or a missing
games array is rejected as a validation error before any store call.
*/
func TestService_SaveAll_RequiresGamesArray(t *testing.T) {
	store := &fakeStore{}
	service, _ := newServiceFixture(store)

	for name, dataset := range map[string]*catalog.Dataset{
		"nil_document":  nil,
		"missing_games": {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.SaveAll(context.Background(), dataset)

			var appErr *apperr.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
			assert.Nil(t, store.saved)
		})
	}
}

/*
TestService_SaveAll_ValidatesRecords verifies field errors carry the indexed
games[i]. prefix so the client can map them back to rows.
*/
func TestService_SaveAll_ValidatesRecords(t *testing.T) {
	store := &fakeStore{}
	service, _ := newServiceFixture(store)

	bad := 11.0
	dataset := &catalog.Dataset{Games: []catalog.RawGame{
		plannedRaw("a", "Alpha", "PC", "RPG"),
		{ID: "b", Title: "", Platform: "PS5", Genre: "Action", RatingStory: &bad},
	}}

	_, err := service.SaveAll(context.Background(), dataset)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	fields := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		fields = append(fields, detail.Field)
	}
	assert.Contains(t, fields, "games[1].title")
	assert.Contains(t, fields, "games[1].ratingStory")
	assert.Nil(t, store.saved, "validation failures never reach the store")
}

/*
TestService_SaveAll_RecomputesScore verifies a completed game arriving with
ratings but no score gets the derived score and tier before persistence.
*/
func TestService_SaveAll_RecomputesScore(t *testing.T) {
	store := &fakeStore{}
	service, _ := newServiceFixture(store)

	raw := completedRaw("a", "Alpha", "PC", "RPG", "2024-05-01", 9, 9, 9)
	raw.Score = nil
	raw.Tier = nil

	saved, err := service.SaveAll(context.Background(), &catalog.Dataset{Games: []catalog.RawGame{raw}})
	require.NoError(t, err)

	require.NotNil(t, saved.Games[0].Score)
	assert.Equal(t, 18, *saved.Games[0].Score)
	require.NotNil(t, saved.Games[0].Tier)
	assert.Equal(t, "S", *saved.Games[0].Tier)
}

/*
TestService_SaveAll_StampsMeta verifies the server owns meta: lastUpdated and a
fresh revision are stamped on every save and reflected by CurrentDataset.
*/
func TestService_SaveAll_StampsMeta(t *testing.T) {
	store := &fakeStore{}
	service, catalogue := newServiceFixture(store)

	dataset := &catalog.Dataset{Games: []catalog.RawGame{plannedRaw("a", "Alpha", "PC", "RPG")}}
	saved, err := service.SaveAll(context.Background(), dataset)
	require.NoError(t, err)

	require.NotNil(t, saved.Meta)
	assert.NotEmpty(t, saved.Meta.Revision)
	_, parseErr := time.Parse(time.RFC3339, saved.Meta.LastUpdated)
	assert.NoError(t, parseErr)

	// The catalogue was refreshed and CurrentDataset carries the new meta.
	assert.Equal(t, 1, catalogue.Len())
	current := service.CurrentDataset()
	require.NotNil(t, current.Meta)
	assert.Equal(t, saved.Meta.Revision, current.Meta.Revision)
}

/*
TestService_SaveAll_WriteFailure verifies a store outage maps to a 500 write
error and leaves the in-memory catalogue untouched.
*/
func TestService_SaveAll_WriteFailure(t *testing.T) {
	store := &fakeStore{
		dataset: &catalog.Dataset{Games: []catalog.RawGame{plannedRaw("a", "Alpha", "PC", "RPG")}},
		saveErr: errors.New("upstream 502"),
	}
	service, catalogue := newServiceFixture(store)
	_, err := service.LoadCatalogue(context.Background())
	require.NoError(t, err)

	_, err = service.SaveAll(context.Background(), &catalog.Dataset{Games: []catalog.RawGame{
		plannedRaw("b", "Beta", "PS5", "Action"),
	}})

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WRITE_FAILED", appErr.Code)

	_, found := catalogue.GetByID("b")
	assert.False(t, found, "failed write leaves the catalogue unchanged")
	_, found = catalogue.GetByID("a")
	assert.True(t, found)
}

/*
TestService_CurrentDataset verifies round-tripping through the catalogue
preserves the record shape, including null optional fields.
*/
func TestService_CurrentDataset(t *testing.T) {
	store := &fakeStore{dataset: &catalog.Dataset{Games: []catalog.RawGame{
		completedRaw("a", "Alpha", "PC", "RPG", "2024-05-01", 8, 8, 8),
		plannedRaw("b", "Beta", "PS5", "Action"),
	}}}
	service, _ := newServiceFixture(store)
	_, err := service.LoadCatalogue(context.Background())
	require.NoError(t, err)

	current := service.CurrentDataset()
	require.Len(t, current.Games, 2)

	byID := make(map[string]catalog.RawGame, 2)
	for _, game := range current.Games {
		byID[game.ID] = game
	}
	assert.Equal(t, string(catalog.StatusCompleted), byID["a"].Status)
	assert.NotNil(t, byID["a"].Score)
	assert.Equal(t, string(catalog.StatusPlanned), byID["b"].Status)
	assert.Nil(t, byID["b"].Score)
}
