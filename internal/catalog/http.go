// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kael/gameshelf/internal/platform/middleware"
	requestutil "github.com/kael/gameshelf/internal/platform/request"
	"github.com/kael/gameshelf/internal/platform/respond"
)

// Handler exposes the games document and the filtered view over HTTP.
type Handler struct {
	service   *Service
	engine    *Engine
	completed *CompletedCache
}

// NewHandler creates the catalogue HTTP handler.
func NewHandler(service *Service, engine *Engine, completed *CompletedCache) *Handler {
	return &Handler{service: service, engine: engine, completed: completed}
}

// Routes mounts the games endpoints.
//
// GET / is public; POST / replaces the whole document and requires an
// authenticated session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getGames)
	router.Get("/view", handler.getView)
	router.Get("/completed", handler.getCompleted)
	router.With(middleware.RequireAuth).Post("/", handler.saveGames)

	return router
}

// getGames handles GET /api/games: the persisted document shape, unenveloped,
// exactly as clients persist it back.
func (handler *Handler) getGames(writer http.ResponseWriter, request *http.Request) {
	respond.Raw(writer, handler.service.CurrentDataset())
}

// viewResponse is the filtered-view payload.
type viewResponse struct {
	Games  []Game `json:"games"`
	Counts Counts `json:"counts"`
}

// getView handles GET /api/games/view: the filtered, sorted list for the
// criteria round-tripped through the query string.
func (handler *Handler) getView(writer http.ResponseWriter, request *http.Request) {
	criteria := DecodeQuery(request.URL.Query())

	games, counts := handler.engine.ViewAsync(request.Context(), criteria)
	respond.OK(writer, viewResponse{Games: games, Counts: counts})
}

// getCompleted handles GET /api/games/completed: the completed list sorted
// by finished date descending, served from the debounced cache.
func (handler *Handler) getCompleted(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.completed.CompletedGames())
}

// saveGames handles POST /api/games: full-document replace.
//
// Responses: 401 when the session cookie fails verification (enforced by
// RequireAuth), 400 on schema validation failure, 500 on write-through
// failure.
func (handler *Handler) saveGames(writer http.ResponseWriter, request *http.Request) {
	var dataset Dataset
	if err := requestutil.DecodeJSON(request, &dataset); err != nil {
		respond.Error(writer, request, err)
		return
	}

	saved, err := handler.service.SaveAll(request.Context(), &dataset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Raw(writer, saved)
}
