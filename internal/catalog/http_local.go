// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/kael/gameshelf/internal/platform/request"
	"github.com/kael/gameshelf/internal/platform/respond"
)

// LocalHandler serves the /api/games-local endpoints: filesystem read/write
// substitutes for the production persistence path. It is mounted only
// outside production builds and skips authentication entirely.
type LocalHandler struct {
	store *LocalStore
}

// NewLocalHandler creates the development-only handler.
func NewLocalHandler(store *LocalStore) *LocalHandler {
	return &LocalHandler{store: store}
}

// Routes mounts the local read/write endpoints.
func (handler *LocalHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.getGames)
	router.Post("/", handler.saveGames)
	return router
}

func (handler *LocalHandler) getGames(writer http.ResponseWriter, request *http.Request) {
	dataset, err := handler.store.Load(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Raw(writer, dataset)
}

func (handler *LocalHandler) saveGames(writer http.ResponseWriter, request *http.Request) {
	var dataset Dataset
	if err := requestutil.DecodeJSON(request, &dataset); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.store.Save(request.Context(), &dataset); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Raw(writer, &dataset)
}
