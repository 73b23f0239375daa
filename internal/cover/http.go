// Copyright (c) 2026 GameShelf. All rights reserved.

package cover

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kael/gameshelf/internal/platform/middleware"
	requestutil "github.com/kael/gameshelf/internal/platform/request"
	"github.com/kael/gameshelf/internal/platform/respond"
	"github.com/kael/gameshelf/internal/platform/validate"
)

// maxMultipartMemory bounds the in-memory part of multipart parsing; larger
// files spill to temp storage.
const maxMultipartMemory = 4 << 20

// Handler implements the cover upload endpoint.
type Handler struct {
	coverService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{coverService: service}
}

// Routes returns a [chi.Router] for the upload endpoint. The whole router is
// authenticated; anonymous uploads are never accepted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireAuth).Post("/", handler.upload)

	return router
}

// upload handles POST /api/cover-upload requests.
//
// The request is either multipart form data with a "file" part, or a JSON
// body carrying a remote "imageUrl". Both variants require a "gameId".
//
// # Returns
//   - Writes HTTP 200 OK with the committed raw path. Upload success does
//     not mean the optimized cover exists yet.
//   - Writes HTTP 400 Bad Request on a missing id, missing image, or
//     oversized file.
//   - Writes HTTP 500 when the repository commit fails.
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	contentType := request.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		handler.uploadMultipart(writer, request)
		return
	}
	handler.uploadJSON(writer, request)
}

func (handler *Handler) uploadMultipart(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseMultipartForm(maxMultipartMemory); err != nil {
		respond.Error(writer, request, validate.RequiredError("file", "multipart form could not be parsed"))
		return
	}

	file, _, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("file", "is required"))
		return
	}
	defer file.Close()

	result, err := handler.coverService.UploadFile(request.Context(), request.FormValue("gameId"), file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// uploadJSONRequest is the remote-URL upload payload.
type uploadJSONRequest struct {
	GameID   string `json:"gameId"`
	ImageURL string `json:"imageUrl"`
}

func (handler *Handler) uploadJSON(writer http.ResponseWriter, request *http.Request) {
	var input uploadJSONRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.ImageURL == "" {
		respond.Error(writer, request, validate.RequiredError("imageUrl", "is required"))
		return
	}

	result, err := handler.coverService.UploadFromURL(request.Context(), input.GameID, input.ImageURL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
