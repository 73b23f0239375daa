// Copyright (c) 2026 GameShelf. All rights reserved.

// Package cover handles cover image uploads: the raw image is committed to
// the backing repository, then a CI workflow dispatch kicks off the actual
// optimization.
//
// The optimization pipeline is a black box. A successful upload only means
// the raw file landed in the repository; the optimized webp appears whenever
// the workflow finishes.
package cover

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kael/gameshelf/internal/platform/apperr"
	"github.com/kael/gameshelf/internal/platform/validate"
)

// MaxImageBytes caps uploads and remote fetches. Raw covers beyond this are
// rejected before any repository write.
const MaxImageBytes = 10 << 20

// rawCoverDir is where unoptimized uploads land; the workflow reads from
// here and writes the final covers/{id}.webp.
const rawCoverDir = "covers-raw"

var idSanitizeRegex = regexp.MustCompile(`[^a-z0-9-]`)

// Repository is the subset of the source-control client the upload needs.
type Repository interface {
	PutFile(ctx context.Context, path, message string, content []byte) error
	DispatchWorkflow(ctx context.Context, workflowFile string, inputs map[string]string) error
}

// Service commits cover images and triggers their optimization.
type Service struct {
	repository Repository
	workflow   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewService constructs the upload service. workflow is the CI workflow file
// name dispatched after each commit.
func NewService(repository Repository, workflow string, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		workflow:   workflow,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// UploadResult describes where the raw image was committed.
type UploadResult struct {
	GameID  string `json:"gameId"`
	RawPath string `json:"rawPath"`
	// Optimized is the path the workflow will eventually produce.
	Optimized string `json:"optimizedPath"`
}

// UploadFile commits an uploaded image for the given game id.
func (service *Service) UploadFile(ctx context.Context, gameID string, reader io.Reader) (*UploadResult, error) {
	id, err := SanitizeID(gameID)
	if err != nil {
		return nil, err
	}

	content, err := readCapped(reader)
	if err != nil {
		return nil, err
	}

	return service.commit(ctx, id, content)
}

// UploadFromURL fetches a remote image and commits it for the given game id.
func (service *Service) UploadFromURL(ctx context.Context, gameID, imageURL string) (*UploadResult, error) {
	id, err := SanitizeID(gameID)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return nil, validate.RequiredError("imageUrl", "must be an http(s) URL")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, validate.RequiredError("imageUrl", "is not a valid URL")
	}

	response, err := service.httpClient.Do(request)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Could not fetch the remote image")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, apperr.ServiceUnavailable(fmt.Sprintf("Remote image responded with status %d", response.StatusCode))
	}

	content, err := readCapped(response.Body)
	if err != nil {
		return nil, err
	}

	return service.commit(ctx, id, content)
}

// commit writes the raw image and fires the optimization workflow.
func (service *Service) commit(ctx context.Context, id string, content []byte) (*UploadResult, error) {
	rawPath := fmt.Sprintf("%s/%s", rawCoverDir, id)
	message := fmt.Sprintf("Upload raw cover for %s", id)

	if err := service.repository.PutFile(ctx, rawPath, message, content); err != nil {
		return nil, apperr.WriteFailed(err)
	}

	// Workflow dispatch is best-effort: the raw image is committed either
	// way and the workflow can be re-run by hand.
	if err := service.repository.DispatchWorkflow(ctx, service.workflow, map[string]string{"game_id": id}); err != nil {
		service.logger.Warn("cover_workflow_dispatch_failed",
			slog.String("game_id", id),
			slog.Any("error", err),
		)
	}

	service.logger.Info("cover_uploaded",
		slog.String("game_id", id),
		slog.Int("bytes", len(content)),
	)

	return &UploadResult{
		GameID:    id,
		RawPath:   rawPath,
		Optimized: "covers/" + id + ".webp",
	}, nil
}

// SanitizeID reduces a game id to the allowed [a-z0-9-] alphabet. An id that
// sanitizes to nothing is invalid.
func SanitizeID(gameID string) (string, error) {
	id := idSanitizeRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(gameID)), "")
	if id == "" {
		return "", validate.RequiredError("gameId", "is required")
	}
	return id, nil
}

// readCapped reads at most MaxImageBytes and rejects anything larger or empty.
func readCapped(reader io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(reader, MaxImageBytes+1))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(content) == 0 {
		return nil, validate.RequiredError("file", "is empty")
	}
	if len(content) > MaxImageBytes {
		return nil, validate.RequiredError("file", fmt.Sprintf("must be at most %d bytes", MaxImageBytes))
	}
	return content, nil
}
