// Copyright (c) 2026 GameShelf. All rights reserved.

/*
Package github is a thin client for the slice of the GitHub REST API that
GameShelf consumes: the Contents endpoint (read and write-through of the games
JSON document and raw cover images) and the Actions workflow-dispatch endpoint
(cover optimization).

The GitHub API itself is an external collaborator, not something this package
attempts to model fully. Only the calls the tracker makes are implemented.
*/
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.github.com"

// ErrNotFound is returned when the requested file does not exist in the
// repository (or the repository/branch itself is missing).
var ErrNotFound = errors.New("github: not found")

// Client talks to one repository on one branch.
//
// # Authentication
//
// Requests are authenticated with a personal access token via an
// oauth2 token-source transport, so every call carries the bearer header
// without per-call plumbing.
type Client struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
	branch     string
	logger     *slog.Logger
}

// NewClient constructs a repository-scoped client.
func NewClient(token, owner, repo, branch string, logger *slog.Logger) *Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), source)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		owner:      owner,
		repo:       repo,
		branch:     branch,
		logger:     logger,
	}
}

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at a local httptest server.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// contentsResponse is the subset of the Contents API response we read.
type contentsResponse struct {
	SHA     string `json:"sha"`
	Content string `json:"content"`
	// Encoding is "base64" for file reads.
	Encoding string `json:"encoding"`
}

// GetFile fetches a file's raw bytes and blob SHA from the repository.
func (c *Client) GetFile(ctx context.Context, path string) ([]byte, string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", c.baseURL, c.owner, c.repo, path, c.branch)

	body, status, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	if status == http.StatusNotFound {
		return nil, "", ErrNotFound
	}
	if status != http.StatusOK {
		return nil, "", fmt.Errorf("github: get %s: unexpected status %d", path, status)
	}

	var contents contentsResponse
	if err := json.Unmarshal(body, &contents); err != nil {
		return nil, "", fmt.Errorf("github: get %s: decode response: %w", path, err)
	}

	raw, err := base64.StdEncoding.DecodeString(stripNewlines(contents.Content))
	if err != nil {
		return nil, "", fmt.Errorf("github: get %s: decode content: %w", path, err)
	}

	return raw, contents.SHA, nil
}

// PutFile creates or updates a file on the branch.
//
// The Contents API requires the current blob SHA when updating an existing
// file, so the previous SHA is looked up first. A missing file is created.
func (c *Client) PutFile(ctx context.Context, path, message string, content []byte) error {
	_, sha, err := c.GetFile(ctx, path)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  c.branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("github: put %s: encode request: %w", path, err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, path)
	_, status, err := c.do(ctx, http.MethodPut, url, encoded)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("github: put %s: unexpected status %d", path, status)
	}

	c.logger.Info("github_file_committed",
		slog.String("path", path),
		slog.Int("bytes", len(content)),
	)
	return nil
}

// DispatchWorkflow triggers an Actions workflow on the branch.
//
// The dispatch is fire-and-forget: a 204 means GitHub accepted the event, not
// that the workflow ran or succeeded.
func (c *Client) DispatchWorkflow(ctx context.Context, workflowFile string, inputs map[string]string) error {
	payload := map[string]any{"ref": c.branch}
	if len(inputs) > 0 {
		payload["inputs"] = inputs
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("github: dispatch %s: encode request: %w", workflowFile, err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/dispatches", c.baseURL, c.owner, c.repo, workflowFile)
	_, status, err := c.do(ctx, http.MethodPost, url, encoded)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("github: dispatch %s: unexpected status %d", workflowFile, status)
	}

	return nil
}

// Ping verifies that the repository is reachable with the configured token.
func (c *Client) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, c.owner, c.repo)
	_, status, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("github: repository unreachable: status %d", status)
	}
	return nil
}

// do executes one request and returns the body and status code. Transport
// errors are wrapped; HTTP error statuses are returned for callers to map.
func (c *Client) do(ctx context.Context, method, url string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("github: build request: %w", err)
	}
	request.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, fmt.Errorf("github: %s %s: %w", method, url, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, 32<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("github: read response: %w", err)
	}

	return responseBody, response.StatusCode, nil
}

// stripNewlines removes the line breaks GitHub inserts into base64 content.
func stripNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' && s[i] != '\r' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
