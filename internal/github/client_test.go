// Copyright (c) 2026 GameShelf. All rights reserved.

package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gh "github.com/kael/gameshelf/internal/github"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(serverURL string) *gh.Client {
	return gh.NewClient("test-token", "kael", "gameshelf-data", "main", discardLogger()).
		WithBaseURL(serverURL)
}

/*
TestClient_GetFile verifies base64 content decoding, including the line
breaks GitHub inserts, and the not-found mapping.
*/
func TestClient_GetFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))

		switch request.URL.Path {
		case "/repos/kael/gameshelf-data/contents/data/games.json":
			assert.Equal(t, "main", request.URL.Query().Get("ref"))
			// GitHub wraps base64 payloads with newlines.
			encoded := base64.StdEncoding.EncodeToString([]byte(`{"games":[]}`))
			wrapped := encoded[:8] + "\n" + encoded[8:]
			_ = json.NewEncoder(writer).Encode(map[string]string{
				"sha":      "abc123",
				"content":  wrapped,
				"encoding": "base64",
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newClient(server.URL)

	raw, sha, err := client.GetFile(context.Background(), "data/games.json")
	require.NoError(t, err)
	assert.Equal(t, `{"games":[]}`, string(raw))
	assert.Equal(t, "abc123", sha)

	_, _, err = client.GetFile(context.Background(), "data/missing.json")
	assert.ErrorIs(t, err, gh.ErrNotFound)
}

/*
TestClient_PutFile verifies the update flow threads the existing blob SHA
through, and the create flow omits it.
*/
func TestClient_PutFile(t *testing.T) {
	var putPayload map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.Method {
		case http.MethodGet:
			if request.URL.Path == "/repos/kael/gameshelf-data/contents/existing.json" {
				_ = json.NewEncoder(writer).Encode(map[string]string{
					"sha":     "prior-sha",
					"content": base64.StdEncoding.EncodeToString([]byte("old")),
				})
				return
			}
			writer.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			putPayload = map[string]string{}
			require.NoError(t, json.NewDecoder(request.Body).Decode(&putPayload))
			writer.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	client := newClient(server.URL)

	require.NoError(t, client.PutFile(context.Background(), "existing.json", "Update games data", []byte("new")))
	assert.Equal(t, "prior-sha", putPayload["sha"])
	assert.Equal(t, "Update games data", putPayload["message"])
	assert.Equal(t, "main", putPayload["branch"])

	decoded, err := base64.StdEncoding.DecodeString(putPayload["content"])
	require.NoError(t, err)
	assert.Equal(t, "new", string(decoded))

	require.NoError(t, client.PutFile(context.Background(), "fresh.json", "Add file", []byte("new")))
	_, hasSHA := putPayload["sha"]
	assert.False(t, hasSHA, "creating a file sends no prior SHA")
}

/*
TestClient_DispatchWorkflow verifies the dispatch payload and the 204-only
success contract.
*/
func TestClient_DispatchWorkflow(t *testing.T) {
	var dispatched map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/repos/kael/gameshelf-data/actions/workflows/optimize-covers.yml/dispatches" {
			require.NoError(t, json.NewDecoder(request.Body).Decode(&dispatched))
			writer.WriteHeader(http.StatusNoContent)
			return
		}
		writer.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newClient(server.URL)

	err := client.DispatchWorkflow(context.Background(), "optimize-covers.yml", map[string]string{"game_id": "hades"})
	require.NoError(t, err)
	assert.Equal(t, "main", dispatched["ref"])
	assert.Equal(t, map[string]any{"game_id": "hades"}, dispatched["inputs"])

	err = client.DispatchWorkflow(context.Background(), "unknown.yml", nil)
	assert.Error(t, err, "anything but a 204 is a dispatch failure")
}

/*
TestClient_Ping verifies reachability is judged by the repository endpoint
status.
*/
func TestClient_Ping(t *testing.T) {
	var status int
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(status)
	}))
	defer server.Close()

	client := newClient(server.URL)

	status = http.StatusOK
	assert.NoError(t, client.Ping(context.Background()))

	status = http.StatusUnauthorized
	assert.Error(t, client.Ping(context.Background()))
}
