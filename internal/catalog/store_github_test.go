// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kael/gameshelf/internal/catalog"
	gh "github.com/kael/gameshelf/internal/github"
)

// fakeRepo is an in-memory ContentsRepo recording the order of operations.
type fakeRepo struct {
	files  map[string][]byte
	putErr error
	ops    *[]string
}

func (f *fakeRepo) GetFile(_ context.Context, path string) ([]byte, string, error) {
	content, found := f.files[path]
	if !found {
		return nil, "", gh.ErrNotFound
	}
	return content, "sha", nil
}

func (f *fakeRepo) PutFile(_ context.Context, path, _ string, content []byte) error {
	*f.ops = append(*f.ops, "repo.put")
	if f.putErr != nil {
		return f.putErr
	}
	f.files[path] = content
	return nil
}

// fakeKV is an in-memory KeyValue with switchable failure modes.
type fakeKV struct {
	values map[string]string
	getErr error
	setErr error
	ops    *[]string
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, found := f.values[key]
	if !found {
		return "", catalog.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	*f.ops = append(*f.ops, "cache.set")
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

func newGitHubStoreFixture() (*catalog.GitHubStore, *fakeRepo, *fakeKV, *[]string) {
	ops := &[]string{}
	repo := &fakeRepo{files: make(map[string][]byte), ops: ops}
	kv := &fakeKV{values: make(map[string]string), ops: ops}
	store := catalog.NewGitHubStore(repo, kv, "data/games.json", discardLogger())
	return store, repo, kv, ops
}

/*
TestGitHubStore_LoadCacheHit verifies a valid cache entry short-circuits the
repository entirely.
*/
func TestGitHubStore_LoadCacheHit(t *testing.T) {
	store, _, kv, _ := newGitHubStoreFixture()
	kv.values["catalog:games"] = `{"games":[{"id":"a","title":"Alpha"}]}`

	dataset, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, dataset.Games, 1)
	assert.Equal(t, "Alpha", dataset.Games[0].Title)
}

/*
TestGitHubStore_LoadCorruptCacheFallsThrough verifies a malformed cache entry
degrades to the repository read and re-warms the cache.
*/
func TestGitHubStore_LoadCorruptCacheFallsThrough(t *testing.T) {
	store, repo, kv, _ := newGitHubStoreFixture()
	kv.values["catalog:games"] = `{not json`
	repo.files["data/games.json"] = []byte(`{"games":[{"id":"a","title":"Alpha"}]}`)

	dataset, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, dataset.Games, 1)

	assert.JSONEq(t, `{"games":[{"id":"a","title":"Alpha"}]}`, kv.values["catalog:games"],
		"repository read re-warms the cache")
}

/*
TestGitHubStore_LoadMissingDocument verifies a repository 404 yields an empty
dataset, not an error.
*/
func TestGitHubStore_LoadMissingDocument(t *testing.T) {
	store, _, _, _ := newGitHubStoreFixture()

	dataset, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, dataset.Games)
	assert.Empty(t, dataset.Games)
}

/*
TestGitHubStore_SaveWriteThroughOrder verifies the repository commit happens
before any cache write, and a repository failure leaves the cache untouched.
*/
func TestGitHubStore_SaveWriteThroughOrder(t *testing.T) {
	store, _, kv, ops := newGitHubStoreFixture()
	dataset := &catalog.Dataset{Games: []catalog.RawGame{{ID: "a", Title: "Alpha"}}}

	require.NoError(t, store.Save(context.Background(), dataset))
	require.Equal(t, []string{"repo.put", "cache.set"}, *ops)
	assert.NotEmpty(t, kv.values["catalog:games"])
}

/*
TestGitHubStore_SaveAbortsOnRepoFailure verifies all-or-nothing semantics: a
failed write-through performs no partial cache update.
*/
func TestGitHubStore_SaveAbortsOnRepoFailure(t *testing.T) {
	store, repo, kv, ops := newGitHubStoreFixture()
	repo.putErr = errors.New("upstream 502")

	err := store.Save(context.Background(), &catalog.Dataset{Games: []catalog.RawGame{}})
	require.Error(t, err)
	assert.Equal(t, []string{"repo.put"}, *ops, "cache is never touched after a failed commit")
	assert.Empty(t, kv.values)
}

/*
TestGitHubStore_SaveToleratesCacheFailure verifies a cache outage after a
successful commit does not fail the save.
*/
func TestGitHubStore_SaveToleratesCacheFailure(t *testing.T) {
	store, repo, kv, _ := newGitHubStoreFixture()
	kv.setErr = errors.New("redis down")

	err := store.Save(context.Background(), &catalog.Dataset{Games: []catalog.RawGame{}})
	assert.NoError(t, err)
	assert.Contains(t, repo.files, "data/games.json")
}
