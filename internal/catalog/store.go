// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import "context"

// Meta is the document metadata stamped on every save.
type Meta struct {
	// LastUpdated is an ISO-8601 instant set by the server at save time.
	LastUpdated string `json:"lastUpdated,omitempty"`
	// Revision is a time-ordered unique id for the save, useful when
	// diffing the document's git history.
	Revision string `json:"revision,omitempty"`
}

// Dataset is the persisted document shape: {games: [...], meta?: {...}}.
type Dataset struct {
	Games []RawGame `json:"games"`
	Meta  *Meta     `json:"meta,omitempty"`
}

// Store abstracts where the games document lives.
//
// Implementations: [GitHubStore] (production write-through to the backing
// repository plus the key-value cache) and [LocalStore] (development
// filesystem substitute).
type Store interface {
	// Load fetches the current document.
	Load(ctx context.Context) (*Dataset, error)

	// Save persists the document all-or-nothing: on error, no partial
	// state may remain visible to subsequent loads.
	Save(ctx context.Context, dataset *Dataset) error
}
