// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

import _ "embed"

// fallbackGames is the static bundled dataset served when the persisted
// document is unavailable or malformed. Shipping a known-good snapshot keeps
// the catalogue browsable through upstream outages.
//
//go:embed fallback_games.json
var fallbackGames []byte

// FallbackDataset parses the bundled dataset. The bundle is validated by
// tests, so a parse failure here means a broken build; we still degrade to an
// empty catalogue instead of panicking.
func FallbackDataset() *Dataset {
	dataset, err := parseDataset(fallbackGames)
	if err != nil {
		return &Dataset{Games: []RawGame{}}
	}
	return dataset
}
