// Copyright (c) 2026 GameShelf. All rights reserved.

package modal

import (
	"net/url"

	"github.com/kael/gameshelf/internal/catalog"
)

// ResolveDeepLink finds the game a URL token refers to.
//
// The token is matched in order: full-title slug, main-title slug (for
// subtitle-bearing titles), then raw id. The ordering keeps old shared links
// working after a title gained a subtitle. No match means no deep link, not
// an error.
func ResolveDeepLink(games []catalog.Game, token string) (catalog.Game, bool) {
	if token == "" {
		return catalog.Game{}, false
	}

	for i := range games {
		if games[i].Slug() == token {
			return games[i], true
		}
	}
	for i := range games {
		if games[i].MainSlug() == token {
			return games[i], true
		}
	}
	for i := range games {
		if games[i].ID == token {
			return games[i], true
		}
	}
	return catalog.Game{}, false
}

// OpenFromURL restores modal state from query values on page load.
//
// The displayed list is searched first so navigation matches what the user
// sees; the full catalogue is the fallback for games the active filters hide.
// History is replaced rather than pushed since the deep link is already the
// current entry. Returns false when the values carry no resolvable game.
func (c *Controller) OpenFromURL(values url.Values, displayed []catalog.Game, criteria catalog.Criteria) bool {
	token := values.Get(catalog.ParamGame)
	if token == "" {
		return false
	}

	game, found := ResolveDeepLink(displayed, token)
	if !found {
		game, found = ResolveDeepLink(c.catalogue.Snapshot(), token)
	}
	if !found {
		return false
	}

	c.openView(game, displayed, criteria, false)
	return true
}
