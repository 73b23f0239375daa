// Copyright (c) 2026 GameShelf. All rights reserved.

package catalog

// PendingChanges accumulates an editing session's uncommitted mutations:
// ordered adds, latest-wins edits, and deletes. It is a client-embedding
// surface: the HTTP API saves whole documents, so nothing server-side stages
// partial edits — an embedding client feeds Materialize into the sync queue.
//
// # Invariants
//
//   - Deleting a game that only exists as a pending add removes the add
//     entirely; it never reaches the delete set.
//   - An edited game is excluded from the materialized list only by being in
//     the delete set.
type PendingChanges struct {
	adds    []Game
	edits   map[string]Game
	deletes map[string]bool
}

// NewPendingChanges creates an empty change set.
func NewPendingChanges() *PendingChanges {
	return &PendingChanges{
		edits:   make(map[string]Game),
		deletes: make(map[string]bool),
	}
}

// Add stages a new game, preserving insertion order.
func (p *PendingChanges) Add(game Game) {
	p.adds = append(p.adds, game)
}

// Edit stages an update; a later edit of the same id wins. An edit of a
// pending add rewrites the add in place.
func (p *PendingChanges) Edit(game Game) {
	for i := range p.adds {
		if p.adds[i].ID == game.ID {
			p.adds[i] = game
			return
		}
	}
	p.edits[game.ID] = game
}

// Delete stages a removal. A pending add is withdrawn outright; a pending
// edit is discarded along with the underlying game.
func (p *PendingChanges) Delete(id string) {
	for i := range p.adds {
		if p.adds[i].ID == id {
			p.adds = append(p.adds[:i], p.adds[i+1:]...)
			return
		}
	}
	delete(p.edits, id)
	p.deletes[id] = true
}

// Empty reports whether the session has nothing staged.
func (p *PendingChanges) Empty() bool {
	return len(p.adds) == 0 && len(p.edits) == 0 && len(p.deletes) == 0
}

// Len returns the number of staged operations.
func (p *PendingChanges) Len() int {
	return len(p.adds) + len(p.edits) + len(p.deletes)
}

// Materialize applies the change set to a base list, producing the final
// games array for persistence: base order with edits applied and deletions
// dropped, then the staged adds appended in order.
func (p *PendingChanges) Materialize(base []Game) []Game {
	result := make([]Game, 0, len(base)+len(p.adds))
	for i := range base {
		id := base[i].ID
		if p.deletes[id] {
			continue
		}
		if edited, found := p.edits[id]; found {
			result = append(result, edited)
			continue
		}
		result = append(result, base[i])
	}
	result = append(result, p.adds...)
	return result
}

// Reset clears all staged operations after a successful commit.
func (p *PendingChanges) Reset() {
	p.adds = nil
	p.edits = make(map[string]Game)
	p.deletes = make(map[string]bool)
}
