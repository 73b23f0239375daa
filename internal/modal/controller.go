// Copyright (c) 2026 GameShelf. All rights reserved.

/*
Package modal implements the detail/edit modal controller: which game is open,
in which mode, the snapshot list used for prev/next navigation, and the
synchronization of the open game to the URL query string.

The controller never reaches into live view state. The displayed list is
captured as a snapshot at open time so navigation steps through a stable
ordering even if filters change while the modal is open.
*/
package modal

import (
	"log/slog"
	"net/url"
	"sync"

	"github.com/kael/gameshelf/internal/catalog"
)

// Mode is the modal's current state.
type Mode string

const (
	ModeClosed Mode = "closed"
	ModeView   Mode = "view"
	ModeEdit   Mode = "edit"
	ModeAdd    Mode = "add"
)

// HistoryWriter abstracts the client history API. Push establishes a new
// entry so back/forward walks between deep links; Replace updates the current
// entry for same-session transitions.
type HistoryWriter interface {
	Push(values url.Values)
	Replace(values url.Values)
}

// Controller holds the modal state machine:
// closed → view → {edit, add} → back to view or closed.
type Controller struct {
	catalogue *catalog.Catalogue
	history   HistoryWriter
	logger    *slog.Logger

	mu            sync.Mutex
	mode          Mode
	displayed     []catalog.Game
	activeIndex   int
	filterContext catalog.Criteria
	form          *Form
}

// NewController creates a closed controller. history may be nil when no URL
// synchronization is wanted (tests, headless use).
func NewController(catalogue *catalog.Catalogue, history HistoryWriter, logger *slog.Logger) *Controller {
	return &Controller{
		catalogue:   catalogue,
		history:     history,
		logger:      logger,
		mode:        ModeClosed,
		activeIndex: -1,
	}
}

// Mode returns the current modal mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// IsOpen reports whether any modal is showing.
func (c *Controller) IsOpen() bool {
	return c.Mode() != ModeClosed
}

// ActiveGame returns the game currently shown, if any.
func (c *Controller) ActiveGame() (catalog.Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

// Displayed returns a copy of the navigation snapshot.
func (c *Controller) Displayed() []catalog.Game {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]catalog.Game, len(c.displayed))
	copy(out, c.displayed)
	return out
}

// FilterContext returns the criteria that produced the navigation snapshot.
func (c *Controller) FilterContext() catalog.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filterContext
}

// Form returns the working copy while in edit or add mode.
func (c *Controller) Form() (*Form, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.form == nil {
		return nil, false
	}
	copied := *c.form
	return &copied, true
}

// OpenView opens the modal on a game and captures the displayed list as the
// navigation snapshot. Opening from a closed modal pushes a new history
// entry; switching games while already open replaces the current one.
func (c *Controller) OpenView(game catalog.Game, displayed []catalog.Game, criteria catalog.Criteria) {
	c.openView(game, displayed, criteria, true)
}

func (c *Controller) openView(game catalog.Game, displayed []catalog.Game, criteria catalog.Criteria, allowPush bool) {
	c.mu.Lock()

	snapshot := make([]catalog.Game, len(displayed))
	copy(snapshot, displayed)

	index := indexOf(snapshot, game.ID)
	if index < 0 {
		// A deep link can target a game the active filters hide; show it
		// standalone with no neighbours to step to.
		snapshot = []catalog.Game{game}
		index = 0
	}

	push := allowPush && c.mode == ModeClosed
	c.mode = ModeView
	c.displayed = snapshot
	c.activeIndex = index
	c.filterContext = criteria
	c.form = nil
	c.mu.Unlock()

	c.writeURL(game.Slug(), push)
}

// Next advances to the following game in the snapshot. Returns false at the
// end of the list or when no view is open.
func (c *Controller) Next() bool {
	return c.step(1)
}

// Prev steps back to the previous game in the snapshot.
func (c *Controller) Prev() bool {
	return c.step(-1)
}

func (c *Controller) step(delta int) bool {
	c.mu.Lock()

	if c.mode != ModeView {
		c.mu.Unlock()
		return false
	}
	next := c.activeIndex + delta
	if next < 0 || next >= len(c.displayed) {
		c.mu.Unlock()
		return false
	}
	c.activeIndex = next
	slugValue := c.displayed[next].Slug()
	c.mu.Unlock()

	c.writeURL(slugValue, false)
	return true
}

// SetActiveGame jumps to the game with the given id within the snapshot.
// Unknown ids are a no-op.
func (c *Controller) SetActiveGame(id string) bool {
	c.mu.Lock()

	if c.mode != ModeView {
		c.mu.Unlock()
		return false
	}
	index := indexOf(c.displayed, id)
	if index < 0 {
		c.mu.Unlock()
		return false
	}
	c.activeIndex = index
	slugValue := c.displayed[index].Slug()
	c.mu.Unlock()

	c.writeURL(slugValue, false)
	return true
}

// OpenEdit seeds a working copy of the given game and switches to edit mode.
func (c *Controller) OpenEdit(game catalog.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()

	form := FormFromGame(game)
	c.form = &form
	if index := indexOf(c.displayed, game.ID); index >= 0 {
		c.activeIndex = index
	} else {
		c.displayed = []catalog.Game{game}
		c.activeIndex = 0
	}
	c.mode = ModeEdit
}

// UpdateForm replaces the working copy with edited field values. In edit mode
// the game id is pinned to the game being edited so a submit cannot retarget
// another record. Returns false when no form is open.
func (c *Controller) UpdateForm(form Form) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.form == nil || (c.mode != ModeEdit && c.mode != ModeAdd) {
		return false
	}
	if c.mode == ModeEdit {
		form.ID = c.form.ID
	}
	c.form = &form
	return true
}

// OpenAdd opens a blank form with the creation defaults.
func (c *Controller) OpenAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()

	form := NewAddForm()
	c.form = &form
	c.mode = ModeAdd
}

// CancelForm leaves edit/add mode without applying the working copy,
// returning to view mode when a game is on display, otherwise closing.
func (c *Controller) CancelForm() {
	c.mu.Lock()

	if c.mode != ModeEdit && c.mode != ModeAdd {
		c.mu.Unlock()
		return
	}
	c.form = nil
	if c.mode == ModeEdit && c.activeIndex >= 0 && c.activeIndex < len(c.displayed) {
		c.mode = ModeView
		c.mu.Unlock()
		return
	}
	c.closeLocked()
}

// HandleEscape closes the modal if open, no-op otherwise.
func (c *Controller) HandleEscape() {
	c.mu.Lock()

	if c.mode == ModeClosed {
		c.mu.Unlock()
		return
	}
	c.closeLocked()
}

// Close resets the controller to the closed state and drops the game
// parameter from the URL.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closeLocked()
}

// closeLocked clears state and releases the lock before touching history.
func (c *Controller) closeLocked() {
	c.mode = ModeClosed
	c.displayed = nil
	c.activeIndex = -1
	c.form = nil
	criteria := c.filterContext
	c.mu.Unlock()

	if c.history != nil {
		c.history.Replace(catalog.EncodeQuery(criteria))
	}
}

// activeLocked returns the game under the cursor. Caller holds the lock.
func (c *Controller) activeLocked() (catalog.Game, bool) {
	if c.mode == ModeClosed || c.activeIndex < 0 || c.activeIndex >= len(c.displayed) {
		return catalog.Game{}, false
	}
	return c.displayed[c.activeIndex], true
}

// writeURL syncs the open game's slug into the query string.
func (c *Controller) writeURL(slugValue string, push bool) {
	if c.history == nil {
		return
	}

	c.mu.Lock()
	values := catalog.EncodeQuery(c.filterContext)
	c.mu.Unlock()

	values.Set(catalog.ParamGame, slugValue)
	if push {
		c.history.Push(values)
		return
	}
	c.history.Replace(values)
}

func indexOf(games []catalog.Game, id string) int {
	for i := range games {
		if games[i].ID == id {
			return i
		}
	}
	return -1
}
