package builder

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// Drag id namespaces. A drag carries exactly one active id: a card from
// the search results ("search-<cardID>"), a column header
// ("column-<key>"), or a bare deck entry id.
const (
	searchDragPrefix = "search-"
	columnDragPrefix = "column-"
	slotDropPrefix   = "slot-"
)

// SearchDragID returns the drag id for a card dragged out of the
// search results.
func SearchDragID(cardID string) string {
	return searchDragPrefix + cardID
}

// ColumnDragID returns the drag id for a dragged column header.
func ColumnDragID(key CategoryKey) string {
	return columnDragPrefix + string(key)
}

// SlotDropID returns the drop id of an empty "plus" placement slot.
func SlotDropID(row, col int) string {
	return fmt.Sprintf("%s%d-%d", slotDropPrefix, row, col)
}

// DragController interprets the three pointer-drag lifecycle events
// against the session. Drags are modal: a single active id, no
// concurrent drags.
type DragController struct {
	session *Session
	active  string
}

// NewDragController creates a controller bound to one session.
func NewDragController(session *Session) *DragController {
	return &DragController{session: session}
}

// Active returns the id being dragged, or "" when idle.
func (c *DragController) Active() string {
	return c.active
}

// Start records the dragged element's id and enters the dragging state.
func (c *DragController) Start(id string) {
	c.active = id
}

// Cancel returns to idle without applying any transition.
func (c *DragController) Cancel() {
	c.active = ""
}

// End applies the drag-end transition for the active id against the
// drop target and returns to idle regardless of outcome.
//
// Priority order: column placement/swap, drop-nowhere removal,
// search-result insertion, multi-select batch move, single move.
func (c *DragController) End(overID string) {
	active := c.active
	c.active = ""
	if active == "" {
		return
	}

	// 1. Column drags: place onto an empty slot, swap onto a column.
	if strings.HasPrefix(active, columnDragPrefix) {
		c.endColumnDrag(CategoryKey(strings.TrimPrefix(active, columnDragPrefix)), overID)
		return
	}

	target, validTarget := c.resolveCategory(overID)

	// 2. No drop target: deck entries are deleted, search cards are
	// simply discarded.
	if !validTarget {
		if strings.HasPrefix(active, searchDragPrefix) {
			return
		}
		if _, key, ok := c.session.Deck.FindEntry(active); ok {
			c.session.RemoveCard(active, key)
		}
		return
	}

	// 3. Search-result card dropped onto a category.
	if strings.HasPrefix(active, searchDragPrefix) {
		cardID := strings.TrimPrefix(active, searchDragPrefix)
		card, ok := c.session.SearchResult(cardID)
		if !ok {
			log.Printf("[builder] drop ignored: card %q not in last search results", cardID)
			return
		}
		c.session.AddCard(card, target)
		return
	}

	// 4. Dragged entry belongs to the multi-selection: batch move.
	if c.session.IsSelected(active) && len(c.session.Selected()) > 1 {
		c.session.MoveSelectedTo(target)
		return
	}

	// 5. Single entry move (no-op when source == target).
	if _, from, ok := c.session.Deck.FindEntry(active); ok {
		c.session.MoveCard(active, from, target)
	}
}

// endColumnDrag handles rule 1: a dragged column header dropped onto a
// placement slot or another column.
func (c *DragController) endColumnDrag(key CategoryKey, overID string) {
	if row, col, ok := parseSlotID(overID); ok {
		c.session.PlaceColumn(key, row, col)
		return
	}
	if other, ok := c.resolveCategory(overID); ok && other != key {
		if err := c.session.SwapColumns(key, other); err != nil {
			log.Printf("[builder] column swap ignored: %v", err)
		}
	}
}

// resolveCategory maps a drop-target id to a live category key. Drop
// zones are identified either by the bare category key or by the
// column header id.
func (c *DragController) resolveCategory(overID string) (CategoryKey, bool) {
	if overID == "" {
		return "", false
	}
	key := CategoryKey(strings.TrimPrefix(overID, columnDragPrefix))
	if c.session.Layout.Contains(key) {
		return key, true
	}
	return "", false
}

// parseSlotID parses "slot-<row>-<col>".
func parseSlotID(id string) (row, col int, ok bool) {
	if !strings.HasPrefix(id, slotDropPrefix) {
		return 0, 0, false
	}
	parts := strings.Split(strings.TrimPrefix(id, slotDropPrefix), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	row, errR := strconv.Atoi(parts[0])
	col, errC := strconv.Atoi(parts[1])
	if errR != nil || errC != nil {
		return 0, 0, false
	}
	return row, col, true
}
