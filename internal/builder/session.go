package builder

import (
	"log"
)

// Session is the single controller owning one editor's deck state:
// the card collection, the column layout, the multi-select set and the
// last search results. Every mutation notifies the change hook so the
// autosaver can observe it.
type Session struct {
	Deck   *Deck
	Layout *Layout

	selection     map[string]CategoryKey
	searchResults map[string]CardRef

	onChange func()
}

// NewSession returns an empty editor session with the default layout.
func NewSession() *Session {
	return &Session{
		Deck:          NewDeck(),
		Layout:        NewLayout(),
		selection:     make(map[string]CategoryKey),
		searchResults: make(map[string]CardRef),
	}
}

// SetOnChange registers a hook invoked after every state mutation.
func (s *Session) SetOnChange(fn func()) {
	s.onChange = fn
}

func (s *Session) markChanged() {
	if s.onChange != nil {
		s.onChange()
	}
}

// SetName sets the deck name.
func (s *Session) SetName(name string) {
	s.Deck.Name = name
	s.markChanged()
}

// SetDescription sets the user description.
func (s *Session) SetDescription(desc string) {
	s.Deck.Description = desc
	s.markChanged()
}

// SetFormat sets the deck format.
func (s *Session) SetFormat(format string) {
	s.Deck.Format = format
	s.markChanged()
}

// AddCard adds a card to the target category, deriving the category
// from the card's type line when target is empty. Adding into a
// category that does not exist is a logged no-op.
func (s *Session) AddCard(card CardRef, target CategoryKey) *Entry {
	if target == "" {
		target = DeriveCategory(card.TypeLine)
	}
	if !s.Layout.Contains(target) {
		log.Printf("[builder] add ignored: unknown category %q", target)
		return nil
	}
	entry := s.Deck.AddCard(card, target)
	s.markChanged()
	return entry
}

// RemoveCard deletes an entry from a category.
func (s *Session) RemoveCard(entryID string, key CategoryKey) {
	s.Deck.RemoveCard(entryID, key)
	delete(s.selection, entryID)
	s.markChanged()
}

// SetQuantity sets an entry's quantity; zero or less removes it.
func (s *Session) SetQuantity(entryID string, key CategoryKey, n int) {
	s.Deck.SetQuantity(entryID, key, n)
	if n <= 0 {
		delete(s.selection, entryID)
	}
	s.markChanged()
}

// ChangeCardFace swaps an entry's card for another printing without
// touching its id or quantity.
func (s *Session) ChangeCardFace(entryID string, key CategoryKey, card CardRef) {
	s.Deck.ChangeCardFace(entryID, key, card)
	s.markChanged()
}

// MoveCard moves an entry between categories. Moving to an unknown
// category is a logged no-op.
func (s *Session) MoveCard(entryID string, from, to CategoryKey) *Entry {
	if !s.Layout.Contains(to) {
		log.Printf("[builder] move ignored: unknown category %q", to)
		return nil
	}
	moved := s.Deck.MoveCard(entryID, from, to)
	if moved != nil {
		delete(s.selection, entryID)
		s.markChanged()
	}
	return moved
}

// AddColumn creates a custom column; the caller places it afterwards.
func (s *Session) AddColumn(label string) CategoryKey {
	key := s.Layout.AddColumn(label)
	s.markChanged()
	return key
}

// PlaceColumn assigns a column to a grid cell.
func (s *Session) PlaceColumn(key CategoryKey, row, col int) {
	s.Layout.PlaceColumn(key, row, col)
	s.markChanged()
}

// SwapColumns exchanges two placed columns.
func (s *Session) SwapColumns(a, b CategoryKey) error {
	if err := s.Layout.SwapColumns(a, b); err != nil {
		return err
	}
	s.markChanged()
	return nil
}

// HideBuiltinColumn hides a built-in category and discards its cards.
// The cards are not recoverable: restoring the column later yields an
// empty category.
func (s *Session) HideBuiltinColumn(key CategoryKey) error {
	if err := s.Layout.HideBuiltin(key); err != nil {
		return err
	}
	s.dropSelectionIn(key)
	s.Deck.ClearCategory(key)
	s.markChanged()
	return nil
}

// RemoveColumn permanently deletes a custom column and its cards.
func (s *Session) RemoveColumn(key CategoryKey) error {
	if err := s.Layout.RemoveColumn(key); err != nil {
		return err
	}
	s.dropSelectionIn(key)
	s.Deck.ClearCategory(key)
	s.markChanged()
	return nil
}

// RestoreBuiltinColumn un-hides a built-in category at a new position.
func (s *Session) RestoreBuiltinColumn(key CategoryKey, row, col int) error {
	if err := s.Layout.RestoreBuiltin(key, row, col); err != nil {
		return err
	}
	s.markChanged()
	return nil
}

// RenameColumn overrides a column's display label.
func (s *Session) RenameColumn(key CategoryKey, label string) {
	s.Layout.Rename(key, label)
	s.markChanged()
}

// SetColumnOption tags a column for counting and export bucketing.
func (s *Session) SetColumnOption(key CategoryKey, opt ColumnOption) {
	s.Layout.SetOption(key, opt)
	s.markChanged()
}

func (s *Session) dropSelectionIn(key CategoryKey) {
	for id, cat := range s.selection {
		if cat == key {
			delete(s.selection, id)
		}
	}
}

// CountBucket sums quantities across categories whose column option
// maps to the given bucket.
func (s *Session) CountBucket(bucket Bucket) int {
	return s.Deck.TotalCount(func(key CategoryKey) bool {
		return s.Layout.OptionOf(key).Bucket() == bucket
	})
}

// MainCount returns the main-deck card count: everything except
// sideboard- and extra-flagged categories.
func (s *Session) MainCount() int {
	return s.CountBucket(BucketMain)
}

// SideboardCount returns the sideboard card count.
func (s *Session) SideboardCount() int {
	return s.CountBucket(BucketSideboard)
}

// ExtraCount returns the extra-deck card count.
func (s *Session) ExtraCount() int {
	return s.CountBucket(BucketExtra)
}

// TotalPrice returns the quantity-weighted USD price of the deck,
// excluding sideboard-flagged categories.
func (s *Session) TotalPrice() float64 {
	return s.Deck.TotalPrice(func(key CategoryKey) bool {
		return s.Layout.OptionOf(key).Bucket() != BucketSideboard
	})
}

// SetSearchResults records the last search result set so drops of
// "search-" drag ids can resolve their card.
func (s *Session) SetSearchResults(cards []CardRef) {
	s.searchResults = make(map[string]CardRef, len(cards))
	for _, c := range cards {
		s.searchResults[c.ID] = c
	}
}

// SearchResult resolves a card id against the last search result set.
func (s *Session) SearchResult(cardID string) (CardRef, bool) {
	c, ok := s.searchResults[cardID]
	return c, ok
}

// ToggleSelect toggles an entry's membership in the multi-select set.
// Unknown entries are ignored.
func (s *Session) ToggleSelect(entryID string) {
	if _, ok := s.selection[entryID]; ok {
		delete(s.selection, entryID)
		return
	}
	if _, key, ok := s.Deck.FindEntry(entryID); ok {
		s.selection[entryID] = key
	}
}

// Rect is an axis-aligned rectangle in canvas coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// SelectWithin toggles membership for every entry whose rendered
// bounding box intersects the rubber-band rectangle.
func (s *Session) SelectWithin(band Rect, boxes map[string]Rect) {
	for entryID, box := range boxes {
		if band.Intersects(box) {
			s.ToggleSelect(entryID)
		}
	}
}

// Selected returns the selected entry ids mapped to their categories.
func (s *Session) Selected() map[string]CategoryKey {
	out := make(map[string]CategoryKey, len(s.selection))
	for id, key := range s.selection {
		out[id] = key
	}
	return out
}

// IsSelected reports whether an entry is in the multi-select set.
func (s *Session) IsSelected(entryID string) bool {
	_, ok := s.selection[entryID]
	return ok
}

// ClearSelection empties the multi-select set.
func (s *Session) ClearSelection() {
	s.selection = make(map[string]CategoryKey)
}

// MoveSelectedTo moves every selected entry into the target category in
// one batch and clears the selection.
func (s *Session) MoveSelectedTo(target CategoryKey) {
	if !s.Layout.Contains(target) {
		log.Printf("[builder] batch move ignored: unknown category %q", target)
		return
	}
	for entryID, from := range s.selection {
		s.Deck.MoveCard(entryID, from, target)
	}
	s.ClearSelection()
	s.markChanged()
}

// RemoveSelected deletes every selected entry and clears the selection.
func (s *Session) RemoveSelected() {
	for entryID, key := range s.selection {
		s.Deck.RemoveCard(entryID, key)
	}
	s.ClearSelection()
	s.markChanged()
}
