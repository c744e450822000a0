package builder

import (
	"fmt"
	"log"
)

// Position is a cell in the sparse editor grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Layout owns the set of live categories and their grid placement. At
// most one category occupies a given cell; swapping on drop keeps that
// invariant.
type Layout struct {
	positions map[CategoryKey]Position
	labels    map[CategoryKey]string
	options   map[CategoryKey]ColumnOption
	hidden    map[CategoryKey]bool
	custom    []CategoryKey
}

// NewLayout returns a layout with every built-in category placed in its
// default cell.
func NewLayout() *Layout {
	l := &Layout{
		positions: make(map[CategoryKey]Position),
		labels:    make(map[CategoryKey]string),
		options:   make(map[CategoryKey]ColumnOption),
		hidden:    make(map[CategoryKey]bool),
	}

	for i, key := range builtinCategories {
		l.positions[key] = Position{Row: i / 4, Col: i % 4}
		l.options[key] = defaultColumnOption(key)
	}

	return l
}

// Contains reports whether the key names a live (visible) category.
func (l *Layout) Contains(key CategoryKey) bool {
	if key.IsBuiltin() {
		return !l.hidden[key]
	}
	for _, k := range l.custom {
		if k == key {
			return true
		}
	}
	return false
}

// Categories returns the live categories: built-ins in display order,
// then custom columns in creation order.
func (l *Layout) Categories() []CategoryKey {
	keys := make([]CategoryKey, 0, len(builtinCategories)+len(l.custom))
	for _, key := range builtinCategories {
		if !l.hidden[key] {
			keys = append(keys, key)
		}
	}
	keys = append(keys, l.custom...)
	return keys
}

// AddColumn creates a custom column with the given label and returns
// its generated key. The caller must place it before it participates
// in the grid.
func (l *Layout) AddColumn(label string) CategoryKey {
	key := NewCustomColumnKey()
	l.custom = append(l.custom, key)
	if label == "" {
		label = fmt.Sprintf("Column %d", len(l.custom))
	}
	l.labels[key] = label
	l.options[key] = StartsInDeck
	return key
}

// PlaceColumn sets or overwrites the column's grid position. Placing an
// unknown category, or placing onto a cell occupied by another live
// column, is a logged no-op.
func (l *Layout) PlaceColumn(key CategoryKey, row, col int) {
	if !l.Contains(key) {
		log.Printf("[builder] place ignored: unknown category %q", key)
		return
	}
	if occupant, ok := l.CategoryAt(row, col); ok && occupant != key {
		log.Printf("[builder] place ignored: cell (%d,%d) occupied by %q", row, col, occupant)
		return
	}
	l.positions[key] = Position{Row: row, Col: col}
}

// SwapColumns exchanges the positions of two columns atomically. Both
// must be live and placed.
func (l *Layout) SwapColumns(a, b CategoryKey) error {
	posA, okA := l.PositionOf(a)
	posB, okB := l.PositionOf(b)
	if !okA || !okB {
		return fmt.Errorf("swap requires both columns placed: %q, %q", a, b)
	}
	l.positions[a] = posB
	l.positions[b] = posA
	return nil
}

// HideBuiltin marks a built-in category as deleted. The key survives so
// the column can be restored later; its cards are cleared by the
// session. Custom columns must use RemoveColumn instead.
func (l *Layout) HideBuiltin(key CategoryKey) error {
	if !key.IsBuiltin() {
		return fmt.Errorf("cannot hide non-builtin category %q", key)
	}
	l.hidden[key] = true
	delete(l.positions, key)
	return nil
}

// RemoveColumn permanently deletes a custom column: its key, label,
// option and position.
func (l *Layout) RemoveColumn(key CategoryKey) error {
	if key.IsBuiltin() {
		return fmt.Errorf("cannot remove builtin category %q", key)
	}
	for i, k := range l.custom {
		if k == key {
			l.custom = append(l.custom[:i], l.custom[i+1:]...)
			delete(l.positions, key)
			delete(l.labels, key)
			delete(l.options, key)
			return nil
		}
	}
	return fmt.Errorf("unknown custom category %q", key)
}

// RestoreBuiltin un-hides a built-in category and assigns it a fresh
// position. The target cell must be free. The restored column starts
// empty; hiding cleared its cards and restoration does not undo that.
func (l *Layout) RestoreBuiltin(key CategoryKey, row, col int) error {
	if !key.IsBuiltin() {
		return fmt.Errorf("cannot restore non-builtin category %q", key)
	}
	if !l.hidden[key] {
		return fmt.Errorf("category %q is not hidden", key)
	}
	if occupant, ok := l.CategoryAt(row, col); ok {
		return fmt.Errorf("cannot restore %q: cell (%d,%d) occupied by %q", key, row, col, occupant)
	}
	delete(l.hidden, key)
	l.positions[key] = Position{Row: row, Col: col}
	return nil
}

// Rename sets a display-label override. The storage key is unchanged.
func (l *Layout) Rename(key CategoryKey, label string) {
	if !l.Contains(key) {
		log.Printf("[builder] rename ignored: unknown category %q", key)
		return
	}
	l.labels[key] = label
}

// LabelOf returns the display label for a category.
func (l *Layout) LabelOf(key CategoryKey) string {
	if label, ok := l.labels[key]; ok {
		return label
	}
	if label, ok := builtinLabels[key]; ok {
		return label
	}
	return string(key)
}

// PositionOf returns the column's grid position, if placed.
func (l *Layout) PositionOf(key CategoryKey) (Position, bool) {
	pos, ok := l.positions[key]
	return pos, ok
}

// CategoryAt returns the live category occupying a cell, if any.
func (l *Layout) CategoryAt(row, col int) (CategoryKey, bool) {
	for key, pos := range l.positions {
		if pos.Row == row && pos.Col == col && l.Contains(key) {
			return key, true
		}
	}
	return "", false
}

// SetOption sets the column option used for counting and export.
func (l *Layout) SetOption(key CategoryKey, opt ColumnOption) {
	if !l.Contains(key) {
		log.Printf("[builder] option ignored: unknown category %q", key)
		return
	}
	l.options[key] = opt
}

// OptionOf returns the column option for a category.
func (l *Layout) OptionOf(key CategoryKey) ColumnOption {
	if opt, ok := l.options[key]; ok {
		return opt
	}
	return defaultColumnOption(key)
}

// IsHidden reports whether a built-in category is currently hidden.
func (l *Layout) IsHidden(key CategoryKey) bool {
	return l.hidden[key]
}

// HiddenBuiltins returns the hidden built-in categories in display order.
func (l *Layout) HiddenBuiltins() []CategoryKey {
	var keys []CategoryKey
	for _, key := range builtinCategories {
		if l.hidden[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

// CustomColumns returns the custom column keys in creation order.
func (l *Layout) CustomColumns() []CategoryKey {
	keys := make([]CategoryKey, len(l.custom))
	copy(keys, l.custom)
	return keys
}
