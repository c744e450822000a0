package builder

import (
	"encoding/json"
	"fmt"
)

// Snapshot is a lossless, serializable picture of a session: deck
// metadata, per-category entries in order, and the full column layout.
// It is the draft payload and the hydration format for saved decks.
type Snapshot struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Format      string             `json:"format"`
	Categories  []CategorySnapshot `json:"categories"`
	Hidden      []CategoryKey      `json:"hidden,omitempty"`
}

// CategorySnapshot captures one live category.
type CategorySnapshot struct {
	Key      CategoryKey  `json:"key"`
	Label    string       `json:"label"`
	Option   ColumnOption `json:"option"`
	Position *Position    `json:"position,omitempty"`
	Entries  []Entry      `json:"entries,omitempty"`
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		Name:        s.Deck.Name,
		Description: s.Deck.Description,
		Format:      s.Deck.Format,
		Hidden:      s.Layout.HiddenBuiltins(),
	}

	for _, key := range s.Layout.Categories() {
		cat := CategorySnapshot{
			Key:    key,
			Label:  s.Layout.LabelOf(key),
			Option: s.Layout.OptionOf(key),
		}
		if pos, ok := s.Layout.PositionOf(key); ok {
			p := pos
			cat.Position = &p
		}
		for _, e := range s.Deck.Entries(key) {
			cat.Entries = append(cat.Entries, *e)
		}
		snap.Categories = append(snap.Categories, cat)
	}

	return snap
}

// RestoreSnapshot replaces the session's state with the snapshot's.
// The selection and search results are reset; they are transient UI
// state and never persisted.
func (s *Session) RestoreSnapshot(snap *Snapshot) {
	deck := NewDeck()
	deck.Name = snap.Name
	deck.Description = snap.Description
	deck.Format = snap.Format

	layout := NewLayout()
	for _, key := range snap.Hidden {
		_ = layout.HideBuiltin(key)
	}
	for _, cat := range snap.Categories {
		if cat.Key.Kind() == KindCustom {
			layout.custom = append(layout.custom, cat.Key)
		}
		if cat.Label != "" {
			layout.labels[cat.Key] = cat.Label
		}
		layout.options[cat.Key] = cat.Option
		if cat.Position != nil {
			layout.positions[cat.Key] = *cat.Position
		} else {
			delete(layout.positions, cat.Key)
		}
		for i := range cat.Entries {
			e := cat.Entries[i]
			deck.categories[cat.Key] = append(deck.categories[cat.Key], &e)
		}
	}

	s.Deck = deck
	s.Layout = layout
	s.ClearSelection()
	s.searchResults = make(map[string]CardRef)
	s.markChanged()
}

// MarshalSnapshot encodes a snapshot as JSON.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a snapshot from JSON.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
