// Package models defines the storage representations for decks and
// drafts.
package models

import "time"

// Deck is a server-persisted deck. The Description column carries the
// versioned envelope encoding the user description plus the editor's
// column structure.
type Deck struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Format      string    `json:"format"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// DeckCard is one (card, quantity, category) row of a persisted deck.
type DeckCard struct {
	ID        int    `json:"id"`
	DeckID    string `json:"deck_id"`
	CardID    string `json:"card_id"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
	SortOrder int    `json:"sort_order"`
}

// Draft is a locally autosaved editor session, stored as an opaque
// JSON snapshot payload keyed by draft id.
type Draft struct {
	ID        string    `json:"id"`
	Payload   []byte    `json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}
