package builder

import (
	"log"

	"github.com/google/uuid"
)

// Entry is a (card, quantity) placement inside exactly one category.
// The ID is unique among live entries and is re-minted whenever the
// entry moves to a different category.
type Entry struct {
	ID       string  `json:"id"`
	Card     CardRef `json:"card"`
	Quantity int     `json:"quantity"`
}

// Deck holds the per-category ordered entry lists plus the deck's
// metadata. Insertion order within a category is preserved; no sorting
// is applied here.
type Deck struct {
	Name        string
	Description string
	Format      string

	categories map[CategoryKey][]*Entry
}

// NewDeck returns an empty deck.
func NewDeck() *Deck {
	return &Deck{categories: make(map[CategoryKey][]*Entry)}
}

// Entries returns the ordered entries of a category. The returned slice
// is shared; callers must not reorder it.
func (d *Deck) Entries(key CategoryKey) []*Entry {
	return d.categories[key]
}

// FindEntry locates an entry by id across all categories.
func (d *Deck) FindEntry(entryID string) (*Entry, CategoryKey, bool) {
	for key, entries := range d.categories {
		for _, e := range entries {
			if e.ID == entryID {
				return e, key, true
			}
		}
	}
	return nil, "", false
}

// AddCard adds a card to the target category. If an entry for the same
// underlying card already exists there its quantity is incremented;
// otherwise a new entry with a fresh unique id is appended. Returns the
// affected entry.
func (d *Deck) AddCard(card CardRef, target CategoryKey) *Entry {
	for _, e := range d.categories[target] {
		if e.Card.ID == card.ID {
			e.Quantity++
			return e
		}
	}

	entry := &Entry{
		ID:       uuid.NewString(),
		Card:     card,
		Quantity: 1,
	}
	d.categories[target] = append(d.categories[target], entry)
	return entry
}

// RemoveCard deletes the entry with the given id from the category.
// Unknown ids are a no-op; stale references are normal during rapid
// interaction.
func (d *Deck) RemoveCard(entryID string, key CategoryKey) {
	entries := d.categories[key]
	for i, e := range entries {
		if e.ID == entryID {
			d.categories[key] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
	log.Printf("[builder] remove ignored: entry %q not in category %q", entryID, key)
}

// SetQuantity sets an entry's quantity. A quantity of zero or less is
// equivalent to RemoveCard.
func (d *Deck) SetQuantity(entryID string, key CategoryKey, n int) {
	if n <= 0 {
		d.RemoveCard(entryID, key)
		return
	}
	for _, e := range d.categories[key] {
		if e.ID == entryID {
			e.Quantity = n
			return
		}
	}
	log.Printf("[builder] set quantity ignored: entry %q not in category %q", entryID, key)
}

// ChangeCardFace replaces the entry's card reference in place without
// altering its quantity or id. Used when swapping a card for a
// different printing.
func (d *Deck) ChangeCardFace(entryID string, key CategoryKey, card CardRef) {
	for _, e := range d.categories[key] {
		if e.ID == entryID {
			e.Card = card
			return
		}
	}
	log.Printf("[builder] change face ignored: entry %q not in category %q", entryID, key)
}

// MoveCard removes the entry from one category and re-inserts it into
// another with a freshly minted id; quantity and card reference carry
// over. Moving within the same category is a no-op. Returns the entry
// now living in the target category, or nil if nothing moved.
func (d *Deck) MoveCard(entryID string, from, to CategoryKey) *Entry {
	if from == to {
		return nil
	}

	entries := d.categories[from]
	for i, e := range entries {
		if e.ID == entryID {
			d.categories[from] = append(entries[:i], entries[i+1:]...)
			moved := &Entry{
				ID:       uuid.NewString(),
				Card:     e.Card,
				Quantity: e.Quantity,
			}
			d.categories[to] = append(d.categories[to], moved)
			return moved
		}
	}

	log.Printf("[builder] move ignored: entry %q not in category %q", entryID, from)
	return nil
}

// ClearCategory discards every entry in a category.
func (d *Deck) ClearCategory(key CategoryKey) {
	delete(d.categories, key)
}

// TotalCount sums quantities across categories. A nil predicate counts
// everything; otherwise only categories the predicate admits.
func (d *Deck) TotalCount(pred func(CategoryKey) bool) int {
	total := 0
	for key, entries := range d.categories {
		if pred != nil && !pred(key) {
			continue
		}
		for _, e := range entries {
			total += e.Quantity
		}
	}
	return total
}

// TotalPrice sums quantity-weighted USD prices across categories,
// filtered the same way as TotalCount.
func (d *Deck) TotalPrice(pred func(CategoryKey) bool) float64 {
	total := 0.0
	for key, entries := range d.categories {
		if pred != nil && !pred(key) {
			continue
		}
		for _, e := range entries {
			total += e.Card.PriceUSD * float64(e.Quantity)
		}
	}
	return total
}
