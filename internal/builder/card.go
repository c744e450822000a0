// Package builder implements the deck-editor state engine: the column
// layout model, the per-category card collection, selection and
// drag-and-drop orchestration, and serializable session snapshots.
// Everything in this package is synchronous and I/O free; a Session is
// owned by exactly one editor at a time.
package builder

import (
	"strconv"

	"github.com/deckforge/deckforge/internal/scryfall"
)

// CardRef is an immutable reference to a fetched card: the opaque
// Scryfall ID plus the denormalized display fields the editor needs.
type CardRef struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	FrontName       string  `json:"front_name"`
	ManaCost        string  `json:"mana_cost,omitempty"`
	TypeLine        string  `json:"type_line"`
	ImageSmall      string  `json:"image_small,omitempty"`
	ImageNormal     string  `json:"image_normal,omitempty"`
	Rarity          string  `json:"rarity"`
	SetCode         string  `json:"set_code"`
	CollectorNumber string  `json:"collector_number"`
	Foil            bool    `json:"foil,omitempty"`
	PriceUSD        float64 `json:"price_usd"`
}

// NewCardRef builds a CardRef from a Scryfall card.
func NewCardRef(c *scryfall.Card) CardRef {
	ref := CardRef{
		ID:              c.ID,
		Name:            c.Name,
		FrontName:       c.FrontFace().Name,
		ManaCost:        c.ManaCost,
		TypeLine:        c.TypeLine,
		Rarity:          c.Rarity,
		SetCode:         c.SetCode,
		CollectorNumber: c.CollectorNumber,
		Foil:            c.Foil,
	}

	images := c.ImageURIs
	if images == nil && len(c.CardFaces) > 0 {
		images = c.CardFaces[0].ImageURIs
	}
	if images != nil {
		ref.ImageSmall = images.Small
		ref.ImageNormal = images.Normal
	}

	if c.Prices.USD != nil {
		if usd, err := strconv.ParseFloat(*c.Prices.USD, 64); err == nil {
			ref.PriceUSD = usd
		}
	}

	return ref
}
