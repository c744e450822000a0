package scryfall

import "fmt"

// Card represents a Magic card returned by the Scryfall API.
// Only the fields the deck builder touches are mapped.
type Card struct {
	ID       string `json:"id"`
	OracleID string `json:"oracle_id"`

	Name        string     `json:"name"`
	Lang        string     `json:"lang"`
	ReleasedAt  string     `json:"released_at"`
	Layout      string     `json:"layout"`
	ImageURIs   *ImageURIs `json:"image_uris,omitempty"`
	ManaCost    string     `json:"mana_cost,omitempty"`
	CMC         float64    `json:"cmc"`
	TypeLine    string     `json:"type_line"`
	OracleText  string     `json:"oracle_text,omitempty"`
	Colors      []string   `json:"colors,omitempty"`
	ScryfallURI string     `json:"scryfall_uri"`

	SetCode         string `json:"set"`
	SetName         string `json:"set_name"`
	CollectorNumber string `json:"collector_number"`
	Rarity          string `json:"rarity"`
	Foil            bool   `json:"foil"`

	// Card faces for DFCs, MDFCs and split cards.
	CardFaces []CardFace `json:"card_faces,omitempty"`

	Prices Prices `json:"prices"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line"`
	OracleText string     `json:"oracle_text,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small      string `json:"small"`
	Normal     string `json:"normal"`
	Large      string `json:"large"`
	PNG        string `json:"png"`
	ArtCrop    string `json:"art_crop"`
	BorderCrop string `json:"border_crop"`
}

// Prices represents the prices of a card in various currencies.
type Prices struct {
	USD     *string `json:"usd,omitempty"`
	USDFoil *string `json:"usd_foil,omitempty"`
	EUR     *string `json:"eur,omitempty"`
	TIX     *string `json:"tix,omitempty"`
}

// FrontFace returns the card's front face for multi-faced cards,
// or a face synthesized from the card itself for single-faced cards.
func (c *Card) FrontFace() CardFace {
	if len(c.CardFaces) > 0 {
		return c.CardFaces[0]
	}
	return CardFace{
		Name:       c.Name,
		ManaCost:   c.ManaCost,
		TypeLine:   c.TypeLine,
		OracleText: c.OracleText,
		ImageURIs:  c.ImageURIs,
	}
}

// Set represents a Magic set from Scryfall.
type Set struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	ReleasedAt string `json:"released_at,omitempty"`
	SetType    string `json:"set_type"`
	CardCount  int    `json:"card_count"`
	Digital    bool   `json:"digital"`
	IconSVGURI string `json:"icon_svg_uri"`
	SearchURI  string `json:"search_uri"`
}

// SetList represents a list of sets from Scryfall.
type SetList struct {
	Object  string `json:"object"`
	HasMore bool   `json:"has_more"`
	Data    []Set  `json:"data"`
}

// SearchResult represents search results from Scryfall.
type SearchResult struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 error from the API.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}
