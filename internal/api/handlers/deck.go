// Package handlers contains the REST API request handlers.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/deckforge/deckforge/internal/api/response"
	"github.com/deckforge/deckforge/internal/builder"
	"github.com/deckforge/deckforge/internal/decklist"
	"github.com/deckforge/deckforge/internal/scryfall"
	"github.com/deckforge/deckforge/internal/storage/models"
	"github.com/deckforge/deckforge/internal/storage/repository"
)

// CardLoader resolves cards for deck import and export. Satisfied by
// *scryfall.Client.
type CardLoader interface {
	decklist.CardResolver
	GetCardsByIDs(ctx context.Context, ids []string) ([]scryfall.Card, []string, error)
}

// DeckHandler handles deck persistence, import and export requests.
type DeckHandler struct {
	decks repository.DeckRepository
	cards CardLoader
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(decks repository.DeckRepository, cards CardLoader) *DeckHandler {
	return &DeckHandler{decks: decks, cards: cards}
}

// DeckCardPayload is one card row on the deck wire format.
type DeckCardPayload struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

// DeckRequest is the request body for creating or updating a deck. The
// column structure travels separately and is folded into the stored
// description envelope.
type DeckRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Format      string                   `json:"format"`
	IsPublic    bool                     `json:"isPublic"`
	Columns     *builder.ColumnStructure `json:"columns,omitempty"`
	Cards       []DeckCardPayload        `json:"cards"`
}

// DeckResponse is a deck on the wire, with the description envelope
// already unpacked.
type DeckResponse struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Format      string                   `json:"format"`
	IsPublic    bool                     `json:"isPublic"`
	Columns     *builder.ColumnStructure `json:"columns,omitempty"`
	Cards       []DeckCardPayload        `json:"cards,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	ModifiedAt  time.Time                `json:"modifiedAt"`
}

// ListDecks returns all saved decks without their card lists.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.decks.List(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}

	out := make([]DeckResponse, 0, len(decks))
	for _, d := range decks {
		out = append(out, deckToResponse(d, nil))
	}
	response.Success(w, out)
}

// CreateDeck creates a new deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req DeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}

	envelope, err := builder.EncodeDescription(req.Description, req.Columns)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	now := time.Now().UTC()
	deck := &models.Deck{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Format:      req.Format,
		Description: envelope,
		IsPublic:    req.IsPublic,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	if err := h.decks.Create(r.Context(), deck); err != nil {
		response.InternalError(w, err)
		return
	}
	if err := h.decks.ReplaceCards(r.Context(), deck.ID, payloadToCards(deck.ID, req.Cards)); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Created(w, deckToResponse(deck, req.Cards))
}

// GetDeck returns a single deck with its cards.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	deck, err := h.decks.GetByID(r.Context(), deckID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if deck == nil {
		response.NotFound(w, errors.New("deck not found"))
		return
	}

	cards, err := h.decks.GetCards(r.Context(), deckID)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, deckToResponse(deck, cardsToPayload(cards)))
}

// UpdateDeck replaces a deck's metadata and card list.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	deck, err := h.decks.GetByID(r.Context(), deckID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if deck == nil {
		response.NotFound(w, errors.New("deck not found"))
		return
	}

	var req DeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}

	envelope, err := builder.EncodeDescription(req.Description, req.Columns)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	deck.Name = req.Name
	deck.Format = req.Format
	deck.Description = envelope
	deck.IsPublic = req.IsPublic
	deck.ModifiedAt = time.Now().UTC()

	if err := h.decks.Update(r.Context(), deck); err != nil {
		response.InternalError(w, err)
		return
	}
	if err := h.decks.ReplaceCards(r.Context(), deck.ID, payloadToCards(deck.ID, req.Cards)); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, deckToResponse(deck, req.Cards))
}

// DeleteDeck deletes a deck and its cards.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.decks.Delete(r.Context(), chi.URLParam(r, "deckID")); err != nil {
		response.InternalError(w, err)
		return
	}
	response.NoContent(w)
}

// ImportRequest is the request body for a decklist text import.
type ImportRequest struct {
	Text string `json:"text"`
}

// ImportResponse summarizes an import and carries the resulting deck
// snapshot for client hydration.
type ImportResponse struct {
	Result         *decklist.Result  `json:"result"`
	MainCount      int               `json:"mainCount"`
	SideboardCount int               `json:"sideboardCount"`
	Snapshot       *builder.Snapshot `json:"snapshot"`
}

// ImportDeck parses decklist text, resolves every line against the
// card provider, and returns the per-line results plus the deck built
// from the successes.
func (h *DeckHandler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	session := builder.NewSession()
	importer := decklist.NewImporter(h.cards)
	result, err := importer.Import(r.Context(), req.Text, session)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	response.Success(w, ImportResponse{
		Result:         result,
		MainCount:      session.MainCount(),
		SideboardCount: session.SideboardCount(),
		Snapshot:       session.Snapshot(),
	})
}

// ExportRequest is the request body for a deck export.
type ExportRequest struct {
	Options decklist.Options `json:"options"`
}

// ExportResponse carries the rendered decklist text. Unresolved lists
// the stored card ids the card provider no longer returns; their rows
// are left out of the text.
type ExportResponse struct {
	Text       string   `json:"text"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// ExportDeck renders a saved deck as decklist text in the requested
// format, resolving card names through the card provider.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	deck, err := h.decks.GetByID(r.Context(), deckID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if deck == nil {
		response.NotFound(w, errors.New("deck not found"))
		return
	}

	cards, err := h.decks.GetCards(r.Context(), deckID)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	session, unresolved, err := h.hydrateSession(r.Context(), deck, cards)
	if err != nil {
		response.BadGateway(w, err)
		return
	}

	response.Success(w, ExportResponse{
		Text:       decklist.Export(session, req.Options),
		Unresolved: unresolved,
	})
}

// hydrateSession rebuilds an editor session from a stored deck: the
// envelope restores the column layout, the card rows are resolved to
// full cards in one batch. Card ids the provider cannot resolve are
// returned so the caller can surface them.
func (h *DeckHandler) hydrateSession(ctx context.Context, deck *models.Deck, cards []*models.DeckCard) (*builder.Session, []string, error) {
	session := builder.NewSession()

	userDesc, columns := builder.DecodeDescription(deck.Description)
	session.Deck.Name = deck.Name
	session.Deck.Description = userDesc
	session.Deck.Format = deck.Format
	if columns != nil {
		session.Layout.ApplyStructure(columns)
	}

	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.CardID)
	}
	resolved, unresolved, err := h.cards.GetCardsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*scryfall.Card, len(resolved))
	for i := range resolved {
		byID[resolved[i].ID] = &resolved[i]
	}

	for _, row := range cards {
		card, ok := byID[row.CardID]
		if !ok {
			continue
		}
		entry := session.AddCard(builder.NewCardRef(card), builder.CategoryKey(row.Category))
		if entry != nil && row.Quantity > 1 {
			session.SetQuantity(entry.ID, builder.CategoryKey(row.Category), row.Quantity)
		}
	}

	return session, unresolved, nil
}

func payloadToCards(deckID string, payload []DeckCardPayload) []*models.DeckCard {
	cards := make([]*models.DeckCard, 0, len(payload))
	for _, p := range payload {
		cards = append(cards, &models.DeckCard{
			DeckID:   deckID,
			CardID:   p.CardID,
			Quantity: p.Quantity,
			Category: p.Category,
		})
	}
	return cards
}

func cardsToPayload(cards []*models.DeckCard) []DeckCardPayload {
	payload := make([]DeckCardPayload, 0, len(cards))
	for _, c := range cards {
		payload = append(payload, DeckCardPayload{
			CardID:   c.CardID,
			Quantity: c.Quantity,
			Category: c.Category,
		})
	}
	return payload
}

func deckToResponse(deck *models.Deck, cards []DeckCardPayload) DeckResponse {
	userDesc, columns := builder.DecodeDescription(deck.Description)
	return DeckResponse{
		ID:          deck.ID,
		Name:        deck.Name,
		Description: userDesc,
		Format:      deck.Format,
		IsPublic:    deck.IsPublic,
		Columns:     columns,
		Cards:       cards,
		CreatedAt:   deck.CreatedAt,
		ModifiedAt:  deck.ModifiedAt,
	}
}
