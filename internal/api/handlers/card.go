package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deckforge/deckforge/internal/api/response"
	"github.com/deckforge/deckforge/internal/scryfall"
)

// CardProvider is the slice of the card client the card handlers need.
type CardProvider interface {
	GetCard(ctx context.Context, id string) (*scryfall.Card, error)
	GetCardNamed(ctx context.Context, name, setCode string) (*scryfall.Card, error)
	GetRandomCard(ctx context.Context) (*scryfall.Card, error)
	SearchCards(ctx context.Context, query string) (*scryfall.SearchResult, error)
	GetCardVariants(ctx context.Context, name string) ([]scryfall.Card, error)
	GetSets(ctx context.Context) (*scryfall.SetList, error)
	GetSetCards(ctx context.Context, setCode string, page int) (*scryfall.SearchResult, error)
}

// CardHandler proxies card and set lookups to the card provider.
type CardHandler struct {
	cards CardProvider
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards CardProvider) *CardHandler {
	return &CardHandler{cards: cards}
}

// SearchCards runs a full-text card search. Requires a "q" query
// parameter.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, errors.New("query parameter 'q' is required"))
		return
	}

	result, err := h.cards.SearchCards(r.Context(), query)
	if err != nil {
		if scryfall.IsNotFound(err) {
			response.Success(w, &scryfall.SearchResult{Data: []scryfall.Card{}})
			return
		}
		response.BadGateway(w, err)
		return
	}
	response.Success(w, result)
}

// GetRandomCard returns one random card.
func (h *CardHandler) GetRandomCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.GetRandomCard(r.Context())
	if err != nil {
		response.BadGateway(w, err)
		return
	}
	response.Success(w, card)
}

// GetCard returns a single card by provider ID.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.GetCard(r.Context(), chi.URLParam(r, "cardID"))
	if err != nil {
		if scryfall.IsNotFound(err) {
			response.NotFound(w, err)
			return
		}
		response.BadGateway(w, err)
		return
	}
	response.Success(w, card)
}

// GetCardNamed looks up a card by exact name, optionally pinned to a
// set via the "set" query parameter.
func (h *CardHandler) GetCardNamed(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		response.BadRequest(w, errors.New("query parameter 'name' is required"))
		return
	}

	card, err := h.cards.GetCardNamed(r.Context(), name, r.URL.Query().Get("set"))
	if err != nil {
		if scryfall.IsNotFound(err) {
			response.NotFound(w, err)
			return
		}
		response.BadGateway(w, err)
		return
	}
	response.Success(w, card)
}

// GetCardVariants returns every printing of the named card.
func (h *CardHandler) GetCardVariants(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		response.BadRequest(w, errors.New("query parameter 'name' is required"))
		return
	}

	variants, err := h.cards.GetCardVariants(r.Context(), name)
	if err != nil {
		if scryfall.IsNotFound(err) {
			response.Success(w, []scryfall.Card{})
			return
		}
		response.BadGateway(w, err)
		return
	}
	response.Success(w, variants)
}

// GetSets lists all sets, optionally filtered with the "q" query
// parameter (exact code match first, then fuzzy name match).
func (h *CardHandler) GetSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.cards.GetSets(r.Context())
	if err != nil {
		response.BadGateway(w, err)
		return
	}

	data := sets.Data
	if query := r.URL.Query().Get("q"); query != "" {
		data = scryfall.FilterSets(data, query)
	}
	response.Success(w, data)
}

// GetSetCards returns one page of a set's cards. The "page" query
// parameter defaults to 1.
func (h *CardHandler) GetSetCards(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, errors.New("query parameter 'page' must be a positive integer"))
			return
		}
		page = parsed
	}

	result, err := h.cards.GetSetCards(r.Context(), chi.URLParam(r, "setCode"), page)
	if err != nil {
		if scryfall.IsNotFound(err) {
			response.NotFound(w, err)
			return
		}
		response.BadGateway(w, err)
		return
	}
	response.Success(w, result)
}
