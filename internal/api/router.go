package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckforge/deckforge/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Deck routes
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", s.deckHandler.ListDecks)
			r.Post("/", s.deckHandler.CreateDeck)
			r.Post("/import", s.deckHandler.ImportDeck)
			r.Get("/{deckID}", s.deckHandler.GetDeck)
			r.Put("/{deckID}", s.deckHandler.UpdateDeck)
			r.Delete("/{deckID}", s.deckHandler.DeleteDeck)
			r.Post("/{deckID}/export", s.deckHandler.ExportDeck)
		})

		// Draft routes (work-in-progress editor snapshots)
		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", s.draftHandler.ListDrafts)
			r.Post("/", s.draftHandler.CreateDraft)
			r.Get("/{draftID}", s.draftHandler.GetDraft)
			r.Put("/{draftID}", s.draftHandler.SaveDraft)
			r.Delete("/{draftID}", s.draftHandler.DeleteDraft)
		})

		// Card routes (proxied to the card provider)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/search", s.cardHandler.SearchCards)
			r.Get("/random", s.cardHandler.GetRandomCard)
			r.Get("/named", s.cardHandler.GetCardNamed)
			r.Get("/variants", s.cardHandler.GetCardVariants)
			r.Get("/{cardID}", s.cardHandler.GetCard)
		})

		// Set routes
		r.Route("/sets", func(r chi.Router) {
			r.Get("/", s.cardHandler.GetSets)
			r.Get("/{setCode}/cards", s.cardHandler.GetSetCards)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "deckforge-api",
	})
}
