// Package api provides the REST API server for the deck builder.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/deckforge/deckforge/internal/api/handlers"
	"github.com/deckforge/deckforge/internal/scryfall"
	"github.com/deckforge/deckforge/internal/storage/repository"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int

	// Browser auto-open configuration
	openBrowser bool
	frontendURL string

	deckHandler  *handlers.DeckHandler
	cardHandler  *handlers.CardHandler
	draftHandler *handlers.DraftHandler
}

// Config holds configuration for the API server.
type Config struct {
	Port        int
	OpenBrowser bool   // Whether to auto-open browser on startup
	FrontendURL string // URL to open in browser (e.g., http://localhost:3000)

	// AutosaveDebounce bounds how often hot drafts are written to
	// storage. Zero selects the handler default.
	AutosaveDebounce time.Duration
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		OpenBrowser: false,
		FrontendURL: "",
	}
}

// NewServer creates a new API server wired to the given stores and
// card client.
func NewServer(cfg *Config, decks repository.DeckRepository, drafts repository.DraftRepository, cards *scryfall.Client) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		router:       chi.NewRouter(),
		port:         cfg.Port,
		openBrowser:  cfg.OpenBrowser,
		frontendURL:  cfg.FrontendURL,
		deckHandler:  handlers.NewDeckHandler(decks, cards),
		cardHandler:  handlers.NewCardHandler(cards),
		draftHandler: handlers.NewDraftHandler(drafts, cfg.AutosaveDebounce),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	// Request ID for tracing
	s.router.Use(middleware.RequestID)

	// Real IP detection
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(middleware.Logger)

	// Panic recovery
	s.router.Use(middleware.Recoverer)

	// Request timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Content-Type enforcement for POST/PUT/PATCH only (not GET/DELETE/OPTIONS)
	s.router.Use(s.jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only check content-type for methods that typically have request bodies
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			// Skip if there's no content
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			// Check content-type header
			contentType := r.Header.Get("Content-Type")
			if contentType == "" || (contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;")) {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("[API] Server starting on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[API] Server error: %v", err)
		}
	}()

	// Open browser after short delay to ensure server is ready
	if s.openBrowser && s.frontendURL != "" {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := openBrowser(s.frontendURL); err != nil {
				log.Printf("[API] Failed to open browser: %v", err)
			} else {
				log.Printf("[API] Opened browser to %s", s.frontendURL)
			}
		}()
	}

	return nil
}

// openBrowser opens the specified URL in the default browser.
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// Shutdown gracefully shuts down the API server, flushing any drafts
// with debounced writes still pending.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("[API] Shutting down server...")
	err := s.httpServer.Shutdown(ctx)
	s.draftHandler.FlushDrafts()
	return err
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// Router returns the underlying router, for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
