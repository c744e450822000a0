// Package main provides the Deckforge REST API server: deck and draft
// persistence plus card lookups for the deck builder frontend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/deckforge/deckforge/internal/api"
	"github.com/deckforge/deckforge/internal/config"
	"github.com/deckforge/deckforge/internal/scryfall"
	"github.com/deckforge/deckforge/internal/storage"
	"github.com/deckforge/deckforge/internal/storage/repository"
)

var (
	port   = flag.Int("port", 0, "API server port (overrides config)")
	dbPath = flag.String("db-path", "", "Database path (default: ~/.deckforge/data.db)")
)

func main() {
	flag.Parse()

	fmt.Println("Deckforge - Deck Builder API Server")
	fmt.Println("====================================")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.API.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	finalDBPath, err := cfg.DatabasePath()
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(finalDBPath), 0o755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	fmt.Printf("Database: %s\n", finalDBPath)

	dbConfig := storage.DefaultConfig(finalDBPath)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	decks := repository.NewDeckRepository(db.Conn())
	drafts := repository.NewDraftRepository(db.Conn())

	timeout, err := cfg.GetScryfallTimeout()
	if err != nil {
		log.Fatalf("Invalid scryfall timeout: %v", err)
	}
	rateDelay, err := cfg.GetScryfallRateLimit()
	if err != nil {
		log.Fatalf("Invalid scryfall rate limit: %v", err)
	}
	cards := scryfall.NewClientWithOptions(scryfall.Options{
		BaseURL:   cfg.Scryfall.BaseURL,
		Timeout:   timeout,
		RateLimit: rate.Every(rateDelay),
	})

	autosaveDebounce, err := cfg.GetAutosaveDebounce()
	if err != nil {
		log.Fatalf("Invalid autosave debounce: %v", err)
	}

	server := api.NewServer(&api.Config{
		Port:             cfg.API.Port,
		OpenBrowser:      cfg.API.OpenBrowser,
		FrontendURL:      cfg.API.FrontendURL,
		AutosaveDebounce: autosaveDebounce,
	}, decks, drafts, cards)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	// Reload validated config edits without a restart. Only the card
	// provider request rate takes effect live; everything else needs a
	// restart.
	configPath, err := config.Path()
	if err == nil {
		watcher, werr := config.Watch(configPath, func(updated *config.Config) {
			delay, derr := updated.GetScryfallRateLimit()
			if derr != nil {
				log.Printf("Config reload ignored: %v", derr)
				return
			}
			cards.SetRateLimit(rate.Every(delay))
			log.Printf("Config reloaded from %s (scryfall rate limit now %s)", configPath, delay)
		})
		if werr != nil {
			log.Printf("Config watcher disabled: %v", werr)
		} else {
			defer watcher.Close()
		}
	}

	fmt.Println()
	fmt.Printf("API server running at http://localhost:%d\n", server.Port())
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("API server stopped.")
}
