package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/deckforge/deckforge/internal/storage/models"
)

// setupDeckTestDB creates an in-memory database with the deck tables.
func setupDeckTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := `
		CREATE TABLE decks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			format TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			is_public INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			modified_at DATETIME NOT NULL,
			CHECK(is_public IN (0, 1))
		);

		CREATE TABLE deck_cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			deck_id TEXT NOT NULL,
			card_id TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			category TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (deck_id) REFERENCES decks(id) ON DELETE CASCADE,
			UNIQUE(deck_id, card_id, category),
			CHECK(quantity > 0)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

func testDeck(id, name string) *models.Deck {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Deck{
		ID:         id,
		Name:       name,
		Format:     "modern",
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func TestDeckRepositoryCreateAndGet(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	deck := testDeck("d1", "Burn")
	deck.Description = `{"version":1,"description":"fast red deck"}`
	if err := repo.Create(ctx, deck); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected deck")
	}
	if got.Name != "Burn" || got.Format != "modern" {
		t.Errorf("got %+v", got)
	}
	if got.Description != deck.Description {
		t.Errorf("description = %q", got.Description)
	}
}

func TestDeckRepositoryGetByIDMissing(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))

	got, err := repo.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing deck, got %+v", got)
	}
}

func TestDeckRepositoryUpdate(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	deck := testDeck("d1", "Burn")
	if err := repo.Create(ctx, deck); err != nil {
		t.Fatal(err)
	}

	deck.Name = "Sligh"
	deck.IsPublic = true
	deck.ModifiedAt = deck.ModifiedAt.Add(time.Minute)
	if err := repo.Update(ctx, deck); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Sligh" || !got.IsPublic {
		t.Errorf("got %+v", got)
	}
}

func TestDeckRepositoryListOrder(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	old := testDeck("d1", "Old")
	old.ModifiedAt = old.ModifiedAt.Add(-time.Hour)
	recent := testDeck("d2", "Recent")

	if err := repo.Create(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, recent); err != nil {
		t.Fatal(err)
	}

	decks, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(decks) != 2 {
		t.Fatalf("len = %d", len(decks))
	}
	if decks[0].ID != "d2" || decks[1].ID != "d1" {
		t.Errorf("order = %s, %s", decks[0].ID, decks[1].ID)
	}
}

func TestDeckRepositoryReplaceCards(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testDeck("d1", "Burn")); err != nil {
		t.Fatal(err)
	}

	first := []*models.DeckCard{
		{DeckID: "d1", CardID: "c1", Quantity: 4, Category: "spells"},
		{DeckID: "d1", CardID: "c2", Quantity: 20, Category: "lands"},
	}
	if err := repo.ReplaceCards(ctx, "d1", first); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	// Replacing again fully overwrites, including ordering.
	second := []*models.DeckCard{
		{DeckID: "d1", CardID: "c3", Quantity: 2, Category: "creatures"},
		{DeckID: "d1", CardID: "c1", Quantity: 3, Category: "spells"},
	}
	if err := repo.ReplaceCards(ctx, "d1", second); err != nil {
		t.Fatalf("second replace failed: %v", err)
	}

	cards, err := repo.GetCards(ctx, "d1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 {
		t.Fatalf("cards = %d", len(cards))
	}
	if cards[0].CardID != "c3" || cards[1].CardID != "c1" {
		t.Errorf("order = %s, %s", cards[0].CardID, cards[1].CardID)
	}
	if cards[1].Quantity != 3 {
		t.Errorf("quantity = %d", cards[1].Quantity)
	}
	if cards[0].SortOrder != 0 || cards[1].SortOrder != 1 {
		t.Errorf("sort orders = %d, %d", cards[0].SortOrder, cards[1].SortOrder)
	}
}

func TestDeckRepositoryReplaceCardsEmpty(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testDeck("d1", "Burn")); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceCards(ctx, "d1", []*models.DeckCard{
		{DeckID: "d1", CardID: "c1", Quantity: 4, Category: "spells"},
	}); err != nil {
		t.Fatal(err)
	}

	if err := repo.ReplaceCards(ctx, "d1", nil); err != nil {
		t.Fatalf("empty replace failed: %v", err)
	}
	cards, err := repo.GetCards(ctx, "d1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 0 {
		t.Errorf("expected no cards, got %d", len(cards))
	}
}

func TestDeckRepositoryDelete(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testDeck("d1", "Burn")); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceCards(ctx, "d1", []*models.DeckCard{
		{DeckID: "d1", CardID: "c1", Quantity: 4, Category: "spells"},
	}); err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(ctx, "d1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("expected deck gone")
	}
	cards, err := repo.GetCards(ctx, "d1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 0 {
		t.Error("expected cards gone")
	}
}
