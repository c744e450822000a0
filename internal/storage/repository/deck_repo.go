// Package repository contains the database repositories for decks and
// drafts.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deckforge/deckforge/internal/storage/models"
)

// DeckRepository handles database operations for saved decks.
type DeckRepository interface {
	// Create inserts a new deck.
	Create(ctx context.Context, deck *models.Deck) error

	// Update updates an existing deck's metadata.
	Update(ctx context.Context, deck *models.Deck) error

	// GetByID retrieves a deck by id, or nil if absent.
	GetByID(ctx context.Context, id string) (*models.Deck, error)

	// List retrieves all decks, most recently modified first.
	List(ctx context.Context) ([]*models.Deck, error)

	// Delete deletes a deck and its cards.
	Delete(ctx context.Context, id string) error

	// ReplaceCards atomically replaces the deck's card rows.
	ReplaceCards(ctx context.Context, deckID string, cards []*models.DeckCard) error

	// GetCards retrieves the deck's card rows in stored order.
	GetCards(ctx context.Context, deckID string) ([]*models.DeckCard, error)
}

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db *sql.DB) DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Create(ctx context.Context, deck *models.Deck) error {
	query := `
		INSERT INTO decks (id, name, format, description, is_public, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		deck.ID,
		deck.Name,
		deck.Format,
		deck.Description,
		deck.IsPublic,
		deck.CreatedAt,
		deck.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	return nil
}

func (r *deckRepository) Update(ctx context.Context, deck *models.Deck) error {
	query := `
		UPDATE decks
		SET name = ?, format = ?, description = ?, is_public = ?, modified_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		deck.Name,
		deck.Format,
		deck.Description,
		deck.IsPublic,
		deck.ModifiedAt,
		deck.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}

	return nil
}

func (r *deckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	query := `
		SELECT id, name, format, description, is_public, created_at, modified_at
		FROM decks
		WHERE id = ?
	`

	deck := &models.Deck{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&deck.Name,
		&deck.Format,
		&deck.Description,
		&deck.IsPublic,
		&deck.CreatedAt,
		&deck.ModifiedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	return deck, nil
}

func (r *deckRepository) List(ctx context.Context) ([]*models.Deck, error) {
	query := `
		SELECT id, name, format, description, is_public, created_at, modified_at
		FROM decks
		ORDER BY modified_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []*models.Deck
	for rows.Next() {
		deck := &models.Deck{}
		err := rows.Scan(
			&deck.ID,
			&deck.Name,
			&deck.Format,
			&deck.Description,
			&deck.IsPublic,
			&deck.CreatedAt,
			&deck.ModifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, deck)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decks: %w", err)
	}

	return decks, nil
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deck cards: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}

func (r *deckRepository) ReplaceCards(ctx context.Context, deckID string, cards []*models.DeckCard) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, deckID); err != nil {
		return fmt.Errorf("failed to clear deck cards: %w", err)
	}

	insert := `
		INSERT INTO deck_cards (deck_id, card_id, quantity, category, sort_order)
		VALUES (?, ?, ?, ?, ?)
	`
	for i, card := range cards {
		if _, err := tx.ExecContext(ctx, insert, deckID, card.CardID, card.Quantity, card.Category, i); err != nil {
			return fmt.Errorf("failed to insert deck card: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deck cards: %w", err)
	}

	return nil
}

func (r *deckRepository) GetCards(ctx context.Context, deckID string) ([]*models.DeckCard, error) {
	query := `
		SELECT id, deck_id, card_id, quantity, category, sort_order
		FROM deck_cards
		WHERE deck_id = ?
		ORDER BY sort_order
	`

	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.DeckCard
	for rows.Next() {
		card := &models.DeckCard{}
		err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.CardID,
			&card.Quantity,
			&card.Category,
			&card.SortOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck card: %w", err)
		}
		cards = append(cards, card)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck cards: %w", err)
	}

	return cards, nil
}
