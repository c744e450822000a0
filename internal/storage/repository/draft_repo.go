package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/deckforge/deckforge/internal/storage/models"
)

// DraftRepository is the local draft store: opaque session snapshots
// keyed by draft id, last write wins. A given draft is assumed to have
// a single writer; there is no cross-process coordination.
type DraftRepository interface {
	// SaveDraft idempotently overwrites the payload stored under id.
	// Satisfies the editor's autosave store interface.
	SaveDraft(ctx context.Context, id string, payload []byte) error

	// GetByID retrieves a stored draft, or nil if absent or corrupt.
	GetByID(ctx context.Context, id string) (*models.Draft, error)

	// List retrieves all drafts, most recently updated first.
	List(ctx context.Context) ([]*models.Draft, error)

	// Delete removes a draft; called after a successful server-side
	// save or an explicit discard. Deleting an absent draft is a no-op.
	Delete(ctx context.Context, id string) error
}

type draftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(db *sql.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) SaveDraft(ctx context.Context, id string, payload []byte) error {
	query := `
		INSERT INTO drafts (id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, id, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return nil
}

func (r *draftRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	query := `SELECT id, payload, updated_at FROM drafts WHERE id = ?`

	draft := &models.Draft{}
	var payload string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&draft.ID, &payload, &draft.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft by id: %w", err)
	}

	if payload == "" {
		log.Printf("[storage] draft %s has empty payload, treating as absent", id)
		return nil, nil
	}

	draft.Payload = []byte(payload)
	return draft, nil
}

func (r *draftRepository) List(ctx context.Context) ([]*models.Draft, error) {
	query := `SELECT id, payload, updated_at FROM drafts ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*models.Draft
	for rows.Next() {
		draft := &models.Draft{}
		var payload string
		if err := rows.Scan(&draft.ID, &payload, &draft.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		draft.Payload = []byte(payload)
		drafts = append(drafts, draft)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drafts: %w", err)
	}

	return drafts, nil
}

func (r *draftRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
