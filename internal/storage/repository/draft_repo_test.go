package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDraftTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE drafts (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	require.NoError(t, err)

	return db
}

func TestDraftRepositorySaveAndGet(t *testing.T) {
	repo := NewDraftRepository(setupDraftTestDB(t))
	ctx := context.Background()

	payload := []byte(`{"name":"wip deck","categories":[]}`)
	require.NoError(t, repo.SaveDraft(ctx, "draft-1", payload))

	got, err := repo.GetByID(ctx, "draft-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "draft-1", got.ID)
	assert.Equal(t, payload, got.Payload)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestDraftRepositorySaveOverwrites(t *testing.T) {
	repo := NewDraftRepository(setupDraftTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveDraft(ctx, "draft-1", []byte(`{"v":1}`)))
	require.NoError(t, repo.SaveDraft(ctx, "draft-1", []byte(`{"v":2}`)))

	got, err := repo.GetByID(ctx, "draft-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []byte(`{"v":2}`), got.Payload)

	drafts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestDraftRepositoryGetMissing(t *testing.T) {
	repo := NewDraftRepository(setupDraftTestDB(t))

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftRepositoryEmptyPayloadTreatedAsAbsent(t *testing.T) {
	db := setupDraftTestDB(t)
	repo := NewDraftRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO drafts (id, payload, updated_at) VALUES (?, '', ?)`,
		"draft-1", time.Now().UTC())
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "draft-1")
	require.NoError(t, err)
	assert.Nil(t, got, "empty payload reads back as absent")
}

func TestDraftRepositoryListOrder(t *testing.T) {
	db := setupDraftTestDB(t)
	repo := NewDraftRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO drafts (id, payload, updated_at) VALUES (?, ?, ?)`,
		"old", `{}`, now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO drafts (id, payload, updated_at) VALUES (?, ?, ?)`,
		"recent", `{}`, now)
	require.NoError(t, err)

	drafts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "recent", drafts[0].ID)
	assert.Equal(t, "old", drafts[1].ID)
}

func TestDraftRepositoryDelete(t *testing.T) {
	repo := NewDraftRepository(setupDraftTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveDraft(ctx, "draft-1", []byte(`{}`)))
	require.NoError(t, repo.Delete(ctx, "draft-1"))

	got, err := repo.GetByID(ctx, "draft-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(ctx, "draft-1"))
}
