package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/deckforge/deckforge/internal/api/response"
	"github.com/deckforge/deckforge/internal/builder"
	"github.com/deckforge/deckforge/internal/storage/repository"
)

// DefaultAutosaveDebounce bounds how often a hot draft is written to
// storage when no interval is configured.
const DefaultAutosaveDebounce = 2 * time.Second

// liveDraft is a draft with an in-memory editor session. Saves restore
// into the session and its autosaver debounces the storage write, so a
// burst of edits costs one write.
type liveDraft struct {
	session *builder.Session
	saver   *builder.Autosaver
	updated time.Time
}

// DraftHandler handles editor draft persistence. Drafts are throwaway
// work-in-progress snapshots; a corrupt draft reads back as absent
// rather than failing the editor.
type DraftHandler struct {
	drafts   repository.DraftRepository
	debounce time.Duration

	mu      sync.Mutex
	editors map[string]*liveDraft
}

// NewDraftHandler creates a new DraftHandler. The debounce interval
// bounds storage writes during rapid saves; zero selects the default.
func NewDraftHandler(drafts repository.DraftRepository, debounce time.Duration) *DraftHandler {
	if debounce <= 0 {
		debounce = DefaultAutosaveDebounce
	}
	return &DraftHandler{
		drafts:   drafts,
		debounce: debounce,
		editors:  make(map[string]*liveDraft),
	}
}

// DraftResponse is a draft on the wire.
type DraftResponse struct {
	ID        string            `json:"id"`
	Snapshot  *builder.Snapshot `json:"snapshot"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// DraftRequest is the request body for saving a draft.
type DraftRequest struct {
	Snapshot *builder.Snapshot `json:"snapshot"`
}

// ListDrafts returns all stored drafts, most recently updated first.
// Drafts whose payloads no longer parse are skipped.
func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	h.FlushDrafts()

	drafts, err := h.drafts.List(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}

	out := make([]DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		snapshot, err := builder.UnmarshalSnapshot(d.Payload)
		if err != nil {
			log.Printf("[API] Skipping corrupt draft %s: %v", d.ID, err)
			continue
		}
		out = append(out, DraftResponse{ID: d.ID, Snapshot: snapshot, UpdatedAt: d.UpdatedAt})
	}
	response.Success(w, out)
}

// CreateDraft allocates a new draft seeded with an empty editor
// session.
func (h *DraftHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	snapshot := builder.NewSession().Snapshot()
	payload, err := builder.MarshalSnapshot(snapshot)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	id := uuid.NewString()
	if err := h.drafts.SaveDraft(r.Context(), id, payload); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Created(w, DraftResponse{ID: id, Snapshot: snapshot, UpdatedAt: time.Now().UTC()})
}

// GetDraft returns a stored draft, preferring the live editor state
// over storage so debounced writes are never observed as stale reads.
// A missing or corrupt draft is a 404: the client starts fresh instead
// of erroring.
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")

	h.mu.Lock()
	if live, ok := h.editors[draftID]; ok {
		resp := DraftResponse{ID: draftID, Snapshot: live.session.Snapshot(), UpdatedAt: live.updated}
		h.mu.Unlock()
		response.Success(w, resp)
		return
	}
	h.mu.Unlock()

	draft, err := h.drafts.GetByID(r.Context(), draftID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	if draft == nil {
		response.NotFound(w, errors.New("draft not found"))
		return
	}

	snapshot, err := builder.UnmarshalSnapshot(draft.Payload)
	if err != nil {
		log.Printf("[API] Draft %s payload is corrupt, treating as absent: %v", draftID, err)
		response.NotFound(w, errors.New("draft not found"))
		return
	}

	response.Success(w, DraftResponse{ID: draft.ID, Snapshot: snapshot, UpdatedAt: draft.UpdatedAt})
}

// SaveDraft overwrites a draft's snapshot. The snapshot is applied to
// the draft's live session immediately; the storage write is debounced
// through the session's autosaver, so a burst of saves costs one
// write.
func (h *DraftHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")

	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Snapshot == nil {
		response.BadRequest(w, errors.New("snapshot is required"))
		return
	}

	h.mu.Lock()
	live, ok := h.editors[draftID]
	if !ok {
		session := builder.NewSession()
		live = &liveDraft{
			session: session,
			saver:   builder.NewAutosaver(h.drafts, session, draftID, h.debounce),
		}
		h.editors[draftID] = live
	}
	// RestoreSnapshot fires the change hook, which queues the write.
	live.session.RestoreSnapshot(req.Snapshot)
	live.updated = time.Now().UTC()
	updated := live.updated
	h.mu.Unlock()

	response.Success(w, DraftResponse{ID: draftID, Snapshot: req.Snapshot, UpdatedAt: updated})
}

// DeleteDraft removes a draft. A pending debounced save is dropped so
// it cannot resurrect the row.
func (h *DraftHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")

	h.mu.Lock()
	if live, ok := h.editors[draftID]; ok {
		live.saver.Stop()
		delete(h.editors, draftID)
	}
	h.mu.Unlock()

	if err := h.drafts.Delete(r.Context(), draftID); err != nil {
		response.InternalError(w, err)
		return
	}
	response.NoContent(w)
}

// FlushDrafts writes every live draft to storage immediately. Called
// before listing and on server shutdown.
func (h *DraftHandler) FlushDrafts() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, live := range h.editors {
		live.saver.Flush()
	}
}
