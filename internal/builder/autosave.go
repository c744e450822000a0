package builder

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DraftStore persists draft payloads keyed by draft id. Implemented by
// the storage layer's draft repository.
type DraftStore interface {
	SaveDraft(ctx context.Context, id string, payload []byte) error
}

// Autosaver observes a session and writes a debounced snapshot to the
// draft store after every change. The snapshot is captured at mutation
// time; only the store write is deferred, so the debounce goroutine
// never touches the session. Saves are fire-and-forget: a failing
// store means edits are not durable across restarts, never that the
// editor breaks.
type Autosaver struct {
	store     DraftStore
	session   *Session
	draftID   string
	debounced func(func())

	mu      sync.Mutex
	pending []byte
	stopped bool
}

// NewAutosaver wires an autosaver to the session's change hook. The
// interval bounds how often storage is written during rapid edits;
// correctness does not depend on it.
func NewAutosaver(store DraftStore, session *Session, draftID string, interval time.Duration) *Autosaver {
	a := &Autosaver{
		store:     store,
		session:   session,
		draftID:   draftID,
		debounced: debounce.New(interval),
	}
	session.SetOnChange(a.trigger)
	return a
}

func (a *Autosaver) trigger() {
	payload, err := MarshalSnapshot(a.session.Snapshot())
	if err != nil {
		log.Printf("[autosave] snapshot failed for draft %s: %v", a.draftID, err)
		return
	}
	a.mu.Lock()
	a.pending = payload
	a.mu.Unlock()
	a.debounced(a.writePending)
}

func (a *Autosaver) writePending() {
	a.mu.Lock()
	payload := a.pending
	a.pending = nil
	stopped := a.stopped
	a.mu.Unlock()
	if stopped || payload == nil {
		return
	}
	a.save(payload)
}

// Flush writes the current snapshot immediately, bypassing the
// debounce window. Any pending debounced write is superseded.
func (a *Autosaver) Flush() {
	payload, err := MarshalSnapshot(a.session.Snapshot())
	if err != nil {
		log.Printf("[autosave] snapshot failed for draft %s: %v", a.draftID, err)
		return
	}
	a.mu.Lock()
	a.pending = nil
	stopped := a.stopped
	a.mu.Unlock()
	if stopped {
		return
	}
	a.save(payload)
}

// Stop detaches the autosaver: pending and future writes are dropped.
// Used when the draft is deleted, so a debounced save cannot
// resurrect the row.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.pending = nil
	a.mu.Unlock()
}

func (a *Autosaver) save(payload []byte) {
	if err := a.store.SaveDraft(context.Background(), a.draftID, payload); err != nil {
		log.Printf("[autosave] save failed for draft %s (edits not durable): %v", a.draftID, err)
	}
}

// DraftID returns the draft this autosaver writes to.
func (a *Autosaver) DraftID() string {
	return a.draftID
}
