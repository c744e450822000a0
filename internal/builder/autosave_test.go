package builder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingStore struct {
	mu    sync.Mutex
	saves [][]byte
	err   error
}

func (r *recordingStore) SaveDraft(_ context.Context, _ string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	r.saves = append(r.saves, buf)
	return nil
}

func (r *recordingStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recordingStore) last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return nil
	}
	return r.saves[len(r.saves)-1]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestAutosaverDebouncesRapidEdits(t *testing.T) {
	store := &recordingStore{}
	s := NewSession()
	NewAutosaver(store, s, "draft-1", 30*time.Millisecond)

	// A burst of edits inside the window collapses to one save.
	for i := 0; i < 10; i++ {
		s.AddCard(testCard("c1", "Bolt", "Instant"), CategorySpells)
	}

	waitFor(t, func() bool { return store.count() >= 1 })
	time.Sleep(60 * time.Millisecond)

	if got := store.count(); got != 1 {
		t.Errorf("expected 1 debounced save, got %d", got)
	}

	snap, err := UnmarshalSnapshot(store.last())
	if err != nil {
		t.Fatalf("saved payload corrupt: %v", err)
	}
	if len(snap.Categories) == 0 {
		t.Fatal("expected categories in payload")
	}
	var qty int
	for _, cat := range snap.Categories {
		if cat.Key == CategorySpells && len(cat.Entries) > 0 {
			qty = cat.Entries[0].Quantity
		}
	}
	// The save observes the final state, not the first edit.
	if qty != 10 {
		t.Errorf("expected quantity 10 in saved snapshot, got %d", qty)
	}
}

func TestAutosaverFlushBypassesDebounce(t *testing.T) {
	store := &recordingStore{}
	s := NewSession()
	a := NewAutosaver(store, s, "draft-1", time.Hour)

	s.SetName("Burn")
	a.Flush()

	if store.count() != 1 {
		t.Fatalf("expected immediate save, got %d", store.count())
	}
	snap, err := UnmarshalSnapshot(store.last())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Name != "Burn" {
		t.Errorf("name = %q", snap.Name)
	}
}

func TestAutosaverSwallowsStoreErrors(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	s := NewSession()
	a := NewAutosaver(store, s, "draft-1", time.Hour)

	// Editing must keep working when saves fail.
	a.Flush()
	entry := s.AddCard(testCard("c1", "Bolt", "Instant"), CategorySpells)
	if entry == nil {
		t.Fatal("expected edit to succeed despite failing store")
	}
}

func TestAutosaverStopDropsPendingSave(t *testing.T) {
	store := &recordingStore{}
	s := NewSession()
	a := NewAutosaver(store, s, "draft-1", 20*time.Millisecond)

	s.SetName("Doomed")
	a.Stop()

	// The debounce timer fires, but the stopped saver must not write.
	time.Sleep(60 * time.Millisecond)
	if got := store.count(); got != 0 {
		t.Errorf("expected no saves after Stop, got %d", got)
	}

	a.Flush()
	if got := store.count(); got != 0 {
		t.Errorf("expected Flush after Stop to be a no-op, got %d saves", got)
	}
}

func TestAutosaverDraftID(t *testing.T) {
	a := NewAutosaver(&recordingStore{}, NewSession(), "draft-42", time.Hour)
	if a.DraftID() != "draft-42" {
		t.Errorf("DraftID = %q", a.DraftID())
	}
}
