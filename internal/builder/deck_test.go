package builder

import (
	"testing"
)

// testCard builds a minimal card reference for tests.
func testCard(id, name, typeLine string) CardRef {
	return CardRef{
		ID:       id,
		Name:     name,
		TypeLine: typeLine,
	}
}

func TestDeckAddCardMergesSameCard(t *testing.T) {
	deck := NewDeck()

	first := deck.AddCard(testCard("c1", "Lightning Bolt", "Instant"), CategorySpells)
	second := deck.AddCard(testCard("c1", "Lightning Bolt", "Instant"), CategorySpells)

	if first.ID != second.ID {
		t.Errorf("expected same entry, got ids %q and %q", first.ID, second.ID)
	}
	if second.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", second.Quantity)
	}
	if len(deck.Entries(CategorySpells)) != 1 {
		t.Errorf("expected 1 entry, got %d", len(deck.Entries(CategorySpells)))
	}
}

func TestDeckAddCardDistinctPrintings(t *testing.T) {
	deck := NewDeck()

	// Same card name, different printings: separate entries.
	a := deck.AddCard(testCard("c1", "Lightning Bolt", "Instant"), CategorySpells)
	b := deck.AddCard(testCard("c2", "Lightning Bolt", "Instant"), CategorySpells)

	if a.ID == b.ID {
		t.Error("expected distinct entries for distinct card ids")
	}
	if len(deck.Entries(CategorySpells)) != 2 {
		t.Errorf("expected 2 entries, got %d", len(deck.Entries(CategorySpells)))
	}
}

func TestDeckSameCardInTwoCategories(t *testing.T) {
	deck := NewDeck()

	main := deck.AddCard(testCard("c1", "Shock", "Instant"), CategorySpells)
	side := deck.AddCard(testCard("c1", "Shock", "Instant"), CategorySideboard)

	if main.ID == side.ID {
		t.Error("expected independent entries per category")
	}
	if main.Quantity != 1 || side.Quantity != 1 {
		t.Errorf("expected independent quantities, got %d and %d", main.Quantity, side.Quantity)
	}
}

func TestDeckRemoveCard(t *testing.T) {
	deck := NewDeck()
	entry := deck.AddCard(testCard("c1", "Shock", "Instant"), CategorySpells)

	deck.RemoveCard(entry.ID, CategorySpells)
	if len(deck.Entries(CategorySpells)) != 0 {
		t.Error("expected entry removed")
	}

	// Stale id is a no-op, not a panic.
	deck.RemoveCard(entry.ID, CategorySpells)
	deck.RemoveCard("missing", CategoryLands)
}

func TestDeckSetQuantity(t *testing.T) {
	deck := NewDeck()
	entry := deck.AddCard(testCard("c1", "Forest", "Basic Land — Forest"), CategoryLands)

	deck.SetQuantity(entry.ID, CategoryLands, 12)
	if entry.Quantity != 12 {
		t.Errorf("expected quantity 12, got %d", entry.Quantity)
	}

	deck.SetQuantity(entry.ID, CategoryLands, 0)
	if len(deck.Entries(CategoryLands)) != 0 {
		t.Error("expected zero quantity to remove the entry")
	}
}

func TestDeckMoveCardMintsNewID(t *testing.T) {
	deck := NewDeck()
	entry := deck.AddCard(testCard("c1", "Shock", "Instant"), CategorySpells)
	deck.SetQuantity(entry.ID, CategorySpells, 3)

	moved := deck.MoveCard(entry.ID, CategorySpells, CategorySideboard)
	if moved == nil {
		t.Fatal("expected move to succeed")
	}
	if moved.ID == entry.ID {
		t.Error("expected a fresh id after a cross-category move")
	}
	if moved.Quantity != 3 {
		t.Errorf("expected quantity to carry over, got %d", moved.Quantity)
	}
	if len(deck.Entries(CategorySpells)) != 0 {
		t.Error("expected source category emptied")
	}

	// The old id no longer resolves anywhere.
	if _, _, ok := deck.FindEntry(entry.ID); ok {
		t.Error("expected stale id to be dead after move")
	}
}

func TestDeckMoveCardSameCategoryNoOp(t *testing.T) {
	deck := NewDeck()
	entry := deck.AddCard(testCard("c1", "Shock", "Instant"), CategorySpells)

	if moved := deck.MoveCard(entry.ID, CategorySpells, CategorySpells); moved != nil {
		t.Error("expected same-category move to be a no-op")
	}
	if got, _, ok := deck.FindEntry(entry.ID); !ok || got.ID != entry.ID {
		t.Error("expected entry untouched")
	}
}

func TestDeckChangeCardFace(t *testing.T) {
	deck := NewDeck()
	entry := deck.AddCard(testCard("c1", "Shock", "Instant"), CategorySpells)
	deck.SetQuantity(entry.ID, CategorySpells, 4)

	deck.ChangeCardFace(entry.ID, CategorySpells, testCard("c2", "Shock", "Instant"))

	got, _, ok := deck.FindEntry(entry.ID)
	if !ok {
		t.Fatal("entry vanished")
	}
	if got.Card.ID != "c2" {
		t.Errorf("expected card swapped to c2, got %q", got.Card.ID)
	}
	if got.Quantity != 4 {
		t.Errorf("expected quantity preserved, got %d", got.Quantity)
	}
}

func TestDeckTotals(t *testing.T) {
	deck := NewDeck()
	bolt := testCard("c1", "Lightning Bolt", "Instant")
	bolt.PriceUSD = 1.50
	bear := testCard("c2", "Grizzly Bears", "Creature — Bear")
	bear.PriceUSD = 0.10

	e1 := deck.AddCard(bolt, CategorySpells)
	deck.SetQuantity(e1.ID, CategorySpells, 4)
	e2 := deck.AddCard(bear, CategoryCreatures)
	deck.SetQuantity(e2.ID, CategoryCreatures, 2)
	deck.AddCard(bolt, CategorySideboard)

	if got := deck.TotalCount(nil); got != 7 {
		t.Errorf("expected total 7, got %d", got)
	}

	noSideboard := func(key CategoryKey) bool { return key != CategorySideboard }
	if got := deck.TotalCount(noSideboard); got != 6 {
		t.Errorf("expected 6 outside sideboard, got %d", got)
	}

	want := 4*1.50 + 2*0.10
	if got := deck.TotalPrice(noSideboard); got != want {
		t.Errorf("expected price %.2f, got %.2f", want, got)
	}
}
