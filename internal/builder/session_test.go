package builder

import "testing"

func TestSessionAddCardDerivesCategory(t *testing.T) {
	s := NewSession()

	entry := s.AddCard(testCard("c1", "Grizzly Bears", "Creature — Bear"), "")
	if entry == nil {
		t.Fatal("expected add to succeed")
	}
	if len(s.Deck.Entries(CategoryCreatures)) != 1 {
		t.Error("expected creature filed under creatures")
	}

	if got := s.AddCard(testCard("c2", "Nope", "Instant"), CategoryKey("bogus")); got != nil {
		t.Error("expected add into unknown category to be a no-op")
	}
}

func TestSessionAddCardIntoHiddenCategoryIgnored(t *testing.T) {
	s := NewSession()
	if err := s.HideBuiltinColumn(CategoryCreatures); err != nil {
		t.Fatal(err)
	}

	if got := s.AddCard(testCard("c1", "Bear", "Creature — Bear"), CategoryCreatures); got != nil {
		t.Error("expected add into hidden category to be a no-op")
	}
}

func TestSessionHideBuiltinDiscardsCards(t *testing.T) {
	s := NewSession()
	s.AddCard(testCard("c1", "Bear", "Creature — Bear"), CategoryCreatures)

	if err := s.HideBuiltinColumn(CategoryCreatures); err != nil {
		t.Fatal(err)
	}
	if err := s.RestoreBuiltinColumn(CategoryCreatures, 2, 2); err != nil {
		t.Fatal(err)
	}
	if len(s.Deck.Entries(CategoryCreatures)) != 0 {
		t.Error("restored column must come back empty")
	}
}

func TestSessionRemoveColumnDiscardsCardsAndSelection(t *testing.T) {
	s := NewSession()
	key := s.AddColumn("Combo")
	s.PlaceColumn(key, 2, 0)
	entry := s.AddCard(testCard("c1", "Dark Ritual", "Instant"), key)
	s.ToggleSelect(entry.ID)

	if err := s.RemoveColumn(key); err != nil {
		t.Fatal(err)
	}
	if s.IsSelected(entry.ID) {
		t.Error("selection must not survive its column")
	}
	if len(s.Deck.Entries(key)) != 0 {
		t.Error("expected cards discarded with the column")
	}
}

func TestSessionBucketCounts(t *testing.T) {
	s := NewSession()

	bolt := s.AddCard(testCard("c1", "Lightning Bolt", "Instant"), CategorySpells)
	s.SetQuantity(bolt.ID, CategorySpells, 4)
	land := s.AddCard(testCard("c2", "Mountain", "Basic Land — Mountain"), CategoryLands)
	s.SetQuantity(land.ID, CategoryLands, 20)
	side := s.AddCard(testCard("c3", "Pyroblast", "Instant"), CategorySideboard)
	s.SetQuantity(side.ID, CategorySideboard, 3)

	extra := s.AddColumn("Maybeboard")
	s.PlaceColumn(extra, 2, 0)
	s.SetColumnOption(extra, StartsInExtra)
	s.AddCard(testCard("c4", "Opt", "Instant"), extra)

	if got := s.MainCount(); got != 24 {
		t.Errorf("MainCount = %d, want 24", got)
	}
	if got := s.SideboardCount(); got != 3 {
		t.Errorf("SideboardCount = %d, want 3", got)
	}
	if got := s.ExtraCount(); got != 1 {
		t.Errorf("ExtraCount = %d, want 1", got)
	}
}

func TestSessionBucketCountsFollowOptionChanges(t *testing.T) {
	s := NewSession()
	entry := s.AddCard(testCard("c1", "Opt", "Instant"), CategorySpells)
	s.SetQuantity(entry.ID, CategorySpells, 4)

	if got := s.MainCount(); got != 4 {
		t.Fatalf("MainCount = %d, want 4", got)
	}

	s.SetColumnOption(CategorySpells, OptionSideboard)
	if got := s.MainCount(); got != 0 {
		t.Errorf("MainCount after retag = %d, want 0", got)
	}
	if got := s.SideboardCount(); got != 4 {
		t.Errorf("SideboardCount after retag = %d, want 4", got)
	}
}

func TestSessionTotalPriceExcludesSideboard(t *testing.T) {
	s := NewSession()

	bolt := testCard("c1", "Lightning Bolt", "Instant")
	bolt.PriceUSD = 2.0
	e := s.AddCard(bolt, CategorySpells)
	s.SetQuantity(e.ID, CategorySpells, 4)
	s.AddCard(bolt, CategorySideboard)

	if got := s.TotalPrice(); got != 8.0 {
		t.Errorf("TotalPrice = %.2f, want 8.00", got)
	}
}

func TestSessionToggleSelect(t *testing.T) {
	s := NewSession()
	entry := s.AddCard(testCard("c1", "Bear", "Creature — Bear"), CategoryCreatures)

	s.ToggleSelect(entry.ID)
	if !s.IsSelected(entry.ID) {
		t.Error("expected selected")
	}
	s.ToggleSelect(entry.ID)
	if s.IsSelected(entry.ID) {
		t.Error("expected deselected")
	}

	s.ToggleSelect("missing")
	if len(s.Selected()) != 0 {
		t.Error("unknown ids must not enter the selection")
	}
}

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"overlapping", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, true},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 2, 2}, true},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 5, 5}, false},
		{"edge touching", Rect{0, 0, 10, 10}, Rect{10, 0, 5, 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects not symmetric")
			}
		})
	}
}

func TestSessionSelectWithin(t *testing.T) {
	s := NewSession()
	a := s.AddCard(testCard("c1", "Bear", "Creature — Bear"), CategoryCreatures)
	b := s.AddCard(testCard("c2", "Bolt", "Instant"), CategorySpells)
	c := s.AddCard(testCard("c3", "Forest", "Basic Land — Forest"), CategoryLands)

	boxes := map[string]Rect{
		a.ID: {X: 0, Y: 0, W: 10, H: 10},
		b.ID: {X: 50, Y: 0, W: 10, H: 10},
		c.ID: {X: 500, Y: 500, W: 10, H: 10},
	}

	s.SelectWithin(Rect{X: 5, Y: 5, W: 60, H: 10}, boxes)

	if !s.IsSelected(a.ID) || !s.IsSelected(b.ID) {
		t.Error("expected band to select intersecting entries")
	}
	if s.IsSelected(c.ID) {
		t.Error("expected far entry untouched")
	}
}

func TestSessionMoveSelectedTo(t *testing.T) {
	s := NewSession()
	a := s.AddCard(testCard("c1", "Bear", "Creature — Bear"), CategoryCreatures)
	b := s.AddCard(testCard("c2", "Bolt", "Instant"), CategorySpells)
	s.ToggleSelect(a.ID)
	s.ToggleSelect(b.ID)

	s.MoveSelectedTo(CategorySideboard)

	if len(s.Deck.Entries(CategorySideboard)) != 2 {
		t.Errorf("expected 2 entries in sideboard, got %d", len(s.Deck.Entries(CategorySideboard)))
	}
	if len(s.Selected()) != 0 {
		t.Error("expected selection cleared after batch move")
	}
}

func TestSessionRemoveSelected(t *testing.T) {
	s := NewSession()
	a := s.AddCard(testCard("c1", "Bear", "Creature — Bear"), CategoryCreatures)
	b := s.AddCard(testCard("c2", "Bolt", "Instant"), CategorySpells)
	s.ToggleSelect(a.ID)
	s.ToggleSelect(b.ID)

	s.RemoveSelected()

	if s.Deck.TotalCount(nil) != 0 {
		t.Error("expected all selected entries removed")
	}
	if len(s.Selected()) != 0 {
		t.Error("expected selection cleared")
	}
}

func TestSessionSearchResults(t *testing.T) {
	s := NewSession()
	s.SetSearchResults([]CardRef{testCard("c1", "Bolt", "Instant")})

	if _, ok := s.SearchResult("c1"); !ok {
		t.Error("expected card resolvable")
	}

	// A new result set replaces the old one entirely.
	s.SetSearchResults([]CardRef{testCard("c2", "Opt", "Instant")})
	if _, ok := s.SearchResult("c1"); ok {
		t.Error("expected stale result dropped")
	}
}

func TestSessionOnChangeFires(t *testing.T) {
	s := NewSession()
	changes := 0
	s.SetOnChange(func() { changes++ })

	entry := s.AddCard(testCard("c1", "Bolt", "Instant"), CategorySpells)
	s.SetQuantity(entry.ID, CategorySpells, 4)
	s.SetName("Burn")

	if changes != 3 {
		t.Errorf("expected 3 change notifications, got %d", changes)
	}
}
