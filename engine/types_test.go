package engine

import "testing"

func TestCardPackRoundTrip(t *testing.T) {
	for s := Suit(0); s < NumSuits; s++ {
		for r := Rank(0); r < NumRanks; r++ {
			c := NewCard(s, r)
			if c.Suit() != s || c.Rank() != r {
				t.Errorf("NewCard(%d,%d) unpacked to (%d,%d)", s, r, c.Suit(), c.Rank())
			}
			if got := CardFromIndex(c.Index()); got != c {
				t.Errorf("CardFromIndex(%d) = %s, want %s", c.Index(), got, c)
			}
			if !c.Valid() {
				t.Errorf("%s reported invalid", c)
			}
		}
	}
	if EmptyCard.Valid() {
		t.Error("EmptyCard reported valid")
	}
}

func TestCardPoints(t *testing.T) {
	want := map[Rank]int{RankJack: 2, RankQueen: 3, RankKing: 4, RankTen: 10, RankAce: 11}
	total := 0
	for _, c := range NewDeck() {
		if c.Points() != want[c.Rank()] {
			t.Errorf("%s.Points() = %d, want %d", c, c.Points(), want[c.Rank()])
		}
		total += c.Points()
	}
	if total != 120 {
		t.Errorf("deck total = %d, want 120", total)
	}
	if EmptyCard.Points() != 0 {
		t.Errorf("EmptyCard.Points() = %d, want 0", EmptyCard.Points())
	}
}

// Trick order within a suit must agree with the point values.
func TestRankOrderFollowsPoints(t *testing.T) {
	for r := Rank(1); r < NumRanks; r++ {
		lo, hi := NewCard(SuitClubs, r-1), NewCard(SuitClubs, r)
		if lo.Points() >= hi.Points() {
			t.Errorf("%s (%d) should be worth less than %s (%d)", lo, lo.Points(), hi, hi.Points())
		}
	}
}

func TestCardSetOps(t *testing.T) {
	qh := NewCard(SuitHearts, RankQueen)
	kh := NewCard(SuitHearts, RankKing)
	as := NewCard(SuitSpades, RankAce)

	s := NewCardSet(qh, kh, as)
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if !s.Has(kh) || s.Has(NewCard(SuitClubs, RankJack)) {
		t.Errorf("Has mismatch in %s", s)
	}
	if s.Has(EmptyCard) {
		t.Error("set claims to hold EmptyCard")
	}
	if got := s.OfSuit(SuitHearts); got != NewCardSet(qh, kh) {
		t.Errorf("OfSuit(hearts) = %s", got)
	}
	if s.HasSuit(SuitDiamonds) {
		t.Error("HasSuit(diamonds) = true")
	}
	if got := s.Remove(qh).Minus(NewCardSet(as)); got != NewCardSet(kh) {
		t.Errorf("Remove/Minus = %s, want [K♥]", got)
	}

	cards := s.Cards()
	for i := 1; i < len(cards); i++ {
		if cards[i-1].Index() >= cards[i].Index() {
			t.Fatalf("Cards() not ascending: %v", cards)
		}
	}
	if FullDeck.Len() != NumCards {
		t.Errorf("FullDeck.Len() = %d, want %d", FullDeck.Len(), NumCards)
	}
	var union CardSet
	for s := Suit(0); s < NumSuits; s++ {
		if SuitMask(s).Len() != NumRanks {
			t.Errorf("SuitMask(%s) has %d cards", s, SuitMask(s).Len())
		}
		union = union.Union(SuitMask(s))
	}
	if union != FullDeck {
		t.Errorf("suit masks do not cover the deck: %s", union)
	}
}

func TestMovePartner(t *testing.T) {
	q := NewCard(SuitDiamonds, RankQueen)
	k := NewCard(SuitDiamonds, RankKing)
	if Marriage(q).Partner() != k || Marriage(k).Partner() != q {
		t.Error("marriage partners mismatch")
	}
	if Play(q).Partner() != EmptyCard {
		t.Error("plain play has a partner")
	}
	if !Marriage(k).PutsCard() || TrumpExchange(NewCard(SuitDiamonds, RankJack)).PutsCard() || CloseStock().PutsCard() {
		t.Error("PutsCard mismatch")
	}
}
