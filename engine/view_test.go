package engine

import "testing"

func TestViewHidesOpponent(t *testing.T) {
	g := marriagePosition.build(t)
	mustApply(t, &g, 0, Marriage(card(t, "QH")))

	v := g.View(1)
	if v.Hand != g.Players[1].Hand || v.OpponentHandLen != 4 {
		t.Fatalf("hand=%s opp len=%d", v.Hand, v.OpponentHandLen)
	}
	if v.OpponentKnown != NewCardSet(card(t, "KH")) {
		t.Errorf("OpponentKnown = %s, want the announced K♥", v.OpponentKnown)
	}
	if v.Lead != card(t, "QH") || !v.LeadMarriage || v.Pending[0] != 20 {
		t.Errorf("lead=%s marriage=%v pending=%d", v.Lead, v.LeadMarriage, v.Pending[0])
	}
	if v.TrumpCard != card(t, "AC") || v.StockLen != StockSize {
		t.Errorf("trump card=%s stock=%d", v.TrumpCard, v.StockLen)
	}
	if len(v.Legal) != 5 || v.ToMove != 1 {
		t.Errorf("legal=%v toMove=%d", v.Legal, v.ToMove)
	}
	if g.View(0).Legal != nil {
		t.Error("player not to move got legal moves")
	}

	// 4 opponent cards, 1 known; 9 hidden stock cards.
	if v.HiddenOpponentSlots() != 3 || v.HiddenStockSlots() != 9 || v.Unseen().Len() != 12 {
		t.Errorf("slots %d/%d unseen %d", v.HiddenOpponentSlots(), v.HiddenStockSlots(), v.Unseen().Len())
	}
}

func TestDeterminizeRebuildsTrueState(t *testing.T) {
	g := marriagePosition.build(t)
	mustApply(t, &g, 0, Play(card(t, "10S")))
	mustApply(t, &g, 1, Play(card(t, "JS")))
	mustApply(t, &g, 0, Marriage(card(t, "KH")))

	v := g.View(1)
	oppHidden := g.Players[0].Hand.Minus(v.OpponentKnown)
	stock := append([]Card(nil), g.Stock[1:g.StockLen]...)

	h, err := v.Determinize(oppHidden, stock)
	if err != nil {
		t.Fatal(err)
	}
	// Everything but the viewer's own revealed set and voids is rebuilt.
	h.Revealed[1], h.Void[1] = g.Revealed[1], g.Void[1]
	if h != g {
		t.Fatalf("rebuilt state differs:\n got %+v\nwant %+v", h, g)
	}
}

func TestDeterminizeRejectsBadAssignment(t *testing.T) {
	g := marriagePosition.build(t)
	v := g.View(0)
	unseen := v.Unseen().Cards()

	if _, err := v.Determinize(NewCardSet(unseen[:4]...), unseen[4:]); err == nil {
		t.Error("short opponent hand accepted")
	}
	if _, err := v.Determinize(NewCardSet(unseen[:5]...), unseen[5:8]); err == nil {
		t.Error("short stock accepted")
	}
	dup := append([]Card(nil), unseen[5:]...)
	dup[0] = dup[1]
	if _, err := v.Determinize(NewCardSet(unseen[:5]...), dup); err == nil {
		t.Error("duplicate stock card accepted")
	}
	if _, err := v.Determinize(NewCardSet(unseen[:5]...), unseen[5:]); err != nil {
		t.Errorf("valid assignment rejected: %v", err)
	}
}
