package engine

import "fmt"

// CheckInvariants verifies card conservation: every one of the 20 cards sits
// in exactly one of the hands, the won piles, the stock or on the table.
func (g *GameState) CheckInvariants() error {
	var seen CardSet
	place := func(c Card, where string) error {
		if !c.Valid() {
			return fmt.Errorf("invalid card %#x in %s", uint8(c), where)
		}
		if seen.Has(c) {
			return fmt.Errorf("card %s in %s is also elsewhere", c, where)
		}
		seen = seen.Add(c)
		return nil
	}

	for p := 0; p < 2; p++ {
		for _, c := range g.Players[p].Hand.Cards() {
			if err := place(c, fmt.Sprintf("hand %d", p)); err != nil {
				return err
			}
		}
		for _, c := range g.Players[p].Won.Cards() {
			if err := place(c, fmt.Sprintf("won pile %d", p)); err != nil {
				return err
			}
		}
		if !g.Revealed[p].Minus(g.Players[p].Hand).Empty() {
			return fmt.Errorf("revealed cards %s of player %d not in hand", g.Revealed[p].Minus(g.Players[p].Hand), p)
		}
	}
	if int(g.StockLen) > StockSize {
		return fmt.Errorf("stock length %d exceeds %d", g.StockLen, StockSize)
	}
	for i, c := range g.StockCards() {
		if err := place(c, fmt.Sprintf("stock[%d]", i)); err != nil {
			return err
		}
	}
	if g.Lead != EmptyCard {
		if err := place(g.Lead, "table"); err != nil {
			return err
		}
	}
	if seen != FullDeck {
		return fmt.Errorf("cards missing: %s", FullDeck.Minus(seen))
	}

	// Both players hold the same number of cards between tricks; the leader
	// is one short while its card is on the table.
	h0, h1 := g.Players[0].Hand.Len(), g.Players[1].Hand.Len()
	if g.Lead != EmptyCard {
		if g.Leader == 0 {
			h0++
		} else {
			h1++
		}
	}
	if h0 != h1 {
		return fmt.Errorf("hand sizes differ: %d vs %d", g.Players[0].Hand.Len(), g.Players[1].Hand.Len())
	}
	return nil
}
