// Package agent turns a player's redacted view into the knowledge a search
// bot needs: which cards are unseen, where each may sit, and full game states
// (hypotheses) consistent with everything the player has observed.
package agent

import (
	engine "github.com/jason-s-yu/schnapsen/engine"
)

// Knowledge is the public-information summary for one player. It is a flat
// value type and can be copied with =.
type Knowledge struct {
	Player   uint8
	Opponent uint8

	Unseen        engine.CardSet // cards whose location the player cannot name
	OpponentKnown engine.CardSet // opponent cards that became public
	OpponentVoid  uint8          // suits the opponent is proven not to hold

	OpponentSlots int // hidden opponent hand cards
	StockSlots    int // face-down stock cards

	TrumpSuit engine.Suit
	Phase     engine.Phase
}

// Observe extracts the knowledge contained in v.
func Observe(v *engine.PlayerView) Knowledge {
	var k Knowledge
	k.Update(v)
	return k
}

// Update refreshes the knowledge after an action. The view already folds in
// every earlier observation, so Update simply re-derives the summary.
func (k *Knowledge) Update(v *engine.PlayerView) {
	k.Player = v.Player
	k.Opponent = v.Opponent()
	k.Unseen = v.Unseen()
	k.OpponentKnown = v.OpponentKnown
	k.OpponentVoid = v.OpponentVoid
	k.OpponentSlots = v.HiddenOpponentSlots()
	k.StockSlots = v.HiddenStockSlots()
	k.TrumpSuit = v.TrumpSuit
	k.Phase = v.Phase
}

// IsVoid reports whether the opponent is proven not to hold suit s.
func (k *Knowledge) IsVoid(s engine.Suit) bool { return k.OpponentVoid&(1<<s) != 0 }

// VoidCards returns the unseen cards of suits the opponent cannot hold. They
// must all be in the stock.
func (k *Knowledge) VoidCards() engine.CardSet {
	var out engine.CardSet
	for s := engine.Suit(0); s < engine.NumSuits; s++ {
		if k.IsVoid(s) {
			out = out.Union(k.Unseen.OfSuit(s))
		}
	}
	return out
}

// Possible returns the slots an unseen card may occupy. Cards that are not
// unseen have no possible slot.
func (k *Knowledge) Possible(c engine.Card) []Slot {
	if !k.Unseen.Has(c) {
		return nil
	}
	var out []Slot
	if k.OpponentSlots > 0 && !k.IsVoid(c.Suit()) {
		out = append(out, SlotOpponentHand)
	}
	if k.StockSlots > 0 {
		out = append(out, SlotStock)
	}
	return out
}

// Feasible reports whether at least one hypothesis exists: the cards forced
// into the stock by voids must fit there.
func (k *Knowledge) Feasible() bool {
	return k.Unseen.Len() == k.OpponentSlots+k.StockSlots && k.VoidCards().Len() <= k.StockSlots
}
