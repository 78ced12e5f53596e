package agent

import (
	"errors"
	"fmt"
	"math/rand/v2"

	engine "github.com/jason-s-yu/schnapsen/engine"
)

// ErrImpossibleView is returned when no hidden-card assignment can satisfy a
// view, which only happens if the view was tampered with.
var ErrImpossibleView = errors.New("no hypothesis is consistent with the view")

// HypothesisInconsistencyError reports a sampled state that contradicts the
// view it was drawn from.
type HypothesisInconsistencyError struct {
	Player uint8
	Reason string
}

func (e *HypothesisInconsistencyError) Error() string {
	return fmt.Sprintf("hypothesis for player %d inconsistent: %s", e.Player, e.Reason)
}

// ---------------------------------------------------------------------------
// Sample
// ---------------------------------------------------------------------------

// Sample draws a full game state uniformly among those consistent with v:
// the unseen cards are redistributed over the opponent's hidden hand slots and
// the face-down stock. Every returned state has passed Consistent.
func Sample(v *engine.PlayerView, rng *rand.Rand) (engine.GameState, error) {
	k := Observe(v)
	if !k.Feasible() {
		return engine.GameState{}, ErrImpossibleView
	}

	var lastErr error
	for attempt := 0; attempt < MaxResamples; attempt++ {
		opp, stock := assign(&k, rng)
		hyp, err := v.Determinize(opp, stock)
		if err != nil {
			lastErr = err
			continue
		}
		if err := Consistent(v, &hyp); err != nil {
			lastErr = err
			continue
		}
		return hyp, nil
	}
	return engine.GameState{}, fmt.Errorf("sample for player %d after %d attempts: %w", v.Player, MaxResamples, lastErr)
}

// SampleN draws n independent hypotheses.
func SampleN(v *engine.PlayerView, rng *rand.Rand, n int) ([]engine.GameState, error) {
	out := make([]engine.GameState, 0, n)
	for i := 0; i < n; i++ {
		h, err := Sample(v, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// assign splits the unseen cards into the opponent's hidden hand and the
// stock order above the indicator (bottom first).
func assign(k *Knowledge, rng *rand.Rand) (engine.CardSet, []engine.Card) {
	unseen := k.Unseen.Cards()

	// Plain rejection: shuffle everything and accept if no void is violated.
	for i := 0; i < MaxRejections; i++ {
		shuffle(unseen, rng)
		opp := engine.NewCardSet(unseen[:k.OpponentSlots]...)
		if opp.Intersect(k.VoidCards()).Empty() {
			return opp, append([]engine.Card(nil), unseen[k.OpponentSlots:]...)
		}
	}

	// Constrained fill: cards the opponent cannot hold are forced into the
	// stock and the opponent's hand is drawn from the rest.
	var eligible []engine.Card
	for _, c := range unseen {
		if k.canHold(SlotOpponentHand, c) {
			eligible = append(eligible, c)
		}
	}
	shuffle(eligible, rng)
	opp := engine.NewCardSet(eligible[:k.OpponentSlots]...)
	stock := k.Unseen.Minus(opp).Cards()
	shuffle(stock, rng)
	return opp, stock
}

func (k *Knowledge) canHold(slot Slot, c engine.Card) bool {
	for _, s := range k.Possible(c) {
		if s == slot {
			return true
		}
	}
	return false
}

func shuffle(cards []engine.Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

// ---------------------------------------------------------------------------
// Consistent
// ---------------------------------------------------------------------------

// Consistent checks that hyp looks exactly like v from the viewer's seat and
// that it respects the opponent's proven voids.
func Consistent(v *engine.PlayerView, hyp *engine.GameState) error {
	fail := func(format string, args ...any) error {
		return &HypothesisInconsistencyError{Player: v.Player, Reason: fmt.Sprintf(format, args...)}
	}
	if err := hyp.CheckInvariants(); err != nil {
		return fail("%v", err)
	}

	hv := hyp.View(v.Player)
	switch {
	case hv.Hand != v.Hand:
		return fail("hand %s, view %s", hv.Hand, v.Hand)
	case hv.OpponentHandLen != v.OpponentHandLen:
		return fail("opponent holds %d cards, view says %d", hv.OpponentHandLen, v.OpponentHandLen)
	case hv.OpponentKnown != v.OpponentKnown:
		return fail("opponent known cards %s, view %s", hv.OpponentKnown, v.OpponentKnown)
	case hv.StockLen != v.StockLen || hv.TrumpCard != v.TrumpCard || hv.TrumpSuit != v.TrumpSuit:
		return fail("stock %d/%s, view %d/%s", hv.StockLen, hv.TrumpCard, v.StockLen, v.TrumpCard)
	case hv.Lead != v.Lead || hv.Leader != v.Leader || hv.ToMove != v.ToMove:
		return fail("table differs")
	case hv.Won != v.Won || hv.Points != v.Points || hv.Pending != v.Pending:
		return fail("scores differ")
	case hv.Closed != v.Closed || hv.Exchanged != v.Exchanged || hv.Terminal != v.Terminal:
		return fail("flags differ")
	case len(hv.Legal) != len(v.Legal):
		return fail("%d legal moves, view has %d", len(hv.Legal), len(v.Legal))
	}
	for i := range hv.Legal {
		if hv.Legal[i] != v.Legal[i] {
			return fail("legal move %d is %s, view has %s", i, hv.Legal[i], v.Legal[i])
		}
	}

	oppHand := hyp.Players[v.Opponent()].Hand
	for s := engine.Suit(0); s < engine.NumSuits; s++ {
		if v.OpponentVoid&(1<<s) != 0 && oppHand.HasSuit(s) {
			return fail("opponent assigned %s despite a proven void", s)
		}
	}
	return nil
}
