package agent

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	engine "github.com/jason-s-yu/schnapsen/engine"
)

// playRandom advances g by n random legal moves (or until the leg ends).
func playRandom(t *testing.T, g *engine.GameState, rng *rand.Rand, n int) {
	t.Helper()
	for i := 0; i < n && !g.IsTerminal(); i++ {
		p := g.ToMove()
		legal := g.LegalMoves(p)
		if err := g.Apply(p, legal[rng.IntN(len(legal))]); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
}

func TestObserveFreshLeg(t *testing.T) {
	g := engine.NewLeg(42, engine.DefaultRules(), 0)
	v := g.View(0)
	k := Observe(&v)

	if k.Player != 0 || k.Opponent != 1 {
		t.Fatalf("player=%d opponent=%d", k.Player, k.Opponent)
	}
	if k.Unseen.Len() != 14 || k.OpponentSlots != 5 || k.StockSlots != 9 {
		t.Errorf("unseen=%d opp=%d stock=%d", k.Unseen.Len(), k.OpponentSlots, k.StockSlots)
	}
	if !k.Unseen.Intersect(g.Players[0].Hand).Empty() || k.Unseen.Has(g.TrumpCard()) {
		t.Error("own hand or indicator counted as unseen")
	}
	if !k.Feasible() {
		t.Error("fresh leg not feasible")
	}
	for _, c := range k.Unseen.Cards() {
		if len(k.Possible(c)) != 2 {
			t.Errorf("%s possible slots %v", c, k.Possible(c))
		}
	}
	if k.Possible(g.TrumpCard()) != nil {
		t.Error("indicator has a possible hidden slot")
	}
}

// Hypotheses never contradict the view, at every point of many random legs.
func TestSampleSoundness(t *testing.T) {
	for seed := uint64(0); seed < 60; seed++ {
		g := engine.NewLeg(seed, engine.DefaultRules(), uint8(seed&1))
		rng := rand.New(rand.NewPCG(seed, 1))
		for !g.IsTerminal() {
			p := g.ToMove()
			v := g.View(p)
			for i := 0; i < 3; i++ {
				hyp, err := Sample(&v, rng)
				if err != nil {
					t.Fatalf("seed %d: %v", seed, err)
				}
				if err := Consistent(&v, &hyp); err != nil {
					t.Fatalf("seed %d: %v", seed, err)
				}
				opp := engine.OpponentOf(p)
				oppHand := hyp.Players[opp].Hand
				if !g.Revealed[opp].Minus(oppHand).Empty() {
					t.Fatalf("seed %d: public card %s moved out of the opponent's hand", seed, g.Revealed[opp])
				}
				for s := engine.Suit(0); s < engine.NumSuits; s++ {
					if g.Void[opp]&(1<<s) != 0 && oppHand.HasSuit(s) {
						t.Fatalf("seed %d: opponent given %s despite void", seed, s)
					}
				}
				if hyp.Players[p].Hand != g.Players[p].Hand || hyp.TrumpCard() != g.TrumpCard() {
					t.Fatalf("seed %d: visible part changed", seed)
				}
			}
			playRandom(t, &g, rng, 1)
		}
	}
}

func TestSampleRoughlyUniform(t *testing.T) {
	g := engine.NewLeg(7, engine.DefaultRules(), 0)
	v := g.View(0)
	k := Observe(&v)
	watched := k.Unseen.Cards()[0]
	rng := rand.New(rand.NewPCG(3, 4))

	const n = 4000
	inHand := 0
	for i := 0; i < n; i++ {
		hyp, err := Sample(&v, rng)
		if err != nil {
			t.Fatal(err)
		}
		if hyp.Players[1].Hand.Has(watched) {
			inHand++
		}
	}
	want := float64(k.OpponentSlots) / float64(k.Unseen.Len())
	if got := float64(inHand) / n; math.Abs(got-want) > 0.05 {
		t.Errorf("%s in opponent hand %.3f of samples, want ≈ %.3f", watched, got, want)
	}
}

func TestSampleHonoursForcedVoid(t *testing.T) {
	g := engine.NewLeg(11, engine.DefaultRules(), 0)
	v := g.View(0)
	k := Observe(&v)

	// Pick a suit with few enough unseen cards to fit in the stock.
	var void engine.Suit = engine.NumSuits
	for s := engine.Suit(0); s < engine.NumSuits; s++ {
		n := k.Unseen.OfSuit(s).Len()
		if n > 0 && n <= k.StockSlots && v.OpponentKnown.OfSuit(s).Empty() {
			void = s
			break
		}
	}
	if void == engine.NumSuits {
		t.Skip("no suitable suit in this deal")
	}
	v.OpponentVoid = 1 << void

	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 200; i++ {
		hyp, err := Sample(&v, rng)
		if err != nil {
			t.Fatal(err)
		}
		if hyp.Players[1].Hand.HasSuit(void) {
			t.Fatalf("opponent holds %s after a proven void: %s", void, hyp.Players[1].Hand)
		}
	}
}

func TestSampleImpossibleView(t *testing.T) {
	g := engine.NewLeg(13, engine.DefaultRules(), 0)
	v := g.View(0)
	v.OpponentVoid = 0x0F // every suit: nothing can go to the opponent

	_, err := Sample(&v, rand.New(rand.NewPCG(1, 1)))
	if !errors.Is(err, ErrImpossibleView) {
		t.Fatalf("err = %v, want ErrImpossibleView", err)
	}
}

func TestConsistentRejectsTampering(t *testing.T) {
	g := engine.NewLeg(21, engine.DefaultRules(), 0)
	v := g.View(0)
	hyp, err := Sample(&v, rand.New(rand.NewPCG(2, 2)))
	if err != nil {
		t.Fatal(err)
	}

	bad := hyp
	bad.Players[1].Points = 30
	var hie *HypothesisInconsistencyError
	if err := Consistent(&v, &bad); !errors.As(err, &hie) {
		t.Errorf("points tampering: err = %v", err)
	}

	// Declare a suit void that the hypothesis gave the opponent.
	bad = hyp
	oppCard := bad.Players[1].Hand.Cards()[0]
	v2 := v
	v2.OpponentVoid = 1 << oppCard.Suit()
	if err := Consistent(&v2, &bad); !errors.As(err, &hie) {
		t.Errorf("void violation: err = %v", err)
	}
}

func TestSampleN(t *testing.T) {
	g := engine.NewLeg(3, engine.DefaultRules(), 1)
	v := g.View(1)
	hyps, err := SampleN(&v, rand.New(rand.NewPCG(8, 9)), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hyps) != 10 {
		t.Fatalf("got %d hypotheses", len(hyps))
	}
	distinct := map[engine.CardSet]bool{}
	for _, h := range hyps {
		distinct[h.Players[0].Hand] = true
	}
	if len(distinct) < 5 {
		t.Errorf("only %d distinct opponent hands in 10 samples", len(distinct))
	}
}

func TestCanHoldFollowsVoidsAndSlots(t *testing.T) {
	g := engine.NewLeg(11, engine.DefaultRules(), 0)
	v := g.View(0)
	k := Observe(&v)

	var void engine.Suit = engine.NumSuits
	for s := engine.Suit(0); s < engine.NumSuits; s++ {
		if !k.Unseen.OfSuit(s).Empty() {
			void = s
			break
		}
	}
	if void == engine.NumSuits {
		t.Fatal("no unseen suit")
	}
	k.OpponentVoid = 1 << void

	for _, c := range k.Unseen.Cards() {
		wantHand := c.Suit() != void
		if got := k.canHold(SlotOpponentHand, c); got != wantHand {
			t.Errorf("%s in opponent hand: %v, want %v", c, got, wantHand)
		}
		if !k.canHold(SlotStock, c) {
			t.Errorf("%s cannot sit in the stock", c)
		}
	}

	k.StockSlots = 0
	if k.canHold(SlotStock, k.Unseen.Cards()[0]) {
		t.Error("card placed in an exhausted stock")
	}
}

// With a void big enough that plain rejection almost never succeeds, the
// constrained fill still keeps every void card out of the opponent's hand.
func TestAssignConstrainedFill(t *testing.T) {
	g := engine.NewLeg(3, engine.DefaultRules(), 0)
	v := g.View(0)
	k := Observe(&v)

	// Declare voids in every suit except the one with the most unseen cards,
	// as long as the forced cards still fit in the stock.
	for s := engine.Suit(0); s < engine.NumSuits; s++ {
		trial := k
		trial.OpponentVoid |= 1 << s
		if trial.Feasible() && trial.Unseen.Minus(trial.VoidCards()).Len() >= k.OpponentSlots {
			k = trial
		}
	}
	if k.OpponentVoid == 0 {
		t.Skip("no feasible void in this deal")
	}

	rng := rand.New(rand.NewPCG(9, 10))
	for i := 0; i < 100; i++ {
		opp, stock := assign(&k, rng)
		if opp.Len() != k.OpponentSlots || len(stock) != k.StockSlots {
			t.Fatalf("assigned %d/%d cards, want %d/%d", opp.Len(), len(stock), k.OpponentSlots, k.StockSlots)
		}
		if !opp.Intersect(k.VoidCards()).Empty() {
			t.Fatalf("opponent given void cards %s", opp.Intersect(k.VoidCards()))
		}
		if opp.Union(engine.NewCardSet(stock...)) != k.Unseen {
			t.Fatal("assignment does not cover the unseen cards")
		}
	}
}
