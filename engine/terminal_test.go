package engine

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestEvaluateTerminal(t *testing.T) {
	g := NewLeg(1, DefaultRules(), 0)
	_ = g.Forfeit(1)
	if got := Evaluate(&g, 0); got != 3*TerminalWeight {
		t.Errorf("winner eval = %v, want %v", got, 3*TerminalWeight)
	}
	if got := Evaluate(&g, 1); got != -3*TerminalWeight {
		t.Errorf("loser eval = %v, want %v", got, -3*TerminalWeight)
	}
}

func TestEvaluateSymmetric(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		g := NewLeg(seed, DefaultRules(), 0)
		rng := rand.New(rand.NewPCG(seed, 99))
		for i := 0; i < 6 && !g.IsTerminal(); i++ {
			p := g.ToMove()
			legal := g.LegalMoves(p)
			mustApply(t, &g, p, legal[rng.IntN(len(legal))])
		}
		if a, b := Evaluate(&g, 0), Evaluate(&g, 1); a != -b {
			t.Fatalf("seed %d: Evaluate(0)=%v Evaluate(1)=%v", seed, a, b)
		}
	}
}

func TestEvaluatePrefersPoints(t *testing.T) {
	s := lastTrick([2]uint8{40, 20})
	g := s.build(t)
	if Evaluate(&g, 0) <= Evaluate(&g, 1) {
		t.Errorf("player ahead on points not preferred: %v vs %v", Evaluate(&g, 0), Evaluate(&g, 1))
	}
	g.Players[1].Pending = 40
	if Evaluate(&g, 0) != Evaluate(&g, 1)*-1 {
		t.Error("pending credit broke symmetry")
	}
}

func TestPlayoutReachesEnd(t *testing.T) {
	g := NewLeg(17, DefaultRules(), 1)
	before := g
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		end := Playout(g, rng)
		if !end.IsTerminal() {
			t.Fatal("playout stopped before the leg ended")
		}
		if end.EndReason == EndForfeit {
			t.Fatal("playout forfeited a valid leg")
		}
		if err := end.CheckInvariants(); err != nil {
			t.Fatal(err)
		}
	}
	if g != before {
		t.Fatal("Playout mutated its input")
	}
}

func TestPlayoutTricksStopsAfterN(t *testing.T) {
	g := NewLeg(23, DefaultRules(), 0)
	before := g
	rng := rand.New(rand.NewPCG(3, 4))
	for n := 1; n <= 3; n++ {
		for i := 0; i < 20; i++ {
			end := PlayoutTricks(g, rng, n)
			if err := end.CheckInvariants(); err != nil {
				t.Fatal(err)
			}
			played := end.tricksPlayed()
			if !end.IsTerminal() && played != n {
				t.Fatalf("n=%d: stopped after %d tricks", n, played)
			}
			if played > n {
				t.Fatalf("n=%d: played %d tricks", n, played)
			}
			if !end.IsTerminal() && end.Lead != EmptyCard {
				t.Fatalf("n=%d: stopped mid-trick", n)
			}
		}
	}
	if g != before {
		t.Fatal("PlayoutTricks mutated its input")
	}
}

func TestPointShare(t *testing.T) {
	var g GameState
	if got := PointShare(&g, 0); got != 0.5 {
		t.Errorf("no points: share %v, want 0.5", got)
	}
	g.Players[0].Points, g.Players[1].Points = 30, 60
	if got := PointShare(&g, 0); math.Abs(got-1.0/3) > 1e-9 {
		t.Errorf("player 0 share %v, want 1/3", got)
	}
	if math.Abs(PointShare(&g, 0)+PointShare(&g, 1)-1) > 1e-9 {
		t.Error("shares do not add up to 1")
	}
}
