package engine

import (
	"errors"
	"testing"
)

func TestGamePointsForBoundaries(t *testing.T) {
	cases := []struct {
		loser int
		want  uint8
	}{
		{0, 3},
		{1, 2},
		{32, 2},
		{33, 1},
		{65, 1},
	}
	for _, tc := range cases {
		if got := GamePointsFor(tc.loser); got != tc.want {
			t.Errorf("GamePointsFor(%d) = %d, want %d", tc.loser, got, tc.want)
		}
	}
}

func TestClosingPenaltyFor(t *testing.T) {
	cases := []struct {
		closer int
		want   uint8
	}{
		{0, 3},
		{20, 3},
		{33, 2},
		{60, 2},
	}
	for _, tc := range cases {
		if got := ClosingPenaltyFor(tc.closer); got != tc.want {
			t.Errorf("ClosingPenaltyFor(%d) = %d, want %d", tc.closer, got, tc.want)
		}
	}
}

// lastTrick: one card each, stock exhausted, player 0 leads A♠ over J♠.
func lastTrick(points [2]uint8) setup {
	return setup{
		hands:  [2]string{"AS", "JS"},
		trump:  SuitClubs,
		points: points,
	}
}

func TestLegEndReachedTarget(t *testing.T) {
	cases := []struct {
		name      string
		loser     uint8
		wantGame  uint8
		wantScore int
	}{
		{"schwarz", 0, 3, 73},
		{"schneider", 20, 2, 73},
		{"plain", 40, 1, 73},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := lastTrick([2]uint8{60, tc.loser}).build(t)
			mustApply(t, &g, 0, Play(card(t, "AS")))
			mustApply(t, &g, 1, Play(card(t, "JS")))

			if !g.IsTerminal() || g.EndReason != EndReachedTarget {
				t.Fatalf("terminal=%v reason=%s", g.IsTerminal(), g.EndReason)
			}
			if g.Winner != 0 || g.GamePoints != tc.wantGame || g.Score(0) != tc.wantScore {
				t.Errorf("winner=%d game=%d score=%d", g.Winner, g.GamePoints, g.Score(0))
			}
			if g.Outcome(0) != int(tc.wantGame) || g.Outcome(1) != -int(tc.wantGame) {
				t.Errorf("Outcome = %d/%d", g.Outcome(0), g.Outcome(1))
			}
		})
	}
}

func TestLegEndLastTrickScoresOne(t *testing.T) {
	g := lastTrick([2]uint8{30, 50}).build(t)
	mustApply(t, &g, 0, Play(card(t, "AS")))
	mustApply(t, &g, 1, Play(card(t, "JS")))

	if !g.IsTerminal() || g.EndReason != EndLastTrick || g.Winner != 0 || g.GamePoints != 1 {
		t.Fatalf("terminal=%v reason=%s winner=%d game=%d", g.IsTerminal(), g.EndReason, g.Winner, g.GamePoints)
	}
}

func TestClosingFailedWhenCardsRunOut(t *testing.T) {
	s := lastTrick([2]uint8{30, 40})
	s.stock = "AC JC"
	s.closed = true
	s.closer = 0
	g := s.build(t)
	mustApply(t, &g, 0, Play(card(t, "AS")))
	mustApply(t, &g, 1, Play(card(t, "JS")))

	if g.EndReason != EndClosingFailed || g.Winner != 1 {
		t.Fatalf("reason=%s winner=%d", g.EndReason, g.Winner)
	}
	// Closer finished on 43: regular award 1, plus one for the failed close.
	if g.GamePoints != 2 {
		t.Errorf("game points = %d, want 2", g.GamePoints)
	}
}

func TestClosingFailedWhenOpponentReachesTarget(t *testing.T) {
	s := setup{
		hands:  [2]string{"JS", "AS"},
		stock:  "AC JC",
		leader: 1,
		closed: true,
		closer: 0,
		points: [2]uint8{10, 60},
	}
	g := s.build(t)
	mustApply(t, &g, 1, Play(card(t, "AS")))
	mustApply(t, &g, 0, Play(card(t, "JS")))

	if g.EndReason != EndClosingFailed || g.Winner != 1 || g.GamePoints != 3 {
		t.Fatalf("reason=%s winner=%d game=%d", g.EndReason, g.Winner, g.GamePoints)
	}
}

func TestCloserReachingTargetScoresNormally(t *testing.T) {
	s := lastTrick([2]uint8{60, 10})
	s.stock = "AC JC"
	s.closed = true
	s.closer = 0
	g := s.build(t)
	mustApply(t, &g, 0, Play(card(t, "AS")))
	mustApply(t, &g, 1, Play(card(t, "JS")))

	if g.EndReason != EndReachedTarget || g.Winner != 0 || g.GamePoints != 2 {
		t.Fatalf("reason=%s winner=%d game=%d", g.EndReason, g.Winner, g.GamePoints)
	}
}

func TestForfeit(t *testing.T) {
	g := NewLeg(5, DefaultRules(), 0)
	if err := g.Forfeit(0); err != nil {
		t.Fatal(err)
	}
	if g.Winner != 1 || g.GamePoints != 3 || g.EndReason != EndForfeit {
		t.Errorf("winner=%d game=%d reason=%s", g.Winner, g.GamePoints, g.EndReason)
	}
	if err := g.Forfeit(1); !errors.Is(err, ErrLegOver) {
		t.Errorf("second forfeit err = %v, want ErrLegOver", err)
	}

	r := DefaultRules()
	r.ForfeitPoints = 2
	g = NewLeg(5, r, 0)
	_ = g.Forfeit(1)
	if g.Winner != 0 || g.GamePoints != 2 {
		t.Errorf("custom forfeit: winner=%d game=%d", g.Winner, g.GamePoints)
	}
}

func TestOutcomeBeforeEnd(t *testing.T) {
	g := NewLeg(9, DefaultRules(), 0)
	if g.Outcome(0) != 0 || g.Outcome(1) != 0 {
		t.Error("running leg reported an outcome")
	}
}

func TestMatchWon(t *testing.T) {
	cases := []struct {
		target uint8
		points int
		want   bool
	}{
		{7, 6, false},
		{7, 7, true},
		{3, 3, true},
		{0, 1, false}, // zero target falls back to 7
		{0, 6, false},
		{0, 7, true},
	}
	for _, tc := range cases {
		r := Rules{MatchTarget: tc.target}
		if got := r.MatchWon(tc.points); got != tc.want {
			t.Errorf("target %d points %d: MatchWon = %v, want %v", tc.target, tc.points, got, tc.want)
		}
	}
}
