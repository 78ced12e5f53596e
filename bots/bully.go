package bots

import (
	"context"

	engine "github.com/jason-s-yu/schnapsen/engine"
)

// BullyBot plays a trump whenever it can; otherwise it follows suit when
// following, and failing that plays its highest card. Ties are broken at
// random.
type BullyBot struct {
	rng *lockedRand
}

func NewBullyBot(seed uint64) *BullyBot {
	return &BullyBot{rng: newLockedRand(seed)}
}

func (b *BullyBot) Name() string { return "bully" }

func (b *BullyBot) SelectMove(ctx context.Context, view engine.PlayerView, legal []engine.Move, _ Budget) (engine.Move, error) {
	if err := ctx.Err(); err != nil {
		return engine.Move{}, err
	}
	if len(legal) == 0 {
		return engine.Move{}, ErrNoLegalMoves
	}

	var plays []engine.Move
	for _, m := range legal {
		if m.PutsCard() {
			plays = append(plays, m)
		}
	}
	if len(plays) == 0 {
		return legal[b.rng.IntN(len(legal))], nil
	}

	if trumps := filterMoves(plays, func(m engine.Move) bool { return m.Card.Suit() == view.TrumpSuit }); len(trumps) > 0 {
		return trumps[b.rng.IntN(len(trumps))], nil
	}
	if view.Lead != engine.EmptyCard {
		led := view.Lead.Suit()
		if same := filterMoves(plays, func(m engine.Move) bool { return m.Card.Suit() == led }); len(same) > 0 {
			return same[b.rng.IntN(len(same))], nil
		}
	}

	return pickBest(plays, func(m engine.Move) int { return m.Card.Points() }, b.rng), nil
}

func filterMoves(moves []engine.Move, keep func(engine.Move) bool) []engine.Move {
	var out []engine.Move
	for _, m := range moves {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// pickBest returns a move with the highest score, breaking ties at random.
func pickBest(moves []engine.Move, score func(engine.Move) int, rng *lockedRand) engine.Move {
	var top []engine.Move
	best := 0
	for _, m := range moves {
		switch v := score(m); {
		case len(top) == 0 || v > best:
			best = v
			top = append(top[:0], m)
		case v == best:
			top = append(top, m)
		}
	}
	return top[rng.IntN(len(top))]
}
