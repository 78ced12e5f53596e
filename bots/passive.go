package bots

import (
	"context"

	engine "github.com/jason-s-yu/schnapsen/engine"
)

// PassiveBot holds its strong cards back. It leads its lowest card, sparing
// trumps, and follows by discarding low unless the lead is an ace or a ten
// it can take, which it does with its cheapest winning card. It never
// announces marriages, exchanges the trump or closes. Ties are broken at
// random.
type PassiveBot struct {
	rng *lockedRand
}

func NewPassiveBot(seed uint64) *PassiveBot {
	return &PassiveBot{rng: newLockedRand(seed)}
}

func (b *PassiveBot) Name() string { return "passive" }

func (b *PassiveBot) SelectMove(ctx context.Context, view engine.PlayerView, legal []engine.Move, _ Budget) (engine.Move, error) {
	if err := ctx.Err(); err != nil {
		return engine.Move{}, err
	}
	if len(legal) == 0 {
		return engine.Move{}, ErrNoLegalMoves
	}
	return pickBest(legal, func(m engine.Move) int { return passiveScore(view.Lead, view.TrumpSuit, m) }, b.rng), nil
}

func passiveScore(lead engine.Card, trump engine.Suit, m engine.Move) int {
	if m.Kind != engine.MovePlay {
		return -1000
	}
	pts := m.Card.Points()
	if lead != engine.EmptyCard && lead.Points() >= 10 && engine.FollowBeats(lead, m.Card, trump) {
		return 100 - pts
	}
	if m.Card.Suit() == trump {
		pts += 20
	}
	return -pts
}
