package bots

import (
	"context"

	engine "github.com/jason-s-yu/schnapsen/engine"
)

// RiskTakingBot plays its high cards first to end the leg quickly. Leading, it
// takes a trump exchange, then its richest marriage, then its highest card.
// Following, it wins the trick with its highest winning card and otherwise
// still plays its highest card. It never closes the stock. Ties are broken at
// random.
type RiskTakingBot struct {
	rng *lockedRand
}

func NewRiskTakingBot(seed uint64) *RiskTakingBot {
	return &RiskTakingBot{rng: newLockedRand(seed)}
}

func (b *RiskTakingBot) Name() string { return "risktaking" }

func (b *RiskTakingBot) SelectMove(ctx context.Context, view engine.PlayerView, legal []engine.Move, _ Budget) (engine.Move, error) {
	if err := ctx.Err(); err != nil {
		return engine.Move{}, err
	}
	if len(legal) == 0 {
		return engine.Move{}, ErrNoLegalMoves
	}
	return pickBest(legal, func(m engine.Move) int { return riskScore(view.Lead, view.TrumpSuit, m) }, b.rng), nil
}

func riskScore(lead engine.Card, trump engine.Suit, m engine.Move) int {
	switch m.Kind {
	case engine.MoveTrumpExchange:
		return 200
	case engine.MoveMarriage:
		if m.Card.Suit() == trump {
			return 140
		}
		return 120
	case engine.MoveCloseStock:
		return -1
	}
	if lead != engine.EmptyCard && engine.FollowBeats(lead, m.Card, trump) {
		return 100 + m.Card.Points()
	}
	return m.Card.Points()
}
