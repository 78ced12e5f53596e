package bots

import (
	"context"

	engine "github.com/jason-s-yu/schnapsen/engine"
)

// RandBot plays a uniformly random legal move.
type RandBot struct {
	rng *lockedRand
}

func NewRandBot(seed uint64) *RandBot {
	return &RandBot{rng: newLockedRand(seed)}
}

func (b *RandBot) Name() string { return "rand" }

func (b *RandBot) SelectMove(ctx context.Context, view engine.PlayerView, legal []engine.Move, _ Budget) (engine.Move, error) {
	if err := ctx.Err(); err != nil {
		return engine.Move{}, err
	}
	if len(legal) == 0 {
		return engine.Move{}, ErrNoLegalMoves
	}
	return legal[b.rng.IntN(len(legal))], nil
}
