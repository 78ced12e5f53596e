package bots

import (
	"context"
	"errors"
	"fmt"

	engine "github.com/jason-s-yu/schnapsen/engine"
	"github.com/jason-s-yu/schnapsen/engine/agent"
)

// ErrPhaseOne is returned by a MiniMaxBot without fallback while the stock is
// still open.
var ErrPhaseOne = errors.New("minimax only plays once the stock is closed or exhausted")

// DefaultMiniMaxBudget is used for Budget fields left at zero. Samples only
// matter while a closed stock still hides cards.
var DefaultMiniMaxBudget = Budget{Samples: 8}

// exactDepth exceeds the plies left in any phase-two position, so the search
// only ever scores finished legs.
const exactDepth = 4 * engine.HandSize

// MiniMaxBot searches phase-two positions to the end of the leg. Once the
// stock is exhausted every unseen card is in the opponent's hand and the
// search is exact. After an early close the face-down stock cards stay
// unknown; the bot then averages exact searches over sampled hypotheses.
type MiniMaxBot struct {
	rng      *lockedRand
	budget   Budget
	fallback Strategy
	search   searcher
}

func NewMiniMaxBot(seed uint64, budget Budget) *MiniMaxBot {
	return &MiniMaxBot{rng: newLockedRand(seed), budget: budget.Or(DefaultMiniMaxBudget)}
}

// WithFallback sets the strategy asked for phase-one moves.
func (b *MiniMaxBot) WithFallback(s Strategy) *MiniMaxBot {
	b.fallback = s
	return b
}

func (b *MiniMaxBot) Name() string { return "minimax" }

// Nodes returns the number of positions searched since construction.
func (b *MiniMaxBot) Nodes() int64 { return b.search.nodes.Load() }

func (b *MiniMaxBot) SelectMove(ctx context.Context, view engine.PlayerView, legal []engine.Move, budget Budget) (engine.Move, error) {
	if view.Phase != engine.PhaseTwo {
		if b.fallback == nil {
			return engine.Move{}, ErrPhaseOne
		}
		return b.fallback.SelectMove(ctx, view, legal, budget)
	}
	switch len(legal) {
	case 0:
		return engine.Move{}, ErrNoLegalMoves
	case 1:
		return legal[0], nil
	}
	if err := ctx.Err(); err != nil {
		return engine.Move{}, err
	}
	budget = budget.Or(b.budget)

	n := budget.Samples
	if view.HiddenStockSlots() == 0 {
		n = 1
	}
	hyps, err := agent.SampleN(&view, b.rng.fork(), n)
	if err != nil {
		return engine.Move{}, fmt.Errorf("minimax: %w", err)
	}

	player := view.Player
	scores := make([][]float64, len(hyps))
	done, err := runUnits(ctx, len(hyps), func(ctx context.Context, i int) error {
		s, err := b.search.root(ctx, &hyps[i], player, legal, exactDepth)
		if err != nil {
			return err
		}
		scores[i] = s
		return nil
	})
	if err != nil && ctx.Err() == nil {
		return engine.Move{}, fmt.Errorf("minimax: %w", err)
	}
	return pickByAverage(legal, scores, done, orderMoves(view.Lead, view.TrumpSuit, legal)[0]), nil
}
