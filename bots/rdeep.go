package bots

import (
	"context"
	"fmt"
	"math/rand/v2"

	engine "github.com/jason-s-yu/schnapsen/engine"
	"github.com/jason-s-yu/schnapsen/engine/agent"
)

// DefaultRdeepBudget is used for Budget fields left at zero.
var DefaultRdeepBudget = Budget{Samples: 8, Rollouts: 4}

// RdeepBot estimates every legal move by random playouts on sampled
// hypotheses and picks the move with the best mean game-point outcome.
// With a trick limit the playouts stop early and score the share of card
// points instead.
type RdeepBot struct {
	rng    *lockedRand
	budget Budget
	tricks int
}

func NewRdeepBot(seed uint64, budget Budget) *RdeepBot {
	return &RdeepBot{rng: newLockedRand(seed), budget: budget.Or(DefaultRdeepBudget)}
}

// WithTricks limits every playout to n tricks. Zero plays to the end of the
// leg.
func (b *RdeepBot) WithTricks(n int) *RdeepBot {
	b.tricks = max(n, 0)
	return b
}

func (b *RdeepBot) Name() string { return "rdeep" }

// rolloutUnit is one (hypothesis, move) pair with its pre-drawn seed, so the
// result does not depend on goroutine scheduling.
type rolloutUnit struct {
	hyp  int
	move int
	seed uint64
}

func (b *RdeepBot) SelectMove(ctx context.Context, view engine.PlayerView, legal []engine.Move, budget Budget) (engine.Move, error) {
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

	rng := b.rng.fork()
	hyps, err := agent.SampleN(&view, rng, budget.Samples)
	if err != nil {
		return engine.Move{}, fmt.Errorf("rdeep: %w", err)
	}

	units := make([]rolloutUnit, 0, len(hyps)*len(legal))
	for h := range hyps {
		for m := range legal {
			units = append(units, rolloutUnit{hyp: h, move: m, seed: rng.Uint64()})
		}
	}

	player := view.Player
	totals := make([]float64, len(units))
	done, err := runUnits(ctx, len(units), func(ctx context.Context, i int) error {
		u := units[i]
		start, err := engine.Apply(hyps[u.hyp], player, legal[u.move])
		if err != nil {
			return fmt.Errorf("move %s in hypothesis: %w", legal[u.move], err)
		}
		prng := rand.New(rand.NewPCG(u.seed, u.seed^0xdeadbeefcafe1234))
		for r := 0; r < budget.Rollouts; r++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			totals[i] += b.rollout(start, prng, player)
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		return engine.Move{}, fmt.Errorf("rdeep: %w", err)
	}

	// Average per move over the units that completed.
	sums := make([]float64, len(legal))
	counts := make([]int, len(legal))
	for i, u := range units {
		if done[i] {
			sums[u.move] += totals[i]
			counts[u.move]++
		}
	}
	best := -1
	var bestAvg float64
	for m := range legal {
		if counts[m] == 0 {
			continue
		}
		avg := sums[m] / float64(counts[m])
		if best < 0 || avg > bestAvg {
			best, bestAvg = m, avg
		}
	}
	if best < 0 {
		return legal[0], nil
	}
	return legal[best], nil
}

// rollout plays one random continuation. A full playout scores the signed
// game points. A trick-limited one scores the card point share, or 1 and 0
// for a leg won or lost within the limit.
func (b *RdeepBot) rollout(start engine.GameState, rng *rand.Rand, player uint8) float64 {
	if b.tricks == 0 {
		end := engine.Playout(start, rng)
		return float64(end.Outcome(player))
	}
	end := engine.PlayoutTricks(start, rng, b.tricks)
	if end.IsTerminal() {
		if end.Outcome(player) > 0 {
			return 1
		}
		return 0
	}
	return engine.PointShare(&end, player)
}
