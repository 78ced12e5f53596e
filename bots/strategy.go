// Package bots provides the move-selection strategies that can sit at a
// Schnapsen table, and a name-keyed registry to construct them.
package bots

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	engine "github.com/jason-s-yu/schnapsen/engine"
)

// ErrNoLegalMoves is returned when a strategy is asked to move with an empty
// legal move list.
var ErrNoLegalMoves = errors.New("no legal moves")

// Budget bounds the work a strategy may do for one decision. Zero fields fall
// back to the strategy's own defaults.
type Budget struct {
	Depth    int // alpha-beta search depth in plies
	Samples  int // hypotheses drawn from the view
	Rollouts int // random playouts per hypothesis and move
}

// Or returns b with zero fields replaced by def.
func (b Budget) Or(def Budget) Budget {
	if b.Depth <= 0 {
		b.Depth = def.Depth
	}
	if b.Samples <= 0 {
		b.Samples = def.Samples
	}
	if b.Rollouts <= 0 {
		b.Rollouts = def.Rollouts
	}
	return b
}

// Strategy chooses a move for the player owning view. legal is the list of
// legal moves in the engine's order; the returned move must be one of them.
type Strategy interface {
	Name() string
	SelectMove(ctx context.Context, view engine.PlayerView, legal []engine.Move, budget Budget) (engine.Move, error)
}

// TrickObserver is implemented by strategies that want to see every completed
// trick.
type TrickObserver interface {
	NotifyTrick(trick engine.TrickResult)
}

// LegResult is the public summary of a finished leg.
type LegResult struct {
	Winner     uint8
	GamePoints uint8
	Reason     engine.EndReason
	Points     [2]uint8
}

// LegObserver is implemented by strategies that want to see every leg end.
type LegObserver interface {
	NotifyLegEnd(result LegResult)
}

// ---------------------------------------------------------------------------
// shared rng
// ---------------------------------------------------------------------------

// lockedRand is a PCG generator safe for use by concurrent SelectMove calls.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed uint64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeefcafe1234))}
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

func (r *lockedRand) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Uint64()
}

// fork returns an independent generator seeded from r.
func (r *lockedRand) fork() *rand.Rand {
	s := r.Uint64()
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
