package bots

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	engine "github.com/jason-s-yu/schnapsen/engine"
	"github.com/jason-s-yu/schnapsen/engine/agent"
)

// DefaultAlphaBetaBudget is used for Budget fields left at zero.
var DefaultAlphaBetaBudget = Budget{Depth: 6, Samples: 8}

// cancelCheckInterval is how many nodes a search visits between context checks.
const cancelCheckInterval = 256

// AlphaBetaBot samples hypotheses consistent with its view and runs a
// depth-limited alpha-beta search on each, picking the move with the best
// average root score.
type AlphaBetaBot struct {
	rng    *lockedRand
	budget Budget
	search searcher
}

func NewAlphaBetaBot(seed uint64, budget Budget) *AlphaBetaBot {
	return &AlphaBetaBot{rng: newLockedRand(seed), budget: budget.Or(DefaultAlphaBetaBudget)}
}

func (b *AlphaBetaBot) Name() string { return "alphabeta" }

// Nodes returns the number of positions searched since construction.
func (b *AlphaBetaBot) Nodes() int64 { return b.search.nodes.Load() }

func (b *AlphaBetaBot) SelectMove(ctx context.Context, view engine.PlayerView, legal []engine.Move, budget Budget) (engine.Move, error) {
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

	hyps, err := agent.SampleN(&view, b.rng.fork(), budget.Samples)
	if err != nil {
		return engine.Move{}, fmt.Errorf("alphabeta: %w", err)
	}

	player := view.Player
	scores := make([][]float64, len(hyps))
	done, err := runUnits(ctx, len(hyps), func(ctx context.Context, i int) error {
		s, err := b.search.root(ctx, &hyps[i], player, legal, budget.Depth)
		if err != nil {
			return err
		}
		scores[i] = s
		return nil
	})
	if err != nil && ctx.Err() == nil {
		return engine.Move{}, fmt.Errorf("alphabeta: %w", err)
	}
	return pickByAverage(legal, scores, done, orderMoves(view.Lead, view.TrumpSuit, legal)[0]), nil
}

// searcher runs alpha-beta on fully known states and counts visited nodes.
type searcher struct {
	nodes atomic.Int64
}

// root returns the alpha-beta value of every root move in one hypothesis.
func (s *searcher) root(ctx context.Context, g *engine.GameState, player uint8, legal []engine.Move, depth int) ([]float64, error) {
	out := make([]float64, len(legal))
	for i, m := range legal {
		child, err := engine.Apply(*g, player, m)
		if err != nil {
			return nil, fmt.Errorf("root move %s in hypothesis: %w", m, err)
		}
		v, err := s.alphaBeta(ctx, &child, depth-1, math.Inf(-1), math.Inf(1), player)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *searcher) alphaBeta(ctx context.Context, g *engine.GameState, depth int, alpha, beta float64, me uint8) (float64, error) {
	if s.nodes.Add(1)%cancelCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
	if depth <= 0 || g.IsTerminal() {
		return engine.Evaluate(g, me), nil
	}

	p := g.ToMove()
	moves := orderMoves(g.Lead, g.TrumpSuit, g.LegalMoves(p))
	maximize := p == me
	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}

	for _, m := range moves {
		child := *g
		if err := child.Apply(p, m); err != nil {
			return 0, err
		}
		score, err := s.alphaBeta(ctx, &child, depth-1, alpha, beta, me)
		if err != nil {
			return 0, err
		}
		if maximize {
			best = math.Max(best, score)
			alpha = math.Max(alpha, best)
		} else {
			best = math.Min(best, score)
			beta = math.Min(beta, best)
		}
		if alpha >= beta {
			break
		}
	}
	return best, nil
}

// ---------------------------------------------------------------------------
// Move ordering
// ---------------------------------------------------------------------------

// orderMoves returns legal sorted so that promising moves are searched first:
// when following, the cheapest card that wins the trick; when leading, the
// trump exchange, then marriages, then low cards, closing last.
func orderMoves(lead engine.Card, trump engine.Suit, legal []engine.Move) []engine.Move {
	out := append([]engine.Move(nil), legal...)
	sort.SliceStable(out, func(i, j int) bool {
		return movePriority(lead, trump, out[i]) < movePriority(lead, trump, out[j])
	})
	return out
}

func movePriority(lead engine.Card, trump engine.Suit, m engine.Move) int {
	if lead != engine.EmptyCard {
		pts := m.Card.Points()
		if engine.FollowBeats(lead, m.Card, trump) {
			if m.Card.Suit() == trump && lead.Suit() != trump {
				return 20 + pts // trumping costs a trump
			}
			return pts
		}
		return 40 + pts
	}
	switch m.Kind {
	case engine.MoveTrumpExchange:
		return 0
	case engine.MoveMarriage:
		if m.Card.Suit() == trump {
			return 1
		}
		return 2
	case engine.MoveCloseStock:
		return 100
	}
	pts := m.Card.Points()
	if m.Card.Suit() == trump {
		pts += 15
	}
	return 10 + pts
}

// pickByAverage returns the legal move with the highest mean score over the
// completed units. Ties go to the earlier legal move; with no completed unit
// the fallback is returned.
func pickByAverage(legal []engine.Move, scores [][]float64, done []bool, fallback engine.Move) engine.Move {
	sums := make([]float64, len(legal))
	n := 0
	for u, ok := range done {
		if !ok || scores[u] == nil {
			continue
		}
		n++
		for i, s := range scores[u] {
			sums[i] += s
		}
	}
	if n == 0 {
		return fallback
	}
	best := 0
	for i := 1; i < len(legal); i++ {
		if sums[i] > sums[best] {
			best = i
		}
	}
	return legal[best]
}
