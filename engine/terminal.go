package engine

import "math/rand/v2"

// ---------------------------------------------------------------------------
// Evaluate: static evaluation for depth-limited search
// ---------------------------------------------------------------------------

// TerminalWeight scales the game-point outcome of a finished leg so that any
// decided result dominates every heuristic score.
const TerminalWeight = 1000

// Evaluate scores the state from player's perspective. A finished leg scores
// ±GamePoints×TerminalWeight. Otherwise the score is the card point
// differential, plus half of the pending marriage credit, plus small terms
// for trump control and unplayed high cards in hand.
func Evaluate(g *GameState, player uint8) float64 {
	if g.IsTerminal() {
		return float64(g.Outcome(player) * TerminalWeight)
	}
	opp := OpponentOf(player)
	me, them := &g.Players[player], &g.Players[opp]

	score := float64(int(me.Points) - int(them.Points))
	score += 0.5 * float64(int(me.Pending)-int(them.Pending))
	score += handPotential(me.Hand, g.TrumpSuit) - handPotential(them.Hand, g.TrumpSuit)
	return score
}

// handPotential rewards trumps and aces/tens still in hand.
func handPotential(hand CardSet, trump Suit) float64 {
	var v float64
	for _, c := range hand.Cards() {
		if c.Suit() == trump {
			v += 2 + 0.5*float64(c.Rank())
		}
		switch c.Rank() {
		case RankAce:
			v += 1.5
		case RankTen:
			v += 1
		}
	}
	return v
}

// ---------------------------------------------------------------------------
// Playout: random rollouts to the end of the leg
// ---------------------------------------------------------------------------

// Playout plays uniformly random legal moves from g until the leg ends and
// returns the final state. g itself is not modified. The caller supplies the
// rng so that concurrent playouts stay deterministic:
//
//	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeefcafe1234))
func Playout(g GameState, rng *rand.Rand) GameState {
	for !g.IsTerminal() {
		p := g.ToMove()
		legal := g.LegalMoves(p)
		if len(legal) == 0 {
			// Unreachable for valid states; end the leg rather than spin.
			_ = g.Forfeit(p)
			break
		}
		if err := g.Apply(p, legal[rng.IntN(len(legal))]); err != nil {
			_ = g.Forfeit(p)
			break
		}
	}
	return g
}

// PlayoutTricks is Playout cut short once n more tricks have been completed.
// The returned state is terminal only if the leg ended within those tricks.
func PlayoutTricks(g GameState, rng *rand.Rand, n int) GameState {
	start := g.tricksPlayed()
	for !g.IsTerminal() && g.tricksPlayed()-start < n {
		p := g.ToMove()
		legal := g.LegalMoves(p)
		if len(legal) == 0 {
			_ = g.Forfeit(p)
			break
		}
		if err := g.Apply(p, legal[rng.IntN(len(legal))]); err != nil {
			_ = g.Forfeit(p)
			break
		}
	}
	return g
}

func (g *GameState) tricksPlayed() int {
	return int(g.Players[0].Tricks) + int(g.Players[1].Tricks)
}

// PointShare returns player's share of the card points banked by both
// players, 0.5 when neither has scored.
func PointShare(g *GameState, player uint8) float64 {
	me, them := g.Players[player].Points, g.Players[OpponentOf(player)].Points
	if int(me)+int(them) == 0 {
		return 0.5
	}
	return float64(me) / (float64(me) + float64(them))
}
