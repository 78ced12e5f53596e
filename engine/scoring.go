package engine

import "fmt"

// EndReason records why a leg ended.
type EndReason uint8

const (
	EndNone          EndReason = iota // 0: leg still running
	EndReachedTarget                  // 1: a player reached 66
	EndLastTrick                      // 2: all cards played, last trick decides
	EndClosingFailed                  // 3: the closer did not reach 66 first
	EndForfeit                        // 4: a player forfeited
)

func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "none"
	case EndReachedTarget:
		return "reached_target"
	case EndLastTrick:
		return "last_trick"
	case EndClosingFailed:
		return "closing_failed"
	case EndForfeit:
		return "forfeit"
	}
	return "unknown"
}

// GamePointsFor returns the game points a leg winner earns given the card
// points of the loser:
//   - 0 → 3
//   - 1–32 → 2
//   - 33 and more → 1
func GamePointsFor(loserPoints int) uint8 {
	switch {
	case loserPoints <= 0:
		return 3
	case loserPoints < 33:
		return 2
	}
	return 1
}

// ClosingPenaltyFor returns the game points awarded to the opponent of a
// closer who failed to reach 66 first: one more than the regular award
// computed from the closer's points, capped at 3.
func ClosingPenaltyFor(closerPoints int) uint8 {
	p := GamePointsFor(closerPoints) + 1
	if p > 3 {
		p = 3
	}
	return p
}

// checkLegEnd ends the leg after a trick if a winning condition holds.
// Only the trick winner (now the leader) can have gained points.
func (g *GameState) checkLegEnd() {
	w := g.Leader
	opp := OpponentOf(w)

	if g.Score(w) >= g.Rules.winPoints() {
		if g.IsClosed() && g.Closer != int8(w) {
			g.finish(w, ClosingPenaltyFor(g.Score(opp)), EndClosingFailed)
			return
		}
		g.finish(w, GamePointsFor(g.Score(opp)), EndReachedTarget)
		return
	}

	if g.AllCardsPlayed() {
		if g.IsClosed() {
			closer := uint8(g.Closer)
			g.finish(OpponentOf(closer), ClosingPenaltyFor(g.Score(closer)), EndClosingFailed)
			return
		}
		g.finish(w, 1, EndLastTrick)
	}
}

// finish freezes the leg with the given result. Unredeemed marriage credit is
// forfeited.
func (g *GameState) finish(winner uint8, points uint8, reason EndReason) {
	g.Flags |= FlagTerminal
	g.Winner = int8(winner)
	g.GamePoints = points
	g.EndReason = reason
}

// Forfeit ends the leg in favour of player's opponent, who is awarded
// Rules.ForfeitPoints game points.
func (g *GameState) Forfeit(player uint8) error {
	if g.IsTerminal() {
		return fmt.Errorf("forfeit by player %d: %w", player, ErrLegOver)
	}
	if player > 1 {
		return fmt.Errorf("forfeit: player %d out of range", player)
	}
	g.finish(OpponentOf(player), g.Rules.forfeitPoints(), EndForfeit)
	return nil
}

// Outcome returns the game points won (positive) or lost (negative) by player.
// Only meaningful when the leg is terminal; returns 0 otherwise.
func (g *GameState) Outcome(player uint8) int {
	if !g.IsTerminal() {
		return 0
	}
	if g.Winner == int8(player) {
		return int(g.GamePoints)
	}
	return -int(g.GamePoints)
}
