package engine

// LegalMoves returns every legal action for player in the current state.
// It never mutates the state. The result is empty only when the leg is over
// or it is not player's turn.
func (g *GameState) LegalMoves(player uint8) []Move {
	if g.IsTerminal() || player > 1 || player != g.ToMove() {
		return nil
	}
	if g.Lead == EmptyCard {
		return g.legalLeaderMoves()
	}
	return g.legalFollowerMoves()
}

// IsLegal reports whether m is in LegalMoves(player).
func (g *GameState) IsLegal(player uint8, m Move) bool {
	for _, lm := range g.LegalMoves(player) {
		if lm == m {
			return true
		}
	}
	return false
}

// legalLeaderMoves lists plays, marriages, the trump exchange and closing.
func (g *GameState) legalLeaderMoves() []Move {
	hand := g.Players[g.Leader].Hand
	moves := make([]Move, 0, hand.Len()+4)

	for _, c := range hand.Cards() {
		moves = append(moves, Play(c))
	}

	if g.Phase() == PhaseOne || g.Rules.AllowMarriagePhaseTwo {
		for s := Suit(0); s < NumSuits; s++ {
			queen, king := NewCard(s, RankQueen), NewCard(s, RankKing)
			if hand.Has(queen) && hand.Has(king) {
				moves = append(moves, Marriage(queen), Marriage(king))
			}
		}
	}

	if g.canExchangeTrump() {
		moves = append(moves, TrumpExchange(NewCard(g.TrumpSuit, RankJack)))
	}

	// Closing: stock open with cards.
	if !g.IsClosed() && g.StockLen > 0 {
		moves = append(moves, CloseStock())
	}
	return moves
}

// canExchangeTrump returns true if the leader holds the trump Jack while the
// indicator is still face up on an open stock.
func (g *GameState) canExchangeTrump() bool {
	if g.IsClosed() || g.StockLen == 0 {
		return false
	}
	jack := NewCard(g.TrumpSuit, RankJack)
	return g.Players[g.Leader].Hand.Has(jack)
}

// legalFollowerMoves applies the follow rules of the current phase.
func (g *GameState) legalFollowerMoves() []Move {
	hand := g.Players[g.Follower()].Hand
	return movesFromCards(g.followCandidates(hand))
}

// followCandidates returns the subset of hand the follower may play.
func (g *GameState) followCandidates(hand CardSet) CardSet {
	if g.Phase() == PhaseOne {
		return hand
	}
	lead := g.Lead
	sameSuit := hand.OfSuit(lead.Suit())
	if !sameSuit.Empty() {
		if g.Rules.MustHeadTrick {
			var higher CardSet
			for _, c := range sameSuit.Cards() {
				if c.Rank() > lead.Rank() {
					higher = higher.Add(c)
				}
			}
			if !higher.Empty() {
				return higher
			}
		}
		return sameSuit
	}
	trumps := hand.OfSuit(g.TrumpSuit)
	if lead.Suit() != g.TrumpSuit && !trumps.Empty() {
		return trumps
	}
	return hand
}

func movesFromCards(s CardSet) []Move {
	cards := s.Cards()
	moves := make([]Move, len(cards))
	for i, c := range cards {
		moves[i] = Play(c)
	}
	return moves
}
