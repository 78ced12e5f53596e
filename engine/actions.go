package engine

import "fmt"

// ---------------------------------------------------------------------------
// LastActionInfo: public observation of the last game action.
// ---------------------------------------------------------------------------

// TrickResult is the public summary of a completed trick.
type TrickResult struct {
	Leader   uint8
	Follower uint8
	Lead     Card
	Follow   Card
	Winner   uint8
	Points   uint8 // card points in the trick
	Redeemed uint8 // marriage credit banked by the winner with this trick
}

// LastActionInfo encodes a fully observable summary of the most recent action.
type LastActionInfo struct {
	Move          Move
	Player        uint8
	TrickComplete bool
	Trick         TrickResult
	OldTrump      Card  // indicator taken by a trump exchange
	MarriageValue uint8 // pending credit added by a marriage
}

// Apply validates m for player and applies it in place. On error the state
// is left unchanged.
func (g *GameState) Apply(player uint8, m Move) error {
	if g.IsTerminal() {
		return &IllegalMoveError{Player: player, Move: m, Reason: "leg already over", Err: ErrLegOver}
	}
	if player != g.ToMove() {
		return &NotYourTurnError{Player: player, ToMove: g.ToMove()}
	}
	if !g.IsLegal(player, m) {
		return &IllegalMoveError{Player: player, Move: m, Reason: "not among the legal moves"}
	}

	switch m.Kind {
	case MoveCloseStock:
		g.closeStock(player)
	case MoveTrumpExchange:
		g.exchangeTrump(player, m.Card)
	case MoveMarriage:
		value := g.announceMarriage(player, m)
		g.lead(player, m, value)
	case MovePlay:
		if player == g.Leader && g.Lead == EmptyCard {
			g.lead(player, m, 0)
			break
		}
		if err := g.follow(player, m.Card); err != nil {
			return fmt.Errorf("apply %s: %w", m, err)
		}
	default:
		return &IllegalMoveError{Player: player, Move: m, Reason: "unknown move kind"}
	}
	return nil
}

// Apply is the pure form of (*GameState).Apply: it returns the successor state
// and never mutates s.
func Apply(s GameState, player uint8, m Move) (GameState, error) {
	next := s
	if err := next.Apply(player, m); err != nil {
		return s, err
	}
	return next, nil
}

// closeStock freezes the stock for the rest of the leg.
func (g *GameState) closeStock(player uint8) {
	g.Flags |= FlagClosed
	g.Closer = int8(player)
	g.LastAction = LastActionInfo{Move: CloseStock(), Player: player, OldTrump: EmptyCard}
}

// exchangeTrump swaps the trump Jack in hand for the face-up indicator.
func (g *GameState) exchangeTrump(player uint8, jack Card) {
	old := g.Stock[0]
	p := &g.Players[player]
	p.Hand = p.Hand.Remove(jack).Add(old)
	g.Stock[0] = jack
	g.Flags |= FlagExchanged
	g.Revealed[player] = g.Revealed[player].Add(old)

	g.LastAction = LastActionInfo{Move: TrumpExchange(jack), Player: player, OldTrump: old}
}

// announceMarriage adds the pending marriage credit (40 in trumps, else 20)
// and returns it.
func (g *GameState) announceMarriage(player uint8, m Move) uint8 {
	value := uint8(20)
	if m.Card.Suit() == g.TrumpSuit {
		value = 40
	}
	g.Players[player].Pending += value
	g.Revealed[player] = g.Revealed[player].Add(m.Partner())
	return value
}

// lead puts the leader's card on the table.
func (g *GameState) lead(player uint8, m Move, marriageValue uint8) {
	p := &g.Players[player]
	p.Hand = p.Hand.Remove(m.Card)
	g.Revealed[player] = g.Revealed[player].Remove(m.Card)
	g.Lead = m.Card
	g.LeadMarriage = m.Kind == MoveMarriage

	g.LastAction = LastActionInfo{Move: m, Player: player, OldTrump: EmptyCard, MarriageValue: marriageValue}
}

// follow plays the follower's card, resolves the trick, draws and checks for
// the end of the leg.
func (g *GameState) follow(player uint8, c Card) error {
	leader := g.Leader
	winner, err := ResolveTrick(g.Lead, leader, c, player, g.TrumpSuit)
	if err != nil {
		return err
	}

	if g.Phase() == PhaseTwo {
		g.recordVoids(player, c)
	}

	p := &g.Players[player]
	p.Hand = p.Hand.Remove(c)
	g.Revealed[player] = g.Revealed[player].Remove(c)

	w := &g.Players[winner]
	points := uint8(g.Lead.Points() + c.Points())
	redeemed := w.Pending
	w.Points += points + redeemed
	w.Pending = 0
	w.Tricks++
	w.Won = w.Won.Add(g.Lead).Add(c)

	g.LastAction = LastActionInfo{
		Move:          Play(c),
		Player:        player,
		TrickComplete: true,
		OldTrump:      EmptyCard,
		Trick: TrickResult{
			Leader:   leader,
			Follower: player,
			Lead:     g.Lead,
			Follow:   c,
			Winner:   winner,
			Points:   points,
			Redeemed: redeemed,
		},
	}

	g.Leader = winner
	g.Lead = EmptyCard
	g.LeadMarriage = false
	g.LastTrickWinner = int8(winner)

	g.drawAfterTrick(winner)
	g.checkLegEnd()
	return nil
}

// recordVoids notes suits the follower has been proven not to hold. Only
// meaningful in phase two, where following suit and trumping are compulsory
// and no further cards are drawn.
func (g *GameState) recordVoids(player uint8, c Card) {
	ledSuit := g.Lead.Suit()
	if c.Suit() == ledSuit {
		return
	}
	g.Void[player] |= 1 << ledSuit
	if ledSuit != g.TrumpSuit && c.Suit() != g.TrumpSuit {
		g.Void[player] |= 1 << g.TrumpSuit
	}
}

// drawAfterTrick refills both hands from an open stock, winner first.
func (g *GameState) drawAfterTrick(winner uint8) {
	if g.IsClosed() || g.StockLen == 0 {
		return
	}
	loser := OpponentOf(winner)
	for _, p := range [2]uint8{winner, loser} {
		g.StockLen--
		c := g.Stock[g.StockLen]
		g.Stock[g.StockLen] = EmptyCard
		g.Players[p].Hand = g.Players[p].Hand.Add(c)
		if g.StockLen == 0 {
			// The face-up indicator is public: everyone knows who took it.
			g.Revealed[p] = g.Revealed[p].Add(c)
		}
	}
}

// ---------------------------------------------------------------------------
// Trick resolution
// ---------------------------------------------------------------------------

// ResolveTrick returns the player who wins a two-card trick. The follower wins
// only by playing a higher card of the led suit or by trumping a non-trump
// lead; otherwise the leader wins. The result depends only on the cards and
// the trump suit.
func ResolveTrick(lead Card, leadPlayer uint8, follow Card, followPlayer uint8, trump Suit) (uint8, error) {
	switch {
	case !lead.Valid():
		return 0, &InvalidTrickError{Reason: "no led card"}
	case !follow.Valid():
		return 0, &InvalidTrickError{Reason: "no follow card"}
	case lead == follow:
		return 0, &InvalidTrickError{Reason: fmt.Sprintf("card %s played twice", lead)}
	case leadPlayer > 1 || followPlayer > 1 || leadPlayer == followPlayer:
		return 0, &InvalidTrickError{Reason: fmt.Sprintf("players %d and %d do not form a trick", leadPlayer, followPlayer)}
	case trump >= NumSuits:
		return 0, &InvalidTrickError{Reason: fmt.Sprintf("trump suit %d out of range", trump)}
	}
	if FollowBeats(lead, follow, trump) {
		return followPlayer, nil
	}
	return leadPlayer, nil
}

// FollowBeats reports whether follow takes a trick led with lead.
func FollowBeats(lead, follow Card, trump Suit) bool {
	if follow.Suit() == lead.Suit() {
		return follow.Rank() > lead.Rank()
	}
	return follow.Suit() == trump
}
