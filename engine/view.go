package engine

import "fmt"

// PlayerView is the redacted projection of a GameState seen by one player.
// It carries everything that player may legitimately know and nothing else:
// never the stock order or the opponent's hidden cards.
type PlayerView struct {
	Player    uint8
	Hand      CardSet
	ToMove    uint8
	Leader    uint8
	TrumpSuit Suit
	TrumpCard Card // face-up indicator, EmptyCard once drawn
	StockLen  uint8
	Closed    bool
	Closer    int8
	Exchanged bool
	Phase     Phase

	Lead         Card // card on the table, EmptyCard if none
	LeadMarriage bool

	Won     [2]CardSet
	Points  [2]uint8
	Pending [2]uint8
	Tricks  [2]uint8

	OpponentHandLen uint8
	OpponentKnown   CardSet // opponent cards that became public
	OpponentVoid    uint8   // bitmask of suits the opponent is proven not to hold

	LastTrickWinner int8
	LastAction      LastActionInfo
	Rules           Rules

	Terminal   bool
	Winner     int8
	GamePoints uint8
	EndReason  EndReason

	Legal []Move // legal moves for Player, empty when not to move
}

// View returns the redacted view of the leg for player.
func (g *GameState) View(player uint8) PlayerView {
	player &= 1
	opp := OpponentOf(player)
	v := PlayerView{
		Player:          player,
		Hand:            g.Players[player].Hand,
		ToMove:          g.ToMove(),
		Leader:          g.Leader,
		TrumpSuit:       g.TrumpSuit,
		TrumpCard:       g.TrumpCard(),
		StockLen:        g.StockLen,
		Closed:          g.IsClosed(),
		Closer:          g.Closer,
		Exchanged:       g.IsExchanged(),
		Phase:           g.Phase(),
		Lead:            g.Lead,
		LeadMarriage:    g.LeadMarriage,
		OpponentHandLen: uint8(g.Players[opp].Hand.Len()),
		OpponentKnown:   g.Revealed[opp].Intersect(g.Players[opp].Hand),
		OpponentVoid:    g.Void[opp],
		LastTrickWinner: g.LastTrickWinner,
		LastAction:      g.LastAction,
		Rules:           g.Rules,
		Terminal:        g.IsTerminal(),
		Winner:          g.Winner,
		GamePoints:      g.GamePoints,
		EndReason:       g.EndReason,
		Legal:           g.LegalMoves(player),
	}
	for p := 0; p < 2; p++ {
		v.Won[p] = g.Players[p].Won
		v.Points[p] = g.Players[p].Points
		v.Pending[p] = g.Players[p].Pending
		v.Tricks[p] = g.Players[p].Tricks
	}
	return v
}

// Opponent returns the index of the viewer's opponent.
func (v *PlayerView) Opponent() uint8 { return OpponentOf(v.Player) }

// Known returns every card whose location the viewer knows.
func (v *PlayerView) Known() CardSet {
	k := v.Hand.Union(v.Won[0]).Union(v.Won[1]).Union(v.OpponentKnown)
	if v.Lead != EmptyCard {
		k = k.Add(v.Lead)
	}
	if v.TrumpCard != EmptyCard {
		k = k.Add(v.TrumpCard)
	}
	return k
}

// Unseen returns the cards whose location is unknown to the viewer: the
// opponent's hidden cards and the hidden part of the stock.
func (v *PlayerView) Unseen() CardSet { return FullDeck.Minus(v.Known()) }

// HiddenOpponentSlots returns how many opponent cards the viewer cannot name.
func (v *PlayerView) HiddenOpponentSlots() int {
	return int(v.OpponentHandLen) - v.OpponentKnown.Len()
}

// HiddenStockSlots returns how many stock cards the viewer cannot see: all but
// the face-up indicator.
func (v *PlayerView) HiddenStockSlots() int {
	if v.StockLen == 0 {
		return 0
	}
	return int(v.StockLen) - 1
}

// IsLegal reports whether m is among the view's legal moves.
func (v *PlayerView) IsLegal(m Move) bool {
	for _, lm := range v.Legal {
		if lm == m {
			return true
		}
	}
	return false
}

// Determinize builds a full GameState consistent with the view, placing
// oppHidden in the opponent's hand next to the publicly known cards and
// stockHidden (bottom first) on top of the indicator. The caller chooses the
// hidden assignment; Determinize only checks that it accounts for every unseen
// card exactly once.
func (v *PlayerView) Determinize(oppHidden CardSet, stockHidden []Card) (GameState, error) {
	unseen := v.Unseen()
	if oppHidden.Len() != v.HiddenOpponentSlots() {
		return GameState{}, fmt.Errorf("determinize: %d opponent cards for %d hidden slots", oppHidden.Len(), v.HiddenOpponentSlots())
	}
	if len(stockHidden) != v.HiddenStockSlots() {
		return GameState{}, fmt.Errorf("determinize: %d stock cards for %d hidden slots", len(stockHidden), v.HiddenStockSlots())
	}
	stockSet := NewCardSet(stockHidden...)
	if stockSet.Len() != len(stockHidden) {
		return GameState{}, fmt.Errorf("determinize: duplicate card in stock assignment")
	}
	if !oppHidden.Intersect(stockSet).Empty() || oppHidden.Union(stockSet) != unseen {
		return GameState{}, fmt.Errorf("determinize: assignment %s + %s does not cover unseen %s", oppHidden, stockSet, unseen)
	}

	opp := v.Opponent()
	var g GameState
	g.Rules = v.Rules
	g.TrumpSuit = v.TrumpSuit
	g.Leader = v.Leader
	g.Lead = v.Lead
	g.LeadMarriage = v.LeadMarriage
	g.Closer = v.Closer
	g.LastTrickWinner = v.LastTrickWinner
	g.LastAction = v.LastAction
	g.Winner = v.Winner
	g.GamePoints = v.GamePoints
	g.EndReason = v.EndReason

	if v.Closed {
		g.Flags |= FlagClosed
	}
	if v.Exchanged {
		g.Flags |= FlagExchanged
	}
	if v.Terminal {
		g.Flags |= FlagTerminal
	}

	for p := 0; p < 2; p++ {
		g.Players[p].Won = v.Won[p]
		g.Players[p].Points = v.Points[p]
		g.Players[p].Pending = v.Pending[p]
		g.Players[p].Tricks = v.Tricks[p]
	}
	g.Players[v.Player].Hand = v.Hand
	g.Players[opp].Hand = oppHidden.Union(v.OpponentKnown)
	g.Revealed[opp] = v.OpponentKnown
	g.Void[opp] = v.OpponentVoid

	for i := range g.Stock {
		g.Stock[i] = EmptyCard
	}
	if v.StockLen > 0 {
		g.Stock[0] = v.TrumpCard
		copy(g.Stock[1:], stockHidden)
	}
	g.StockLen = v.StockLen

	if err := g.CheckInvariants(); err != nil {
		return GameState{}, fmt.Errorf("determinize: %w", err)
	}
	return g, nil
}
