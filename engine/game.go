// Package engine implements the Schnapsen card game rules.
//
// GameState is a flat value type: assigning it copies the whole game, which
// is what the search bots rely on to branch without aliasing. All transitions
// go through Apply, which validates the move against LegalMoves first and
// leaves the state untouched on error.
package engine

import "math/rand/v2"

const (
	HandSize  = 5
	StockSize = NumCards - 2*HandSize
)

// PlayerState holds one player's hand and leg score.
type PlayerState struct {
	Hand    CardSet
	Won     CardSet // cards taken in tricks
	Points  uint8   // card points banked this leg
	Pending uint8   // announced marriage credit awaiting a trick win
	Tricks  uint8
}

// GameState holds the complete, self-contained state of one Schnapsen leg.
// It contains no pointers, slices or maps, so a plain assignment clones it.
type GameState struct {
	Players      [2]PlayerState
	Stock        [StockSize]Card // Stock[0] is the bottom card (trump indicator)
	StockLen     uint8
	TrumpSuit    Suit
	Leader       uint8
	Lead         Card // card led in the trick in progress, EmptyCard if none
	LeadMarriage bool // Lead was played as part of a marriage
	Closer       int8 // player who closed the stock, -1 if open
	Flags        uint16
	Rules        Rules

	// Public knowledge: cards known to sit in a player's hand, and suits a
	// player has been proven not to hold.
	Revealed [2]CardSet
	Void     [2]uint8

	LastTrickWinner int8
	Winner          int8
	GamePoints      uint8
	EndReason       EndReason
	LastAction      LastActionInfo
}

// ---------------------------------------------------------------------------
// Flags bitfield
// ---------------------------------------------------------------------------

const (
	FlagTerminal  uint16 = 1 << 0
	FlagClosed    uint16 = 1 << 1
	FlagExchanged uint16 = 1 << 2
)

func (g *GameState) IsTerminal() bool  { return g.Flags&FlagTerminal != 0 }
func (g *GameState) IsClosed() bool    { return g.Flags&FlagClosed != 0 }
func (g *GameState) IsExchanged() bool { return g.Flags&FlagExchanged != 0 }

// Phase describes which follow rules are in force.
type Phase uint8

const (
	PhaseOne Phase = iota // stock open with cards: free play
	PhaseTwo              // stock closed or exhausted: strict follow rules
)

func (p Phase) String() string {
	if p == PhaseOne {
		return "one"
	}
	return "two"
}

// Phase returns the current phase.
func (g *GameState) Phase() Phase {
	if g.IsClosed() || g.StockLen == 0 {
		return PhaseTwo
	}
	return PhaseOne
}

// ---------------------------------------------------------------------------
// NewLeg and Deal
// ---------------------------------------------------------------------------

// NewLeg shuffles a fresh deck with the given seed and deals a leg in which
// leader plays the first card. The same seed always yields the same deal.
func NewLeg(seed uint64, rules Rules, leader uint8) GameState {
	deck := NewDeck()
	Shuffle(&deck, rand.New(rand.NewPCG(seed, seed^0x5c4a9b5e1d3f7a21)))
	return NewLegFromDeck(deck, rules, leader)
}

// Shuffle performs a Fisher-Yates shuffle of deck using rng.
func Shuffle(deck *[NumCards]Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// NewLegFromDeck deals a leg from a fixed card order. The first ten cards are
// dealt alternately starting with the leader; deck[10] becomes the trump
// indicator at the bottom of the stock and deck[19] the top card.
func NewLegFromDeck(deck [NumCards]Card, rules Rules, leader uint8) GameState {
	var g GameState
	g.Rules = rules
	g.Leader = leader & 1
	g.Lead = EmptyCard
	g.Closer = -1
	g.Winner = -1
	g.LastTrickWinner = -1
	g.LastAction.Move = Move{Card: EmptyCard}

	for i := 0; i < 2*HandSize; i++ {
		p := (g.Leader + uint8(i)) & 1
		g.Players[p].Hand = g.Players[p].Hand.Add(deck[i])
	}
	for i := 0; i < StockSize; i++ {
		g.Stock[i] = deck[2*HandSize+i]
	}
	g.StockLen = StockSize
	g.TrumpSuit = g.Stock[0].Suit()
	return g
}

// NewDeck returns the 20 cards in canonical order.
func NewDeck() [NumCards]Card {
	var d [NumCards]Card
	for i := range d {
		d[i] = CardFromIndex(i)
	}
	return d
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// Follower returns the player who does not lead the current trick.
func (g *GameState) Follower() uint8 { return 1 - g.Leader }

// OpponentOf returns the player index of the opponent.
func OpponentOf(player uint8) uint8 { return 1 - player }

// ToMove returns the player who must act next.
func (g *GameState) ToMove() uint8 {
	if g.Lead == EmptyCard {
		return g.Leader
	}
	return g.Follower()
}

// TrumpCard returns the face-up trump indicator, or EmptyCard once drawn.
func (g *GameState) TrumpCard() Card {
	if g.StockLen == 0 {
		return EmptyCard
	}
	return g.Stock[0]
}

// StockCards returns the cards still in the stock, bottom first.
func (g *GameState) StockCards() []Card {
	out := make([]Card, g.StockLen)
	copy(out, g.Stock[:g.StockLen])
	return out
}

// Score returns the card points banked by player.
func (g *GameState) Score(player uint8) int { return int(g.Players[player].Points) }

// AllCardsPlayed reports whether both hands are exhausted with no trick in
// progress. Cards left in a closed stock are never played.
func (g *GameState) AllCardsPlayed() bool {
	return g.Players[0].Hand.Empty() && g.Players[1].Hand.Empty() && g.Lead == EmptyCard
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo support.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
