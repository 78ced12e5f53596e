package engine

import (
	"math/bits"
	"strings"
)

// Suit identifies one of the four suits.
type Suit uint8

// Suit constants: packed into upper 4 bits of Card.
const (
	SuitHearts   Suit = 0
	SuitDiamonds Suit = 1
	SuitClubs    Suit = 2
	SuitSpades   Suit = 3

	NumSuits = 4
)

// Rank identifies a card rank. Ranks are numbered in trick-taking order, so a
// higher Rank value always beats a lower one of the same suit.
type Rank uint8

// Rank constants: packed into lower 4 bits of Card.
const (
	RankJack  Rank = 0
	RankQueen Rank = 1
	RankKing  Rank = 2
	RankTen   Rank = 3
	RankAce   Rank = 4

	NumRanks = 5
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NumCards is the size of the Schnapsen deck.
const NumCards = NumSuits * NumRanks

// NewCard constructs a Card from suit and rank.
func NewCard(suit Suit, rank Rank) Card {
	return Card((uint8(suit) << 4) | (uint8(rank) & 0x0F))
}

// CardFromIndex is the inverse of Card.Index.
func CardFromIndex(i int) Card {
	return NewCard(Suit(i/NumRanks), Rank(i%NumRanks))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() Suit { return Suit(uint8(c) >> 4) }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() Rank { return Rank(uint8(c) & 0x0F) }

// Index maps the card to 0..19 (suit-major).
func (c Card) Index() int { return int(c.Suit())*NumRanks + int(c.Rank()) }

// Valid reports whether c is one of the 20 deck cards.
func (c Card) Valid() bool {
	return c != EmptyCard && c.Suit() < NumSuits && c.Rank() < NumRanks
}

// Points returns the card points collected when the card is won in a trick.
//   - Jack → 2
//   - Queen → 3
//   - King → 4
//   - Ten → 10
//   - Ace → 11
func (c Card) Points() int {
	switch c.Rank() {
	case RankJack:
		return 2
	case RankQueen:
		return 3
	case RankKing:
		return 4
	case RankTen:
		return 10
	case RankAce:
		return 11
	}
	// EmptyCard or malformed: return 0
	return 0
}

var suitSymbols = [NumSuits]string{"♥", "♦", "♣", "♠"}
var suitNames = [NumSuits]string{"hearts", "diamonds", "clubs", "spades"}
var rankSymbols = [NumRanks]string{"J", "Q", "K", "10", "A"}

func (s Suit) String() string {
	if s >= NumSuits {
		return "?"
	}
	return suitNames[s]
}

func (r Rank) String() string {
	if r >= NumRanks {
		return "?"
	}
	return rankSymbols[r]
}

func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return rankSymbols[c.Rank()] + suitSymbols[c.Suit()]
}

// ---------------------------------------------------------------------------
// CardSet
// ---------------------------------------------------------------------------

// CardSet is a bitset over the 20 cards, indexed by Card.Index.
type CardSet uint32

// FullDeck contains every card.
const FullDeck CardSet = 1<<NumCards - 1

// NewCardSet builds a set from the given cards.
func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s = s.Add(c)
	}
	return s
}

// SuitMask returns the set of all five cards of a suit.
func SuitMask(s Suit) CardSet {
	return CardSet(1<<NumRanks-1) << (uint(s) * NumRanks)
}

func (s CardSet) Add(c Card) CardSet          { return s | 1<<uint(c.Index()) }
func (s CardSet) Remove(c Card) CardSet       { return s &^ (1 << uint(c.Index())) }
func (s CardSet) Has(c Card) bool             { return c.Valid() && s&(1<<uint(c.Index())) != 0 }
func (s CardSet) Len() int                    { return bits.OnesCount32(uint32(s)) }
func (s CardSet) Empty() bool                 { return s == 0 }
func (s CardSet) Union(o CardSet) CardSet     { return s | o }
func (s CardSet) Intersect(o CardSet) CardSet { return s & o }
func (s CardSet) Minus(o CardSet) CardSet     { return s &^ o }

// OfSuit returns the subset of cards of the given suit.
func (s CardSet) OfSuit(suit Suit) CardSet { return s & SuitMask(suit) }

// HasSuit reports whether any card of suit is in the set.
func (s CardSet) HasSuit(suit Suit) bool { return s.OfSuit(suit) != 0 }

// Cards returns the members in ascending index order.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, s.Len())
	for v := uint32(s); v != 0; v &= v - 1 {
		out = append(out, CardFromIndex(bits.TrailingZeros32(v)))
	}
	return out
}

func (s CardSet) String() string {
	cards := s.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ---------------------------------------------------------------------------
// Moves
// ---------------------------------------------------------------------------

// MoveKind distinguishes the four kinds of action a player can take.
type MoveKind uint8

const (
	MovePlay          MoveKind = iota // 0: play a card to the trick
	MoveMarriage                      // 1: announce K+Q and lead one of them
	MoveTrumpExchange                 // 2: swap the trump Jack for the indicator
	MoveCloseStock                    // 3: close the stock before leading
)

func (k MoveKind) String() string {
	switch k {
	case MovePlay:
		return "play"
	case MoveMarriage:
		return "marriage"
	case MoveTrumpExchange:
		return "trump_exchange"
	case MoveCloseStock:
		return "close_stock"
	}
	return "unknown"
}

// Move is a player action. For MovePlay and MoveMarriage, Card is the card put
// on the table; for MoveTrumpExchange it is the trump Jack; for MoveCloseStock
// it is EmptyCard.
type Move struct {
	Kind MoveKind
	Card Card
}

// Play returns a regular card play.
func Play(c Card) Move { return Move{Kind: MovePlay, Card: c} }

// Marriage returns a marriage announcement leading c (a King or Queen).
func Marriage(c Card) Move { return Move{Kind: MoveMarriage, Card: c} }

// TrumpExchange returns a trump exchange giving up jack.
func TrumpExchange(jack Card) Move { return Move{Kind: MoveTrumpExchange, Card: jack} }

// CloseStock returns the close-the-stock action.
func CloseStock() Move { return Move{Kind: MoveCloseStock, Card: EmptyCard} }

// PutsCard reports whether the move places a card on the table.
func (m Move) PutsCard() bool { return m.Kind == MovePlay || m.Kind == MoveMarriage }

// Partner returns the other card of a marriage (EmptyCard for other kinds).
func (m Move) Partner() Card {
	if m.Kind != MoveMarriage {
		return EmptyCard
	}
	if m.Card.Rank() == RankKing {
		return NewCard(m.Card.Suit(), RankQueen)
	}
	return NewCard(m.Card.Suit(), RankKing)
}

func (m Move) String() string {
	switch m.Kind {
	case MovePlay:
		return m.Card.String()
	case MoveMarriage:
		return "marriage(" + m.Card.String() + "+" + m.Partner().String() + ")"
	case MoveTrumpExchange:
		return "exchange(" + m.Card.String() + ")"
	case MoveCloseStock:
		return "close"
	}
	return "?"
}
