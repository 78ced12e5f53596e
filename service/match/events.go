// service/match/events.go
package match

import (
	"time"

	"github.com/google/uuid"

	engine "github.com/jason-s-yu/schnapsen/engine"
)

// EventType names a public match event.
type EventType string

// Event types, in the order they can occur within a leg.
const (
	EventLegStart      EventType = "leg_start"      // New leg dealt; payload carries leader and trump card.
	EventTrumpExchange EventType = "trump_exchange" // Card is the jack, Card2 the indicator taken.
	EventStockClosed   EventType = "stock_closed"
	EventMarriage      EventType = "marriage" // Card is led, Card2 is the partner shown.
	EventCardPlayed    EventType = "card_played"
	EventTrickWon      EventType = "trick_won" // Card is the lead, Card2 the follow.
	EventForfeit       EventType = "forfeit"
	EventLegEnd        EventType = "leg_end"
	EventMatchEnd      EventType = "match_end"
)

// EventCard is the wire form of a card.
type EventCard struct {
	Rank   string `json:"rank"`
	Suit   string `json:"suit"`
	Points int    `json:"points"`
}

// Event is one entry of a match's public log. It never carries information
// hidden from either player.
type Event struct {
	Type    EventType  `json:"type"`
	Seq     int        `json:"seq"` // Position in the match log, starting at 0.
	MatchID uuid.UUID  `json:"matchId"`
	LegID   uuid.UUID  `json:"legId"`
	Player  *int       `json:"player,omitempty"` // Seat acting or affected, if any.
	Card    *EventCard `json:"card,omitempty"`
	Card2   *EventCard `json:"card2,omitempty"`
	Time    time.Time  `json:"time"`

	Payload map[string]interface{} `json:"payload,omitempty"`
}

// rankCode converts an engine rank to its one-letter wire form.
func rankCode(r engine.Rank) string {
	switch r {
	case engine.RankJack:
		return "J"
	case engine.RankQueen:
		return "Q"
	case engine.RankKing:
		return "K"
	case engine.RankTen:
		return "T"
	case engine.RankAce:
		return "A"
	default:
		return "?"
	}
}

// suitCode converts an engine suit to its one-letter wire form.
func suitCode(s engine.Suit) string {
	switch s {
	case engine.SuitHearts:
		return "H"
	case engine.SuitDiamonds:
		return "D"
	case engine.SuitClubs:
		return "C"
	case engine.SuitSpades:
		return "S"
	default:
		return "?"
	}
}

// toEventCard returns nil for EmptyCard.
func toEventCard(c engine.Card) *EventCard {
	if !c.Valid() {
		return nil
	}
	return &EventCard{Rank: rankCode(c.Rank()), Suit: suitCode(c.Suit()), Points: c.Points()}
}

func seat(p uint8) *int {
	i := int(p)
	return &i
}

// actionEvents translates the engine's record of the last applied move into
// public events. A marriage yields both a marriage and a card_played event; a
// move completing a trick is followed by trick_won.
func actionEvents(last engine.LastActionInfo) []Event {
	var out []Event
	m := last.Move
	switch m.Kind {
	case engine.MoveCloseStock:
		out = append(out, Event{Type: EventStockClosed, Player: seat(last.Player)})
	case engine.MoveTrumpExchange:
		out = append(out, Event{
			Type:   EventTrumpExchange,
			Player: seat(last.Player),
			Card:   toEventCard(m.Card),
			Card2:  toEventCard(last.OldTrump),
		})
	case engine.MoveMarriage:
		out = append(out, Event{
			Type:    EventMarriage,
			Player:  seat(last.Player),
			Card:    toEventCard(m.Card),
			Card2:   toEventCard(m.Partner()),
			Payload: map[string]interface{}{"value": last.MarriageValue},
		})
		fallthrough
	case engine.MovePlay:
		out = append(out, Event{Type: EventCardPlayed, Player: seat(last.Player), Card: toEventCard(m.Card)})
	}

	if last.TrickComplete {
		t := last.Trick
		out = append(out, Event{
			Type:   EventTrickWon,
			Player: seat(t.Winner),
			Card:   toEventCard(t.Lead),
			Card2:  toEventCard(t.Follow),
			Payload: map[string]interface{}{
				"leader":   t.Leader,
				"points":   t.Points,
				"redeemed": t.Redeemed,
			},
		})
	}
	return out
}

// legEndEvent summarises a terminal leg.
func legEndEvent(g *engine.GameState) Event {
	return Event{
		Type:   EventLegEnd,
		Player: seat(uint8(g.Winner)),
		Payload: map[string]interface{}{
			"gamePoints": g.GamePoints,
			"reason":     g.EndReason.String(),
			"points":     []int{g.Score(0), g.Score(1)},
		},
	}
}
