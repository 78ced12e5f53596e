// service/match/sync_state.go
package match

import (
	"github.com/google/uuid"

	engine "github.com/jason-s-yu/schnapsen/engine"
)

// SyncMove is the wire form of a move.
type SyncMove struct {
	Kind string     `json:"kind"`
	Card *EventCard `json:"card,omitempty"`
}

// SyncSeat is one seat as seen by the requesting seat.
type SyncSeat struct {
	Name          string `json:"name"`
	GamePoints    int    `json:"gamePoints"`
	CardPoints    int    `json:"cardPoints"`
	Pending       int    `json:"pending"` // marriage credit not yet banked
	Tricks        int    `json:"tricks"`
	HandSize      int    `json:"handSize"`
	IsCurrentTurn bool   `json:"isCurrentTurn"`
	// Hand is populated only for the requesting seat.
	Hand []EventCard `json:"hand,omitempty"`
	// Known lists the opponent's cards that became public (marriage partners,
	// the exchanged trump indicator), populated only for the opponent seat.
	Known []EventCard `json:"known,omitempty"`
}

// SyncState is a JSON-friendly snapshot of a match for one seat, built from
// the seat's redacted view.
type SyncState struct {
	MatchID   uuid.UUID   `json:"matchId"`
	LegID     uuid.UUID   `json:"legId"`
	LegNumber int         `json:"legNumber"`
	MatchOver bool        `json:"matchOver"`
	LegOver   bool        `json:"legOver"`
	Phase     int         `json:"phase"`
	Trump     string      `json:"trump"`
	TrumpCard *EventCard  `json:"trumpCard,omitempty"`
	StockSize int         `json:"stockSize"`
	Closed    bool        `json:"closed"`
	Lead      *EventCard  `json:"lead,omitempty"`
	Seats     [2]SyncSeat `json:"seats"`
	Legal     []SyncMove  `json:"legal,omitempty"`
}

// SyncStateFor builds the snapshot for player.
func (m *Match) SyncStateFor(player uint8) SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStartedLocked()

	player &= 1
	v := m.cur.state.View(player)
	st := SyncState{
		MatchID:   m.ID,
		LegID:     m.cur.id,
		LegNumber: m.cur.number,
		MatchOver: m.over,
		LegOver:   v.Terminal,
		Phase:     int(v.Phase),
		Trump:     suitCode(v.TrumpSuit),
		TrumpCard: toEventCard(v.TrumpCard),
		StockSize: int(v.StockLen),
		Closed:    v.Closed,
		Lead:      toEventCard(v.Lead),
	}

	for p := uint8(0); p < 2; p++ {
		s := SyncSeat{
			Name:          m.Seats[p].Name,
			GamePoints:    m.gamePoints[p],
			CardPoints:    int(v.Points[p]),
			Pending:       int(v.Pending[p]),
			Tricks:        int(v.Tricks[p]),
			IsCurrentTurn: !v.Terminal && v.ToMove == p,
		}
		if p == player {
			s.HandSize = v.Hand.Len()
			s.Hand = eventCards(v.Hand)
		} else {
			s.HandSize = int(v.OpponentHandLen)
			s.Known = eventCards(v.OpponentKnown)
		}
		st.Seats[p] = s
	}

	if !m.over {
		for _, mv := range v.Legal {
			st.Legal = append(st.Legal, SyncMove{Kind: mv.Kind.String(), Card: toEventCard(mv.Card)})
		}
	}
	return st
}

func eventCards(s engine.CardSet) []EventCard {
	cards := s.Cards()
	out := make([]EventCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, *toEventCard(c))
	}
	return out
}
