// service/match/match.go
package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/schnapsen/bots"
	engine "github.com/jason-s-yu/schnapsen/engine"
	"github.com/jason-s-yu/schnapsen/service/config"
)

var (
	// ErrMatchOver is returned by moves and steps once a player reached the target.
	ErrMatchOver = errors.New("match is over")
	// ErrHumanSeat is returned by Step when the seat to move has no strategy.
	ErrHumanSeat = errors.New("seat to move has no strategy")
	// ErrStaleTurn is returned by Step when the position changed while the bot
	// was thinking, e.g. because a move was submitted for the same seat.
	ErrStaleTurn = errors.New("position changed during the bot's turn")
)

// lateMoveGrace is how long a bot may still answer after its turn deadline.
// Search bots return their best move so far once their context is cancelled.
const lateMoveGrace = 100 * time.Millisecond

// OnLegEndFunc is called after a leg has been scored.
type OnLegEndFunc func(matchID uuid.UUID, rec LegRecord)

// DealFunc deals a leg. The default is engine.NewLeg.
type DealFunc func(seed uint64, rules engine.Rules, leader uint8) engine.GameState

// Seat is one side of the table.
type Seat struct {
	Name     string
	Strategy bots.Strategy // nil for a seat driven through Submit
}

// LegRecord is the scored result of a finished leg.
type LegRecord struct {
	ID         uuid.UUID        `json:"id"`
	Number     int              `json:"number"` // 1-based
	Leader     uint8            `json:"leader"`
	Winner     uint8            `json:"winner"`
	GamePoints uint8            `json:"gamePoints"`
	Reason     engine.EndReason `json:"reason"`
	Points     [2]uint8         `json:"points"` // card points at the end of the leg
	ForfeitBy  int8             `json:"forfeitBy"`
}

// leg is the leg in progress.
type leg struct {
	id     uuid.UUID
	number int
	leader uint8
	moves  int // moves applied so far
	state  engine.GameState
}

// Match runs a sequence of legs between two seats until one reaches the
// configured number of game points.
type Match struct {
	ID    uuid.UUID
	Seats [2]Seat

	cfg   config.Config
	log   *logrus.Entry
	seeds *rand.Rand

	mu         sync.Mutex
	started    bool
	gamePoints [2]int
	legs       []LegRecord
	cur        leg
	events     []Event
	over       bool
	winner     int8

	// Callbacks run with the match lock held and must not call back into the
	// Match. Set them before the first call that deals.
	OnEvent  func(ev Event)
	OnLegEnd OnLegEndFunc
	Deal     DealFunc
}

// New creates a match. The first leg is dealt lazily by the first call that
// needs it, so callbacks set right after New see every event. A nil logger
// uses the logrus standard logger.
func New(cfg config.Config, seats [2]Seat, logger *logrus.Logger) *Match {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	id := uuid.New()
	if err := cfg.Validate(); err != nil {
		logger.WithField("match", id.String()).WithError(err).Warn("match config invalid")
	}
	return &Match{
		ID:     id,
		Seats:  seats,
		cfg:    cfg,
		log:    logger.WithField("match", id.String()),
		seeds:  rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x6a09e667f3bcc908)),
		winner: -1,
	}
}

// Start deals the first leg. Calling it is optional.
func (m *Match) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStartedLocked()
}

// ---------------------------------------------------------------------------
// State queries
// ---------------------------------------------------------------------------

// View returns the redacted view of the current leg for player.
func (m *Match) View(player uint8) engine.PlayerView {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStartedLocked()
	return m.cur.state.View(player)
}

// LegalMoves returns the legal moves of the seat to move in the current leg.
// It is empty once the match is over.
func (m *Match) LegalMoves() []engine.Move {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStartedLocked()
	if m.over {
		return nil
	}
	return m.cur.state.LegalMoves(m.cur.state.ToMove())
}

// ToMove returns the seat to move in the current leg.
func (m *Match) ToMove() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStartedLocked()
	return m.cur.state.ToMove()
}

// LegOver reports whether the current leg has ended. Between legs a new leg
// is dealt immediately, so this is only true on the final leg of a match.
func (m *Match) LegOver() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStartedLocked()
	return m.cur.state.IsTerminal()
}

// Over reports whether the match has ended.
func (m *Match) Over() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.over
}

// Winner returns the winning seat once the match is over.
func (m *Match) Winner() (uint8, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.over {
		return 0, false
	}
	return uint8(m.winner), true
}

// Score returns the game points of both seats.
func (m *Match) Score() [2]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamePoints
}

// Legs returns the records of the finished legs.
func (m *Match) Legs() []LegRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LegRecord(nil), m.legs...)
}

// LegID returns the ID of the current leg.
func (m *Match) LegID() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStartedLocked()
	return m.cur.id
}

// Events returns a copy of the public event log.
func (m *Match) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// ---------------------------------------------------------------------------
// Moves
// ---------------------------------------------------------------------------

// Submit applies move for player. On NotYourTurnError or IllegalMoveError the
// state is unchanged and the player may try again.
func (m *Match) Submit(player uint8, move engine.Move) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStartedLocked()
	if m.over {
		return ErrMatchOver
	}
	return m.applyLocked(player, move)
}

// Step lets the bot at the seat to move make one move. The bot is asked under
// the configured turn timeout; an error, a timeout or an illegal answer
// forfeits the leg and the match carries on with the next one. Cancelling ctx
// returns ctx.Err() without touching the match.
func (m *Match) Step(ctx context.Context) error {
	m.mu.Lock()
	m.ensureStartedLocked()
	if m.over {
		m.mu.Unlock()
		return ErrMatchOver
	}
	p := m.cur.state.ToMove()
	st := m.Seats[p]
	if st.Strategy == nil {
		m.mu.Unlock()
		return fmt.Errorf("seat %d (%s): %w", p, st.Name, ErrHumanSeat)
	}
	view := m.cur.state.View(p)
	legal := append([]engine.Move(nil), view.Legal...)
	legID, moves := m.cur.id, m.cur.moves
	m.mu.Unlock()

	move, askErr := m.ask(ctx, st.Strategy, view, legal)
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.over || m.cur.id != legID || m.cur.moves != moves {
		return ErrStaleTurn
	}
	if askErr != nil {
		m.forfeitLocked(p, askErr)
		return nil
	}
	if err := m.applyLocked(p, move); err != nil {
		m.forfeitLocked(p, err)
	}
	return nil
}

// PlayLeg steps bots until the current leg has been scored and returns its
// record.
func (m *Match) PlayLeg(ctx context.Context) (LegRecord, error) {
	m.mu.Lock()
	m.ensureStartedLocked()
	over := m.over
	done := len(m.legs)
	m.mu.Unlock()
	if over {
		return LegRecord{}, ErrMatchOver
	}

	for {
		if err := m.Step(ctx); err != nil {
			return LegRecord{}, err
		}
		m.mu.Lock()
		if len(m.legs) > done {
			rec := m.legs[done]
			m.mu.Unlock()
			return rec, nil
		}
		m.mu.Unlock()
	}
}

// Play steps bots until the match is over and returns the final score.
func (m *Match) Play(ctx context.Context) ([2]int, error) {
	for !m.Over() {
		if _, err := m.PlayLeg(ctx); err != nil {
			return m.Score(), err
		}
	}
	return m.Score(), nil
}

// ask runs the strategy with the turn deadline applied.
func (m *Match) ask(ctx context.Context, s bots.Strategy, view engine.PlayerView, legal []engine.Move) (engine.Move, error) {
	if m.cfg.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.TurnTimeout)
		defer cancel()
	}

	type answer struct {
		move engine.Move
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		mv, err := s.SelectMove(ctx, view, legal, m.cfg.Budget)
		ch <- answer{mv, err}
	}()

	select {
	case a := <-ch:
		return a.move, a.err
	case <-ctx.Done():
	}
	select {
	case a := <-ch:
		return a.move, a.err
	case <-time.After(lateMoveGrace):
		return engine.Move{}, fmt.Errorf("%s gave no move within %s: %w", s.Name(), m.cfg.TurnTimeout, ctx.Err())
	}
}

// ---------------------------------------------------------------------------
// Leg lifecycle (lock held)
// ---------------------------------------------------------------------------

func (m *Match) ensureStartedLocked() {
	if m.started {
		return
	}
	m.started = true
	m.startLegLocked()
}

func (m *Match) startLegLocked() {
	number := len(m.legs) + 1
	leader := uint8(len(m.legs) % 2)
	deal := m.Deal
	if deal == nil {
		deal = engine.NewLeg
	}
	m.cur = leg{
		id:     uuid.New(),
		number: number,
		leader: leader,
		state:  deal(m.seeds.Uint64(), m.cfg.Rules, leader),
	}
	m.emitLocked(Event{
		Type:   EventLegStart,
		Player: seat(leader),
		Card:   toEventCard(m.cur.state.TrumpCard()),
		Payload: map[string]interface{}{
			"number": number,
			"trump":  suitCode(m.cur.state.TrumpSuit),
		},
	})
	m.legLog().WithField("leader", leader).Debug("leg dealt")
}

func (m *Match) applyLocked(player uint8, move engine.Move) error {
	if err := m.cur.state.Apply(player, move); err != nil {
		return err
	}
	m.cur.moves++
	last := m.cur.state.LastAction
	for _, ev := range actionEvents(last) {
		m.emitLocked(ev)
	}
	m.legLog().WithFields(logrus.Fields{"player": player, "move": move.String()}).Trace("move applied")

	if last.TrickComplete {
		for _, s := range m.Seats {
			if obs, ok := s.Strategy.(bots.TrickObserver); ok {
				obs.NotifyTrick(last.Trick)
			}
		}
	}
	if m.cur.state.IsTerminal() {
		m.finishLegLocked(-1)
	}
	return nil
}

// forfeitLocked ends the current leg against player.
func (m *Match) forfeitLocked(player uint8, cause error) {
	if err := m.cur.state.Forfeit(player); err != nil {
		m.legLog().WithError(err).Error("forfeit on a finished leg")
		return
	}
	m.legLog().WithFields(logrus.Fields{"player": player, "seat": m.Seats[player].Name}).
		WithError(cause).Warn("leg forfeited")
	m.emitLocked(Event{
		Type:    EventForfeit,
		Player:  seat(player),
		Payload: map[string]interface{}{"reason": cause.Error()},
	})
	m.finishLegLocked(int8(player))
}

func (m *Match) finishLegLocked(forfeitBy int8) {
	g := &m.cur.state
	winner := uint8(g.Winner)
	rec := LegRecord{
		ID:         m.cur.id,
		Number:     m.cur.number,
		Leader:     m.cur.leader,
		Winner:     winner,
		GamePoints: g.GamePoints,
		Reason:     g.EndReason,
		Points:     [2]uint8{g.Players[0].Points, g.Players[1].Points},
		ForfeitBy:  forfeitBy,
	}
	m.gamePoints[winner] += int(rec.GamePoints)
	m.legs = append(m.legs, rec)
	m.emitLocked(legEndEvent(g))

	m.legLog().WithFields(logrus.Fields{
		"winner":      winner,
		"game_points": rec.GamePoints,
		"reason":      rec.Reason.String(),
		"score":       fmt.Sprintf("%d-%d", m.gamePoints[0], m.gamePoints[1]),
	}).Info("leg finished")

	result := bots.LegResult{Winner: winner, GamePoints: rec.GamePoints, Reason: rec.Reason, Points: rec.Points}
	for _, s := range m.Seats {
		if obs, ok := s.Strategy.(bots.LegObserver); ok {
			obs.NotifyLegEnd(result)
		}
	}
	if m.OnLegEnd != nil {
		m.OnLegEnd(m.ID, rec)
	}

	if m.cfg.Rules.MatchWon(m.gamePoints[winner]) {
		m.over = true
		m.winner = int8(winner)
		m.emitLocked(Event{
			Type:    EventMatchEnd,
			Player:  seat(winner),
			Payload: map[string]interface{}{"score": []int{m.gamePoints[0], m.gamePoints[1]}, "legs": len(m.legs)},
		})
		m.log.WithFields(logrus.Fields{"winner": m.Seats[winner].Name, "legs": len(m.legs)}).Info("match finished")
		return
	}
	m.startLegLocked()
}

// emitLocked stamps ev, appends it to the log and hands it to OnEvent.
func (m *Match) emitLocked(ev Event) {
	ev.Seq = len(m.events)
	ev.MatchID = m.ID
	ev.LegID = m.cur.id
	ev.Time = time.Now()
	m.events = append(m.events, ev)
	if m.OnEvent != nil {
		m.OnEvent(ev)
	}
}

func (m *Match) legLog() *logrus.Entry {
	return m.log.WithFields(logrus.Fields{"leg": m.cur.id.String(), "leg_number": m.cur.number})
}
