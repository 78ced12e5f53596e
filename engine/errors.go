package engine

import (
	"errors"
	"fmt"
)

// ErrLegOver is wrapped by IllegalMoveError when a move is submitted after the
// leg has ended.
var ErrLegOver = errors.New("leg already over")

// IllegalMoveError reports a move that is not in LegalMoves for the player.
type IllegalMoveError struct {
	Player uint8
	Move   Move
	Reason string
	Err    error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s by player %d: %s", e.Move, e.Player, e.Reason)
}

func (e *IllegalMoveError) Unwrap() error { return e.Err }

// NotYourTurnError reports a move addressed by a player who is not to move.
type NotYourTurnError struct {
	Player uint8
	ToMove uint8
}

func (e *NotYourTurnError) Error() string {
	return fmt.Sprintf("player %d tried to move, but it is player %d's turn", e.Player, e.ToMove)
}

// InvalidTrickError reports a malformed trick handed to the resolver. It always
// indicates an internal defect.
type InvalidTrickError struct {
	Reason string
}

func (e *InvalidTrickError) Error() string { return "invalid trick: " + e.Reason }
