package agent

const (
	// MaxRejections bounds plain rejection sampling before Sample switches to
	// a constrained fill that never violates a proven void.
	MaxRejections = 64

	// MaxResamples bounds how many hypotheses Sample builds and checks with
	// Consistent before giving up on a view.
	MaxResamples = 8
)

// Slot identifies where an unseen card may sit in a hypothesis.
type Slot uint8

const (
	SlotOpponentHand Slot = iota // 0: opponent's hidden hand cards
	SlotStock                    // 1: face-down stock cards
)

func (s Slot) String() string {
	switch s {
	case SlotOpponentHand:
		return "opponent_hand"
	case SlotStock:
		return "stock"
	}
	return "unknown"
}
