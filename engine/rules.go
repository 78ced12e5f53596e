package engine

// Rules holds configurable game rule settings.
type Rules struct {
	WinPoints             uint8 // card points that end a leg (66)
	MatchTarget           uint8 // game points that end a match
	ForfeitPoints         uint8 // game points awarded to the opponent of a forfeiting player
	MustHeadTrick         bool  // in phase two, the follower must beat the led card within the suit if possible
	AllowMarriagePhaseTwo bool  // marriages may be announced after the stock is closed or exhausted
}

// DefaultRules returns the standard Schnapsen rules.
func DefaultRules() Rules {
	return Rules{
		WinPoints:             66,
		MatchTarget:           7,
		ForfeitPoints:         3,
		MustHeadTrick:         false,
		AllowMarriagePhaseTwo: true,
	}
}

// winPoints returns the effective leg target, treating 0 as 66.
func (r *Rules) winPoints() int {
	if r.WinPoints == 0 {
		return 66
	}
	return int(r.WinPoints)
}

// forfeitPoints returns the effective forfeit award, treating 0 as 3.
func (r *Rules) forfeitPoints() uint8 {
	if r.ForfeitPoints == 0 {
		return 3
	}
	return r.ForfeitPoints
}

// matchTarget returns the effective match target, treating 0 as 7.
func (r *Rules) matchTarget() int {
	if r.MatchTarget == 0 {
		return 7
	}
	return int(r.MatchTarget)
}

// MatchWon reports whether a player holding gamePoints has won the match.
func (r *Rules) MatchWon(gamePoints int) bool {
	return gamePoints >= r.matchTarget()
}
