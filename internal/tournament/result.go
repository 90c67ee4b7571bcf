package tournament

// MatchResult identifies the outcome of a submitted match, from player1's
// perspective.
type MatchResult string

const (
	ResultPlayer1Win MatchResult = "player1_win"
	ResultPlayer2Win MatchResult = "player2_win"
	ResultDraw       MatchResult = "draw"
)

const (
	winPoints  = 3
	drawPoints = 1
)

// Valid reports whether r is one of the recognized results.
func (r MatchResult) Valid() bool {
	switch r {
	case ResultPlayer1Win, ResultPlayer2Win, ResultDraw:
		return true
	}
	return false
}

// outcome holds the per-player record and point deltas for a result.
// Kills and deaths are accumulated unconditionally and are not part of it.
type outcome struct {
	p1Wins, p1Losses, p1Draws, p1Points int
	p2Wins, p2Losses, p2Draws, p2Points int
}

func (r MatchResult) outcome() outcome {
	switch r {
	case ResultPlayer1Win:
		return outcome{p1Wins: 1, p1Points: winPoints, p2Losses: 1}
	case ResultPlayer2Win:
		return outcome{p1Losses: 1, p2Wins: 1, p2Points: winPoints}
	default:
		return outcome{p1Draws: 1, p1Points: drawPoints, p2Draws: 1, p2Points: drawPoints}
	}
}

// Winner returns the winning player id, or nil for a draw.
func (r MatchResult) Winner(player1ID, player2ID string) *string {
	switch r {
	case ResultPlayer1Win:
		return &player1ID
	case ResultPlayer2Win:
		return &player2ID
	}
	return nil
}
