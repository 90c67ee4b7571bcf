package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchResult_Valid(t *testing.T) {
	assert.True(t, ResultPlayer1Win.Valid())
	assert.True(t, ResultPlayer2Win.Valid())
	assert.True(t, ResultDraw.Valid())
	assert.False(t, MatchResult("player3_win").Valid())
	assert.False(t, MatchResult("").Valid())
}

func TestMatchResult_Outcome(t *testing.T) {
	o := ResultPlayer1Win.outcome()
	assert.Equal(t, outcome{p1Wins: 1, p1Points: 3, p2Losses: 1}, o)

	o = ResultPlayer2Win.outcome()
	assert.Equal(t, outcome{p1Losses: 1, p2Wins: 1, p2Points: 3}, o)

	o = ResultDraw.outcome()
	assert.Equal(t, outcome{p1Draws: 1, p1Points: 1, p2Draws: 1, p2Points: 1}, o)
}

func TestMatchResult_Winner(t *testing.T) {
	w := ResultPlayer1Win.Winner("A", "B")
	if assert.NotNil(t, w) {
		assert.Equal(t, "A", *w)
	}
	w = ResultPlayer2Win.Winner("A", "B")
	if assert.NotNil(t, w) {
		assert.Equal(t, "B", *w)
	}
	assert.Nil(t, ResultDraw.Winner("A", "B"))
}
