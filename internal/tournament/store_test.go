package tournament_test

import (
	"testing"
	"time"

	"github.com/duellords/duel-lords/internal/database"
	"github.com/duellords/duel-lords/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (tournament.Ledger, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return tournament.New(db), dbTeardown
}

func TestAddPlayer(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("U1", "Alpha", "alpha"))

	t.Run("duplicate registration fails", func(t *testing.T) {
		err := ledger.AddPlayer("U1", "Alpha Again", "alpha2")
		assert.ErrorIs(t, err, tournament.ErrAlreadyExists)
	})

	t.Run("counters start at zero", func(t *testing.T) {
		p, err := ledger.GetPlayer("U1")
		require.NoError(t, err)
		assert.Equal(t, "Alpha", p.Name)
		assert.Equal(t, "alpha", p.Handle)
		assert.Zero(t, p.Wins)
		assert.Zero(t, p.Losses)
		assert.Zero(t, p.Draws)
		assert.Zero(t, p.Kills)
		assert.Zero(t, p.Deaths)
		assert.Zero(t, p.Points)
	})
}

func TestRemovePlayer(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("U1", "Alpha", "alpha"))

	t.Run("unknown id reports not found", func(t *testing.T) {
		assert.ErrorIs(t, ledger.RemovePlayer("U404"), tournament.ErrNotFound)
	})

	t.Run("removes an existing player", func(t *testing.T) {
		require.NoError(t, ledger.RemovePlayer("U1"))
		_, err := ledger.GetPlayer("U1")
		assert.ErrorIs(t, err, tournament.ErrNotFound)
	})
}

func TestGetPlayer_NotFound(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	_, err := ledger.GetPlayer("U404")
	assert.ErrorIs(t, err, tournament.ErrNotFound)
}

func TestListPlayers_RegistrationOrder(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("U1", "Alpha", "alpha"))
	require.NoError(t, ledger.AddPlayer("U2", "Bravo", "bravo"))
	require.NoError(t, ledger.AddPlayer("U3", "Charlie", "charlie"))

	players, err := ledger.ListPlayers()
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "U1", players[0].ID)
	assert.Equal(t, "U2", players[1].ID)
	assert.Equal(t, "U3", players[2].ID)

	count, err := ledger.CountPlayers()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRecordMatch_Player1Win(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("A", "Alpha", "alpha"))
	require.NoError(t, ledger.AddPlayer("B", "Bravo", "bravo"))

	match, err := ledger.RecordMatch("A", "B", tournament.ResultPlayer1Win, 5, 2, 1, 4)
	require.NoError(t, err)
	require.NotNil(t, match.WinnerID)
	assert.Equal(t, "A", *match.WinnerID)

	a, err := ledger.GetPlayer("A")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 3, a.Points)
	assert.Equal(t, 5, a.Kills)
	assert.Equal(t, 2, a.Deaths)
	assert.Zero(t, a.Losses)

	b, err := ledger.GetPlayer("B")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Losses)
	assert.Zero(t, b.Points)
	assert.Equal(t, 1, b.Kills)
	assert.Equal(t, 4, b.Deaths)

	matches, err := ledger.RecentMatches(10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].WinnerName)
	assert.Equal(t, "Alpha", *matches[0].WinnerName)
}

func TestRecordMatch_PointConservation(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("A", "Alpha", "alpha"))
	require.NoError(t, ledger.AddPlayer("B", "Bravo", "bravo"))

	totalPoints := func() int {
		a, err := ledger.GetPlayer("A")
		require.NoError(t, err)
		b, err := ledger.GetPlayer("B")
		require.NoError(t, err)
		return a.Points + b.Points
	}

	_, err := ledger.RecordMatch("A", "B", tournament.ResultPlayer1Win, 0, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, totalPoints(), "a decisive result awards exactly 3 points in total")

	_, err = ledger.RecordMatch("A", "B", tournament.ResultPlayer2Win, 0, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, totalPoints())

	_, err = ledger.RecordMatch("A", "B", tournament.ResultDraw, 0, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, totalPoints(), "a draw awards exactly 2 points in total")

	matches, err := ledger.RecentMatches(10)
	require.NoError(t, err)
	assert.Len(t, matches, 3, "exactly one match row is appended per submission")
	assert.Nil(t, matches[0].WinnerID, "a draw has no winner")
}

func TestRecordMatch_UnknownPlayerMutatesNothing(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("A", "Alpha", "alpha"))

	_, err := ledger.RecordMatch("A", "GHOST", tournament.ResultPlayer1Win, 5, 2, 1, 4)
	assert.ErrorIs(t, err, tournament.ErrUnknownPlayer)

	a, err := ledger.GetPlayer("A")
	require.NoError(t, err)
	assert.Zero(t, a.Wins)
	assert.Zero(t, a.Points)
	assert.Zero(t, a.Kills)

	matches, err := ledger.RecentMatches(10)
	require.NoError(t, err)
	assert.Empty(t, matches, "no match row is appended on failure")
}

func TestRecordMatch_InvalidResultMutatesNothing(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("A", "Alpha", "alpha"))
	require.NoError(t, ledger.AddPlayer("B", "Bravo", "bravo"))

	_, err := ledger.RecordMatch("A", "B", tournament.MatchResult("alpha_wins"), 5, 2, 1, 4)
	assert.ErrorIs(t, err, tournament.ErrInvalidResult)

	a, err := ledger.GetPlayer("A")
	require.NoError(t, err)
	assert.Zero(t, a.Draws, "a bad result must not fall back to a draw")
	assert.Zero(t, a.Points)
	assert.Zero(t, a.Kills)

	matches, err := ledger.RecentMatches(10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestLeaderboard_Ordering(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("A", "Alpha", "alpha"))
	require.NoError(t, ledger.AddPlayer("B", "Bravo", "bravo"))
	require.NoError(t, ledger.AddPlayer("C", "Charlie", "charlie"))

	// A: 2 wins. B: 1 win, 1 draw. C: the rest.
	_, err := ledger.RecordMatch("A", "C", tournament.ResultPlayer1Win, 3, 0, 0, 3)
	require.NoError(t, err)
	_, err = ledger.RecordMatch("A", "B", tournament.ResultPlayer1Win, 2, 1, 1, 2)
	require.NoError(t, err)
	_, err = ledger.RecordMatch("B", "C", tournament.ResultPlayer1Win, 4, 0, 0, 4)
	require.NoError(t, err)
	_, err = ledger.RecordMatch("B", "C", tournament.ResultDraw, 1, 1, 1, 1)
	require.NoError(t, err)

	board, err := ledger.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "A", board[0].ID)
	assert.Equal(t, "B", board[1].ID)
	assert.Equal(t, "C", board[2].ID)
	for i := 1; i < len(board); i++ {
		prev, cur := board[i-1], board[i]
		ordered := prev.Points > cur.Points ||
			(prev.Points == cur.Points && prev.Wins > cur.Wins) ||
			(prev.Points == cur.Points && prev.Wins == cur.Wins && prev.Kills >= cur.Kills)
		assert.True(t, ordered, "leaderboard must be non-increasing by (points, wins, kills)")
	}

	t.Run("respects the limit", func(t *testing.T) {
		board, err := ledger.Leaderboard(2)
		require.NoError(t, err)
		assert.Len(t, board, 2)
	})
}

func TestScheduleDuel_RequiresRegisteredPlayers(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("A", "Alpha", "alpha"))

	_, err := ledger.ScheduleDuel("A", "GHOST", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, tournament.ErrUnknownPlayer)

	require.NoError(t, ledger.AddPlayer("B", "Bravo", "bravo"))
	duel, err := ledger.ScheduleDuel("A", "B", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, duel.ID)
	assert.False(t, duel.ReminderSent)
	assert.False(t, duel.Completed)
}

func TestPendingReminders_Window(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("A", "Alpha", "alpha"))
	require.NoError(t, ledger.AddPlayer("B", "Bravo", "bravo"))

	now := time.Now().UTC().Truncate(time.Second)
	inWindow, err := ledger.ScheduleDuel("A", "B", now.Add(3*time.Minute))
	require.NoError(t, err)
	outOfWindow, err := ledger.ScheduleDuel("A", "B", now.Add(2*time.Hour))
	require.NoError(t, err)

	due, err := ledger.PendingReminders(now)
	require.NoError(t, err)
	require.Len(t, due, 1, "only the duel inside the 5 minute window is due")
	assert.Equal(t, inWindow.ID, due[0].ID)

	t.Run("reappears until marked sent", func(t *testing.T) {
		due, err := ledger.PendingReminders(now)
		require.NoError(t, err)
		assert.Len(t, due, 1)
	})

	t.Run("excluded after marking sent", func(t *testing.T) {
		require.NoError(t, ledger.MarkReminderSent(inWindow.ID))
		due, err := ledger.PendingReminders(now)
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("marking sent is idempotent", func(t *testing.T) {
		require.NoError(t, ledger.MarkReminderSent(inWindow.ID))
	})

	t.Run("far duel becomes due once the window is reached", func(t *testing.T) {
		later := now.Add(2*time.Hour - time.Minute)
		due, err := ledger.PendingReminders(later)
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, outOfWindow.ID, due[0].ID)
	})

	t.Run("a duel at exactly now is no longer due", func(t *testing.T) {
		due, err := ledger.PendingReminders(now.Add(2 * time.Hour))
		require.NoError(t, err)
		assert.Empty(t, due, "window is (scheduled-5m, scheduled], exclusive at the end")
	})
}

func TestRecentMatches_RemovedPlayerLeavesNilName(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("A", "Alpha", "alpha"))
	require.NoError(t, ledger.AddPlayer("B", "Bravo", "bravo"))
	_, err := ledger.RecordMatch("A", "B", tournament.ResultPlayer2Win, 1, 3, 3, 1)
	require.NoError(t, err)

	require.NoError(t, ledger.RemovePlayer("B"))

	matches, err := ledger.RecentMatches(10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].Player1Name)
	assert.Equal(t, "Alpha", *matches[0].Player1Name)
	assert.Nil(t, matches[0].Player2Name, "removed player resolves to a nil name, not an error")
	assert.Nil(t, matches[0].WinnerName)
	require.NotNil(t, matches[0].WinnerID)
	assert.Equal(t, "B", *matches[0].WinnerID, "the historical reference itself is kept")
}

func TestClear(t *testing.T) {
	ledger, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, ledger.AddPlayer("A", "Alpha", "alpha"))
	ledger.Clear()

	count, err := ledger.CountPlayers()
	require.NoError(t, err)
	assert.Zero(t, count)
}
