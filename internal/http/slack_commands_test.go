package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duellords/duel-lords/internal/notifier"
	"github.com/duellords/duel-lords/internal/pubsub"
	"github.com/duellords/duel-lords/internal/tournament"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMentions(t *testing.T) {
	mentions, rest := parseMentions("<@U123|alice> <@U456|bob> player1 5 2 2 5")
	require.Len(t, mentions, 2)
	assert.Equal(t, mention{ID: "U123", Handle: "alice"}, mentions[0])
	assert.Equal(t, mention{ID: "U456", Handle: "bob"}, mentions[1])
	assert.Equal(t, "player1 5 2 2 5", rest)
}

func TestParseMentions_HandleOptional(t *testing.T) {
	mentions, rest := parseMentions("<@U123> The Duke")
	require.Len(t, mentions, 1)
	assert.Equal(t, mention{ID: "U123"}, mentions[0])
	assert.Equal(t, "The Duke", rest)
}

func TestRegisterCommand(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req := slashCommandRequest(t, "/slack/command/register", testAdminID, "<@U123|alice> Alice the Swift")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeTextResponse(t, rr), "Alice the Swift")

	player, err := server.Store.GetPlayer("U123")
	require.NoError(t, err)
	assert.Equal(t, "Alice the Swift", player.Name)
	assert.Equal(t, "alice", player.Handle)
}

func TestRegisterCommand_NameDefaultsToHandle(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req := slashCommandRequest(t, "/slack/command/register", testAdminID, "<@U123|alice>")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	player, err := server.Store.GetPlayer("U123")
	require.NoError(t, err)
	assert.Equal(t, "alice", player.Name)
}

func TestRegisterCommand_DuplicateRejected(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	registerPlayer(t, server, "U123", "Alice", "alice")

	req := slashCommandRequest(t, "/slack/command/register", testAdminID, "<@U123|alice> Alice")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeTextResponse(t, rr), "already registered")
}

func TestRegisterCommand_NonAdminRejected(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req := slashCommandRequest(t, "/slack/command/register", "UNOBODY", "<@U123|alice> Alice")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeTextResponse(t, rr), "admins")
	_, err := server.Store.GetPlayer("U123")
	assert.ErrorIs(t, err, tournament.ErrNotFound)
}

func TestRemovePlayerCommand(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	registerPlayer(t, server, "U123", "Alice", "alice")

	req := slashCommandRequest(t, "/slack/command/remove-player", testAdminID, "<@U123|alice>")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	_, err := server.Store.GetPlayer("U123")
	assert.ErrorIs(t, err, tournament.ErrNotFound)
}

func TestPlayerStatsCommand_DefaultsToInvokingUser(t *testing.T) {
	notif := notifier.NewMock()
	notif.FormatPlayerStatsResponseFunc = func(player *tournament.Player) (any, error) {
		assert.Equal(t, "U123", player.ID)
		return slack.NewBlockMessage(), nil
	}
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()
	registerPlayer(t, server, "U123", "Alice", "alice")

	req := slashCommandRequest(t, "/slack/command/stats", "U123", "")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, notif.FormatPlayerStatsResponseCalls, 1)
}

func TestPlayerStatsCommand_UnknownPlayerGetsNotFoundResponse(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	req := slashCommandRequest(t, "/slack/command/stats", "U999", "<@U123|alice>")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"alice"}, notif.FormatPlayerNotFoundResponseCalls)
}

func TestUpdateStatsCommand_RecordsAndPublishes(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	registerPlayer(t, server, "U1", "Alice", "alice")
	registerPlayer(t, server, "U2", "Bob", "bob")

	req := slashCommandRequest(t, "/slack/command/update-stats", testAdminID, "<@U1|alice> <@U2|bob> player1 5 2 2 5")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	alice, err := server.Store.GetPlayer("U1")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.Wins)
	assert.Equal(t, 3, alice.Points)
	assert.Equal(t, 5, alice.Kills)

	require.Len(t, ps.SendMessageCalls, 1)
	assert.Equal(t, pubsub.EventNotifyResult, ps.SendMessageCalls[0].Topic)
	summary, ok := ps.SendMessageCalls[0].Data.(tournament.MatchSummary)
	require.True(t, ok)
	require.NotNil(t, summary.WinnerName)
	assert.Equal(t, "Alice", *summary.WinnerName)
}

func TestUpdateStatsCommand_UnknownPlayerLeavesLedgerUntouched(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	registerPlayer(t, server, "U1", "Alice", "alice")

	req := slashCommandRequest(t, "/slack/command/update-stats", testAdminID, "<@U1|alice> <@U9|ghost> player1 5 2 2 5")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeTextResponse(t, rr), "registered")

	alice, err := server.Store.GetPlayer("U1")
	require.NoError(t, err)
	assert.Zero(t, alice.Wins)
	assert.Empty(t, ps.SendMessageCalls)
}

func TestUpdateStatsCommand_MalformedInput(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	cases := []struct {
		name string
		text string
	}{
		{"missing mention", "<@U1|alice> player1 5 2 2 5"},
		{"bad result token", "<@U1|alice> <@U2|bob> alice 5 2 2 5"},
		{"negative kills", "<@U1|alice> <@U2|bob> player1 -1 2 2 5"},
		{"missing counts", "<@U1|alice> <@U2|bob> draw 5 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := slashCommandRequest(t, "/slack/command/update-stats", testAdminID, tc.text)
			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, req)
			require.Equal(t, http.StatusOK, rr.Code)
			assert.NotEmpty(t, decodeTextResponse(t, rr))
		})
	}
}

func TestLeaderboardCommand(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()
	registerPlayer(t, server, "U1", "Alice", "alice")

	req := slashCommandRequest(t, "/slack/command/leaderboard", "U1", "")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, notif.FormatLeaderboardResponseCalls, 1)
	assert.Len(t, notif.FormatLeaderboardResponseCalls[0], 1)

	var msg slack.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
}

func TestDuelCommand_SchedulesAndPublishes(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	registerPlayer(t, server, "U1", "Alice", "alice")
	registerPlayer(t, server, "U2", "Bob", "bob")

	// A day/hour/minute that is always resolvable: tomorrow if possible,
	// otherwise the same day next month.
	tomorrow := time.Now().UTC().Add(24 * time.Hour)
	text := fmt.Sprintf("<@U1|alice> <@U2|bob> %d %d %d", tomorrow.Day(), 12, 0)

	req := slashCommandRequest(t, "/slack/command/duel", testAdminID, text)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeTextResponse(t, rr), "Duel scheduled")

	require.Len(t, ps.SendMessageCalls, 1)
	assert.Equal(t, pubsub.EventDuelScheduled, ps.SendMessageCalls[0].Topic)
	duel, ok := ps.SendMessageCalls[0].Data.(*tournament.Duel)
	require.True(t, ok)
	assert.Equal(t, "U1", duel.Player1ID)
	assert.Equal(t, "U2", duel.Player2ID)
}

func TestDuelCommand_RejectsSelfDuel(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	registerPlayer(t, server, "U1", "Alice", "alice")

	req := slashCommandRequest(t, "/slack/command/duel", testAdminID, "<@U1|alice> <@U1|alice> 15 18 0")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeTextResponse(t, rr), "two different players")
	assert.Empty(t, ps.SendMessageCalls)
}

func TestServerAddressCommand(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req := slashCommandRequest(t, "/slack/command/ip", "UANYONE", "")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeTextResponse(t, rr), "18.228.228.44:3827")
}

func TestDuelCommand_InvalidDayRejected(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()
	registerPlayer(t, server, "U1", "Alice", "alice")
	registerPlayer(t, server, "U2", "Bob", "bob")

	req := slashCommandRequest(t, "/slack/command/duel", testAdminID, "<@U1|alice> <@U2|bob> 42 18 0")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeTextResponse(t, rr), "not a valid duel time")
}
