package notifier

import (
	"sync"

	"github.com/duellords/duel-lords/internal/tournament"
	"github.com/slack-go/slack"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for send functions
	SendDuelScheduledFunc func(duel *tournament.Duel, dryRun bool) error
	SendDuelReminderFunc  func(duel *tournament.Duel, dryRun bool) error
	SendMatchResultFunc   func(match *tournament.MatchSummary, dryRun bool) error

	// Spies for format functions
	FormatLeaderboardResponseFunc    func(players []tournament.Player) (any, error)
	FormatPlayersResponseFunc        func(players []tournament.Player) (any, error)
	FormatPlayerStatsResponseFunc    func(player *tournament.Player) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Call records
	SendDuelScheduledCalls            []*tournament.Duel
	SendDuelReminderCalls             []*tournament.Duel
	SendMatchResultCalls              []*tournament.MatchSummary
	FormatLeaderboardResponseCalls    [][]tournament.Player
	FormatPlayersResponseCalls        [][]tournament.Player
	FormatPlayerStatsResponseCalls    []*tournament.Player
	FormatPlayerNotFoundResponseCalls []string
}

// NewMock creates a new mock instance. The format functions default to an
// empty Block Kit message so handlers that cast to slack.Message succeed.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendDuelScheduledCalls = nil
	m.SendDuelReminderCalls = nil
	m.SendMatchResultCalls = nil
	m.FormatLeaderboardResponseCalls = nil
	m.FormatPlayersResponseCalls = nil
	m.FormatPlayerStatsResponseCalls = nil
	m.FormatPlayerNotFoundResponseCalls = nil
}

func (m *Mock) SendDuelScheduled(duel *tournament.Duel, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendDuelScheduledCalls = append(m.SendDuelScheduledCalls, duel)
	if m.SendDuelScheduledFunc != nil {
		return m.SendDuelScheduledFunc(duel, dryRun)
	}
	return nil
}

func (m *Mock) SendDuelReminder(duel *tournament.Duel, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendDuelReminderCalls = append(m.SendDuelReminderCalls, duel)
	if m.SendDuelReminderFunc != nil {
		return m.SendDuelReminderFunc(duel, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchResult(match *tournament.MatchSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, match)
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(players []tournament.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatLeaderboardResponseCalls = append(m.FormatLeaderboardResponseCalls, players)
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(players)
	}
	return slack.NewBlockMessage(), nil
}

func (m *Mock) FormatPlayersResponse(players []tournament.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayersResponseCalls = append(m.FormatPlayersResponseCalls, players)
	if m.FormatPlayersResponseFunc != nil {
		return m.FormatPlayersResponseFunc(players)
	}
	return slack.NewBlockMessage(), nil
}

func (m *Mock) FormatPlayerStatsResponse(player *tournament.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerStatsResponseCalls = append(m.FormatPlayerStatsResponseCalls, player)
	if m.FormatPlayerStatsResponseFunc != nil {
		return m.FormatPlayerStatsResponseFunc(player)
	}
	return slack.NewBlockMessage(), nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerNotFoundResponseCalls = append(m.FormatPlayerNotFoundResponseCalls, query)
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return slack.NewBlockMessage(), nil
}
