package tournament

import (
	"sync"
	"time"
)

// MockLedger is a mock implementation of the Ledger interface for testing.
// It is safe for concurrent use.
type MockLedger struct {
	mu sync.Mutex

	// Spies for method calls
	AddPlayerFunc        func(id, name, handle string) error
	RemovePlayerFunc     func(id string) error
	GetPlayerFunc        func(id string) (*Player, error)
	ListPlayersFunc      func() ([]Player, error)
	LeaderboardFunc      func(limit int) ([]Player, error)
	CountPlayersFunc     func() (int, error)
	RecordMatchFunc      func(player1ID, player2ID string, result MatchResult, p1Kills, p1Deaths, p2Kills, p2Deaths int) (*Match, error)
	ScheduleDuelFunc     func(player1ID, player2ID string, at time.Time) (*Duel, error)
	PendingRemindersFunc func(now time.Time) ([]Duel, error)
	MarkReminderSentFunc func(duelID string) error
	RecentMatchesFunc    func(limit int) ([]MatchSummary, error)
	ClearFunc            func()

	// Call records
	AddPlayerCalls []struct {
		ID, Name, Handle string
	}
	RemovePlayerCalls []string
	RecordMatchCalls  []struct {
		Player1ID, Player2ID                 string
		Result                               MatchResult
		P1Kills, P1Deaths, P2Kills, P2Deaths int
	}
	ScheduleDuelCalls []struct {
		Player1ID, Player2ID string
		At                   time.Time
	}
	PendingRemindersCalls []time.Time
	MarkReminderSentCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockLedger {
	return &MockLedger{}
}

// Reset clears all call records.
func (m *MockLedger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.RemovePlayerCalls = nil
	m.RecordMatchCalls = nil
	m.ScheduleDuelCalls = nil
	m.PendingRemindersCalls = nil
	m.MarkReminderSentCalls = nil
}

func (m *MockLedger) AddPlayer(id, name, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, struct {
		ID, Name, Handle string
	}{id, name, handle})
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(id, name, handle)
	}
	return nil
}

func (m *MockLedger) RemovePlayer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemovePlayerCalls = append(m.RemovePlayerCalls, id)
	if m.RemovePlayerFunc != nil {
		return m.RemovePlayerFunc(id)
	}
	return nil
}

func (m *MockLedger) GetPlayer(id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockLedger) ListPlayers() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc()
	}
	return nil, nil
}

func (m *MockLedger) Leaderboard(limit int) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(limit)
	}
	return nil, nil
}

func (m *MockLedger) CountPlayers() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountPlayersFunc != nil {
		return m.CountPlayersFunc()
	}
	return 0, nil
}

func (m *MockLedger) RecordMatch(player1ID, player2ID string, result MatchResult, p1Kills, p1Deaths, p2Kills, p2Deaths int) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, struct {
		Player1ID, Player2ID                 string
		Result                               MatchResult
		P1Kills, P1Deaths, P2Kills, P2Deaths int
	}{player1ID, player2ID, result, p1Kills, p1Deaths, p2Kills, p2Deaths})
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(player1ID, player2ID, result, p1Kills, p1Deaths, p2Kills, p2Deaths)
	}
	return &Match{Player1ID: player1ID, Player2ID: player2ID}, nil
}

func (m *MockLedger) ScheduleDuel(player1ID, player2ID string, at time.Time) (*Duel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScheduleDuelCalls = append(m.ScheduleDuelCalls, struct {
		Player1ID, Player2ID string
		At                   time.Time
	}{player1ID, player2ID, at})
	if m.ScheduleDuelFunc != nil {
		return m.ScheduleDuelFunc(player1ID, player2ID, at)
	}
	return &Duel{Player1ID: player1ID, Player2ID: player2ID, ScheduledTime: at.UTC().Unix()}, nil
}

func (m *MockLedger) PendingReminders(now time.Time) ([]Duel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PendingRemindersCalls = append(m.PendingRemindersCalls, now)
	if m.PendingRemindersFunc != nil {
		return m.PendingRemindersFunc(now)
	}
	return nil, nil
}

func (m *MockLedger) MarkReminderSent(duelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkReminderSentCalls = append(m.MarkReminderSentCalls, duelID)
	if m.MarkReminderSentFunc != nil {
		return m.MarkReminderSentFunc(duelID)
	}
	return nil
}

func (m *MockLedger) RecentMatches(limit int) ([]MatchSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecentMatchesFunc != nil {
		return m.RecentMatchesFunc(limit)
	}
	return nil, nil
}

func (m *MockLedger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}
