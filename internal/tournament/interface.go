package tournament

import "time"

// Ledger defines the interface for interacting with the tournament's data.
type Ledger interface {
	AddPlayer(id, name, handle string) error
	RemovePlayer(id string) error
	GetPlayer(id string) (*Player, error)
	ListPlayers() ([]Player, error)
	Leaderboard(limit int) ([]Player, error)
	CountPlayers() (int, error)
	RecordMatch(player1ID, player2ID string, result MatchResult, p1Kills, p1Deaths, p2Kills, p2Deaths int) (*Match, error)
	ScheduleDuel(player1ID, player2ID string, at time.Time) (*Duel, error)
	PendingReminders(now time.Time) ([]Duel, error)
	MarkReminderSent(duelID string) error
	RecentMatches(limit int) ([]MatchSummary, error)
	Clear()
}
