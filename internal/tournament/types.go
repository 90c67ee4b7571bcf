package tournament

import (
	"database/sql"
	"errors"
	"sync"
)

// store handles all database operations for the tournament ledger.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Sentinel errors returned at the ledger boundary. Handlers translate these
// into user-facing messages; nothing else escapes the store.
var (
	// ErrAlreadyExists is returned when registering an id that is already taken.
	ErrAlreadyExists = errors.New("player already registered")
	// ErrNotFound is returned when a referenced player or duel does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownPlayer is returned when a match or duel references an
	// unregistered player id.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrInvalidResult is returned when a match result is not one of the
	// recognized outcomes.
	ErrInvalidResult = errors.New("invalid match result")
)

// Player is a registered tournament participant. The ID is the external
// platform user id; points are derived additively from recorded matches and
// are never written independently.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"player_name"`
	Handle    string `json:"handle"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Draws     int    `json:"draws"`
	Kills     int    `json:"kills"`
	Deaths    int    `json:"deaths"`
	Points    int    `json:"points"`
	CreatedAt int64  `json:"created_at"`
}

// Duel is a scheduled future match between two registered players.
// ScheduledTime and CreatedAt are unix seconds, UTC.
type Duel struct {
	ID            string  `json:"id"`
	Player1ID     string  `json:"player1_id"`
	Player2ID     string  `json:"player2_id"`
	ScheduledTime int64   `json:"scheduled_time"`
	ReminderSent  bool    `json:"reminder_sent"`
	Completed     bool    `json:"completed"`
	WinnerID      *string `json:"winner_id,omitempty"`
	CreatedAt     int64   `json:"created_at"`
}

// Match is an immutable record of a resolved result. A nil WinnerID encodes a
// draw.
type Match struct {
	ID            string  `json:"id"`
	Player1ID     string  `json:"player1_id"`
	Player2ID     string  `json:"player2_id"`
	WinnerID      *string `json:"winner_id,omitempty"`
	Player1Kills  int     `json:"player1_kills"`
	Player1Deaths int     `json:"player1_deaths"`
	Player2Kills  int     `json:"player2_kills"`
	Player2Deaths int     `json:"player2_deaths"`
	MatchDate     int64   `json:"match_date"`
}

// MatchSummary is a Match enriched with display names resolved at read time.
// Player references are soft: a removed player leaves the name nil, which is
// not an error.
type MatchSummary struct {
	Match
	Player1Name *string `json:"player1_name"`
	Player2Name *string `json:"player2_name"`
	WinnerName  *string `json:"winner_name,omitempty"`
}
