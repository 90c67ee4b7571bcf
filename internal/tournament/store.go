package tournament

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new Ledger backed by the given database.
func New(db *sql.DB) Ledger {
	return &store{
		db: db,
	}
}

// AddPlayer registers a new player with all counters zeroed.
func (s *store) AddPlayer(id, name, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", id)
		return fmt.Errorf("database error: %w", err)
	}
	if exists {
		log.Warn("Player already registered", "playerID", id)
		return ErrAlreadyExists
	}

	_, err = s.db.Exec(
		"INSERT INTO players (id, player_name, handle, created_at) VALUES (?, ?, ?, ?)",
		id, name, handle, time.Now().UTC().Unix(),
	)
	if err != nil {
		log.Error("Failed to add player", "error", err, "playerID", id)
		return fmt.Errorf("database error: %w", err)
	}
	log.Info("Registered new player", "playerID", id, "name", name)
	return nil
}

// RemovePlayer deletes a player row. Historical match and duel rows referencing
// the id are left untouched; their name lookups resolve to nil at read time.
func (s *store) RemovePlayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM players WHERE id = ?", id)
	if err != nil {
		log.Error("Failed to remove player", "error", err, "playerID", id)
		return fmt.Errorf("database error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("Failed to read rows affected", "error", err, "playerID", id)
		return fmt.Errorf("database error: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	log.Info("Removed player", "playerID", id)
	return nil
}

func (s *store) GetPlayer(id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, player_name, handle, wins, losses, draws, kills, deaths, points, created_at
		FROM players WHERE id = ?
	`, id)
	player, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		log.Error("Failed to query player", "error", err, "playerID", id)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return player, nil
}

// ListPlayers returns all registered players ordered by registration time.
func (s *store) ListPlayers() ([]Player, error) {
	return s.queryPlayers(`
		SELECT id, player_name, handle, wins, losses, draws, kills, deaths, points, created_at
		FROM players ORDER BY created_at ASC, rowid ASC
	`)
}

// Leaderboard returns up to limit players ordered by points, wins and kills,
// all descending. Ties beyond kills keep insertion order.
func (s *store) Leaderboard(limit int) ([]Player, error) {
	return s.queryPlayers(`
		SELECT id, player_name, handle, wins, losses, draws, kills, deaths, points, created_at
		FROM players ORDER BY points DESC, wins DESC, kills DESC LIMIT ?
	`, limit)
}

func (s *store) queryPlayers(query string, args ...any) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

func (s *store) CountPlayers() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		log.Error("Failed to count players", "error", err)
		return 0, fmt.Errorf("database error: %w", err)
	}
	return count, nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Handle,
		&p.Wins, &p.Losses, &p.Draws, &p.Kills, &p.Deaths, &p.Points,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RecordMatch applies a submitted result to both players' aggregates and
// appends the immutable match row, all in one transaction. Either every
// counter update and the insert succeed, or the ledger is unchanged.
// Resubmitting a successful call double-counts; callers must not retry
// blindly on ambiguous failure.
func (s *store) RecordMatch(player1ID, player2ID string, result MatchResult, p1Kills, p1Deaths, p2Kills, p2Deaths int) (*Match, error) {
	if !result.Valid() {
		log.Warn("Match result has unrecognized outcome", "result", result)
		return nil, ErrInvalidResult
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for match result", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	var registered int
	err = tx.QueryRow("SELECT COUNT(*) FROM players WHERE id IN (?, ?)", player1ID, player2ID).Scan(&registered)
	if err != nil {
		tx.Rollback()
		log.Error("Failed to check players for match result", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	if registered != 2 {
		tx.Rollback()
		log.Warn("Match result references unregistered player", "player1ID", player1ID, "player2ID", player2ID)
		return nil, ErrUnknownPlayer
	}

	o := result.outcome()
	_, err = tx.Exec(`
		UPDATE players
		SET wins = wins + ?, losses = losses + ?, draws = draws + ?,
		    points = points + ?, kills = kills + ?, deaths = deaths + ?
		WHERE id = ?
	`, o.p1Wins, o.p1Losses, o.p1Draws, o.p1Points, p1Kills, p1Deaths, player1ID)
	if err != nil {
		tx.Rollback()
		log.Error("Failed to update player1 stats", "error", err, "playerID", player1ID)
		return nil, fmt.Errorf("database error: %w", err)
	}
	_, err = tx.Exec(`
		UPDATE players
		SET wins = wins + ?, losses = losses + ?, draws = draws + ?,
		    points = points + ?, kills = kills + ?, deaths = deaths + ?
		WHERE id = ?
	`, o.p2Wins, o.p2Losses, o.p2Draws, o.p2Points, p2Kills, p2Deaths, player2ID)
	if err != nil {
		tx.Rollback()
		log.Error("Failed to update player2 stats", "error", err, "playerID", player2ID)
		return nil, fmt.Errorf("database error: %w", err)
	}

	match := &Match{
		ID:            uuid.NewString(),
		Player1ID:     player1ID,
		Player2ID:     player2ID,
		WinnerID:      result.Winner(player1ID, player2ID),
		Player1Kills:  p1Kills,
		Player1Deaths: p1Deaths,
		Player2Kills:  p2Kills,
		Player2Deaths: p2Deaths,
		MatchDate:     time.Now().UTC().Unix(),
	}
	_, err = tx.Exec(`
		INSERT INTO matches (id, player1_id, player2_id, winner_id, player1_kills, player1_deaths, player2_kills, player2_deaths, match_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, match.ID, match.Player1ID, match.Player2ID, match.WinnerID, match.Player1Kills, match.Player1Deaths, match.Player2Kills, match.Player2Deaths, match.MatchDate)
	if err != nil {
		tx.Rollback()
		log.Error("Failed to insert match row", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit match result", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	log.Info("Recorded match result", "player1ID", player1ID, "player2ID", player2ID, "result", result)
	return match, nil
}

// ScheduleDuel creates a new duel row. Both players must be registered at
// creation time; the references are not re-validated at poll time.
func (s *store) ScheduleDuel(player1ID, player2ID string, at time.Time) (*Duel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var registered int
	err := s.db.QueryRow("SELECT COUNT(*) FROM players WHERE id IN (?, ?)", player1ID, player2ID).Scan(&registered)
	if err != nil {
		log.Error("Failed to check players for duel", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	if registered != 2 {
		log.Warn("Duel references unregistered player", "player1ID", player1ID, "player2ID", player2ID)
		return nil, ErrUnknownPlayer
	}

	duel := &Duel{
		ID:            uuid.NewString(),
		Player1ID:     player1ID,
		Player2ID:     player2ID,
		ScheduledTime: at.UTC().Unix(),
		CreatedAt:     time.Now().UTC().Unix(),
	}
	_, err = s.db.Exec(`
		INSERT INTO duels (id, player1_id, player2_id, scheduled_time, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, duel.ID, duel.Player1ID, duel.Player2ID, duel.ScheduledTime, duel.CreatedAt)
	if err != nil {
		log.Error("Failed to insert duel", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	log.Info("Scheduled duel", "duelID", duel.ID, "player1ID", player1ID, "player2ID", player2ID, "scheduledTime", duel.ScheduledTime)
	return duel, nil
}

// PendingReminders returns duels entering their reminder window: not yet
// reminded, not completed, and scheduled within the next five minutes. The
// same duel keeps appearing on consecutive polls until MarkReminderSent is
// called.
func (s *store) PendingReminders(now time.Time) ([]Duel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	windowEnd := now.Add(5 * time.Minute)
	rows, err := s.db.Query(`
		SELECT id, player1_id, player2_id, scheduled_time, reminder_sent, completed, winner_id, created_at
		FROM duels
		WHERE reminder_sent = 0 AND completed = 0 AND scheduled_time > ? AND scheduled_time <= ?
	`, now.UTC().Unix(), windowEnd.UTC().Unix())
	if err != nil {
		log.Error("Failed to query pending reminders", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var duels []Duel
	for rows.Next() {
		var d Duel
		var winnerID sql.NullString
		if err := rows.Scan(&d.ID, &d.Player1ID, &d.Player2ID, &d.ScheduledTime, &d.ReminderSent, &d.Completed, &winnerID, &d.CreatedAt); err != nil {
			log.Error("Failed to scan duel row", "error", err)
			continue
		}
		if winnerID.Valid {
			d.WinnerID = &winnerID.String
		}
		duels = append(duels, d)
	}
	return duels, rows.Err()
}

// MarkReminderSent flags a duel as reminded. Idempotent: the flag only ever
// transitions false to true.
func (s *store) MarkReminderSent(duelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE duels SET reminder_sent = 1 WHERE id = ?", duelID)
	if err != nil {
		log.Error("Failed to mark reminder sent", "error", err, "duelID", duelID)
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

// RecentMatches returns the newest matches first, enriched with display names
// resolved via joins. A removed player leaves that name nil.
func (s *store) RecentMatches(limit int) ([]MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT m.id, m.player1_id, m.player2_id, m.winner_id,
		       m.player1_kills, m.player1_deaths, m.player2_kills, m.player2_deaths, m.match_date,
		       p1.player_name, p2.player_name, pw.player_name
		FROM matches m
		LEFT JOIN players p1 ON m.player1_id = p1.id
		LEFT JOIN players p2 ON m.player2_id = p2.id
		LEFT JOIN players pw ON m.winner_id = pw.id
		ORDER BY m.match_date DESC, m.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		log.Error("Failed to query recent matches", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var matches []MatchSummary
	for rows.Next() {
		var m MatchSummary
		var winnerID, p1Name, p2Name, winnerName sql.NullString
		err := rows.Scan(
			&m.ID, &m.Player1ID, &m.Player2ID, &winnerID,
			&m.Player1Kills, &m.Player1Deaths, &m.Player2Kills, &m.Player2Deaths, &m.MatchDate,
			&p1Name, &p2Name, &winnerName,
		)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		if winnerID.Valid {
			m.WinnerID = &winnerID.String
		}
		if p1Name.Valid {
			m.Player1Name = &p1Name.String
		}
		if p2Name.Valid {
			m.Player2Name = &p2Name.String
		}
		if winnerName.Valid {
			m.WinnerName = &winnerName.String
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Clear wipes all tables. Used by the ops surface and tests.
func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}
	for _, table := range []string{"matches", "duels", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}
