package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/duellords/duel-lords/internal/tournament"
)

const (
	defaultLeaderboardLimit = 10
	defaultMatchesLimit     = 20
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		payload := map[string]string{
			"status":  "ok",
			"bot":     "duel-lords",
			"version": s.Version,
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error("Failed to write health response", "error", err)
		}
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

// HomeHandler serves a compact tournament summary: totals, the podium and the
// latest results.
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := s.Store.CountPlayers()
		if err != nil {
			http.Error(w, "Failed to get player count", http.StatusInternalServerError)
			log.Error("Failed to get player count from store", "error", err)
			return
		}
		top, err := s.Store.Leaderboard(3)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard from store", "error", err)
			return
		}
		recent, err := s.Store.RecentMatches(5)
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get recent matches from store", "error", err)
			return
		}

		summary := struct {
			Bot           string                    `json:"bot"`
			PlayerCount   int                       `json:"player_count"`
			TopPlayers    []tournament.Player       `json:"top_players"`
			RecentMatches []tournament.MatchSummary `json:"recent_matches"`
		}{
			Bot:           "duel-lords",
			PlayerCount:   count,
			TopPlayers:    top,
			RecentMatches: recent,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			log.Error("Failed to encode summary to JSON", "error", err)
		}
	}
}

// LeaderboardHandler serves the ranked standings. Accepts an optional
// 'limit' query parameter.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.Leaderboard(parseLimit(r, defaultLeaderboardLimit))
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(players); err != nil {
			log.Error("Failed to encode leaderboard to JSON", "error", err)
		}
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(players); err != nil {
			log.Error("Failed to encode players to JSON", "error", err)
		}
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.RecentMatches(parseLimit(r, defaultMatchesLimit))
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(matches); err != nil {
			log.Error("Failed to encode matches to JSON", "error", err)
		}
	}
}

// StatsAPIHandler serves every player's full record in standings order, for
// dashboards that want the raw numbers rather than the rendered board.
func (s *Server) StatsAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := s.Store.CountPlayers()
		if err != nil {
			http.Error(w, "Failed to get player count", http.StatusInternalServerError)
			log.Error("Failed to get player count from store", "error", err)
			return
		}
		players, err := s.Store.Leaderboard(count)
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats from store", "error", err)
			return
		}

		stats := struct {
			PlayerCount int                 `json:"player_count"`
			Players     []tournament.Player `json:"players"`
		}{
			PlayerCount: count,
			Players:     players,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			log.Error("Failed to encode player stats to JSON", "error", err)
		}
	}
}

func (s *Server) LeaderboardAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.Leaderboard(parseLimit(r, defaultLeaderboardLimit))
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(players); err != nil {
			log.Error("Failed to encode leaderboard to JSON", "error", err)
		}
	}
}

// parseLimit reads the 'limit' query parameter, falling back to def when the
// parameter is absent or not a positive integer.
func parseLimit(r *http.Request, def int) int {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return def
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		log.Warn("Invalid 'limit' parameter provided. Using default.", "limit_param", limitStr, "default", def)
		return def
	}
	return limit
}
