package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/duellords/duel-lords/internal/pubsub"
	"github.com/duellords/duel-lords/internal/scheduler"
	"github.com/duellords/duel-lords/internal/tournament"
	"github.com/slack-go/slack"
)

// mentionRe matches Slack's escaped mention format, e.g. <@U12345|handle>.
// The handle part is optional depending on workspace settings.
var mentionRe = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|([^>]+))?>`)

type mention struct {
	ID     string
	Handle string
}

// parseMentions extracts every escaped mention from a slash command's text, in
// order, and returns the mentions plus the text with the mentions stripped.
func parseMentions(text string) ([]mention, string) {
	var mentions []mention
	for _, m := range mentionRe.FindAllStringSubmatch(text, -1) {
		mentions = append(mentions, mention{ID: m[1], Handle: m[2]})
	}
	rest := mentionRe.ReplaceAllString(text, " ")
	return mentions, strings.Join(strings.Fields(rest), " ")
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// respondWithText writes a plain ephemeral slash command response. Slack shows
// it only to the invoking user.
func respondWithText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	payload := map[string]string{
		"response_type": "ephemeral",
		"text":          text,
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode slack response", "error", err)
	}
}

// requireAdmin parses the slash command form and rejects the request with an
// ephemeral message unless the invoking user is an admin. Returns false when
// the response has already been written.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return false
	}
	userID := r.FormValue("user_id")
	if !s.Cfg.IsAdmin(userID) {
		log.Warn("Non-admin attempted a restricted command", "userID", userID, "command", r.FormValue("command"))
		respondWithText(w, "Only tournament admins can run this command.")
		return false
	}
	return true
}

// RegisterCommandHandler returns a handler for the /register Slack command.
// Usage: /register @player [display name]
func (s *Server) RegisterCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAdmin(w, r) {
			return
		}
		mentions, rest := parseMentions(r.FormValue("text"))
		if len(mentions) != 1 {
			respondWithText(w, "Usage: /register @player [display name]")
			return
		}
		target := mentions[0]
		name := rest
		if name == "" {
			name = target.Handle
		}
		if name == "" {
			respondWithText(w, "A display name is required when the mention carries no handle.")
			return
		}

		log.Info("Received register command", "playerID", target.ID, "name", name)
		if err := s.Store.AddPlayer(target.ID, name, target.Handle); err != nil {
			if errors.Is(err, tournament.ErrAlreadyExists) {
				respondWithText(w, fmt.Sprintf("%s is already registered.", name))
				return
			}
			log.Error("Failed to register player", "error", err, "playerID", target.ID)
			http.Error(w, "Failed to register player", http.StatusInternalServerError)
			return
		}
		respondWithText(w, fmt.Sprintf("⚔️ %s has joined the Duel Lords!", name))
	}
}

// RemovePlayerCommandHandler returns a handler for the /remove-player Slack command.
// Usage: /remove-player @player
func (s *Server) RemovePlayerCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAdmin(w, r) {
			return
		}
		mentions, _ := parseMentions(r.FormValue("text"))
		if len(mentions) != 1 {
			respondWithText(w, "Usage: /remove-player @player")
			return
		}
		target := mentions[0]

		log.Info("Received remove player command", "playerID", target.ID)
		if err := s.Store.RemovePlayer(target.ID); err != nil {
			if errors.Is(err, tournament.ErrNotFound) {
				respondWithText(w, "That player is not registered.")
				return
			}
			log.Error("Failed to remove player", "error", err, "playerID", target.ID)
			http.Error(w, "Failed to remove player", http.StatusInternalServerError)
			return
		}
		respondWithText(w, "Player removed from the tournament. Their past matches stay on the record.")
	}
}

// PlayerStatsCommandHandler returns a handler for the /stats Slack command.
// With no mention it shows the invoking user's own record.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		mentions, _ := parseMentions(r.FormValue("text"))
		playerID := r.FormValue("user_id")
		query := "you"
		if len(mentions) > 0 {
			playerID = mentions[0].ID
			query = mentions[0].Handle
			if query == "" {
				query = mentions[0].ID
			}
		}

		log.Info("Received player stats command", "playerID", playerID)

		player, err := s.Store.GetPlayer(playerID)
		var msg any
		if err != nil {
			if !errors.Is(err, tournament.ErrNotFound) {
				log.Error("Failed to get player stats", "error", err, "playerID", playerID)
				http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
				return
			}
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(query)
		} else {
			msg, err = s.Notifier.FormatPlayerStatsResponse(player)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}

// UpdateStatsCommandHandler returns a handler for the /update-stats Slack command.
// Usage: /update-stats @player1 @player2 <player1|player2|draw> <p1 kills> <p1 deaths> <p2 kills> <p2 deaths>
func (s *Server) UpdateStatsCommandHandler() http.HandlerFunc {
	const usage = "Usage: /update-stats @player1 @player2 <player1|player2|draw> <p1 kills> <p1 deaths> <p2 kills> <p2 deaths>"
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAdmin(w, r) {
			return
		}
		mentions, rest := parseMentions(r.FormValue("text"))
		if len(mentions) != 2 {
			respondWithText(w, usage)
			return
		}
		fields := strings.Fields(rest)
		if len(fields) != 5 {
			respondWithText(w, usage)
			return
		}

		var result tournament.MatchResult
		switch strings.ToLower(fields[0]) {
		case "player1":
			result = tournament.ResultPlayer1Win
		case "player2":
			result = tournament.ResultPlayer2Win
		case "draw":
			result = tournament.ResultDraw
		default:
			respondWithText(w, usage)
			return
		}
		counts := make([]int, 4)
		for i, f := range fields[1:] {
			n, err := strconv.Atoi(f)
			if err != nil || n < 0 {
				respondWithText(w, "Kills and deaths must be non-negative integers.")
				return
			}
			counts[i] = n
		}

		isDryRun := isDryRunFromContext(r)
		log.Info("Received update stats command", "player1ID", mentions[0].ID, "player2ID", mentions[1].ID, "result", result, "dryRun", isDryRun)
		if isDryRun {
			respondWithText(w, "[Dry Run] Result not recorded.")
			return
		}

		match, err := s.Store.RecordMatch(mentions[0].ID, mentions[1].ID, result, counts[0], counts[1], counts[2], counts[3])
		if err != nil {
			if errors.Is(err, tournament.ErrUnknownPlayer) {
				respondWithText(w, "Both duelists must be registered before a result can be recorded.")
				return
			}
			log.Error("Failed to record match", "error", err)
			http.Error(w, "Failed to record match", http.StatusInternalServerError)
			return
		}
		s.Metrics.IncMatchesRecorded()

		// Channel fan-out happens off the command ack path: publish the
		// summary and let the push endpoint deliver the announcement.
		summaries, err := s.Store.RecentMatches(1)
		if err != nil || len(summaries) == 0 {
			log.Error("Failed to load recorded match summary", "error", err, "matchID", match.ID)
		} else if err := s.pubsub.SendMessage(pubsub.EventNotifyResult, summaries[0]); err != nil {
			log.Error("Failed to publish result event", "error", err, "matchID", match.ID)
		}

		respondWithText(w, "Result recorded. ⚔️")
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.Leaderboard(defaultLeaderboardLimit)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard from store", "error", err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(players)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayersCommandHandler returns a handler for the /players Slack command.
func (s *Server) PlayersCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}

		msg, err := s.Notifier.FormatPlayersResponse(players)
		if err != nil {
			http.Error(w, "Failed to format players", http.StatusInternalServerError)
			log.Error("Failed to format players", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// ServerAddressCommandHandler returns a handler for the /ip Slack command,
// which echoes the game server address players join for their duels.
func (s *Server) ServerAddressCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithText(w, fmt.Sprintf("🎮 Game server: `%s`", s.Cfg.GameServerAddr))
	}
}

// DuelCommandHandler returns a handler for the /duel Slack command.
// Usage: /duel @player1 @player2 <day> <hour> <minute>. The date resolves to
// the current month, or the next month once that instant has passed.
func (s *Server) DuelCommandHandler() http.HandlerFunc {
	const usage = "Usage: /duel @player1 @player2 <day> <hour> <minute>"
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAdmin(w, r) {
			return
		}
		mentions, rest := parseMentions(r.FormValue("text"))
		if len(mentions) != 2 {
			respondWithText(w, usage)
			return
		}
		if mentions[0].ID == mentions[1].ID {
			respondWithText(w, "A duel needs two different players.")
			return
		}
		fields := strings.Fields(rest)
		if len(fields) != 3 {
			respondWithText(w, usage)
			return
		}
		nums := make([]int, 3)
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				respondWithText(w, usage)
				return
			}
			nums[i] = n
		}

		at, err := scheduler.NextOccurrence(time.Now().UTC(), nums[0], nums[1], nums[2])
		if err != nil {
			if errors.Is(err, scheduler.ErrInvalidTime) {
				respondWithText(w, fmt.Sprintf("That is not a valid duel time: %v", err))
				return
			}
			log.Error("Failed to resolve duel time", "error", err)
			http.Error(w, "Failed to resolve duel time", http.StatusInternalServerError)
			return
		}

		isDryRun := isDryRunFromContext(r)
		log.Info("Received duel command", "player1ID", mentions[0].ID, "player2ID", mentions[1].ID, "at", at, "dryRun", isDryRun)
		if isDryRun {
			respondWithText(w, fmt.Sprintf("[Dry Run] Would schedule a duel for %s.", at.Format("Monday 02 Jan, 15:04 MST")))
			return
		}

		duel, err := s.Store.ScheduleDuel(mentions[0].ID, mentions[1].ID, at)
		if err != nil {
			if errors.Is(err, tournament.ErrUnknownPlayer) {
				respondWithText(w, "Both duelists must be registered before a duel can be scheduled.")
				return
			}
			log.Error("Failed to schedule duel", "error", err)
			http.Error(w, "Failed to schedule duel", http.StatusInternalServerError)
			return
		}
		s.Metrics.IncDuelsScheduled()

		if err := s.pubsub.SendMessage(pubsub.EventDuelScheduled, duel); err != nil {
			log.Error("Failed to publish duel scheduled event", "error", err, "duelID", duel.ID)
		}

		respondWithText(w, fmt.Sprintf("Duel scheduled for %s. ⚔️", at.Format("Monday 02 Jan, 15:04 MST")))
	}
}
