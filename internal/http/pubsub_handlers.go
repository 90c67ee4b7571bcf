package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/duellords/duel-lords/internal/tournament"
)

// decodePushBody unwraps a Pub/Sub push delivery: the outer JSON envelope
// carries the base64-encoded MessagePack payload in message.data.
func decodePushBody(r *http.Request) ([]byte, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	log.Debug("Received pubsub push", "body", string(bodyBytes))

	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"` // base64-encoded message payload
		} `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
}

// NotifyResultHandler consumes notify-result push deliveries and announces the
// recorded match in the channel.
func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushBody(r)
		if err != nil {
			log.Error("Failed to decode pubsub push", "error", err)
			http.Error(w, "Invalid push payload", http.StatusBadRequest)
			return
		}
		summary := tournament.MatchSummary{}
		if err := s.pubsub.ProcessMessage(rawData, &summary); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendMatchResult(&summary, isDryRun); err != nil {
			log.Error("Failed to notify result", "error", err, "matchID", summary.ID)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// DuelScheduledHandler consumes duel-scheduled push deliveries: it announces
// the duel in the channel and DMs both players.
func (s *Server) DuelScheduledHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePushBody(r)
		if err != nil {
			log.Error("Failed to decode pubsub push", "error", err)
			http.Error(w, "Invalid push payload", http.StatusBadRequest)
			return
		}
		duel := tournament.Duel{}
		if err := s.pubsub.ProcessMessage(rawData, &duel); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendDuelScheduled(&duel, isDryRun); err != nil {
			log.Error("Failed to announce duel", "error", err, "duelID", duel.ID)
			http.Error(w, "Failed to announce duel", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
