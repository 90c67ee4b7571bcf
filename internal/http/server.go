package http

import (
	"net/http"

	"github.com/duellords/duel-lords/internal/config"
	"github.com/duellords/duel-lords/internal/metrics"
	"github.com/duellords/duel-lords/internal/notifier"
	"github.com/duellords/duel-lords/internal/pubsub"
	"github.com/duellords/duel-lords/internal/tournament"
)

func NewServer(store tournament.Ledger, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient, version string) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
		Version:        version,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/{$}", Chain(s.HomeHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/api/stats", Chain(s.StatsAPIHandler(), paramsMiddleware))
	s.Router.Handle("/api/leaderboard", Chain(s.LeaderboardAPIHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/duel-scheduled", Chain(s.DuelScheduledHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/register", Chain(s.RegisterCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/remove-player", Chain(s.RemovePlayerCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/update-stats", Chain(s.UpdateStatsCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/players", Chain(s.PlayersCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/duel", Chain(s.DuelCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/ip", Chain(s.ServerAddressCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
