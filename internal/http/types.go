package http

import (
	"net/http"

	"github.com/duellords/duel-lords/internal/config"
	"github.com/duellords/duel-lords/internal/metrics"
	"github.com/duellords/duel-lords/internal/notifier"
	"github.com/duellords/duel-lords/internal/pubsub"
	"github.com/duellords/duel-lords/internal/tournament"
)

type Server struct {
	Store          tournament.Ledger
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	Version        string
}
