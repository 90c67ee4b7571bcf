package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ReminderTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_reminder_ticks_total",
			Help: "The total number of times the duel reminder loop has ticked.",
		}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_reminders_sent_total",
			Help: "The total number of duel reminders successfully dispatched.",
		}),
		RemindersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_reminders_failed_total",
			Help: "The total number of duel reminders that failed to dispatch.",
		}),
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_matches_recorded_total",
			Help: "The total number of match results recorded in the ledger.",
		}),
		DuelsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_duels_scheduled_total",
			Help: "The total number of duels scheduled.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "duel_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ReminderTicks,
		s.RemindersSent,
		s.RemindersFailed,
		s.MatchesRecorded,
		s.DuelsScheduled,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncReminderTicks() {
	s.ReminderTicks.Inc()
}

func (s *Service) IncRemindersSent() {
	s.RemindersSent.Inc()
}

func (s *Service) IncRemindersFailed() {
	s.RemindersFailed.Inc()
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncDuelsScheduled() {
	s.DuelsScheduled.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
