package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	ReminderTicks      prometheus.Counter
	RemindersSent      prometheus.Counter
	RemindersFailed    prometheus.Counter
	MatchesRecorded    prometheus.Counter
	DuelsScheduled     prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
