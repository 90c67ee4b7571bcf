package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncReminderTicks()
	IncRemindersSent()
	IncRemindersFailed()
	IncMatchesRecorded()
	IncDuelsScheduled()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
