package scheduler

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/duellords/duel-lords/internal/metrics"
	"github.com/duellords/duel-lords/internal/notifier"
	"github.com/duellords/duel-lords/internal/tournament"
)

// Scheduler drives duel reminders: a single cooperative loop polls the ledger
// once per interval for duels entering their reminder window and hands them
// to the notifier.
type Scheduler struct {
	store    tournament.Ledger
	notifier notifier.Notifier
	metrics  metrics.Metrics
	interval time.Duration
}

// New creates a new Scheduler ticking once per minute.
func New(store tournament.Ledger, notifier notifier.Notifier, metrics metrics.Metrics) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		interval: time.Minute,
	}
}

// Run ticks until ctx is canceled. Ticks run sequentially on one goroutine;
// a slow tick delays the next one rather than overlapping it.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.Info("Duel reminder loop started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Info("Duel reminder loop stopped")
			return
		case <-ticker.C:
			s.Tick(time.Now().UTC())
		}
	}
}

// Tick polls for due duels and dispatches their reminders. Delivery is
// at-least-once: a duel is flagged as reminded only after its dispatch
// returns, so a crash or send failure re-delivers on a later tick while the
// duel is still inside its window. Each duel's notify-then-flag sequence is
// independent; a failure in one never halts the loop over the rest.
func (s *Scheduler) Tick(now time.Time) {
	s.metrics.IncReminderTicks()

	duels, err := s.store.PendingReminders(now)
	if err != nil {
		log.Error("Failed to poll pending reminders", "error", err)
		return
	}
	if len(duels) == 0 {
		log.Debug("No duel reminders due", "now", now)
		return
	}

	log.Info("Dispatching duel reminders", "count", len(duels))
	for i := range duels {
		duel := &duels[i]
		if err := s.notifier.SendDuelReminder(duel, false); err != nil {
			s.metrics.IncRemindersFailed()
			log.Error("Failed to send duel reminder", "error", err, "duelID", duel.ID)
			continue
		}
		if err := s.store.MarkReminderSent(duel.ID); err != nil {
			// The reminder went out but the flag write failed; the next tick
			// may re-deliver. Accepted as at-least-once.
			log.Error("Failed to mark reminder sent", "error", err, "duelID", duel.ID)
			continue
		}
		s.metrics.IncRemindersSent()
	}
}
