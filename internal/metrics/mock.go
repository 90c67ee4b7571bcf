package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	reminderTicks    int
	remindersSent    int
	remindersFailed  int
	matchesRecorded  int
	duelsScheduled   int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncReminderTicks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminderTicks++
}

func (m *Mock) IncRemindersSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remindersSent++
}

func (m *Mock) IncRemindersFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remindersFailed++
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncDuelsScheduled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duelsScheduled++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ReminderTicks returns the number of times IncReminderTicks was called.
func (m *Mock) ReminderTicks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reminderTicks
}

// RemindersSent returns the number of times IncRemindersSent was called.
func (m *Mock) RemindersSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remindersSent
}

// RemindersFailed returns the number of times IncRemindersFailed was called.
func (m *Mock) RemindersFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remindersFailed
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// DuelsScheduled returns the number of times IncDuelsScheduled was called.
func (m *Mock) DuelsScheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duelsScheduled
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
