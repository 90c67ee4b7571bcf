package scheduler_test

import (
	"testing"
	"time"

	"github.com/duellords/duel-lords/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOccurrence_FutureDateStaysInCurrentMonth(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	got, err := scheduler.NextOccurrence(now, 15, 18, 30)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 15, 18, 30, 0, 0, time.UTC), got)
}

func TestNextOccurrence_PastDateRollsToNextMonth(t *testing.T) {
	now := time.Date(2025, time.June, 20, 12, 0, 0, 0, time.UTC)

	got, err := scheduler.NextOccurrence(now, 5, 18, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 5, 18, 0, 0, 0, time.UTC), got)
}

func TestNextOccurrence_DecemberRollsIntoNextYear(t *testing.T) {
	now := time.Date(2025, time.December, 28, 12, 0, 0, 0, time.UTC)

	got, err := scheduler.NextOccurrence(now, 3, 9, 15)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 3, 9, 15, 0, 0, time.UTC), got)
}

func TestNextOccurrence_SameInstantIsNotPast(t *testing.T) {
	now := time.Date(2025, time.June, 10, 18, 0, 0, 0, time.UTC)

	got, err := scheduler.NextOccurrence(now, 10, 18, 0)
	require.NoError(t, err)
	assert.Equal(t, now, got)
}

func TestNextOccurrence_NonexistentDayRejected(t *testing.T) {
	now := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	_, err := scheduler.NextOccurrence(now, 30, 12, 0)
	assert.ErrorIs(t, err, scheduler.ErrInvalidTime)
}

func TestNextOccurrence_NonexistentDayInRolloverMonthRejected(t *testing.T) {
	// The 31st exists in January but not in February, so rolling forward
	// must fail rather than normalize into March.
	now := time.Date(2025, time.January, 31, 23, 59, 0, 0, time.UTC)

	_, err := scheduler.NextOccurrence(now, 31, 10, 0)
	assert.ErrorIs(t, err, scheduler.ErrInvalidTime)
}

func TestNextOccurrence_RangeValidation(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name              string
		day, hour, minute int
	}{
		{"day too low", 0, 12, 0},
		{"day too high", 32, 12, 0},
		{"hour too high", 10, 24, 0},
		{"hour negative", 10, -1, 0},
		{"minute too high", 10, 12, 60},
		{"minute negative", 10, 12, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scheduler.NextOccurrence(now, tc.day, tc.hour, tc.minute)
			assert.ErrorIs(t, err, scheduler.ErrInvalidTime)
		})
	}
}
