package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime is returned when a requested duel time is not a well-formed
// calendar point.
var ErrInvalidTime = errors.New("invalid duel time")

// NextOccurrence resolves a requested day/hour/minute to an absolute UTC
// instant. The requested wall time is combined with the current month and
// year; if that instant is already in the past it rolls forward to the same
// day/hour/minute in the following month, with year rollover in December.
// This rolling forward is a deliberate convenience so players can schedule
// "the 5th at 18:00" late in the month without naming a month.
func NextOccurrence(now time.Time, day, hour, minute int) (time.Time, error) {
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: day must be 1-31, got %d", ErrInvalidTime, day)
	}
	if hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("%w: hour must be 0-23, got %d", ErrInvalidTime, hour)
	}
	if minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: minute must be 0-59, got %d", ErrInvalidTime, minute)
	}

	now = now.UTC()
	target, err := exactDate(now.Year(), now.Month(), day, hour, minute)
	if err != nil {
		return time.Time{}, err
	}
	if target.Before(now) {
		year, month := now.Year(), now.Month()+1
		if now.Month() == time.December {
			year, month = now.Year()+1, time.January
		}
		target, err = exactDate(year, month, day, hour, minute)
		if err != nil {
			return time.Time{}, err
		}
	}
	return target, nil
}

// exactDate builds a UTC instant and rejects day values that do not exist in
// the given month (time.Date would silently normalize them).
func exactDate(year int, month time.Month, day, hour, minute int) (time.Time, error) {
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: day %d does not exist in %s %d", ErrInvalidTime, day, month, year)
	}
	return t, nil
}
