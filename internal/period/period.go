// Package period computes daily and weekly reset windows. The weekly
// window is anchored to a configurable reset weekday; "start of week" is
// the most recent midnight falling on that weekday, inclusive of today.
package period

import (
	"time"

	"github.com/dglass/copperpot/internal/model"
)

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek walks backward from now to the most recent occurrence of
// resetDay at midnight. If today is the reset day, today's midnight is
// the start of the week.
func StartOfWeek(now time.Time, resetDay time.Weekday) time.Time {
	day := StartOfDay(now)
	offset := (int(day.Weekday()) - int(resetDay) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// IsCurrent reports whether t falls inside the period containing now.
// Daily: same calendar date. Weekly: within [startOfWeek, startOfWeek+7d).
func IsCurrent(t time.Time, recurrence model.Recurrence, resetDay time.Weekday, now time.Time) bool {
	switch recurrence {
	case model.RecurrenceWeekly:
		start := StartOfWeek(now, resetDay)
		return !t.Before(start) && t.Before(start.AddDate(0, 0, 7))
	default:
		return StartOfDay(t).Equal(StartOfDay(now))
	}
}

// NeedsReset reports whether lastReset predates the start of the current
// period. A zero lastReset always needs resetting.
func NeedsReset(lastReset time.Time, recurrence model.Recurrence, resetDay time.Weekday, now time.Time) bool {
	if lastReset.IsZero() {
		return true
	}
	switch recurrence {
	case model.RecurrenceWeekly:
		return lastReset.Before(StartOfWeek(now, resetDay))
	default:
		return lastReset.Before(StartOfDay(now))
	}
}

// NextReset returns the instant the current period rolls over.
func NextReset(recurrence model.Recurrence, resetDay time.Weekday, now time.Time) time.Time {
	switch recurrence {
	case model.RecurrenceWeekly:
		return StartOfWeek(now, resetDay).AddDate(0, 0, 7)
	default:
		return StartOfDay(now).AddDate(0, 0, 1)
	}
}

// SameDay reports whether two timestamps share a calendar date.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}
