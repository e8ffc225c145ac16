// Package chore holds the pure state transitions for chores: creation,
// completion, approval, redo, periodic reset, and the completion streak.
// Functions take a chore value and return the updated value; callers that
// see ok=false must treat the input as unchanged.
package chore

import (
	"time"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/model"
	"github.com/dglass/copperpot/internal/period"
)

// New creates a chore. A nil userID places it in the unassigned library.
func New(name, icon string, points int, recurrence model.Recurrence, userID *uuid.UUID, now time.Time) model.Chore {
	return model.Chore{
		ID:         uuid.New(),
		Name:       name,
		Icon:       icon,
		Points:     points,
		Recurrence: recurrence,
		UserID:     userID,
		LastReset:  now,
		CreatedAt:  now,
	}
}

// Complete marks the chore done. No-op (ok=false) when already completed.
// requireApproval routes the completion through parent review.
func Complete(c model.Chore, requireApproval bool, now time.Time) (model.Chore, bool) {
	if c.Completed {
		return c, false
	}
	c.Completed = true
	c.PendingApproval = requireApproval
	c.CompletedAt = &now
	return c, true
}

// Approve clears the pending flag. No-op when nothing is pending. Gem
// award is the orchestrator's side effect.
func Approve(c model.Chore) (model.Chore, bool) {
	if !c.PendingApproval {
		return c, false
	}
	c.PendingApproval = false
	return c, true
}

// ResetForRedo rejects a completion and puts the chore back in play.
func ResetForRedo(c model.Chore) model.Chore {
	c.Completed = false
	c.PendingApproval = false
	c.CompletedAt = nil
	return c
}

// ResetPeriod clears completion state when the chore's period has rolled
// over. ok=false means the chore was left untouched.
func ResetPeriod(c model.Chore, resetDay time.Weekday, now time.Time) (model.Chore, bool) {
	if !period.NeedsReset(c.LastReset, c.Recurrence, resetDay, now) {
		return c, false
	}
	c.Completed = false
	c.PendingApproval = false
	c.CompletedAt = nil
	c.LastReset = now
	return c, true
}

// CountsTowardUnlock reports whether the chore qualifies for job unlock
// thresholds: completed, not awaiting approval, and completed within the
// current period.
func CountsTowardUnlock(c model.Chore, resetDay time.Weekday, now time.Time) bool {
	if !c.Completed || c.PendingApproval || c.CompletedAt == nil {
		return false
	}
	return period.IsCurrent(*c.CompletedAt, c.Recurrence, resetDay, now)
}

// AdvanceStreak updates a user's streak for a chore completion. The
// streak only moves on the first completion of a new calendar day:
// consecutive days increment it, a gap restarts it at 1.
func AdvanceStreak(u model.User, now time.Time) model.User {
	if u.LastActiveDate != nil && period.SameDay(*u.LastActiveDate, now) {
		return u
	}
	yesterday := now.AddDate(0, 0, -1)
	if u.LastActiveDate != nil && period.SameDay(*u.LastActiveDate, yesterday) {
		u.CurrentStreak++
	} else {
		u.CurrentStreak = 1
	}
	if u.CurrentStreak > u.LongestStreak {
		u.LongestStreak = u.CurrentStreak
	}
	active := now
	u.LastActiveDate = &active
	return u
}
