// Package job holds the pure state transitions for cash jobs: unlock
// evaluation against the owner's chores, multi-completion accounting,
// approval and rejection of completion events, and periodic reset.
package job

import (
	"time"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/chore"
	"github.com/dglass/copperpot/internal/currency"
	"github.com/dglass/copperpot/internal/model"
	"github.com/dglass/copperpot/internal/period"
)

// Params collects the fields needed to create a job.
type Params struct {
	Title                   string
	Description             string
	Icon                    string
	Value                   int64
	UserID                  *uuid.UUID
	Recurrence              model.Recurrence
	UnlockConditions        model.UnlockConditions
	AllowMultipleCompletion bool
	MaxCompletionsPerPeriod *int
	RequiresApproval        bool
	CreatedBy               *uuid.UUID
}

// CheckResult is the outcome of a CanComplete evaluation.
type CheckResult struct {
	CanComplete bool   `json:"can_complete"`
	Reason      string `json:"reason,omitempty"`
}

// Progress is one unlock threshold with the current count capped at the
// requirement for display.
type Progress struct {
	Current  int `json:"current"`
	Required int `json:"required"`
}

// UnlockProgress reports how close a job is to unlocking.
type UnlockProgress struct {
	Daily      Progress `json:"daily"`
	Weekly     Progress `json:"weekly"`
	IsUnlocked bool     `json:"is_unlocked"`
}

// New creates a job with no completions. The lock status starts from a
// RefreshLock pass by the caller.
func New(p Params, now time.Time) model.Job {
	return model.Job{
		ID:                      uuid.New(),
		Title:                   p.Title,
		Description:             p.Description,
		Icon:                    p.Icon,
		Value:                   p.Value,
		UserID:                  p.UserID,
		Recurrence:              p.Recurrence,
		UnlockConditions:        p.UnlockConditions,
		AllowMultipleCompletion: p.AllowMultipleCompletion,
		MaxCompletionsPerPeriod: p.MaxCompletionsPerPeriod,
		RequiresApproval:        p.RequiresApproval,
		Completions:             []model.CompletionEvent{},
		LastReset:               now,
		CreatedAt:               now,
		CreatedBy:               p.CreatedBy,
	}
}

// qualifyingChores counts the owner's chores that satisfy unlock gating
// for the given recurrence.
func qualifyingChores(j model.Job, chores []model.Chore, recurrence model.Recurrence, resetDay time.Weekday, now time.Time) int {
	if j.UserID == nil {
		return 0
	}
	n := 0
	for _, c := range chores {
		if c.Recurrence != recurrence || !c.OwnedBy(*j.UserID) {
			continue
		}
		if chore.CountsTowardUnlock(c, resetDay, now) {
			n++
		}
	}
	return n
}

// IsUnlocked evaluates the unlock conditions. Both thresholds must be met
// when both are set; a job with no conditions is always unlocked.
func IsUnlocked(j model.Job, chores []model.Chore, resetDay time.Weekday, now time.Time) bool {
	cond := j.UnlockConditions
	if cond.DailyChores == 0 && cond.WeeklyChores == 0 {
		return true
	}
	if cond.DailyChores > 0 && qualifyingChores(j, chores, model.RecurrenceDaily, resetDay, now) < cond.DailyChores {
		return false
	}
	if cond.WeeklyChores > 0 && qualifyingChores(j, chores, model.RecurrenceWeekly, resetDay, now) < cond.WeeklyChores {
		return false
	}
	return true
}

// GetUnlockProgress reports current versus required chore counts, with
// current capped at required for display.
func GetUnlockProgress(j model.Job, chores []model.Chore, resetDay time.Weekday, now time.Time) UnlockProgress {
	daily := Progress{
		Current:  qualifyingChores(j, chores, model.RecurrenceDaily, resetDay, now),
		Required: j.UnlockConditions.DailyChores,
	}
	weekly := Progress{
		Current:  qualifyingChores(j, chores, model.RecurrenceWeekly, resetDay, now),
		Required: j.UnlockConditions.WeeklyChores,
	}
	if daily.Current > daily.Required {
		daily.Current = daily.Required
	}
	if weekly.Current > weekly.Required {
		weekly.Current = weekly.Required
	}
	return UnlockProgress{
		Daily:      daily,
		Weekly:     weekly,
		IsUnlocked: IsUnlocked(j, chores, resetDay, now),
	}
}

// PeriodCompletionCount sums the Count of non-rejected completions in the
// current period.
func PeriodCompletionCount(j model.Job, resetDay time.Weekday, now time.Time) int {
	n := 0
	for _, ce := range j.Completions {
		if ce.Status == model.CompletionRejected {
			continue
		}
		if period.IsCurrent(ce.Timestamp, j.Recurrence, resetDay, now) {
			n += ce.Count
		}
	}
	return n
}

// CanComplete checks lock status and completion limits. The reason is a
// display string; callers must not branch on its exact wording.
func CanComplete(j model.Job, chores []model.Chore, resetDay time.Weekday, now time.Time) CheckResult {
	if !IsUnlocked(j, chores, resetDay, now) {
		return CheckResult{Reason: "job is locked"}
	}
	current := PeriodCompletionCount(j, resetDay, now)
	if !j.AllowMultipleCompletion && current > 0 {
		return CheckResult{Reason: "already completed this period"}
	}
	if j.MaxCompletionsPerPeriod != nil && current >= *j.MaxCompletionsPerPeriod {
		return CheckResult{Reason: "maximum completions reached"}
	}
	return CheckResult{CanComplete: true}
}

// Complete appends a completion event for count units of work. The caller
// is expected to have passed CanComplete first; counts below 1 are
// coerced to 1. The returned event carries the status the orchestrator
// uses to route balances.
func Complete(j model.Job, count int, now time.Time) (model.Job, model.CompletionEvent) {
	if count < 1 {
		count = 1
	}
	status := model.CompletionApproved
	if j.RequiresApproval {
		status = model.CompletionPending
	}
	ce := model.CompletionEvent{
		ID:                uuid.New(),
		Timestamp:         now,
		Count:             count,
		ValueAtCompletion: j.Value,
		TotalEarned:       currency.MultiplyCents(j.Value, count),
		Status:            status,
	}
	completions := make([]model.CompletionEvent, len(j.Completions), len(j.Completions)+1)
	copy(completions, j.Completions)
	j.Completions = append(completions, ce)
	return j, ce
}

// ApproveAll transitions every pending completion to approved, stamping
// the approver and time. It returns the sum of TotalEarned and the sum
// of Count over the completions that transitioned; a second call in a
// row yields zero for both.
func ApproveAll(j model.Job, approvedBy uuid.UUID, now time.Time) (model.Job, int64, int) {
	var total int64
	count := 0
	completions := make([]model.CompletionEvent, len(j.Completions))
	copy(completions, j.Completions)
	for i := range completions {
		if completions[i].Status != model.CompletionPending {
			continue
		}
		completions[i].Status = model.CompletionApproved
		by := approvedBy
		at := now
		completions[i].ApprovedBy = &by
		completions[i].ApprovedAt = &at
		total = currency.AddCents(total, completions[i].TotalEarned)
		count += completions[i].Count
	}
	j.Completions = completions
	return j, total, count
}

// RejectPending transitions every pending completion to rejected. The
// returned total is what the orchestrator must remove from the owner's
// pending balance; the money is discarded, never credited.
func RejectPending(j model.Job, rejectedBy uuid.UUID, now time.Time) (model.Job, int64) {
	var total int64
	completions := make([]model.CompletionEvent, len(j.Completions))
	copy(completions, j.Completions)
	for i := range completions {
		if completions[i].Status != model.CompletionPending {
			continue
		}
		completions[i].Status = model.CompletionRejected
		by := rejectedBy
		at := now
		completions[i].ApprovedBy = &by
		completions[i].ApprovedAt = &at
		total = currency.AddCents(total, completions[i].TotalEarned)
	}
	j.Completions = completions
	return j, total
}

// PendingTotal sums TotalEarned over completions still awaiting review.
func PendingTotal(j model.Job) int64 {
	var total int64
	for _, ce := range j.Completions {
		if ce.Status == model.CompletionPending {
			total = currency.AddCents(total, ce.TotalEarned)
		}
	}
	return total
}

// Reset clears the completion list when the job's period has rolled over.
// ok=false means the job was left untouched. Completions still pending at
// reset time are the orchestrator's problem: it must reject and reconcile
// them before calling Reset.
func Reset(j model.Job, resetDay time.Weekday, now time.Time) (model.Job, bool) {
	if !period.NeedsReset(j.LastReset, j.Recurrence, resetDay, now) {
		return j, false
	}
	j.Completions = []model.CompletionEvent{}
	j.LastReset = now
	return j, true
}

// RefreshLock recomputes the cached IsLocked field. Call after any chore
// mutation or reset pass; the cache is never written anywhere else.
func RefreshLock(j model.Job, chores []model.Chore, resetDay time.Weekday, now time.Time) model.Job {
	j.IsLocked = !IsUnlocked(j, chores, resetDay, now)
	return j
}
