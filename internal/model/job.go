package model

import (
	"time"

	"github.com/google/uuid"
)

type CompletionStatus string

const (
	CompletionPending  CompletionStatus = "pending"
	CompletionApproved CompletionStatus = "approved"
	CompletionRejected CompletionStatus = "rejected"
)

// UnlockConditions gate a job behind a minimum number of completed chores
// in the current period. Zero values mean no gating.
type UnlockConditions struct {
	DailyChores  int `json:"daily_chores"`
	WeeklyChores int `json:"weekly_chores"`
}

// CompletionEvent records one completion of a job. Immutable once created
// except for the pending → approved/rejected transition.
type CompletionEvent struct {
	ID                uuid.UUID        `json:"id"`
	Timestamp         time.Time        `json:"timestamp"`
	Count             int              `json:"count"`
	ValueAtCompletion int64            `json:"value_at_completion"` // cents
	TotalEarned       int64            `json:"total_earned"`        // cents
	Status            CompletionStatus `json:"status"`
	ApprovedBy        *uuid.UUID       `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time       `json:"approved_at,omitempty"`
}

// Job is a recurring cash-rewarding task. IsLocked caches the unlock
// evaluation against the owner's chores and is recomputed after every
// chore mutation and reset pass.
type Job struct {
	ID                      uuid.UUID         `json:"id"`
	Title                   string            `json:"title"`
	Description             string            `json:"description"`
	Icon                    string            `json:"icon"`
	Value                   int64             `json:"value"` // cents per completion
	UserID                  *uuid.UUID        `json:"user_id,omitempty"`
	TemplateID              *uuid.UUID        `json:"template_id,omitempty"`
	Recurrence              Recurrence        `json:"recurrence"`
	IsLocked                bool              `json:"is_locked"`
	UnlockConditions        UnlockConditions  `json:"unlock_conditions"`
	AllowMultipleCompletion bool              `json:"allow_multiple_completions"`
	MaxCompletionsPerPeriod *int              `json:"max_completions_per_period,omitempty"` // nil = unlimited
	RequiresApproval        bool              `json:"requires_approval"`
	Completions             []CompletionEvent `json:"completions"`
	LastReset               time.Time         `json:"last_reset"`
	CreatedAt               time.Time         `json:"created_at"`
	CreatedBy               *uuid.UUID        `json:"created_by,omitempty"`
}

// OwnedBy reports whether the job is assigned to the given user.
func (j Job) OwnedBy(userID uuid.UUID) bool {
	return j.UserID != nil && *j.UserID == userID
}
