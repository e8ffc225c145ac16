package model

import (
	"time"

	"github.com/google/uuid"
)

// ChoreTemplate is an unassigned chore prototype. Applying it copies the
// fields into independent per-user chores; later template edits do not
// touch instances already created.
type ChoreTemplate struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Icon       string     `json:"icon"`
	Points     int        `json:"points"`
	Recurrence Recurrence `json:"recurrence"`
	CreatedAt  time.Time  `json:"created_at"`
}

// JobTemplate is an unassigned job prototype.
type JobTemplate struct {
	ID                      uuid.UUID        `json:"id"`
	Title                   string           `json:"title"`
	Description             string           `json:"description"`
	Icon                    string           `json:"icon"`
	Value                   int64            `json:"value"` // cents
	Recurrence              Recurrence       `json:"recurrence"`
	UnlockConditions        UnlockConditions `json:"unlock_conditions"`
	AllowMultipleCompletion bool             `json:"allow_multiple_completions"`
	MaxCompletionsPerPeriod *int             `json:"max_completions_per_period,omitempty"`
	RequiresApproval        bool             `json:"requires_approval"`
	CreatedAt               time.Time        `json:"created_at"`
}
