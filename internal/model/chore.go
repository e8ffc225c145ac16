package model

import (
	"time"

	"github.com/google/uuid"
)

type Recurrence string

const (
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
)

// Chore is a recurring gem-rewarding task. A nil UserID means the chore
// sits unassigned in the library.
type Chore struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Icon            string     `json:"icon"`
	Points          int        `json:"points"`
	Recurrence      Recurrence `json:"recurrence"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	TemplateID      *uuid.UUID `json:"template_id,omitempty"`
	Completed       bool       `json:"completed"`
	PendingApproval bool       `json:"pending_approval"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	LastReset       time.Time  `json:"last_reset"`
	CreatedAt       time.Time  `json:"created_at"`
}

// OwnedBy reports whether the chore is assigned to the given user.
func (c Chore) OwnedBy(userID uuid.UUID) bool {
	return c.UserID != nil && *c.UserID == userID
}
