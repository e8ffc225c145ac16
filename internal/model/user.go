package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

type User struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Avatar         string     `json:"avatar"`
	Role           Role       `json:"role"`
	CashBalance    int64      `json:"cash_balance"`    // cents
	PendingBalance int64      `json:"pending_balance"` // cents awaiting approval
	GemBalance     int        `json:"gem_balance"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsParent reports whether the user may perform gated operations.
func (u User) IsParent() bool {
	return u.Role == RoleParent
}
