package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionEarn   TransactionType = "earn"
	TransactionRedeem TransactionType = "redeem"
	TransactionBonus  TransactionType = "bonus"
	TransactionAdjust TransactionType = "adjust"
)

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionApproved TransactionStatus = "approved"
	TransactionRejected TransactionStatus = "rejected"
)

// Transaction is one entry in the append-only cash ledger. Amount is
// signed cents: positive credits, negative debits.
type Transaction struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	Type            TransactionType   `json:"type"`
	Amount          int64             `json:"amount"`
	Date            time.Time         `json:"date"`
	Description     string            `json:"description"`
	JobID           *uuid.UUID        `json:"job_id,omitempty"`
	CompletionCount *int              `json:"completion_count,omitempty"`
	ApprovedBy      *uuid.UUID        `json:"approved_by,omitempty"`
	Status          TransactionStatus `json:"status"`
}
