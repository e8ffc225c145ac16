package family

import (
	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/currency"
	"github.com/dglass/copperpot/internal/model"
)

// appendTransactionLocked stamps an id and appends to the ledger. The
// ledger is append-only; nothing in the engine mutates entries later.
func (s *Service) appendTransactionLocked(tx model.Transaction) {
	tx.ID = uuid.New()
	s.state.Transactions = append(s.state.Transactions, tx)
}

// RedeemCash spends from a user's cash balance. Spending needs no
// approval workflow; the redeem entry lands already approved with a
// negative amount.
func (s *Service) RedeemCash(userID uuid.UUID, amountCents int64, description string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amountCents <= 0 {
		return denied("amount must be positive")
	}
	u := s.state.FindUser(userID)
	if u == nil {
		return denied("user not found")
	}
	if u.CashBalance < amountCents {
		return denied("insufficient balance")
	}

	u.CashBalance = currency.SubtractCents(u.CashBalance, amountCents)
	s.appendTransactionLocked(model.Transaction{
		UserID:      userID,
		Type:        model.TransactionRedeem,
		Amount:      -amountCents,
		Date:        s.now(),
		Description: description,
		Status:      model.TransactionApproved,
	})
	s.notify("transaction", "redeemed", userID, &userID, -amountCents)
	return ok()
}

// AdjustBalance is a parent-only direct credit or debit, immediately
// approved. The gate authorizes the caller; this just applies it.
func (s *Service) AdjustBalance(userID uuid.UUID, amountCents int64, description string, adjustedBy uuid.UUID) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amountCents == 0 {
		return denied("amount must be non-zero")
	}
	u := s.state.FindUser(userID)
	if u == nil {
		return denied("user not found")
	}

	u.CashBalance = currency.AddCents(u.CashBalance, amountCents)
	by := adjustedBy
	s.appendTransactionLocked(model.Transaction{
		UserID:      userID,
		Type:        model.TransactionAdjust,
		Amount:      amountCents,
		Date:        s.now(),
		Description: description,
		ApprovedBy:  &by,
		Status:      model.TransactionApproved,
	})
	s.notify("transaction", "adjusted", userID, &userID, amountCents)
	return ok()
}

// Transactions returns a copy of the full ledger, newest last.
func (s *Service) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := make([]model.Transaction, len(s.state.Transactions))
	copy(txs, s.state.Transactions)
	return txs
}

// TransactionsFor returns a copy of one user's ledger entries.
func (s *Service) TransactionsFor(userID uuid.UUID) []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []model.Transaction
	for _, tx := range s.state.Transactions {
		if tx.UserID == userID {
			txs = append(txs, tx)
		}
	}
	return txs
}
