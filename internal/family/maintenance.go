package family

import (
	"github.com/dglass/copperpot/internal/chore"
	"github.com/dglass/copperpot/internal/currency"
	"github.com/dglass/copperpot/internal/job"
	"github.com/dglass/copperpot/internal/model"
)

// MaintenanceReport summarizes one maintenance pass.
type MaintenanceReport struct {
	ChoresReset       int   `json:"chores_reset"`
	JobsReset         int   `json:"jobs_reset"`
	PendingAutoReject int64 `json:"pending_auto_rejected"` // cents reconciled
}

// Maintenance runs the periodic reset pass: expire chore and job periods
// and recompute every job's lock status against the fresh chore state.
// Run it after every state load and at least once per day of use.
//
// Work still pending approval when its period expires is auto-rejected:
// the owner's pending balance is reconciled down by exactly the expired
// total and a rejected ledger entry keeps the audit trail. Silently
// dropping an unresolved pending credit is the one failure mode this
// engine must never have.
func (s *Service) Maintenance() MaintenanceReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	resetDay := s.resetDay()
	var report MaintenanceReport

	for i := range s.state.Chores {
		c := &s.state.Chores[i]
		wasPending := c.PendingApproval
		updated, changed := chore.ResetPeriod(*c, resetDay, now)
		if !changed {
			continue
		}
		*c = updated
		report.ChoresReset++
		if wasPending {
			// The ungraded completion is discarded without gems, same
			// as a rejection.
			s.notify("chore", "expired", c.ID, c.UserID, 0)
		}
	}

	for i := range s.state.Jobs {
		j := &s.state.Jobs[i]
		pending := job.PendingTotal(*j)
		updated, changed := job.Reset(*j, resetDay, now)
		if !changed {
			continue
		}
		if pending > 0 && j.UserID != nil {
			owner := *j.UserID
			s.touchUser(owner, func(u *model.User) {
				u.PendingBalance = currency.SubtractCents(u.PendingBalance, pending)
			})
			jid := j.ID
			s.appendTransactionLocked(model.Transaction{
				UserID:      owner,
				Type:        model.TransactionEarn,
				Amount:      pending,
				Date:        now,
				Description: j.Title + " (expired unapproved)",
				JobID:       &jid,
				Status:      model.TransactionRejected,
			})
			s.notify("job", "expired", j.ID, &owner, pending)
			report.PendingAutoReject = currency.AddCents(report.PendingAutoReject, pending)
		}
		*j = updated
		report.JobsReset++
	}

	s.refreshLocksLocked(now)
	return report
}
