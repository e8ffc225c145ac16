package family

import (
	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/currency"
	"github.com/dglass/copperpot/internal/job"
	"github.com/dglass/copperpot/internal/model"
)

// AddJob creates a job and computes its initial lock status.
func (s *Service) AddJob(p job.Params) model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	j := job.New(p, now)
	j = job.RefreshLock(j, s.state.Chores, s.resetDay(), now)
	s.state.Jobs = append(s.state.Jobs, j)
	s.notify("job", "created", j.ID, j.UserID, 0)
	return j
}

// DeleteJob removes a job. Pending completions are rejected first so the
// owner's pending balance stays consistent. Unknown ids are a no-op.
func (s *Service) DeleteJob(jobID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := s.state.Jobs[:0]
	found := false
	for _, j := range s.state.Jobs {
		if j.ID == jobID {
			found = true
			if pending := job.PendingTotal(j); pending > 0 && j.UserID != nil {
				s.touchUser(*j.UserID, func(u *model.User) {
					u.PendingBalance = currency.SubtractCents(u.PendingBalance, pending)
				})
			}
			continue
		}
		jobs = append(jobs, j)
	}
	s.state.Jobs = jobs
	if found {
		s.notify("job", "deleted", jobID, nil, 0)
	}
}

// CanCompleteJob evaluates lock status and completion limits without
// mutating anything.
func (s *Service) CanCompleteJob(jobID uuid.UUID) job.CheckResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.state.FindJob(jobID)
	if j == nil {
		return job.CheckResult{Reason: "job not found"}
	}
	return job.CanComplete(*j, s.state.Chores, s.resetDay(), s.now())
}

// JobProgress reports unlock progress for display. Returns nil when the
// id is unknown.
func (s *Service) JobProgress(jobID uuid.UUID) *job.UnlockProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.state.FindJob(jobID)
	if j == nil {
		return nil
	}
	p := job.GetUnlockProgress(*j, s.state.Chores, s.resetDay(), s.now())
	return &p
}

// CompleteJob records count units of work on a job. Earnings flow to the
// owner's pending balance when approval is required, otherwise straight
// to cash with an immediate earn transaction.
func (s *Service) CompleteJob(jobID uuid.UUID, count int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	j := s.state.FindJob(jobID)
	if j == nil {
		return denied("job not found")
	}
	if j.UserID == nil {
		return denied("job is unassigned")
	}

	if check := job.CanComplete(*j, s.state.Chores, s.resetDay(), now); !check.CanComplete {
		return denied(check.Reason)
	}

	updated, ce := job.Complete(*j, count, now)
	*j = updated

	owner := *j.UserID
	if ce.Status == model.CompletionPending {
		s.touchUser(owner, func(u *model.User) {
			u.PendingBalance = currency.AddCents(u.PendingBalance, ce.TotalEarned)
		})
	} else {
		s.touchUser(owner, func(u *model.User) {
			u.CashBalance = currency.AddCents(u.CashBalance, ce.TotalEarned)
		})
		cnt := ce.Count
		jid := j.ID
		s.appendTransactionLocked(model.Transaction{
			UserID:          owner,
			Type:            model.TransactionEarn,
			Amount:          ce.TotalEarned,
			Date:            now,
			Description:     j.Title,
			JobID:           &jid,
			CompletionCount: &cnt,
			Status:          model.TransactionApproved,
		})
	}

	s.notify("job", "completed", jobID, &owner, ce.TotalEarned)
	return ok()
}

// ApproveJobCompletions approves every pending completion on a job,
// moving the approved total from the owner's pending balance to cash and
// appending one aggregated earn transaction. Idempotent: a second call
// approves nothing and moves nothing.
func (s *Service) ApproveJobCompletions(jobID, approvedBy uuid.UUID) (Result, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	j := s.state.FindJob(jobID)
	if j == nil {
		return denied("job not found"), 0
	}

	updated, total, count := job.ApproveAll(*j, approvedBy, now)
	*j = updated
	if total == 0 {
		return ok(), 0
	}

	if j.UserID != nil {
		owner := *j.UserID
		s.touchUser(owner, func(u *model.User) {
			u.PendingBalance = currency.SubtractCents(u.PendingBalance, total)
			u.CashBalance = currency.AddCents(u.CashBalance, total)
		})
		jid := j.ID
		by := approvedBy
		s.appendTransactionLocked(model.Transaction{
			UserID:          owner,
			Type:            model.TransactionEarn,
			Amount:          total,
			Date:            now,
			Description:     j.Title,
			JobID:           &jid,
			CompletionCount: &count,
			ApprovedBy:      &by,
			Status:          model.TransactionApproved,
		})
		s.notify("job", "approved", jobID, &owner, total)
	}

	return ok(), total
}

// RejectJob rejects every pending completion on a job. The pending
// balance shrinks by exactly the rejected total; nothing reaches cash. A
// rejected ledger entry keeps the audit trail.
func (s *Service) RejectJob(jobID, rejectedBy uuid.UUID) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	j := s.state.FindJob(jobID)
	if j == nil {
		return denied("job not found")
	}

	updated, total := job.RejectPending(*j, rejectedBy, now)
	*j = updated
	if total == 0 {
		return denied("no pending completions")
	}

	if j.UserID != nil {
		owner := *j.UserID
		s.touchUser(owner, func(u *model.User) {
			u.PendingBalance = currency.SubtractCents(u.PendingBalance, total)
		})
		jid := j.ID
		by := rejectedBy
		s.appendTransactionLocked(model.Transaction{
			UserID:      owner,
			Type:        model.TransactionEarn,
			Amount:      total,
			Date:        now,
			Description: j.Title,
			JobID:       &jid,
			ApprovedBy:  &by,
			Status:      model.TransactionRejected,
		})
		s.notify("job", "rejected", jobID, &owner, total)
	}

	return ok()
}

// Jobs returns a copy of all jobs.
func (s *Service) Jobs() []model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]model.Job, len(s.state.Jobs))
	copy(jobs, s.state.Jobs)
	return jobs
}
