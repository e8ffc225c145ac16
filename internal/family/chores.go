package family

import (
	"time"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/chore"
	"github.com/dglass/copperpot/internal/job"
	"github.com/dglass/copperpot/internal/model"
)

// AddChore creates a chore. A nil userID places it in the library.
func (s *Service) AddChore(name, icon string, points int, recurrence model.Recurrence, userID *uuid.UUID) model.Chore {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := chore.New(name, icon, points, recurrence, userID, s.now())
	s.state.Chores = append(s.state.Chores, c)
	s.notify("chore", "created", c.ID, userID, 0)
	return c
}

// AssignChore moves a library chore to a user, or reassigns an owned one.
// Returns nil when the id is unknown.
func (s *Service) AssignChore(choreID, userID uuid.UUID) *model.Chore {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.state.FindChore(choreID)
	if c == nil || s.state.FindUser(userID) == nil {
		return nil
	}
	uid := userID
	c.UserID = &uid
	updated := *c
	s.refreshLocksLocked(s.now())
	s.notify("chore", "assigned", choreID, &uid, 0)
	return &updated
}

// DeleteChore removes a chore. Unknown ids are a silent no-op.
func (s *Service) DeleteChore(choreID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chores := s.state.Chores[:0]
	found := false
	for _, c := range s.state.Chores {
		if c.ID == choreID {
			found = true
			continue
		}
		chores = append(chores, c)
	}
	s.state.Chores = chores
	if found {
		s.refreshLocksLocked(s.now())
		s.notify("chore", "deleted", choreID, nil, 0)
	}
}

// CompleteChore marks a chore done for its owner. When approval is not
// required the gems land immediately; either way the owner's streak
// advances and job locks are recomputed.
func (s *Service) CompleteChore(choreID uuid.UUID) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := s.state.FindChore(choreID)
	if c == nil {
		return denied("chore not found")
	}
	if c.UserID == nil {
		return denied("chore is unassigned")
	}

	updated, changed := chore.Complete(*c, s.state.Settings.RequireApprovalForChores, now)
	if !changed {
		return denied("chore already completed")
	}
	*c = updated

	s.touchUser(*c.UserID, func(u *model.User) {
		*u = chore.AdvanceStreak(*u, now)
		if !c.PendingApproval {
			u.GemBalance += c.Points
		}
	})

	s.refreshLocksLocked(now)
	s.notify("chore", "completed", choreID, c.UserID, 0)
	return ok()
}

// ApproveChore clears a pending completion and awards the gems.
func (s *Service) ApproveChore(choreID, approvedBy uuid.UUID) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.state.FindChore(choreID)
	if c == nil {
		return denied("chore not found")
	}

	updated, changed := chore.Approve(*c)
	if !changed {
		return denied("chore is not awaiting approval")
	}
	*c = updated

	if c.UserID != nil {
		s.touchUser(*c.UserID, func(u *model.User) {
			u.GemBalance += c.Points
		})
	}

	s.refreshLocksLocked(s.now())
	s.notify("chore", "approved", choreID, c.UserID, 0)
	return ok()
}

// RejectChore sends a completion back for redo. No gems are awarded and
// the chore becomes completable again.
func (s *Service) RejectChore(choreID uuid.UUID) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.state.FindChore(choreID)
	if c == nil {
		return denied("chore not found")
	}
	if !c.Completed {
		return denied("chore is not completed")
	}

	*c = chore.ResetForRedo(*c)
	s.refreshLocksLocked(s.now())
	s.notify("chore", "rejected", choreID, c.UserID, 0)
	return ok()
}

// Chores returns a copy of all chores.
func (s *Service) Chores() []model.Chore {
	s.mu.Lock()
	defer s.mu.Unlock()

	chores := make([]model.Chore, len(s.state.Chores))
	copy(chores, s.state.Chores)
	return chores
}

// refreshLocksLocked recomputes every job's cached lock status. Called
// after anything that can change chore completion state.
func (s *Service) refreshLocksLocked(now time.Time) {
	for i := range s.state.Jobs {
		s.state.Jobs[i] = job.RefreshLock(s.state.Jobs[i], s.state.Chores, s.resetDay(), now)
	}
}
