package job

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/chore"
	"github.com/dglass/copperpot/internal/model"
)

var noon = time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

func newTestJob(t *testing.T, owner uuid.UUID, mutate func(*Params)) model.Job {
	t.Helper()
	p := Params{
		Title:      "Wash the car",
		Value:      500,
		UserID:     &owner,
		Recurrence: model.RecurrenceDaily,
	}
	if mutate != nil {
		mutate(&p)
	}
	return New(p, noon)
}

func completedChore(owner uuid.UUID, recurrence model.Recurrence, at time.Time) model.Chore {
	c := chore.New("Dishes", "🍽️", 5, recurrence, &owner, at)
	c, _ = chore.Complete(c, false, at)
	return c
}

func TestUnlockedWithNoConditions(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, nil)
	if !IsUnlocked(j, nil, time.Sunday, noon) {
		t.Error("job without conditions should always be unlocked")
	}
}

func TestUnlockMonotonicity(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.UnlockConditions = model.UnlockConditions{DailyChores: 2}
	})

	var chores []model.Chore
	if IsUnlocked(j, chores, time.Sunday, noon) {
		t.Error("0 chores: should be locked")
	}

	chores = append(chores, completedChore(owner, model.RecurrenceDaily, noon))
	if IsUnlocked(j, chores, time.Sunday, noon) {
		t.Error("1 chore: should still be locked")
	}

	chores = append(chores, completedChore(owner, model.RecurrenceDaily, noon))
	if !IsUnlocked(j, chores, time.Sunday, noon) {
		t.Error("2 chores: should be unlocked")
	}

	chores = append(chores, completedChore(owner, model.RecurrenceDaily, noon))
	if !IsUnlocked(j, chores, time.Sunday, noon) {
		t.Error("3 chores: must stay unlocked")
	}
}

func TestUnlockIgnoresOtherUsersChores(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.UnlockConditions = model.UnlockConditions{DailyChores: 1}
	})

	chores := []model.Chore{completedChore(other, model.RecurrenceDaily, noon)}
	if IsUnlocked(j, chores, time.Sunday, noon) {
		t.Error("another user's chores must not unlock the job")
	}
}

func TestUnlockIgnoresPendingApproval(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.UnlockConditions = model.UnlockConditions{DailyChores: 1}
	})

	c := chore.New("Dishes", "🍽️", 5, model.RecurrenceDaily, &owner, noon)
	c, _ = chore.Complete(c, true, noon)
	if IsUnlocked(j, []model.Chore{c}, time.Sunday, noon) {
		t.Error("a chore awaiting approval must not count toward unlock")
	}
}

func TestUnlockRequiresBothThresholds(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.UnlockConditions = model.UnlockConditions{DailyChores: 1, WeeklyChores: 1}
	})

	chores := []model.Chore{completedChore(owner, model.RecurrenceDaily, noon)}
	if IsUnlocked(j, chores, time.Sunday, noon) {
		t.Error("meeting only the daily threshold should not unlock")
	}

	chores = append(chores, completedChore(owner, model.RecurrenceWeekly, noon))
	if !IsUnlocked(j, chores, time.Sunday, noon) {
		t.Error("meeting both thresholds should unlock")
	}
}

func TestGetUnlockProgressCapsCurrent(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.UnlockConditions = model.UnlockConditions{DailyChores: 2}
	})

	chores := []model.Chore{
		completedChore(owner, model.RecurrenceDaily, noon),
		completedChore(owner, model.RecurrenceDaily, noon),
		completedChore(owner, model.RecurrenceDaily, noon),
	}
	p := GetUnlockProgress(j, chores, time.Sunday, noon)
	if p.Daily.Current != 2 || p.Daily.Required != 2 {
		t.Errorf("daily progress = %d/%d, want 2/2", p.Daily.Current, p.Daily.Required)
	}
	if !p.IsUnlocked {
		t.Error("progress should report unlocked")
	}
}

func TestCanCompleteLocked(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.UnlockConditions = model.UnlockConditions{DailyChores: 1}
	})

	res := CanComplete(j, nil, time.Sunday, noon)
	if res.CanComplete {
		t.Fatal("locked job should not be completable")
	}
	if res.Reason == "" {
		t.Error("denial should carry a reason")
	}
}

func TestCanCompleteSingleCompletionPerPeriod(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, nil)

	res := CanComplete(j, nil, time.Sunday, noon)
	if !res.CanComplete {
		t.Fatalf("fresh job should be completable, got reason %q", res.Reason)
	}

	j, _ = Complete(j, 1, noon)
	res = CanComplete(j, nil, time.Sunday, noon)
	if res.CanComplete {
		t.Error("single-completion job should refuse a second completion in the period")
	}
}

func TestCanCompleteAfterRejectionReopens(t *testing.T) {
	owner := uuid.New()
	parent := uuid.New()
	j := newTestJob(t, owner, func(p *Params) { p.RequiresApproval = true })

	j, _ = Complete(j, 1, noon)
	j, _ = RejectPending(j, parent, noon)

	res := CanComplete(j, nil, time.Sunday, noon)
	if !res.CanComplete {
		t.Errorf("rejected completion should not block re-completion, got reason %q", res.Reason)
	}
}

func TestMultiCompletionCap(t *testing.T) {
	owner := uuid.New()
	max := 3
	j := newTestJob(t, owner, func(p *Params) {
		p.AllowMultipleCompletion = true
		p.MaxCompletionsPerPeriod = &max
	})

	for i := 0; i < 3; i++ {
		res := CanComplete(j, nil, time.Sunday, noon)
		if !res.CanComplete {
			t.Fatalf("completion %d should be allowed, got reason %q", i+1, res.Reason)
		}
		j, _ = Complete(j, 1, noon)
	}

	res := CanComplete(j, nil, time.Sunday, noon)
	if res.CanComplete {
		t.Fatal("fourth completion should be refused")
	}
	if res.Reason != "maximum completions reached" {
		t.Errorf("reason = %q, want max-reached", res.Reason)
	}
}

func TestMultiCompletionCapCountsUnits(t *testing.T) {
	owner := uuid.New()
	max := 3
	j := newTestJob(t, owner, func(p *Params) {
		p.AllowMultipleCompletion = true
		p.MaxCompletionsPerPeriod = &max
	})

	j, _ = Complete(j, 3, noon)
	res := CanComplete(j, nil, time.Sunday, noon)
	if res.CanComplete {
		t.Error("a count-3 completion should exhaust a cap of 3")
	}
}

func TestCompleteComputesTotalEarned(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.AllowMultipleCompletion = true
		p.RequiresApproval = true
	})

	j, ce := Complete(j, 4, noon)
	if ce.TotalEarned != 2000 {
		t.Errorf("totalEarned = %d, want 2000", ce.TotalEarned)
	}
	if ce.ValueAtCompletion != 500 {
		t.Errorf("valueAtCompletion = %d, want 500", ce.ValueAtCompletion)
	}
	if ce.Status != model.CompletionPending {
		t.Errorf("status = %q, want pending", ce.Status)
	}
	if len(j.Completions) != 1 {
		t.Fatalf("completions = %d, want 1", len(j.Completions))
	}
}

func TestCompleteWithoutApprovalIsApproved(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, nil)

	_, ce := Complete(j, 1, noon)
	if ce.Status != model.CompletionApproved {
		t.Errorf("status = %q, want approved when no approval required", ce.Status)
	}
}

func TestApproveAllIdempotent(t *testing.T) {
	owner := uuid.New()
	parent := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.AllowMultipleCompletion = true
		p.RequiresApproval = true
	})

	j, _ = Complete(j, 1, noon)
	j, _ = Complete(j, 2, noon)

	j, total, count := ApproveAll(j, parent, noon)
	if total != 1500 {
		t.Errorf("totalApproved = %d, want 1500", total)
	}
	if count != 3 {
		t.Errorf("countApproved = %d, want 3", count)
	}
	for _, ce := range j.Completions {
		if ce.Status != model.CompletionApproved {
			t.Errorf("completion status = %q, want approved", ce.Status)
		}
		if ce.ApprovedBy == nil || *ce.ApprovedBy != parent {
			t.Error("approvedBy not stamped")
		}
		if ce.ApprovedAt == nil {
			t.Error("approvedAt not stamped")
		}
	}

	_, total, count = ApproveAll(j, parent, noon.Add(time.Minute))
	if total != 0 || count != 0 {
		t.Errorf("second approve = %d/%d, want 0/0", total, count)
	}
}

func TestRejectPending(t *testing.T) {
	owner := uuid.New()
	parent := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.AllowMultipleCompletion = true
		p.RequiresApproval = true
	})

	j, _ = Complete(j, 2, noon)
	j, total := RejectPending(j, parent, noon)
	if total != 1000 {
		t.Errorf("totalRejected = %d, want 1000", total)
	}
	if j.Completions[0].Status != model.CompletionRejected {
		t.Errorf("status = %q, want rejected", j.Completions[0].Status)
	}
	if PendingTotal(j) != 0 {
		t.Errorf("pendingTotal = %d, want 0", PendingTotal(j))
	}
}

func TestRejectDoesNotTouchApproved(t *testing.T) {
	owner := uuid.New()
	parent := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.AllowMultipleCompletion = true
		p.RequiresApproval = true
	})

	j, _ = Complete(j, 1, noon)
	j, _, _ = ApproveAll(j, parent, noon)
	j, _ = Complete(j, 1, noon)

	j, total := RejectPending(j, parent, noon)
	if total != 500 {
		t.Errorf("totalRejected = %d, want 500", total)
	}
	if j.Completions[0].Status != model.CompletionApproved {
		t.Error("approved completion must stay approved through a reject pass")
	}
}

func TestResetClearsCompletions(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, nil)
	j.LastReset = noon.AddDate(0, 0, -1)
	j, _ = Complete(j, 1, noon.AddDate(0, 0, -1))

	j, ok := Reset(j, time.Sunday, noon)
	if !ok {
		t.Fatal("reset should fire across a day boundary")
	}
	if len(j.Completions) != 0 {
		t.Errorf("completions = %d, want 0", len(j.Completions))
	}
	if !j.LastReset.Equal(noon) {
		t.Errorf("lastReset = %v, want %v", j.LastReset, noon)
	}
}

func TestResetSkipsCurrentPeriod(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, nil)
	j, _ = Complete(j, 1, noon)

	j, ok := Reset(j, time.Sunday, noon.Add(time.Hour))
	if ok {
		t.Error("reset should not fire within the same day")
	}
	if len(j.Completions) != 1 {
		t.Error("completions must survive a skipped reset")
	}
}

func TestRefreshLock(t *testing.T) {
	owner := uuid.New()
	j := newTestJob(t, owner, func(p *Params) {
		p.UnlockConditions = model.UnlockConditions{DailyChores: 1}
	})

	j = RefreshLock(j, nil, time.Sunday, noon)
	if !j.IsLocked {
		t.Error("job should be locked with no qualifying chores")
	}

	chores := []model.Chore{completedChore(owner, model.RecurrenceDaily, noon)}
	j = RefreshLock(j, chores, time.Sunday, noon)
	if j.IsLocked {
		t.Error("job should unlock once the threshold is met")
	}
}
